package session

import (
	"context"
	"time"

	"flowcanvas/core"
)

// HandleDimensionChange processes a dimension-change event for one node.
//
// The rendering surface cannot distinguish "user released the resize
// handle" from "the layout engine remeasured the node", so correctness
// hinges on session presence, not on the event's own flag:
//
//   - resizing=true opens or refreshes the node's ResizeSession and
//     (re)starts the debounce timer. The node's rendered dimensions update
//     immediately.
//   - resizing=false with no active session is passive layout noise and is
//     ignored completely, so transient measurements never overwrite stored
//     dimensions.
//   - resizing=false with an active session is the gesture end: the pending
//     timer is cancelled and the session's last known dimensions persist
//     immediately.
func (s *Session) HandleDimensionChange(id string, width, height float64, resizing bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	node := s.diagram.NodeByID(id)
	if node == nil {
		s.mu.Unlock()
		return
	}

	if resizing {
		node.SetDimensions(core.Size{Width: width, Height: height})
		s.resizing[id] = &ResizeSession{Width: width, Height: height, UpdatedAt: s.now()}
		if t, ok := s.resizeTimers[id]; ok {
			t.Stop()
		}
		s.resizeTimers[id] = s.afterResizeDebounce(id)
		s.mu.Unlock()
		return
	}

	sess, active := s.resizing[id]
	if !active {
		// Ambiguous measurement event with no open session: ignore.
		s.mu.Unlock()
		return
	}
	if t, ok := s.resizeTimers[id]; ok {
		t.Stop()
		delete(s.resizeTimers, id)
	}
	s.commitResizeLocked(id, node, sess)
	s.mu.Unlock()
}

// commitResizeLocked persists one resize result and closes the session.
// Caller holds the lock. Once the session is cleared here, later ambiguous
// events find no session and are ignored, so a stale event can never
// resurrect a finished gesture.
func (s *Session) commitResizeLocked(id string, node *core.Node, sess *ResizeSession) {
	size := core.ClampSize(node.Type, core.Size{Width: sess.Width, Height: sess.Height})
	node.SetDimensions(size)
	delete(s.resizing, id)

	// Merge dimensions into the existing style payload so unrelated style
	// fields survive the write.
	style := make(map[string]any, len(node.Style)+2)
	for k, v := range node.Style {
		style[k] = v
	}
	style["width"] = size.Width
	style["height"] = size.Height
	node.Style = style

	// The persisted payload is a private copy; the live style map may be
	// mutated again while the call is in flight.
	payload := make(map[string]any, len(style))
	for k, v := range style {
		payload[k] = v
	}
	s.persist("update node style", func(ctx context.Context) error {
		return s.persister.UpdateNodeStyle(ctx, id, payload)
	})
}

// afterResizeDebounce schedules the quiet-period commit for one node's
// resize session. Caller holds the lock.
func (s *Session) afterResizeDebounce(id string) *time.Timer {
	return time.AfterFunc(s.resizeDebounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		sess, ok := s.resizing[id]
		if !ok {
			return
		}
		node := s.diagram.NodeByID(id)
		if node == nil {
			delete(s.resizing, id)
			return
		}
		delete(s.resizeTimers, id)
		s.commitResizeLocked(id, node, sess)
	})
}
