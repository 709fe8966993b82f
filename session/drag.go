package session

import (
	"context"
	"math"
	"time"

	"flowcanvas/core"
)

// AxisLock constrains a drag to a single axis relative to its start.
type AxisLock int

const (
	LockNone AxisLock = iota
	// LockDominant keeps the drag on whichever axis has moved furthest
	// from the gesture start.
	LockDominant
)

// BeginDrag opens a drag gesture on a node, recording its starting
// position. Starting a new gesture cancels any pending position commit for
// the same node; the commit restarts when the new gesture ends.
func (s *Session) BeginDrag(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	node := s.diagram.NodeByID(id)
	if node == nil {
		return
	}
	s.dragStart[id] = node.Position
	if t, ok := s.dragTimers[id]; ok {
		t.Stop()
		delete(s.dragTimers, id)
	}
}

// DragTo moves a node during an active drag. With LockDominant the position
// is constrained to the gesture's dominant axis. Returns the position
// actually applied.
func (s *Session) DragTo(id string, pos core.Point, lock AxisLock) core.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return pos
	}
	node := s.diagram.NodeByID(id)
	if node == nil {
		return pos
	}
	if start, ok := s.dragStart[id]; ok && lock == LockDominant {
		if math.Abs(pos.X-start.X) >= math.Abs(pos.Y-start.Y) {
			pos.Y = start.Y
		} else {
			pos.X = start.X
		}
	}
	node.Position = pos
	return pos
}

// EndDrag closes the gesture and schedules a single debounced persistence
// call carrying the node's final coordinates.
func (s *Session) EndDrag(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.diagram.NodeByID(id) == nil {
		return
	}
	delete(s.dragStart, id)
	if t, ok := s.dragTimers[id]; ok {
		t.Stop()
	}
	s.dragTimers[id] = time.AfterFunc(s.dragDebounce, func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		delete(s.dragTimers, id)
		node := s.diagram.NodeByID(id)
		if node == nil {
			s.mu.Unlock()
			return
		}
		pos := node.Position
		s.mu.Unlock()

		s.persist("update node position", func(ctx context.Context) error {
			return s.persister.UpdateNodePosition(ctx, id, pos)
		})
	})
}
