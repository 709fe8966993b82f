// Package session holds the live, user-mutable state of one open diagram:
// the rendered nodes and connections, in-flight gesture sessions, and the
// debounce timers that commit gesture results to the persistence layer.
//
// All mutation happens under the session mutex. Routing reads the diagram
// through Snapshot and stays pure; persistence calls run fire-and-forget so
// a slow or failing store never blocks the next gesture.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"flowcanvas/core"
)

// ErrClosed is returned by mutating calls after the session is torn down.
var ErrClosed = errors.New("session: closed")

// Debounce defaults for gesture persistence.
const (
	DefaultResizeDebounce = 250 * time.Millisecond
	DefaultDragDebounce   = 400 * time.Millisecond
)

// Persister commits diagram mutations to the authoritative store. Every
// call takes a context and may complete asynchronously relative to the UI;
// failures are independent per call.
type Persister interface {
	UpdateNodePosition(ctx context.Context, id string, pos core.Point) error
	UpdateNodeStyle(ctx context.Context, id string, style map[string]any) error
	CreateNode(ctx context.Context, n core.Node) error
	DeleteNode(ctx context.Context, id string) error
	CreateConnection(ctx context.Context, c core.Connection) error
	UpdateConnectionLabel(ctx context.Context, id, label string) error
	DeleteConnection(ctx context.Context, id string) error
}

// ResizeSession tracks an in-progress resize gesture for one node: the
// latest observed dimensions and when they were seen. Absent when idle.
type ResizeSession struct {
	Width     float64
	Height    float64
	UpdatedAt time.Time
}

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	ResizeDebounce time.Duration
	DragDebounce   time.Duration
	Logger         zerolog.Logger
	// Notify receives persistence failures for user-facing, non-blocking
	// notification. Optional.
	Notify func(op string, err error)
	// Now is the clock, injectable for tests.
	Now func() time.Time
}

// Session owns the mutable state of one open diagram view.
type Session struct {
	mu      sync.Mutex
	diagram core.Diagram

	resizing  map[string]*ResizeSession
	dragStart map[string]core.Point

	resizeTimers map[string]*time.Timer
	dragTimers   map[string]*time.Timer

	persister Persister
	log       zerolog.Logger
	notify    func(op string, err error)

	resizeDebounce time.Duration
	dragDebounce   time.Duration
	now            func() time.Time

	closed bool
}

// New creates a session over an initial diagram snapshot.
func New(d core.Diagram, p Persister, opts Options) *Session {
	if opts.ResizeDebounce <= 0 {
		opts.ResizeDebounce = DefaultResizeDebounce
	}
	if opts.DragDebounce <= 0 {
		opts.DragDebounce = DefaultDragDebounce
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Session{
		diagram:        d,
		resizing:       make(map[string]*ResizeSession),
		dragStart:      make(map[string]core.Point),
		resizeTimers:   make(map[string]*time.Timer),
		dragTimers:     make(map[string]*time.Timer),
		persister:      p,
		log:            opts.Logger,
		notify:         opts.Notify,
		resizeDebounce: opts.ResizeDebounce,
		dragDebounce:   opts.DragDebounce,
		now:            opts.Now,
	}
	clampAll(&s.diagram)
	return s
}

// Snapshot returns a copy of the current diagram for routing and rendering.
func (s *Session) Snapshot() core.Diagram {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyDiagram(&s.diagram)
}

// Node returns a copy of the node with the given id.
func (s *Session) Node(id string) (core.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.diagram.NodeByID(id); n != nil {
		return copyNode(*n), true
	}
	return core.Node{}, false
}

// SetSelected flips the local selection flag. Selection is never persisted
// and always survives reconciliation.
func (s *Session) SetSelected(id string, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.diagram.NodeByID(id); n != nil {
		n.Selected = selected
	}
}

// AddNode inserts a node locally and persists the creation.
func (s *Session) AddNode(n core.Node) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if n.Dimensions != nil {
		n.SetDimensions(*n.Dimensions)
	}
	s.diagram.Nodes = append(s.diagram.Nodes, n)
	s.mu.Unlock()

	s.persist("create node", func(ctx context.Context) error {
		return s.persister.CreateNode(ctx, n)
	})
	return nil
}

// RemoveNode deletes a node and its connections locally and persists the
// deletion. This explicit action is the only way a node leaves the session;
// reconciliation never removes nodes on its own.
func (s *Session) RemoveNode(id string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	kept := s.diagram.Nodes[:0]
	for _, n := range s.diagram.Nodes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.diagram.Nodes = kept
	conns := s.diagram.Connections[:0]
	for _, c := range s.diagram.Connections {
		if c.SourceID != id && c.TargetID != id {
			conns = append(conns, c)
		}
	}
	s.diagram.Connections = conns
	s.clearGestures(id)
	s.mu.Unlock()

	s.persist("delete node", func(ctx context.Context) error {
		return s.persister.DeleteNode(ctx, id)
	})
	return nil
}

// AddConnection inserts a connection locally and persists the creation.
func (s *Session) AddConnection(c core.Connection) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.diagram.Connections = append(s.diagram.Connections, c)
	s.mu.Unlock()

	s.persist("create connection", func(ctx context.Context) error {
		return s.persister.CreateConnection(ctx, c)
	})
	return nil
}

// RemoveConnection deletes a connection locally and persists the deletion.
func (s *Session) RemoveConnection(id string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	kept := s.diagram.Connections[:0]
	for _, c := range s.diagram.Connections {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.diagram.Connections = kept
	s.mu.Unlock()

	s.persist("delete connection", func(ctx context.Context) error {
		return s.persister.DeleteConnection(ctx, id)
	})
	return nil
}

// SetConnectionLabel updates a connection label locally and persists it.
func (s *Session) SetConnectionLabel(id, label string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if c := s.diagram.ConnectionByID(id); c != nil {
		c.Label = label
	}
	s.mu.Unlock()

	s.persist("update connection label", func(ctx context.Context) error {
		return s.persister.UpdateConnectionLabel(ctx, id, label)
	})
	return nil
}

// Close cancels every pending debounce timer and blocks further
// persistence. No persistence call fires after Close returns.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, t := range s.resizeTimers {
		t.Stop()
		delete(s.resizeTimers, id)
	}
	for id, t := range s.dragTimers {
		t.Stop()
		delete(s.dragTimers, id)
	}
	s.resizing = make(map[string]*ResizeSession)
	s.dragStart = make(map[string]core.Point)
}

// clearGestures drops any gesture state for a node. Caller holds the lock.
func (s *Session) clearGestures(id string) {
	if t, ok := s.resizeTimers[id]; ok {
		t.Stop()
		delete(s.resizeTimers, id)
	}
	if t, ok := s.dragTimers[id]; ok {
		t.Stop()
		delete(s.dragTimers, id)
	}
	delete(s.resizing, id)
	delete(s.dragStart, id)
}

// persist runs one persistence call fire-and-forget. Failures are logged
// and surfaced through the notify hook; local state is never rolled back,
// so the user can simply retry the gesture.
func (s *Session) persist(op string, fn func(ctx context.Context) error) {
	go func() {
		if err := fn(context.Background()); err != nil {
			s.log.Error().Err(err).Str("op", op).Msg("persistence failed")
			if s.notify != nil {
				s.notify(op, err)
			}
		}
	}()
}

func clampAll(d *core.Diagram) {
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if n.Dimensions != nil {
			n.SetDimensions(*n.Dimensions)
		}
	}
}

func copyDiagram(d *core.Diagram) core.Diagram {
	out := core.Diagram{
		Nodes:       make([]core.Node, len(d.Nodes)),
		Connections: make([]core.Connection, len(d.Connections)),
	}
	copy(out.Connections, d.Connections)
	for i, n := range d.Nodes {
		out.Nodes[i] = copyNode(n)
	}
	return out
}

func copyNode(n core.Node) core.Node {
	if n.Dimensions != nil {
		dim := *n.Dimensions
		n.Dimensions = &dim
	}
	if n.Style != nil {
		style := make(map[string]any, len(n.Style))
		for k, v := range n.Style {
			style[k] = v
		}
		n.Style = style
	}
	return n
}
