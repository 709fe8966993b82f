package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcanvas/core"
)

type styleCall struct {
	id    string
	style map[string]any
}

type posCall struct {
	id  string
	pos core.Point
}

// fakePersister records calls; optionally fails everything with err.
type fakePersister struct {
	mu         sync.Mutex
	styleCalls []styleCall
	posCalls   []posCall
	created    []string
	deleted    []string
	err        error
}

func (f *fakePersister) record(fn func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	fn()
	return nil
}

func (f *fakePersister) UpdateNodePosition(_ context.Context, id string, pos core.Point) error {
	return f.record(func() { f.posCalls = append(f.posCalls, posCall{id, pos}) })
}

func (f *fakePersister) UpdateNodeStyle(_ context.Context, id string, style map[string]any) error {
	return f.record(func() { f.styleCalls = append(f.styleCalls, styleCall{id, style}) })
}

func (f *fakePersister) CreateNode(_ context.Context, n core.Node) error {
	return f.record(func() { f.created = append(f.created, n.ID) })
}

func (f *fakePersister) DeleteNode(_ context.Context, id string) error {
	return f.record(func() { f.deleted = append(f.deleted, id) })
}

func (f *fakePersister) CreateConnection(_ context.Context, c core.Connection) error {
	return f.record(func() { f.created = append(f.created, c.ID) })
}

func (f *fakePersister) UpdateConnectionLabel(_ context.Context, id, _ string) error {
	return f.record(func() {})
}

func (f *fakePersister) DeleteConnection(_ context.Context, id string) error {
	return f.record(func() { f.deleted = append(f.deleted, id) })
}

func (f *fakePersister) styleCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.styleCalls)
}

func (f *fakePersister) posCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posCalls)
}

const (
	testDebounce = 30 * time.Millisecond
	settle       = 150 * time.Millisecond
)

func panelDiagram() core.Diagram {
	panel := core.Node{ID: "p1", Type: core.NodePanel, Position: core.Point{X: 0, Y: 0}}
	panel.SetDimensions(core.Size{Width: 400, Height: 300})
	return core.Diagram{
		Nodes: []core.Node{
			panel,
			{ID: "n1", Type: core.NodeInstruction, Position: core.Point{X: 500, Y: 0}},
		},
		Connections: []core.Connection{
			{ID: "e1", SourceID: "p1", TargetID: "n1"},
		},
	}
}

func newTestSession(t *testing.T, fake *fakePersister) *Session {
	t.Helper()
	s := New(panelDiagram(), fake, Options{
		ResizeDebounce: testDebounce,
		DragDebounce:   testDebounce,
	})
	t.Cleanup(s.Close)
	return s
}

func TestResizeDebounceCommitsOnce(t *testing.T) {
	fake := &fakePersister{}
	s := newTestSession(t, fake)

	s.HandleDimensionChange("p1", 420, 320, true)
	s.HandleDimensionChange("p1", 440, 340, true)
	s.HandleDimensionChange("p1", 460, 360, true)
	time.Sleep(settle)

	require.Equal(t, 1, fake.styleCallCount(), "rapid resize events must collapse into one persistence call")
	call := fake.styleCalls[0]
	assert.Equal(t, "p1", call.id)
	assert.Equal(t, 460.0, call.style["width"])
	assert.Equal(t, 360.0, call.style["height"])

	n, ok := s.Node("p1")
	require.True(t, ok)
	assert.Equal(t, core.Size{Width: 460, Height: 360}, *n.Dimensions)
}

func TestResizeEndEventCommitsImmediately(t *testing.T) {
	fake := &fakePersister{}
	s := newTestSession(t, fake)

	s.HandleDimensionChange("p1", 450, 350, true)
	// Ambiguous event while a session is open: treated as the gesture end,
	// persisting the session's last known dimensions, not the event's.
	s.HandleDimensionChange("p1", 999, 999, false)
	time.Sleep(settle)

	require.Equal(t, 1, fake.styleCallCount())
	assert.Equal(t, 450.0, fake.styleCalls[0].style["width"])
	assert.Equal(t, 350.0, fake.styleCalls[0].style["height"])
}

func TestAmbiguousEventWithoutSessionIgnored(t *testing.T) {
	fake := &fakePersister{}
	s := newTestSession(t, fake)

	s.HandleDimensionChange("p1", 999, 999, false)
	time.Sleep(settle)

	assert.Equal(t, 0, fake.styleCallCount(), "layout noise must never persist")
	n, _ := s.Node("p1")
	assert.Equal(t, core.Size{Width: 400, Height: 300}, *n.Dimensions, "layout noise must never change dimensions")
}

func TestStaleEventAfterCommitIgnored(t *testing.T) {
	fake := &fakePersister{}
	s := newTestSession(t, fake)

	s.HandleDimensionChange("p1", 450, 350, true)
	s.HandleDimensionChange("p1", 450, 350, false) // gesture end, session cleared
	time.Sleep(settle)
	require.Equal(t, 1, fake.styleCallCount())

	// A late measurement must not resurrect the cleared session.
	s.HandleDimensionChange("p1", 777, 777, false)
	time.Sleep(settle)
	assert.Equal(t, 1, fake.styleCallCount())
	n, _ := s.Node("p1")
	assert.Equal(t, core.Size{Width: 450, Height: 350}, *n.Dimensions)
}

func TestResizeClampsToMinimum(t *testing.T) {
	fake := &fakePersister{}
	s := newTestSession(t, fake)

	s.HandleDimensionChange("p1", 150, 100, true)
	s.HandleDimensionChange("p1", 150, 100, false)
	time.Sleep(settle)

	require.Equal(t, 1, fake.styleCallCount())
	assert.Equal(t, 300.0, fake.styleCalls[0].style["width"], "width below minimum must persist as 300")
	assert.Equal(t, 200.0, fake.styleCalls[0].style["height"])
}

func TestResizeMergePreservesStyle(t *testing.T) {
	fake := &fakePersister{}
	d := panelDiagram()
	d.Nodes[0].Style = map[string]any{"color": "teal", "border": "dashed"}
	s := New(d, fake, Options{ResizeDebounce: testDebounce, DragDebounce: testDebounce})
	t.Cleanup(s.Close)

	s.HandleDimensionChange("p1", 420, 320, true)
	s.HandleDimensionChange("p1", 420, 320, false)
	time.Sleep(settle)

	require.Equal(t, 1, fake.styleCallCount())
	style := fake.styleCalls[0].style
	assert.Equal(t, "teal", style["color"], "unrelated style fields must survive the dimension write")
	assert.Equal(t, "dashed", style["border"])
	assert.Equal(t, 420.0, style["width"])
}

func TestReconcileProtectsActiveResize(t *testing.T) {
	fake := &fakePersister{}
	s := newTestSession(t, fake)

	s.HandleDimensionChange("p1", 460, 360, true)

	refresh := panelDiagram()
	refresh.Nodes[0].SetDimensions(core.Size{Width: 320, Height: 260})
	s.ApplySnapshot(refresh)

	n, _ := s.Node("p1")
	assert.Equal(t, core.Size{Width: 460, Height: 360}, *n.Dimensions,
		"refresh must not clobber dimensions owned by an active resize session")

	// After the session commits, a refresh becomes authoritative again.
	time.Sleep(settle)
	s.ApplySnapshot(refresh)
	n, _ = s.Node("p1")
	assert.Equal(t, core.Size{Width: 320, Height: 260}, *n.Dimensions)
}

func TestReconcileNoopWhenUnchanged(t *testing.T) {
	fake := &fakePersister{}
	s := newTestSession(t, fake)

	assert.False(t, s.ApplySnapshot(panelDiagram()), "shallow-equal refresh must be a no-op")

	changed := panelDiagram()
	changed.Nodes[1].Position = core.Point{X: 600, Y: 50}
	assert.True(t, s.ApplySnapshot(changed))
}

func TestReconcileKeepsLocalOnlyNodes(t *testing.T) {
	fake := &fakePersister{}
	s := newTestSession(t, fake)

	require.NoError(t, s.AddNode(core.Node{
		ID: "optimistic", Type: core.NodeOutcome, Position: core.Point{X: 900, Y: 0},
	}))

	// The server snapshot has not caught up with the new node yet.
	s.ApplySnapshot(panelDiagram())
	_, ok := s.Node("optimistic")
	assert.True(t, ok, "a locally added node must survive a refresh that omits it")

	require.NoError(t, s.RemoveNode("optimistic"))
	_, ok = s.Node("optimistic")
	assert.False(t, ok, "explicit delete must remove the node")
}

func TestReconcilePreservesSelection(t *testing.T) {
	fake := &fakePersister{}
	s := newTestSession(t, fake)

	s.SetSelected("n1", true)
	changed := panelDiagram()
	changed.Nodes[1].Position = core.Point{X: 700, Y: 100}
	s.ApplySnapshot(changed)

	n, _ := s.Node("n1")
	assert.True(t, n.Selected, "selection is local state and must survive reconciliation")
	assert.Equal(t, core.Point{X: 700, Y: 100}, n.Position)
}

func TestDragDebounceSingleCall(t *testing.T) {
	fake := &fakePersister{}
	s := newTestSession(t, fake)

	s.BeginDrag("n1")
	s.DragTo("n1", core.Point{X: 520, Y: 30}, LockNone)
	s.DragTo("n1", core.Point{X: 540, Y: 60}, LockNone)
	s.EndDrag("n1")
	time.Sleep(settle)

	require.Equal(t, 1, fake.posCallCount())
	assert.Equal(t, posCall{id: "n1", pos: core.Point{X: 540, Y: 60}}, fake.posCalls[0])
}

func TestDragRestartCancelsPendingCommit(t *testing.T) {
	fake := &fakePersister{}
	s := newTestSession(t, fake)

	s.BeginDrag("n1")
	s.DragTo("n1", core.Point{X: 520, Y: 30}, LockNone)
	s.EndDrag("n1")

	// New gesture before the timer fires: the pending commit restarts and
	// only the final position persists.
	s.BeginDrag("n1")
	s.DragTo("n1", core.Point{X: 580, Y: 90}, LockNone)
	s.EndDrag("n1")
	time.Sleep(settle)

	require.Equal(t, 1, fake.posCallCount())
	assert.Equal(t, core.Point{X: 580, Y: 90}, fake.posCalls[0].pos)
}

func TestCloseCancelsPendingDrag(t *testing.T) {
	fake := &fakePersister{}
	s := New(panelDiagram(), fake, Options{
		ResizeDebounce: testDebounce,
		DragDebounce:   testDebounce,
	})

	s.BeginDrag("n1")
	s.DragTo("n1", core.Point{X: 520, Y: 30}, LockNone)
	s.EndDrag("n1")
	s.Close()
	time.Sleep(settle)

	assert.Equal(t, 0, fake.posCallCount(), "no persistence call may fire after teardown")
}

func TestCloseCancelsPendingResize(t *testing.T) {
	fake := &fakePersister{}
	s := New(panelDiagram(), fake, Options{
		ResizeDebounce: testDebounce,
		DragDebounce:   testDebounce,
	})

	s.HandleDimensionChange("p1", 460, 360, true)
	s.Close()
	time.Sleep(settle)

	assert.Equal(t, 0, fake.styleCallCount())
}

func TestAxisLock(t *testing.T) {
	fake := &fakePersister{}
	s := newTestSession(t, fake)

	s.BeginDrag("n1") // starts at (500, 0)
	got := s.DragTo("n1", core.Point{X: 620, Y: 40}, LockDominant)
	assert.Equal(t, core.Point{X: 620, Y: 0}, got, "dominant horizontal movement locks Y")

	got = s.DragTo("n1", core.Point{X: 510, Y: 200}, LockDominant)
	assert.Equal(t, core.Point{X: 500, Y: 200}, got, "dominant vertical movement locks X")
}

func TestPersistenceFailureNotifiesAndKeepsState(t *testing.T) {
	fake := &fakePersister{err: errors.New("storage down")}
	var (
		mu     sync.Mutex
		failed []string
	)
	s := New(panelDiagram(), fake, Options{
		ResizeDebounce: testDebounce,
		DragDebounce:   testDebounce,
		Notify: func(op string, err error) {
			mu.Lock()
			failed = append(failed, op)
			mu.Unlock()
		},
	})
	t.Cleanup(s.Close)

	s.HandleDimensionChange("p1", 460, 360, true)
	s.HandleDimensionChange("p1", 460, 360, false)
	time.Sleep(settle)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"update node style"}, failed)

	// Local state keeps the gesture result so the user can retry.
	n, _ := s.Node("p1")
	assert.Equal(t, core.Size{Width: 460, Height: 360}, *n.Dimensions)
}
