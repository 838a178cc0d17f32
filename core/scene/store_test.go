package scene

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nodeloom/nodeloom/core/frame"
	game_log "github.com/nodeloom/nodeloom/internal/log"
)

func newTestStore() (*Store, *frame.StepScheduler) {
	sched := frame.NewStepScheduler()
	s := New(game_log.New(io.Discard, game_log.LevelNone), sched)
	s.UpdateViewport(Viewport{Width: 800, Height: 600})
	return s, sched
}

func node(id string, x, y float64) Node {
	return Node{ID: id, X: x, Y: y, Type: NodeOther, Title: id}
}

func TestUpdateEdgesDropsDangling(t *testing.T) {
	s, _ := newTestStore()
	s.UpdateNodes([]Node{node("a", 0, 0), node("b", 400, 0)})
	s.UpdateEdges([]Edge{
		{ID: "ok", From: "a", To: "b"},
		{ID: "dangling", From: "a", To: "ghost"},
	})
	require.Equal(t, 1, s.EdgeCount())
	_, ok := s.Edge("dangling")
	require.False(t, ok)
}

func TestUpdateNodesDropsEdgesOfRemovedNodes(t *testing.T) {
	s, _ := newTestStore()
	s.UpdateNodes([]Node{node("a", 0, 0), node("b", 400, 0)})
	s.UpdateEdges([]Edge{{ID: "e", From: "a", To: "b"}})
	require.Equal(t, 1, s.EdgeCount())

	s.UpdateNodes([]Node{node("a", 0, 0)})
	require.Equal(t, 0, s.EdgeCount())
}

func TestTransformConsistency(t *testing.T) {
	s, _ := newTestStore()
	s.UpdateNodes([]Node{node("a", 100, 200)})
	s.UpdateTransform(Transform{X: 13, Y: -7, Scale: 1.5})

	n, ok := s.Node("a")
	require.True(t, ok)
	require.Equal(t, 100*1.5+13, n.ScreenX)
	require.Equal(t, 200*1.5-7, n.ScreenY)
}

func TestTransformRejectsNonPositiveScale(t *testing.T) {
	s, _ := newTestStore()
	s.UpdateTransform(Transform{X: 5, Y: 5, Scale: 2})
	s.UpdateTransform(Transform{Scale: 0})
	s.UpdateTransform(Transform{Scale: -1})
	require.Equal(t, Transform{X: 5, Y: 5, Scale: 2}, s.Transform())
}

func TestFlushCoalescing(t *testing.T) {
	s, sched := newTestStore()
	notified := 0
	s.Subscribe(func() { notified++ })

	s.UpdateNodes([]Node{node("a", 0, 0)})
	s.UpdateTransform(Transform{Scale: 2})
	s.SetSelection([]string{"a"})
	require.True(t, s.IsDirty())

	sched.Step()
	require.Equal(t, 1, notified)
	require.False(t, s.IsDirty())
	require.False(t, s.LastRenderTime().IsZero())

	sched.Step()
	require.Equal(t, 1, notified)

	s.SetHovered("a")
	sched.Step()
	require.Equal(t, 2, notified)
}

func TestCloseCancelsPendingFlush(t *testing.T) {
	s, sched := newTestStore()
	notified := 0
	s.Subscribe(func() { notified++ })
	s.UpdateNodes([]Node{node("a", 0, 0)})
	s.Close()
	sched.Step()
	require.Equal(t, 0, notified)
}

func TestDragAppliesLiveScreenDelta(t *testing.T) {
	s, _ := newTestStore()
	s.UpdateNodes([]Node{node("a", 100, 100), node("b", 500, 100)})
	s.UpdateEdges([]Edge{{ID: "e", From: "a", To: "b"}})

	s.UpdateInteraction(Interaction{
		Mode: ModeDraggingNode,
		Drag: &NodeDrag{NodeID: "a", StartX: 0, StartY: 0, CurrentX: 30, CurrentY: -10},
	})

	n, _ := s.Node("a")
	require.Equal(t, 130.0, n.ScreenX)
	require.Equal(t, 90.0, n.ScreenY)

	e, _ := s.Edge("e")
	require.Equal(t, 130.0+NodeWidth/2, e.X1)
	require.Equal(t, 90.0+NodeHeight/2, e.Y1)
	// untouched endpoint stays put
	require.Equal(t, 500.0+NodeWidth/2, e.X2)

	// world position is unchanged until commit
	require.Equal(t, 100.0, n.X)
}

func TestCommitNodePositionIdempotent(t *testing.T) {
	s, _ := newTestStore()
	s.UpdateNodes([]Node{node("a", 0, 0)})

	s.CommitNodePosition("a", 250, 80)
	s.CommitNodePosition("a", 250, 80)

	n, _ := s.Node("a")
	require.Equal(t, 250.0, n.X)
	require.Equal(t, 80.0, n.Y)
	require.Equal(t, 250.0, n.ScreenX)

	// index follows the committed position
	require.Equal(t, []string{"a"}, s.NodesIntersecting(240, 70, 260, 90))
	require.Empty(t, s.NodesIntersecting(-100, -100, -10, -10))
}

func TestValidateConnection(t *testing.T) {
	s, _ := newTestStore()
	s.UpdateNodes([]Node{node("a", 0, 0), node("b", 400, 0), node("c", 800, 0)})
	s.UpdateEdges([]Edge{{ID: "e", From: "a", To: "b"}})

	require.ErrorIs(t, s.ValidateConnection("a", "a"), ErrSelfConnection)
	require.ErrorIs(t, s.ValidateConnection("a", "b"), ErrDuplicateEdge)
	require.ErrorIs(t, s.ValidateConnection("b", "a"), ErrDuplicateEdge)
	require.ErrorIs(t, s.ValidateConnection("a", "ghost"), ErrUnknownNode)
	require.NoError(t, s.ValidateConnection("a", "c"))
}

func TestEdgeEndpointNear(t *testing.T) {
	s, _ := newTestStore()
	s.UpdateNodes([]Node{node("a", 0, 0), node("b", 400, 0)})
	s.UpdateEdges([]Edge{{ID: "e", From: "a", To: "b"}})

	// a's center is (120,60)
	id, end, ok := s.EdgeEndpointNear(125, 65, 20)
	require.True(t, ok)
	require.Equal(t, "e", id)
	require.Equal(t, EdgeEndFrom, end)

	// b's center is (520,60)
	id, end, ok = s.EdgeEndpointNear(515, 60, 20)
	require.True(t, ok)
	require.Equal(t, "e", id)
	require.Equal(t, EdgeEndTo, end)

	_, _, ok = s.EdgeEndpointNear(300, 60, 20)
	require.False(t, ok)
}

func TestNodesIntersectingMarquee(t *testing.T) {
	s, _ := newTestStore()
	s.UpdateNodes([]Node{node("a", 0, 0), node("b", 400, 300)})

	// rectangle overlapping only a's box; intersection suffices
	got := s.NodesIntersecting(-10, -10, 50, 50)
	require.Equal(t, []string{"a"}, got)
}

func TestNodeVisibilityBuffer(t *testing.T) {
	s, _ := newTestStore()
	// scale 1: buffer = max(50, 200) = 200; box right edge must reach -200
	s.UpdateNodes([]Node{node("in", -440, 0), node("out", -441, 0)})

	in, _ := s.Node("in")
	out, _ := s.Node("out")
	require.True(t, in.Visible)
	require.False(t, out.Visible)
}

func TestLongEdgeCrossingViewportIsVisible(t *testing.T) {
	s, _ := newTestStore()
	s.UpdateNodes([]Node{node("l", -3000, 240), node("r", 3000, 240)})
	s.UpdateEdges([]Edge{{ID: "span", From: "l", To: "r"}})

	l, _ := s.Node("l")
	r, _ := s.Node("r")
	require.False(t, l.Visible)
	require.False(t, r.Visible)

	e, _ := s.Edge("span")
	require.True(t, e.Visible)
}

func TestDirtyFlagPreservedForUnchangedNodes(t *testing.T) {
	s, sched := newTestStore()
	s.UpdateNodes([]Node{node("a", 0, 0)})
	sched.Step()

	n, _ := s.Node("a")
	n.Dirty = false

	s.UpdateNodes([]Node{node("a", 0, 0)})
	n, _ = s.Node("a")
	require.False(t, n.Dirty)

	moved := node("a", 10, 0)
	s.UpdateNodes([]Node{moved})
	n, _ = s.Node("a")
	require.True(t, n.Dirty)

	retitled := node("a", 10, 0)
	n.Dirty = false
	retitled.Title = "renamed"
	s.UpdateNodes([]Node{retitled})
	n, _ = s.Node("a")
	require.True(t, n.Dirty)
}

func TestViewportUpdateRecomputesVisibility(t *testing.T) {
	s, _ := newTestStore()
	s.UpdateNodes([]Node{node("a", 900, 0)})

	n, _ := s.Node("a")
	require.True(t, n.Visible) // 900 <= 800 + 200px buffer

	s.UpdateViewport(Viewport{Width: 400, Height: 300})
	require.False(t, n.Visible) // 900 > 400 + 200px buffer
}
