package scene

import (
	"errors"
	"time"

	"github.com/nodeloom/nodeloom/core/frame"
	"github.com/nodeloom/nodeloom/core/spatial"
	game_log "github.com/nodeloom/nodeloom/internal/log"
)

var (
	ErrSelfConnection = errors.New("node cannot connect to itself")
	ErrDuplicateEdge  = errors.New("edge already exists between nodes")
	ErrUnknownNode    = errors.New("unknown node id")
)

// Store is the single source of truth for nodes, edges, viewport transform,
// selection and interaction state. Every mutator marks the store dirty and
// schedules one coalesced flush per frame through the injected scheduler, so
// subscribers are notified at most once per display frame no matter how many
// mutations landed within it.
//
// The store is constructed at the composition root and passed down
// explicitly; it runs entirely on the event-loop goroutine.
type Store struct {
	logger *game_log.Logger
	sched  frame.Scheduler
	index  *spatial.Index

	nodes     map[string]*SceneNode
	nodeOrder []string
	edges     map[string]*SceneEdge
	edgeOrder []string
	adjacency map[string][]string // node id -> edge ids touching it

	transform   Transform
	viewport    Viewport
	interaction Interaction
	selection   map[string]bool
	hovered     string

	dirty      bool
	hasPending bool
	pending    frame.Handle
	lastRender time.Time
	subs       []func()
}

func New(logger *game_log.Logger, sched frame.Scheduler) *Store {
	return &Store{
		logger:    logger,
		sched:     sched,
		index:     spatial.New(logger),
		nodes:     map[string]*SceneNode{},
		edges:     map[string]*SceneEdge{},
		adjacency: map[string][]string{},
		transform: Transform{Scale: 1},
		selection: map[string]bool{},
	}
}

/* ───────────────────── ingestion ───────────────────── */

// UpdateNodes replaces the node set with a fresh snapshot from the data
// layer. Screen positions and visibility are recomputed against the current
// transform and viewport; dirty flags are preserved for unchanged ids. Edges
// whose endpoints disappeared are dropped.
func (s *Store) UpdateNodes(nodes []Node) {
	old := s.nodes
	s.nodes = make(map[string]*SceneNode, len(nodes))
	s.nodeOrder = s.nodeOrder[:0]
	for _, n := range nodes {
		sn := &SceneNode{Node: n}
		sn.ScreenX, sn.ScreenY = s.transform.Apply(n.X, n.Y)
		if prev, ok := old[n.ID]; ok {
			changed := prev.X != n.X || prev.Y != n.Y || prev.Title != n.Title
			if changed {
				sn.Dirty = true
			} else {
				sn.Dirty = prev.Dirty
			}
		} else {
			sn.Dirty = true
		}
		sn.Visible = s.isNodeVisible(sn)
		s.nodes[n.ID] = sn
		s.nodeOrder = append(s.nodeOrder, n.ID)
	}
	s.dropDanglingEdges()
	s.refreshEdgeGeometry()
	s.rebuildIndex()
	s.markDirty()
	s.logger.Debugf("[SCENE] UpdateNodes: %d nodes, %d edges retained", len(s.nodes), len(s.edges))
}

// UpdateEdges replaces the edge set. Edges referencing absent nodes are
// dropped during ingestion: not rendered, not retained.
func (s *Store) UpdateEdges(edges []Edge) {
	s.edges = make(map[string]*SceneEdge, len(edges))
	s.edgeOrder = s.edgeOrder[:0]
	for _, e := range edges {
		if _, ok := s.nodes[e.From]; !ok {
			s.logger.Debugf("[SCENE] dropping edge %s: missing endpoint %s", e.ID, e.From)
			continue
		}
		if _, ok := s.nodes[e.To]; !ok {
			s.logger.Debugf("[SCENE] dropping edge %s: missing endpoint %s", e.ID, e.To)
			continue
		}
		se := &SceneEdge{Edge: e}
		s.edges[e.ID] = se
		s.edgeOrder = append(s.edgeOrder, e.ID)
	}
	s.refreshEdgeGeometry()
	s.rebuildAdjacency()
	s.rebuildIndex()
	s.markDirty()
	s.logger.Debugf("[SCENE] UpdateEdges: %d edges retained", len(s.edges))
}

/* ───────────────────── view mutation ───────────────────── */

// UpdateTransform recomputes every node's screen position, every edge's
// screen endpoints and all visibility flags. O(n+m), run at most once per
// animation frame during pan/zoom. World geometry is unchanged so the
// spatial index is not rebuilt.
func (s *Store) UpdateTransform(t Transform) {
	if t.Scale <= 0 {
		s.logger.Warnf("[SCENE] rejecting transform with scale %f", t.Scale)
		return
	}
	s.transform = t
	for _, id := range s.nodeOrder {
		sn := s.nodes[id]
		sn.ScreenX, sn.ScreenY = t.Apply(sn.X, sn.Y)
		sn.Visible = s.isNodeVisible(sn)
		sn.Dirty = true
	}
	s.refreshEdgeGeometry()
	s.markDirty()
}

// UpdateViewport recomputes visibility flags only; positions are unaffected.
func (s *Store) UpdateViewport(v Viewport) {
	s.viewport = v
	for _, id := range s.nodeOrder {
		sn := s.nodes[id]
		sn.Visible = s.isNodeVisible(sn)
	}
	for _, id := range s.edgeOrder {
		se := s.edges[id]
		se.Visible = s.isEdgeVisible(se)
	}
	s.markDirty()
}

// UpdateInteraction replaces the interaction state. While a node drag is
// active the pointer delta is applied to the dragged node's screen position
// and its connected edges' endpoints immediately, so visual feedback does
// not wait for a full re-ingest.
func (s *Store) UpdateInteraction(i Interaction) {
	prev := s.interaction
	s.interaction = i
	if prev.Mode == ModeDraggingNode && prev.Drag != nil && i.Mode != ModeDraggingNode {
		// drag ended or was cancelled: screen position falls back to the
		// authoritative world position (already committed on a normal drop)
		if sn, ok := s.nodes[prev.Drag.NodeID]; ok {
			sn.ScreenX, sn.ScreenY = s.transform.Apply(sn.X, sn.Y)
			sn.Visible = s.isNodeVisible(sn)
			sn.Dirty = true
			for _, eid := range s.adjacency[prev.Drag.NodeID] {
				s.refreshOneEdgeGeometry(s.edges[eid])
			}
		}
	}
	if i.Mode == ModeDraggingNode && i.Drag != nil {
		if sn, ok := s.nodes[i.Drag.NodeID]; ok {
			dx := i.Drag.CurrentX - i.Drag.StartX
			dy := i.Drag.CurrentY - i.Drag.StartY
			baseX, baseY := s.transform.Apply(sn.X, sn.Y)
			sn.ScreenX = baseX + dx
			sn.ScreenY = baseY + dy
			sn.Dirty = true
			for _, eid := range s.adjacency[i.Drag.NodeID] {
				s.refreshOneEdgeGeometry(s.edges[eid])
			}
		}
	}
	s.markDirty()
}

// CommitNodePosition sets the node's authoritative world position, typically
// at the end of a drag. Committing the same position twice is a no-op the
// second time apart from the dirty flag.
func (s *Store) CommitNodePosition(id string, wx, wy float64) {
	sn, ok := s.nodes[id]
	if !ok {
		s.logger.Warnf("[SCENE] CommitNodePosition: unknown node %s", id)
		return
	}
	sn.X, sn.Y = wx, wy
	sn.ScreenX, sn.ScreenY = s.transform.Apply(wx, wy)
	sn.Visible = s.isNodeVisible(sn)
	sn.Dirty = true
	for _, eid := range s.adjacency[id] {
		s.refreshOneEdgeGeometry(s.edges[eid])
	}
	s.rebuildIndex()
	s.markDirty()
}

/* ───────────────────── selection & hover ───────────────────── */

func (s *Store) SetSelection(ids []string) {
	s.selection = make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.nodes[id]; ok {
			s.selection[id] = true
		}
	}
	s.markDirty()
}

func (s *Store) SelectOnly(id string) { s.SetSelection([]string{id}) }

func (s *Store) ClearSelection() {
	if len(s.selection) == 0 {
		return
	}
	s.selection = map[string]bool{}
	s.markDirty()
}

func (s *Store) IsSelected(id string) bool { return s.selection[id] }

// Selection returns the selected node ids in node order.
func (s *Store) Selection() []string {
	var out []string
	for _, id := range s.nodeOrder {
		if s.selection[id] {
			out = append(out, id)
		}
	}
	return out
}

func (s *Store) SetHovered(id string) {
	if s.hovered == id {
		return
	}
	s.hovered = id
	s.markDirty()
}

func (s *Store) Hovered() string { return s.hovered }

/* ───────────────────── connection policy ───────────────────── */

// ValidateConnection rejects self-connections and duplicate edges (same
// pair, either direction) before an edge is created. A non-nil error means
// the operation did not proceed; reporting to the user is the outward
// layer's job.
func (s *Store) ValidateConnection(fromID, toID string) error {
	if fromID == toID {
		return ErrSelfConnection
	}
	if _, ok := s.nodes[fromID]; !ok {
		return ErrUnknownNode
	}
	if _, ok := s.nodes[toID]; !ok {
		return ErrUnknownNode
	}
	for _, id := range s.edgeOrder {
		se := s.edges[id]
		if (se.From == fromID && se.To == toID) || (se.From == toID && se.To == fromID) {
			return ErrDuplicateEdge
		}
	}
	return nil
}

// EdgeEndpointNear returns the edge whose endpoint center lies within radius
// (world units) of the given world point, for endpoint detachment.
func (s *Store) EdgeEndpointNear(wx, wy, radius float64) (string, EdgeEnd, bool) {
	for _, id := range s.edgeOrder {
		se := s.edges[id]
		fx, fy := s.nodeCenter(se.From)
		tx, ty := s.nodeCenter(se.To)
		if dist2(wx, wy, fx, fy) <= radius*radius {
			return id, EdgeEndFrom, true
		}
		if dist2(wx, wy, tx, ty) <= radius*radius {
			return id, EdgeEndTo, true
		}
	}
	return "", EdgeEndFrom, false
}

// NodesIntersecting returns the ids of nodes whose bounding box intersects
// the world rectangle. Intersection suffices; containment is not required.
func (s *Store) NodesIntersecting(minX, minY, maxX, maxY float64) []string {
	return s.index.QueryNodes(minX, minY, maxX, maxY)
}

/* ───────────────────── dirty / flush ───────────────────── */

// Subscribe registers fn to run on each flush, at most once per frame.
func (s *Store) Subscribe(fn func()) {
	s.subs = append(s.subs, fn)
}

func (s *Store) markDirty() {
	s.dirty = true
	if !s.hasPending {
		s.pending = s.sched.RequestTick(s.flush)
		s.hasPending = true
	}
}

func (s *Store) flush() {
	s.hasPending = false
	s.dirty = false
	s.lastRender = time.Now()
	for _, fn := range s.subs {
		fn()
	}
}

// Close cancels any pending flush. Used at component teardown.
func (s *Store) Close() {
	if s.hasPending {
		s.sched.CancelTick(s.pending)
		s.hasPending = false
	}
}

func (s *Store) IsDirty() bool             { return s.dirty }
func (s *Store) LastRenderTime() time.Time { return s.lastRender }

/* ───────────────────── accessors ───────────────────── */

func (s *Store) Index() *spatial.Index { return s.index }

func (s *Store) Node(id string) (*SceneNode, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

func (s *Store) Edge(id string) (*SceneEdge, bool) {
	e, ok := s.edges[id]
	return e, ok
}

// Nodes returns the scene nodes in ingestion order.
func (s *Store) Nodes() []*SceneNode {
	out := make([]*SceneNode, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		out = append(out, s.nodes[id])
	}
	return out
}

// Edges returns the scene edges in ingestion order.
func (s *Store) Edges() []*SceneEdge {
	out := make([]*SceneEdge, 0, len(s.edgeOrder))
	for _, id := range s.edgeOrder {
		out = append(out, s.edges[id])
	}
	return out
}

func (s *Store) NodeCount() int           { return len(s.nodes) }
func (s *Store) EdgeCount() int           { return len(s.edges) }
func (s *Store) Transform() Transform     { return s.transform }
func (s *Store) Viewport() Viewport       { return s.viewport }
func (s *Store) Interaction() Interaction { return s.interaction }

/* ───────────────────── internals ───────────────────── */

// nodeCenter returns the world-space center of the node's box.
func (s *Store) nodeCenter(id string) (float64, float64) {
	sn := s.nodes[id]
	return sn.X + NodeWidth/2, sn.Y + NodeHeight/2
}

// screenCenter returns the screen-space center of the node's box, honoring
// any live drag offset baked into ScreenX/ScreenY.
func (s *Store) screenCenter(id string) (float64, float64) {
	sn := s.nodes[id]
	return sn.ScreenX + NodeWidth/2*s.transform.Scale, sn.ScreenY + NodeHeight/2*s.transform.Scale
}

func (s *Store) dropDanglingEdges() {
	kept := s.edgeOrder[:0]
	for _, id := range s.edgeOrder {
		se := s.edges[id]
		_, okFrom := s.nodes[se.From]
		_, okTo := s.nodes[se.To]
		if okFrom && okTo {
			kept = append(kept, id)
		} else {
			delete(s.edges, id)
			s.logger.Debugf("[SCENE] dropping edge %s: endpoint removed", id)
		}
	}
	s.edgeOrder = kept
	s.rebuildAdjacency()
}

func (s *Store) refreshEdgeGeometry() {
	for _, id := range s.edgeOrder {
		s.refreshOneEdgeGeometry(s.edges[id])
	}
}

func (s *Store) refreshOneEdgeGeometry(se *SceneEdge) {
	se.X1, se.Y1 = s.screenCenter(se.From)
	se.X2, se.Y2 = s.screenCenter(se.To)
	se.Visible = s.isEdgeVisible(se)
}

func (s *Store) rebuildAdjacency() {
	s.adjacency = map[string][]string{}
	for _, id := range s.edgeOrder {
		se := s.edges[id]
		s.adjacency[se.From] = append(s.adjacency[se.From], id)
		s.adjacency[se.To] = append(s.adjacency[se.To], id)
	}
}

// rebuildIndex re-seeds the spatial index from scratch. Partial invalidation
// is not attempted: node counts stay at interactive-editing scale, and a full
// rebuild keeps the index consistent so render-time queries never need a
// fallback to the unfiltered list.
func (s *Store) rebuildIndex() {
	s.index.Clear()
	for _, id := range s.nodeOrder {
		sn := s.nodes[id]
		s.index.AddNode(id, sn.X, sn.Y, NodeWidth, NodeHeight)
	}
	for _, id := range s.edgeOrder {
		se := s.edges[id]
		fx, fy := s.nodeCenter(se.From)
		tx, ty := s.nodeCenter(se.To)
		s.index.AddEdge(id, se.From, se.To, fx, fy, tx, ty)
	}
}

func dist2(ax, ay, bx, by float64) float64 {
	dx, dy := ax-bx, ay-by
	return dx*dx + dy*dy
}
