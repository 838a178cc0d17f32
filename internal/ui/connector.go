package ui

import (
	"math"

	"github.com/nodeloom/nodeloom/core/scene"
)

// SnapRadius is the anchor snap distance in screen pixels during a
// connection drag.
const SnapRadius = 30.0

// Connector derives per-node connection anchors and performs the
// nearest-anchor snap search. Anchors are recomputed on demand, never
// stored.
type Connector struct {
	store *scene.Store
	cam   *Camera
}

func NewConnector(store *scene.Store, cam *Camera) *Connector {
	return &Connector{store: store, cam: cam}
}

// GenerateAnchors returns the four fixed anchors of a node: the midpoints of
// its top, right, bottom and left borders, in world coordinates. Highlight
// follows the current hover state.
func (c *Connector) GenerateAnchors(nodeID string) []scene.Anchor {
	n, ok := c.store.Node(nodeID)
	if !ok {
		return nil
	}
	hot := c.store.Hovered() == nodeID
	return []scene.Anchor{
		{ID: nodeID + "-top", NodeID: nodeID, X: n.X + scene.NodeWidth/2, Y: n.Y, Kind: scene.AnchorBidirectional, Highlighted: hot},
		{ID: nodeID + "-right", NodeID: nodeID, X: n.X + scene.NodeWidth, Y: n.Y + scene.NodeHeight/2, Kind: scene.AnchorBidirectional, Highlighted: hot},
		{ID: nodeID + "-bottom", NodeID: nodeID, X: n.X + scene.NodeWidth/2, Y: n.Y + scene.NodeHeight, Kind: scene.AnchorBidirectional, Highlighted: hot},
		{ID: nodeID + "-left", NodeID: nodeID, X: n.X, Y: n.Y + scene.NodeHeight/2, Kind: scene.AnchorBidirectional, Highlighted: hot},
	}
}

// FindNearestAnchor inverse-transforms the screen point to world space and
// returns the closest anchor within the snap radius, excluding anchors on
// excludeNodeID, or nil when none qualifies. Ties resolve to the first
// anchor found in iteration order.
func (c *Connector) FindNearestAnchor(screenX, screenY float64, excludeNodeID string) *scene.SnapTarget {
	wx, wy := c.cam.WorldPos(screenX, screenY)
	radius := SnapRadius / c.cam.Scale // snap radius is defined in screen px

	var best *scene.SnapTarget
	for _, n := range c.store.Nodes() {
		if n.ID == excludeNodeID {
			continue
		}
		for _, a := range c.GenerateAnchors(n.ID) {
			d := math.Hypot(a.X-wx, a.Y-wy)
			if d > radius {
				continue
			}
			if best == nil || d < best.Distance {
				best = &scene.SnapTarget{Anchor: a, Distance: d}
			}
		}
	}
	return best
}

// StartAnchor picks the node's anchor closest to the given screen point as
// the origin of a connection drag.
func (c *Connector) StartAnchor(nodeID string, screenX, screenY float64) (scene.Anchor, bool) {
	wx, wy := c.cam.WorldPos(screenX, screenY)
	anchors := c.GenerateAnchors(nodeID)
	if len(anchors) == 0 {
		return scene.Anchor{}, false
	}
	best := anchors[0]
	bestD := math.Hypot(best.X-wx, best.Y-wy)
	for _, a := range anchors[1:] {
		if d := math.Hypot(a.X-wx, a.Y-wy); d < bestD {
			best, bestD = a, d
		}
	}
	return best, true
}

// AnchorFor returns the anchor nearest to the other endpoint's center, used
// when a detached edge is re-dragged from its surviving endpoint.
func (c *Connector) AnchorFor(nodeID, towardNodeID string) (scene.Anchor, bool) {
	toward, ok := c.store.Node(towardNodeID)
	if !ok {
		anchors := c.GenerateAnchors(nodeID)
		if len(anchors) == 0 {
			return scene.Anchor{}, false
		}
		return anchors[0], true
	}
	cx := toward.X + scene.NodeWidth/2
	cy := toward.Y + scene.NodeHeight/2
	sx, sy := c.cam.ScreenPos(cx, cy)
	return c.StartAnchor(nodeID, sx, sy)
}
