package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/nodeloom/nodeloom/core/scene"
	game_log "github.com/nodeloom/nodeloom/internal/log"
)

// DetachRadius is the world-space distance from an edge endpoint within
// which a pointerdown grabs that endpoint instead of starting another
// gesture.
const DetachRadius = 20.0

// Callbacks are the outward notifications the engine fires. They are
// fire-and-forget: the engine applies its optimistic local mutation
// immediately and never blocks on, retries, or rolls back from the external
// outcome.
type Callbacks struct {
	OnNodePositionUpdate func(nodeID string, x, y float64)
	OnConnectionCreate   func(fromID, toID string)
	OnTransformUpdate    func(t scene.Transform)
	OnNodeSelect         func(nodeID string)
	OnEdgeDetach         func(edgeID string, end scene.EdgeEnd)
}

// Controller interprets raw pointer/wheel/key state into interaction state
// machine transitions, issuing store mutations and outward callbacks. It
// reads input through the package seam so tests can drive it directly.
type Controller struct {
	store  *scene.Store
	cam    *Camera
	conn   *Connector
	rend   *Renderer
	cb     Callbacks
	logger *game_log.Logger

	leftPrev     bool
	escPrev      bool
	keyCPrev     bool
	lastX, lastY int
	panMoved     bool
}

func NewController(store *scene.Store, cam *Camera, conn *Connector, rend *Renderer, cb Callbacks, logger *game_log.Logger) *Controller {
	return &Controller{store: store, cam: cam, conn: conn, rend: rend, cb: cb, logger: logger}
}

// Update advances the state machine by one tick of input state.
func (c *Controller) Update() {
	x, y := cursorPosition()
	left := isMouseButtonPressed(ebiten.MouseButtonLeft)
	shift := isKeyPressed(ebiten.KeyShiftLeft) || isKeyPressed(ebiten.KeyShiftRight)
	esc := isKeyPressed(ebiten.KeyEscape)
	keyC := isKeyPressed(ebiten.KeyC)

	if esc && !c.escPrev {
		c.Cancel()
		c.leftPrev, c.escPrev, c.keyCPrev = left, esc, keyC
		return
	}
	if keyC && !c.keyCPrev {
		c.ToggleConnectMode()
	}

	it := c.store.Interaction()
	switch it.Mode {
	case scene.ModeIdle:
		c.updateIdle(x, y, left, shift)
	case scene.ModeConnecting:
		c.updateConnecting(x, y, left)
	case scene.ModeDraggingNode:
		c.updateNodeDrag(x, y, left, it)
	case scene.ModePanning:
		c.updatePanning(x, y, left)
	case scene.ModeDraggingConnection:
		c.updateConnectionDrag(x, y, left, it)
	case scene.ModeMarqueeSelecting:
		c.updateMarquee(x, y, left, it)
	}

	if it.Mode == scene.ModeIdle {
		if c.cam.HandleWheel() {
			c.cam.Snap()
			c.applyTransform()
		}
	}

	c.leftPrev, c.escPrev, c.keyCPrev = left, esc, keyC
}

/* ───────────────────── per-mode handlers ───────────────────── */

func (c *Controller) updateIdle(x, y int, left, shift bool) {
	if id, over := c.rend.NodeAt(x, y); over {
		c.store.SetHovered(id)
	} else {
		c.store.SetHovered("")
	}

	if !left || c.leftPrev {
		return
	}

	// Endpoint grabs take precedence: the grab zone is small against the
	// node box, so body drags stay reachable.
	wx, wy := c.cam.WorldPos(float64(x), float64(y))
	if edgeID, end, ok := c.store.EdgeEndpointNear(wx, wy, DetachRadius); ok {
		c.beginDetach(edgeID, end, x, y)
		return
	}
	if id, over := c.rend.NodeAt(x, y); over {
		c.beginNodeDrag(id, x, y)
		return
	}
	if shift {
		c.beginMarquee(wx, wy)
		return
	}
	c.beginPan(x, y)
}

func (c *Controller) updateConnecting(x, y int, left bool) {
	if id, over := c.rend.NodeAt(x, y); over {
		c.store.SetHovered(id)
	} else {
		c.store.SetHovered("")
	}
	if !left || c.leftPrev {
		return
	}
	// The endpoint grab applies here too: re-dragging an existing edge wins
	// over starting a fresh connection from the node under it.
	wx, wy := c.cam.WorldPos(float64(x), float64(y))
	if edgeID, end, ok := c.store.EdgeEndpointNear(wx, wy, DetachRadius); ok {
		c.beginDetach(edgeID, end, x, y)
		return
	}
	id, over := c.rend.NodeAt(x, y)
	if !over {
		return // stay armed until a node is grabbed or Escape cancels
	}
	anchor, ok := c.conn.StartAnchor(id, float64(x), float64(y))
	if !ok {
		return
	}
	c.logger.Debugf("[INPUT] begin connection drag from %s", anchor.ID)
	c.store.UpdateInteraction(scene.Interaction{
		Mode: scene.ModeDraggingConnection,
		Connection: &scene.ConnectionDrag{
			Start:    anchor,
			PointerX: float64(x),
			PointerY: float64(y),
		},
	})
}

func (c *Controller) updateNodeDrag(x, y int, left bool, it scene.Interaction) {
	if it.Drag == nil {
		c.toIdle()
		return
	}
	if left {
		d := *it.Drag
		d.CurrentX, d.CurrentY = float64(x), float64(y)
		c.store.UpdateInteraction(scene.Interaction{Mode: scene.ModeDraggingNode, Drag: &d})
		return
	}
	d := it.Drag
	if n, ok := c.store.Node(d.NodeID); ok {
		t := c.store.Transform()
		wx := n.X + (float64(x)-d.StartX)/t.Scale
		wy := n.Y + (float64(y)-d.StartY)/t.Scale
		c.store.CommitNodePosition(d.NodeID, wx, wy)
		c.logger.Debugf("[INPUT] node %s dropped at world=(%.1f,%.1f)", d.NodeID, wx, wy)
		if c.cb.OnNodePositionUpdate != nil {
			c.cb.OnNodePositionUpdate(d.NodeID, wx, wy)
		}
	}
	c.toIdle()
}

func (c *Controller) updatePanning(x, y int, left bool) {
	if left {
		dx, dy := x-c.lastX, y-c.lastY
		if dx != 0 || dy != 0 {
			c.cam.OffsetX += float64(dx)
			c.cam.OffsetY += float64(dy)
			c.cam.Snap()
			c.panMoved = true
			c.applyTransform()
		}
		c.lastX, c.lastY = x, y
		return
	}
	if !c.panMoved {
		// press+release without motion on empty canvas clears the selection
		c.store.ClearSelection()
	}
	c.toIdle()
}

func (c *Controller) updateConnectionDrag(x, y int, left bool, it scene.Interaction) {
	if it.Connection == nil {
		c.toIdle()
		return
	}
	if left {
		cd := *it.Connection
		cd.PointerX, cd.PointerY = float64(x), float64(y)
		cd.Snap = c.conn.FindNearestAnchor(float64(x), float64(y), cd.Start.NodeID)
		c.store.UpdateInteraction(scene.Interaction{Mode: scene.ModeDraggingConnection, Connection: &cd})
		return
	}
	cd := it.Connection
	if cd.Snap != nil {
		from, to := cd.Start.NodeID, cd.Snap.Anchor.NodeID
		if err := c.store.ValidateConnection(from, to); err != nil {
			c.logger.Infof("[INPUT] connection %s -> %s rejected: %v", from, to, err)
		} else {
			c.logger.Debugf("[INPUT] connection %s -> %s created", from, to)
			if c.cb.OnConnectionCreate != nil {
				c.cb.OnConnectionCreate(from, to)
			}
		}
	} else {
		c.logger.Debugf("[INPUT] connection drag released with no snap target")
	}
	c.toIdle()
}

func (c *Controller) updateMarquee(x, y int, left bool, it scene.Interaction) {
	if it.Marquee == nil {
		c.toIdle()
		return
	}
	if left {
		m := *it.Marquee
		m.X, m.Y = c.cam.WorldPos(float64(x), float64(y))
		c.store.UpdateInteraction(scene.Interaction{Mode: scene.ModeMarqueeSelecting, Marquee: &m})
		minX, minY, maxX, maxY := m.Rect()
		c.store.SetSelection(c.store.NodesIntersecting(minX, minY, maxX, maxY))
		return
	}
	c.logger.Debugf("[INPUT] marquee committed: %d selected", len(c.store.Selection()))
	c.toIdle()
}

/* ───────────────────── gesture starts ───────────────────── */

func (c *Controller) beginNodeDrag(id string, x, y int) {
	c.logger.Debugf("[INPUT] begin node drag: %s at screen=(%d,%d)", id, x, y)
	c.store.SelectOnly(id)
	if c.cb.OnNodeSelect != nil {
		c.cb.OnNodeSelect(id)
	}
	c.store.UpdateInteraction(scene.Interaction{
		Mode: scene.ModeDraggingNode,
		Drag: &scene.NodeDrag{
			NodeID: id,
			StartX: float64(x), StartY: float64(y),
			CurrentX: float64(x), CurrentY: float64(y),
		},
	})
}

func (c *Controller) beginPan(x, y int) {
	c.logger.Debugf("[INPUT] begin pan at screen=(%d,%d)", x, y)
	c.lastX, c.lastY = x, y
	c.panMoved = false
	c.store.UpdateInteraction(scene.Interaction{Mode: scene.ModePanning})
}

func (c *Controller) beginMarquee(wx, wy float64) {
	c.logger.Debugf("[INPUT] begin marquee at world=(%.1f,%.1f)", wx, wy)
	c.store.UpdateInteraction(scene.Interaction{
		Mode:    scene.ModeMarqueeSelecting,
		Marquee: &scene.Marquee{StartX: wx, StartY: wy, X: wx, Y: wy},
	})
}

func (c *Controller) beginDetach(edgeID string, end scene.EdgeEnd, x, y int) {
	se, ok := c.store.Edge(edgeID)
	if !ok {
		return
	}
	c.logger.Debugf("[INPUT] detach edge %s at %s endpoint", edgeID, end)
	if c.cb.OnEdgeDetach != nil {
		c.cb.OnEdgeDetach(edgeID, end)
	}
	// The drag continues from the surviving endpoint; re-attachment reuses
	// the connection snap logic.
	fixed, grabbed := se.From, se.To
	if end == scene.EdgeEndFrom {
		fixed, grabbed = se.To, se.From
	}
	anchor, ok := c.conn.AnchorFor(fixed, grabbed)
	if !ok {
		return
	}
	c.store.UpdateInteraction(scene.Interaction{
		Mode: scene.ModeDraggingConnection,
		Connection: &scene.ConnectionDrag{
			Start:        anchor,
			PointerX:     float64(x),
			PointerY:     float64(y),
			DetachedEdge: edgeID,
			DetachedEnd:  end,
		},
	})
}

/* ───────────────────── mode control ───────────────────── */

// ToggleConnectMode arms or disarms connect mode from IDLE.
func (c *Controller) ToggleConnectMode() {
	switch c.store.Interaction().Mode {
	case scene.ModeIdle:
		c.logger.Debugf("[INPUT] connect mode armed")
		c.store.UpdateInteraction(scene.Interaction{Mode: scene.ModeConnecting})
	case scene.ModeConnecting:
		c.logger.Debugf("[INPUT] connect mode disarmed")
		c.toIdle()
	}
}

// Cancel abandons any in-progress interaction and returns to IDLE with null
// payloads.
func (c *Controller) Cancel() {
	if c.store.Interaction().Mode == scene.ModeIdle {
		return
	}
	c.logger.Debugf("[INPUT] interaction cancelled from %s", c.store.Interaction().Mode)
	c.toIdle()
}

// Teardown cancels the active gesture and releases the store's pending
// flush. Called when the hosting component goes away.
func (c *Controller) Teardown() {
	c.Cancel()
	c.store.Close()
}

func (c *Controller) toIdle() {
	c.panMoved = false
	c.store.UpdateInteraction(scene.Interaction{Mode: scene.ModeIdle})
}

func (c *Controller) applyTransform() {
	t := c.cam.Transform()
	c.store.UpdateTransform(t)
	if c.cb.OnTransformUpdate != nil {
		c.cb.OnTransformUpdate(t)
	}
}
