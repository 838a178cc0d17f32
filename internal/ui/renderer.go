package ui

import (
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/nodeloom/nodeloom/core/scene"
	game_log "github.com/nodeloom/nodeloom/internal/log"
)

// LOD is the rendering fidelity tier, a pure function of the zoom scale.
type LOD int

const (
	LODMinimal LOD = iota
	LODLow
	LODMedium
	LODHigh
)

func (l LOD) String() string {
	switch l {
	case LODMinimal:
		return "minimal"
	case LODLow:
		return "low"
	case LODMedium:
		return "medium"
	case LODHigh:
		return "high"
	default:
		return "unknown"
	}
}

// LODForScale maps the transform scale to a tier. Text layout and shadow
// compositing dominate per-node cost, so detail coarsens as zoom drops.
func LODForScale(scale float64) LOD {
	switch {
	case scale >= 0.8:
		return LODHigh
	case scale >= 0.4:
		return LODMedium
	case scale >= 0.2:
		return LODLow
	default:
		return LODMinimal
	}
}

const (
	// cullBuffer expands the screen viewport before inverse-transforming it
	// into the world-space query rectangle.
	cullBuffer = 200.0

	nodeCornerRadius = 8.0
	maxBodyLines     = 3
)

// NodeStyle is the resolved visual for one node this frame.
type NodeStyle struct {
	Fill        color.RGBA
	Border      color.RGBA
	BorderWidth float64
}

// styleForNode layers state adjustments over the type palette with
// precedence selection > hover > drag.
func styleForNode(t scene.NodeType, selected, dragging, hovered bool) NodeStyle {
	st := NodeStyle{Fill: fillForNode(t), Border: colNodeBorder, BorderWidth: 1}
	if dragging {
		st.Fill.A = 200
		st.BorderWidth = 2
	}
	if hovered {
		st.Border = colHovered
		st.BorderWidth = 2
	}
	if selected {
		st.Border = colSelected
		st.BorderWidth = 3
	}
	return st
}

type nodeHit struct {
	id   string
	rect image.Rectangle
}

// Renderer paints the scene each frame: culls to the visible world region
// via the spatial index, picks an LOD tier, and draws edges, nodes, anchors
// and transient overlays. While drawing it records each node's screen
// rectangle so hit-testing always matches what was actually painted.
type Renderer struct {
	store  *scene.Store
	cam    *Camera
	grid   *Grid
	logger *game_log.Logger

	ShowGrid bool

	hits []nodeHit
}

func NewRenderer(store *scene.Store, cam *Camera, grid *Grid, logger *game_log.Logger) *Renderer {
	return &Renderer{store: store, cam: cam, grid: grid, logger: logger, ShowGrid: true}
}

// NodeAt maps a screen point to the topmost node drawn there last frame.
func (r *Renderer) NodeAt(x, y int) (string, bool) {
	for i := len(r.hits) - 1; i >= 0; i-- {
		if image.Pt(x, y).In(r.hits[i].rect) {
			return r.hits[i].id, true
		}
	}
	return "", false
}

// visibleWorldRect inverse-transforms the buffered screen viewport into the
// world-space rectangle used for spatial queries.
func (r *Renderer) visibleWorldRect() (minX, minY, maxX, maxY float64) {
	vp := r.store.Viewport()
	t := r.store.Transform()
	minX, minY = t.Invert(-cullBuffer, -cullBuffer)
	maxX, maxY = t.Invert(vp.Width+cullBuffer, vp.Height+cullBuffer)
	return
}

func (r *Renderer) Draw(dst *ebiten.Image) {
	t := r.store.Transform()
	vp := r.store.Viewport()
	lod := LODForScale(t.Scale)

	fillScreen(dst, colBG)

	if r.ShowGrid {
		xs, ys := r.grid.Lines(r.cam, int(vp.Width), int(vp.Height))
		for _, x := range xs {
			strokeLine(dst, x, 0, x, vp.Height, 1, colGridLine)
		}
		for _, y := range ys {
			strokeLine(dst, 0, y, vp.Width, y, 1, colGridLine)
		}
	}

	minX, minY, maxX, maxY := r.visibleWorldRect()
	edgeIDs := r.store.Index().QueryEdges(minX, minY, maxX, maxY)
	nodeIDs := r.store.Index().QueryNodes(minX, minY, maxX, maxY)
	if len(nodeIDs) == 0 && r.store.NodeCount() > 0 {
		// The index is rebuilt inside every geometry mutation, so an empty
		// result here means the viewport really is empty. No fallback to the
		// unfiltered list.
		r.logger.Debugf("[RENDER] no nodes in view rect (%.0f,%.0f)-(%.0f,%.0f), %d total",
			minX, minY, maxX, maxY, r.store.NodeCount())
	}

	r.drawEdges(dst, edgeIDs)
	r.drawNodes(dst, nodeIDs, lod)
	r.drawAnchors(dst)
	r.drawOverlays(dst)
}

func (r *Renderer) drawEdges(dst *ebiten.Image, ids []string) {
	dragging := r.draggedEdgeID()
	for _, id := range ids {
		se, ok := r.store.Edge(id)
		if !ok || !se.Visible {
			continue
		}
		if id == dragging {
			continue // hidden while its endpoint is being re-dragged
		}
		width := 1.0
		if se.Strength > 0 {
			width = 1 + 2*se.Strength
		}
		strokeLine(dst, se.X1, se.Y1, se.X2, se.Y2, width, colorForEdge(se.Type))
	}
}

func (r *Renderer) draggedEdgeID() string {
	it := r.store.Interaction()
	if it.Mode == scene.ModeDraggingConnection && it.Connection != nil {
		return it.Connection.DetachedEdge
	}
	return ""
}

func (r *Renderer) drawNodes(dst *ebiten.Image, ids []string, lod LOD) {
	r.hits = r.hits[:0]
	t := r.store.Transform()
	w := scene.NodeWidth * t.Scale
	h := scene.NodeHeight * t.Scale

	it := r.store.Interaction()
	draggedID := ""
	if it.Mode == scene.ModeDraggingNode && it.Drag != nil {
		draggedID = it.Drag.NodeID
	}
	hovered := r.store.Hovered()

	// Iterate store order, filtered by the query result, so stacking is
	// deterministic.
	inView := make(map[string]bool, len(ids))
	for _, id := range ids {
		inView[id] = true
	}
	for _, n := range r.store.Nodes() {
		if !inView[n.ID] || !n.Visible {
			continue
		}
		st := styleForNode(n.Type, r.store.IsSelected(n.ID), n.ID == draggedID, n.ID == hovered)
		x, y := n.ScreenX, n.ScreenY

		switch lod {
		case LODMinimal:
			fillRect(dst, x, y, w, h, st.Fill)
		case LODLow:
			fillRect(dst, x, y, w, h, st.Fill)
			strokeRect(dst, x, y, w, h, st.BorderWidth, st.Border)
		case LODMedium:
			fillRoundedRect(dst, x+2, y+2, w, h, nodeCornerRadius, colShadowLight)
			fillRoundedRect(dst, x, y, w, h, nodeCornerRadius, st.Fill)
			strokeRect(dst, x, y, w, h, st.BorderWidth, st.Border)
			r.drawTitle(dst, n, x, y, w)
		case LODHigh:
			fillRoundedRect(dst, x+4, y+4, w, h, nodeCornerRadius, colShadow)
			fillRoundedRect(dst, x, y, w, h, nodeCornerRadius, st.Fill)
			strokeRect(dst, x, y, w, h, st.BorderWidth, st.Border)
			r.drawTitle(dst, n, x, y, w)
			r.drawBody(dst, n, x, y, w)
			r.drawBadge(dst, n, x, y, w, h)
		}

		r.hits = append(r.hits, nodeHit{
			id:   n.ID,
			rect: image.Rect(int(x), int(y), int(x+w), int(y+h)),
		})
	}
}

func (r *Renderer) drawTitle(dst *ebiten.Image, n *scene.SceneNode, x, y, w float64) {
	maxChars := int(w/debugCharW) - 2
	if maxChars <= 0 {
		return
	}
	title := n.Title
	if rs := []rune(title); len(rs) > maxChars {
		title = string(rs[:maxChars-3]) + "..."
	}
	drawText(dst, title, int(x)+6, int(y)+6)
}

func (r *Renderer) drawBody(dst *ebiten.Image, n *scene.SceneNode, x, y, w float64) {
	maxChars := int(w/debugCharW) - 2
	if maxChars <= 0 || n.Description == "" {
		return
	}
	lines := wrapText(n.Description, maxChars, maxBodyLines)
	for i, line := range lines {
		drawText(dst, line, int(x)+6, int(y)+6+(i+1)*(debugCharH+2))
	}
}

func (r *Renderer) drawBadge(dst *ebiten.Image, n *scene.SceneNode, x, y, w, h float64) {
	label := string(n.Type)
	bw := float64(debugCharW*len(label) + 8)
	bx := x + w - bw - 4
	by := y + h - debugCharH - 8
	fillRect(dst, bx, by, bw, float64(debugCharH+4), colBadge)
	drawText(dst, label, int(bx)+4, int(by)+2)
}

// drawAnchors paints connection anchors while connect mode is armed or a
// connection drag is active. The snap target and the hovered node's anchors
// render hot.
func (r *Renderer) drawAnchors(dst *ebiten.Image) {
	it := r.store.Interaction()
	if it.Mode != scene.ModeConnecting && it.Mode != scene.ModeDraggingConnection {
		return
	}
	snapID := ""
	if it.Connection != nil && it.Connection.Snap != nil {
		snapID = it.Connection.Snap.Anchor.ID
	}
	hovered := r.store.Hovered()
	t := r.store.Transform()
	for _, n := range r.store.Nodes() {
		if !n.Visible {
			continue
		}
		for _, a := range anchorsOf(n) {
			sx, sy := t.Apply(a.X, a.Y)
			c := colAnchor
			if a.ID == snapID || n.ID == hovered {
				c = colAnchorHot
			}
			fillCircle(dst, sx, sy, 4, c)
		}
	}
}

// anchorsOf mirrors Connector.GenerateAnchors without the store lookup; the
// renderer already holds the node.
func anchorsOf(n *scene.SceneNode) []scene.Anchor {
	return []scene.Anchor{
		{ID: n.ID + "-top", NodeID: n.ID, X: n.X + scene.NodeWidth/2, Y: n.Y, Kind: scene.AnchorBidirectional},
		{ID: n.ID + "-right", NodeID: n.ID, X: n.X + scene.NodeWidth, Y: n.Y + scene.NodeHeight/2, Kind: scene.AnchorBidirectional},
		{ID: n.ID + "-bottom", NodeID: n.ID, X: n.X + scene.NodeWidth/2, Y: n.Y + scene.NodeHeight, Kind: scene.AnchorBidirectional},
		{ID: n.ID + "-left", NodeID: n.ID, X: n.X, Y: n.Y + scene.NodeHeight/2, Kind: scene.AnchorBidirectional},
	}
}

func (r *Renderer) drawOverlays(dst *ebiten.Image) {
	it := r.store.Interaction()
	t := r.store.Transform()

	if it.Mode == scene.ModeMarqueeSelecting && it.Marquee != nil {
		minX, minY, maxX, maxY := it.Marquee.Rect()
		sx1, sy1 := t.Apply(minX, minY)
		sx2, sy2 := t.Apply(maxX, maxY)
		fillRect(dst, sx1, sy1, sx2-sx1, sy2-sy1, colMarqueeFill)
		strokeRect(dst, sx1, sy1, sx2-sx1, sy2-sy1, 1, colMarqueeLine)
	}

	if it.Mode == scene.ModeDraggingConnection && it.Connection != nil {
		cd := it.Connection
		sx, sy := t.Apply(cd.Start.X, cd.Start.Y)
		ex, ey := cd.PointerX, cd.PointerY
		if cd.Snap != nil {
			ex, ey = t.Apply(cd.Snap.Anchor.X, cd.Snap.Anchor.Y)
		}
		strokeLine(dst, sx, sy, ex, ey, 2, colPreviewLine)
	}
}

// wrapText greedily word-wraps s into at most maxLines lines of maxChars
// characters; the last line is ellipsized when text remains.
func wrapText(s string, maxChars, maxLines int) []string {
	if maxChars <= 0 || maxLines <= 0 {
		return nil
	}
	words := strings.Fields(s)
	var lines []string
	cur := ""
	i := 0
	for ; i < len(words); i++ {
		w := words[i]
		if len(w) > maxChars {
			w = w[:maxChars]
		}
		switch {
		case cur == "":
			cur = w
		case len(cur)+1+len(w) <= maxChars:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
		if len(lines) == maxLines {
			break
		}
	}
	if len(lines) < maxLines && cur != "" {
		lines = append(lines, cur)
		cur = ""
	}
	if len(lines) == 0 {
		return nil
	}
	if i < len(words) || cur != "" {
		lines[len(lines)-1] = ellipsize(lines[len(lines)-1], maxChars)
	}
	return lines
}

func ellipsize(s string, maxChars int) string {
	if len(s)+3 <= maxChars {
		return s + "..."
	}
	if len(s) <= 3 {
		return "..."
	}
	return s[:len(s)-3] + "..."
}
