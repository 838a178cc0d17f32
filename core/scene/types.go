package scene

// Every node shares the same fixed box size in world units.
const (
	NodeWidth  = 240.0
	NodeHeight = 120.0
)

type NodeType string

const (
	NodeHuman      NodeType = "human"
	NodeAI         NodeType = "ai"
	NodeRisk       NodeType = "risk"
	NodeDependency NodeType = "dependency"
	NodeDecision   NodeType = "decision"
	NodeOther      NodeType = "other"
)

type EdgeType string

const (
	EdgeSupport        EdgeType = "support"
	EdgeContradiction  EdgeType = "contradiction"
	EdgeDependency     EdgeType = "dependency"
	EdgeAIRelationship EdgeType = "ai-relationship"
	EdgeOther          EdgeType = "other"
)

// Node is the record the external data layer delivers. (X,Y) is the top-left
// corner of the node box in world coordinates. Display fields are opaque to
// the engine beyond change detection and rendering.
type Node struct {
	ID          string
	X, Y        float64
	Type        NodeType
	Title       string
	Description string
	Confidence  float64
}

// SceneNode is the engine's render-augmented mirror of a Node.
type SceneNode struct {
	Node
	ScreenX, ScreenY float64
	Visible          bool
	Dirty            bool
}

// Edge references its endpoints by node id. Strength in [0,1] scales stroke
// weight; zero means unspecified.
type Edge struct {
	ID       string
	From, To string
	Type     EdgeType
	Strength float64
}

// SceneEdge caches the screen-space segment between the midpoints of the two
// endpoint node boxes.
type SceneEdge struct {
	Edge
	X1, Y1, X2, Y2 float64
	Visible        bool
}

// EdgeEnd names one endpoint of an edge for detach reporting.
type EdgeEnd int

const (
	EdgeEndFrom EdgeEnd = iota
	EdgeEndTo
)

func (e EdgeEnd) String() string {
	if e == EdgeEndFrom {
		return "from"
	}
	return "to"
}

// Transform maps world to screen: screen = world*Scale + (X,Y). Scale > 0.
type Transform struct {
	X, Y  float64
	Scale float64
}

// Apply converts world coordinates to screen coordinates.
func (t Transform) Apply(wx, wy float64) (sx, sy float64) {
	return wx*t.Scale + t.X, wy*t.Scale + t.Y
}

// Invert converts screen coordinates back to world coordinates.
func (t Transform) Invert(sx, sy float64) (wx, wy float64) {
	return (sx - t.X) / t.Scale, (sy - t.Y) / t.Scale
}

// Viewport is the drawable surface size in screen pixels. X and Y are a
// reserved offset, unused.
type Viewport struct {
	X, Y          float64
	Width, Height float64
}

// Mode is the active interaction state. Exactly one is active at a time.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDraggingNode
	ModePanning
	ModeConnecting
	ModeDraggingConnection
	ModeMarqueeSelecting
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeDraggingNode:
		return "DRAGGING_NODE"
	case ModePanning:
		return "PANNING"
	case ModeConnecting:
		return "CONNECTING"
	case ModeDraggingConnection:
		return "DRAGGING_CONNECTION"
	case ModeMarqueeSelecting:
		return "MARQUEE_SELECTING"
	default:
		return "UNKNOWN"
	}
}

type AnchorKind int

const (
	AnchorInput AnchorKind = iota
	AnchorOutput
	AnchorBidirectional
)

// Anchor is a connection point on a node border, derived on demand.
// (X,Y) is the anchor position in world coordinates.
type Anchor struct {
	ID          string
	NodeID      string
	X, Y        float64
	Kind        AnchorKind
	Highlighted bool
}

// SnapTarget is the nearest anchor within the snap radius during a
// connection drag. Distance is in world units.
type SnapTarget struct {
	Anchor   Anchor
	Distance float64
}

// NodeDrag is the DRAGGING_NODE payload. Start and Current are pointer
// positions in screen pixels; their difference is the live visual delta.
type NodeDrag struct {
	NodeID             string
	StartX, StartY     float64
	CurrentX, CurrentY float64
}

// ConnectionDrag is the DRAGGING_CONNECTION payload. PointerX/Y track the
// cursor in screen pixels; Snap is nil while no anchor is within radius.
// DetachedEdge is set when the drag began by grabbing an existing edge
// endpoint.
type ConnectionDrag struct {
	Start              Anchor
	PointerX, PointerY float64
	Snap               *SnapTarget
	DetachedEdge       string
	DetachedEnd        EdgeEnd
}

// Marquee is the MARQUEE_SELECTING payload, in world coordinates.
type Marquee struct {
	StartX, StartY float64
	X, Y           float64
}

// Rect returns the normalized axis-aligned marquee rectangle.
func (m Marquee) Rect() (minX, minY, maxX, maxY float64) {
	minX, maxX = m.StartX, m.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY = m.StartY, m.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return
}

// Interaction holds the active mode plus its payload. Payload pointers for
// inactive modes are nil.
type Interaction struct {
	Mode       Mode
	Drag       *NodeDrag
	Connection *ConnectionDrag
	Marquee    *Marquee
}
