package core

// NodeType identifies the kind of step a node represents in a triage flow.
type NodeType string

const (
	NodeDecision    NodeType = "decision"
	NodeInstruction NodeType = "instruction"
	NodeOutcome     NodeType = "outcome"
	NodePanel       NodeType = "panel"
	NodeReference   NodeType = "reference"
)

// Minimum dimensions for resizable nodes. Writes below the floor are
// clamped, never rejected.
const (
	MinNodeWidth  = 300.0
	MinNodeHeight = 200.0
)

// Resizable reports whether nodes of this type accept user-driven
// dimension changes. Only panel-like types do; the rest render at
// their default size.
func (t NodeType) Resizable() bool {
	return t == NodePanel
}

// DefaultSize returns the rendered size used when a node carries no
// explicit dimensions.
func (t NodeType) DefaultSize() Size {
	switch t {
	case NodePanel:
		return Size{Width: MinNodeWidth, Height: MinNodeHeight}
	case NodeDecision:
		return Size{Width: 220, Height: 120}
	case NodeOutcome:
		return Size{Width: 200, Height: 90}
	case NodeReference:
		return Size{Width: 160, Height: 60}
	default:
		return Size{Width: 200, Height: 100}
	}
}

// DisplayName returns the human-readable type label.
func (t NodeType) DisplayName() string {
	switch t {
	case NodeDecision:
		return "Question"
	case NodeInstruction:
		return "Instruction"
	case NodeOutcome:
		return "Outcome"
	case NodePanel:
		return "Panel"
	case NodeReference:
		return "Reference"
	default:
		return string(t)
	}
}

// The eight canonical handle tokens. A connection endpoint is always one
// of these, or absent.
const (
	HandleSourceTop    = "source-top"
	HandleSourceBottom = "source-bottom"
	HandleSourceLeft   = "source-left"
	HandleSourceRight  = "source-right"
	HandleTargetTop    = "target-top"
	HandleTargetBottom = "target-bottom"
	HandleTargetLeft   = "target-left"
	HandleTargetRight  = "target-right"
)

// Node represents a single step on the diagram.
type Node struct {
	ID         string         `json:"id"`
	Type       NodeType       `json:"type"`
	Position   Point          `json:"position"`
	Dimensions *Size          `json:"dimensions,omitempty"`
	Style      map[string]any `json:"style,omitempty"`
	Label      string         `json:"label,omitempty"`
	Body       string         `json:"body,omitempty"`
	Selected   bool           `json:"-"`
}

// Size returns the node's effective dimensions: explicit ones when set,
// otherwise the type default. Explicit dimensions are reported clamped.
func (n *Node) Size() Size {
	if n.Dimensions != nil {
		return ClampSize(n.Type, *n.Dimensions)
	}
	return n.Type.DefaultSize()
}

// Bounds returns the node's rectangle in diagram space.
func (n *Node) Bounds() Rect {
	s := n.Size()
	return Rect{X: n.Position.X, Y: n.Position.Y, W: s.Width, H: s.Height}
}

// SetDimensions stores explicit dimensions, clamped to the minimum for
// resizable types.
func (n *Node) SetDimensions(s Size) {
	clamped := ClampSize(n.Type, s)
	n.Dimensions = &clamped
}

// ClampSize enforces the dimension floor for resizable node types.
// Non-resizable types pass through untouched.
func ClampSize(t NodeType, s Size) Size {
	if !t.Resizable() {
		return s
	}
	if s.Width < MinNodeWidth {
		s.Width = MinNodeWidth
	}
	if s.Height < MinNodeHeight {
		s.Height = MinNodeHeight
	}
	return s
}

// Connection represents a directed edge between two nodes.
type Connection struct {
	ID           string `json:"id"`
	SourceID     string `json:"sourceNodeId"`
	TargetID     string `json:"targetNodeId"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
	Label        string `json:"label,omitempty"`
}

// Diagram represents a complete decision-tree diagram.
type Diagram struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// NodeByID returns a pointer to the node with the given id, or nil.
func (d *Diagram) NodeByID(id string) *Node {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i]
		}
	}
	return nil
}

// ConnectionByID returns a pointer to the connection with the given id, or nil.
func (d *Diagram) ConnectionByID(id string) *Connection {
	for i := range d.Connections {
		if d.Connections[i].ID == id {
			return &d.Connections[i]
		}
	}
	return nil
}
