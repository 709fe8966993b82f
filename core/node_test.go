package core

import "testing"

func TestClampSize(t *testing.T) {
	tests := []struct {
		name string
		typ  NodeType
		in   Size
		want Size
	}{
		{"panel below floor", NodePanel, Size{Width: 150, Height: 100}, Size{Width: 300, Height: 200}},
		{"panel width only", NodePanel, Size{Width: 150, Height: 400}, Size{Width: 300, Height: 400}},
		{"panel above floor", NodePanel, Size{Width: 500, Height: 300}, Size{Width: 500, Height: 300}},
		{"non-resizable passes through", NodeInstruction, Size{Width: 50, Height: 40}, Size{Width: 50, Height: 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampSize(tt.typ, tt.in); got != tt.want {
				t.Errorf("ClampSize = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNodeBounds(t *testing.T) {
	n := Node{ID: "n1", Type: NodeOutcome, Position: Point{X: 30, Y: 40}}
	want := Rect{X: 30, Y: 40, W: 200, H: 90}
	if got := n.Bounds(); got != want {
		t.Errorf("Bounds = %v, want %v", got, want)
	}

	n.SetDimensions(Size{Width: 500, Height: 120})
	want = Rect{X: 30, Y: 40, W: 500, H: 120}
	if got := n.Bounds(); got != want {
		t.Errorf("Bounds with dimensions = %v, want %v", got, want)
	}
}

func TestSetDimensionsClamps(t *testing.T) {
	n := Node{ID: "p1", Type: NodePanel, Position: Point{}}
	n.SetDimensions(Size{Width: 150, Height: 100})
	if n.Dimensions.Width != 300 || n.Dimensions.Height != 200 {
		t.Errorf("SetDimensions stored %v, want clamped 300x200", *n.Dimensions)
	}
}

func TestDiagramLookups(t *testing.T) {
	d := Diagram{
		Nodes:       []Node{{ID: "a"}, {ID: "b"}},
		Connections: []Connection{{ID: "e1", SourceID: "a", TargetID: "b"}},
	}
	if n := d.NodeByID("b"); n == nil || n.ID != "b" {
		t.Error("NodeByID(b) failed")
	}
	if d.NodeByID("missing") != nil {
		t.Error("NodeByID(missing) should be nil")
	}
	if c := d.ConnectionByID("e1"); c == nil || c.SourceID != "a" {
		t.Error("ConnectionByID(e1) failed")
	}
	if d.ConnectionByID("missing") != nil {
		t.Error("ConnectionByID(missing) should be nil")
	}
}
