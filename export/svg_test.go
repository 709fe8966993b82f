package export

import (
	"strings"
	"testing"

	"flowcanvas/core"
	"flowcanvas/route"
)

func TestSVG(t *testing.T) {
	d := &core.Diagram{
		Nodes: []core.Node{
			{ID: "a", Type: core.NodeDecision, Position: core.Point{X: 0, Y: 0}, Label: "Fever > 39?"},
			{ID: "b", Type: core.NodeOutcome, Position: core.Point{X: 400, Y: 300}},
		},
		Connections: []core.Connection{
			{ID: "e1", SourceID: "a", TargetID: "b", Label: "yes"},
		},
	}
	routes := route.NewRouter(route.DefaultOptions()).RouteAll(d)

	var b strings.Builder
	if err := SVG(&b, d, routes); err != nil {
		t.Fatal(err)
	}
	out := b.String()

	for _, want := range []string{
		"<svg", "</svg>", "<path d=\"M ", "<rect", "Fever &gt; 39?", ">yes</text>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG output missing %q", want)
		}
	}
	if strings.Count(out, "<rect") != 2 {
		t.Errorf("expected one rect per node, got %d", strings.Count(out, "<rect"))
	}
}
