// Package export renders a routed diagram to SVG or PNG. Exporters consume
// routes already computed by the route package; no routing happens here.
package export

import (
	"fmt"
	"io"
	"strings"

	"flowcanvas/core"
	"flowcanvas/route"
)

// Margin added around the diagram's bounding box in exported output.
const exportMargin = 40.0

// fill colors per node type.
var nodeFill = map[core.NodeType]string{
	core.NodeDecision:    "#dbeafe",
	core.NodeInstruction: "#dcfce7",
	core.NodeOutcome:     "#fee2e2",
	core.NodePanel:       "#f3f4f6",
	core.NodeReference:   "#fef9c3",
}

// SVG writes the diagram with its routed edges as an SVG document.
func SVG(w io.Writer, d *core.Diagram, routes map[string]route.Route) error {
	minX, minY, width, height := contentBox(d, routes)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f">`+"\n",
		minX, minY, width, height)

	for _, conn := range d.Connections {
		r, ok := routes[conn.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, `  <path d="%s" fill="none" stroke="#64748b" stroke-width="2"/>`+"\n", r.Path)
		if conn.Label != "" {
			fmt.Fprintf(&b, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-size="12" fill="#334155">%s</text>`+"\n",
				r.Label.X, r.Label.Y-4, escapeText(conn.Label))
		}
	}

	for i := range d.Nodes {
		n := &d.Nodes[i]
		bounds := n.Bounds()
		fill, ok := nodeFill[n.Type]
		if !ok {
			fill = "#ffffff"
		}
		fmt.Fprintf(&b, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s" stroke="#475569"/>`+"\n",
			bounds.X, bounds.Y, bounds.W, bounds.H, fill)
		label := n.Label
		if label == "" {
			label = n.Type.DisplayName()
		}
		center := bounds.Center()
		fmt.Fprintf(&b, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-size="14" fill="#0f172a">%s</text>`+"\n",
			center.X, center.Y+5, escapeText(label))
	}

	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// contentBox returns the bounding box around every node and route, with the
// export margin applied.
func contentBox(d *core.Diagram, routes map[string]route.Route) (minX, minY, width, height float64) {
	minX, minY = 0, 0
	maxX, maxY := 800.0, 600.0
	first := true
	grow := func(x, y float64) {
		if first {
			minX, maxX, minY, maxY = x, x, y, y
			first = false
			return
		}
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	for i := range d.Nodes {
		b := d.Nodes[i].Bounds()
		grow(b.X, b.Y)
		grow(b.MaxX(), b.MaxY())
	}
	for _, r := range routes {
		for _, p := range r.Points {
			grow(p.X, p.Y)
		}
	}
	minX -= exportMargin
	minY -= exportMargin
	return minX, minY, maxX - minX + 2*exportMargin, maxY - minY + 2*exportMargin
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
