package export

import (
	"github.com/fogleman/gg"

	"flowcanvas/core"
	"flowcanvas/route"
)

// PNG rasterizes the diagram with its routed edges to a PNG file.
func PNG(path string, d *core.Diagram, routes map[string]route.Route) error {
	minX, minY, width, height := contentBox(d, routes)

	dc := gg.NewContext(int(width), int(height))
	dc.SetHexColor("#ffffff")
	dc.Clear()
	dc.Translate(-minX, -minY)

	dc.SetHexColor("#64748b")
	dc.SetLineWidth(2)
	for _, conn := range d.Connections {
		r, ok := routes[conn.ID]
		if !ok || len(r.Points) == 0 {
			continue
		}
		dc.MoveTo(r.Points[0].X, r.Points[0].Y)
		for _, p := range r.Points[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.Stroke()
	}

	for i := range d.Nodes {
		n := &d.Nodes[i]
		b := n.Bounds()
		fill, ok := nodeFill[n.Type]
		if !ok {
			fill = "#ffffff"
		}
		dc.SetHexColor(fill)
		dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, 6)
		dc.FillPreserve()
		dc.SetHexColor("#475569")
		dc.SetLineWidth(1)
		dc.Stroke()

		label := n.Label
		if label == "" {
			label = n.Type.DisplayName()
		}
		center := b.Center()
		dc.SetHexColor("#0f172a")
		dc.DrawStringAnchored(label, center.X, center.Y, 0.5, 0.5)
	}

	dc.SetHexColor("#334155")
	for _, conn := range d.Connections {
		r, ok := routes[conn.ID]
		if !ok || conn.Label == "" {
			continue
		}
		dc.DrawStringAnchored(conn.Label, r.Label.X, r.Label.Y-6, 0.5, 0.5)
	}

	return dc.SavePNG(path)
}
