// Package terminal provides a read-only tcell preview of a routed diagram:
// nodes as bordered boxes, edges as line runes, arrow keys to pan.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"flowcanvas/core"
	"flowcanvas/route"
)

// Diagram coordinates are pixels; terminal cells are coarser and taller
// than wide, so the preview scales them down independently per axis.
const (
	cellWidth  = 10.0
	cellHeight = 20.0
)

// Viewer displays a diagram on a tcell screen.
type Viewer struct {
	diagram *core.Diagram
	routes  map[string]route.Route
	panX    int
	panY    int
}

// NewViewer creates a viewer over an already-routed diagram.
func NewViewer(d *core.Diagram, routes map[string]route.Route) *Viewer {
	return &Viewer{diagram: d, routes: routes}
}

// Run owns the screen until the user quits with q, Esc or Ctrl-C.
func (v *Viewer) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	for {
		v.draw(screen)
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return nil
			case tcell.KeyUp:
				v.panY--
			case tcell.KeyDown:
				v.panY++
			case tcell.KeyLeft:
				v.panX--
			case tcell.KeyRight:
				v.panX++
			case tcell.KeyRune:
				if ev.Rune() == 'q' {
					return nil
				}
			}
		}
	}
}

func (v *Viewer) draw(screen tcell.Screen) {
	screen.Clear()
	edgeStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	boxStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	labelStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for _, r := range v.routes {
		v.drawRoute(screen, r, edgeStyle)
	}
	for i := range v.diagram.Nodes {
		v.drawNode(screen, &v.diagram.Nodes[i], boxStyle, labelStyle)
	}
	v.drawStatus(screen)
	screen.Show()
}

func (v *Viewer) toCell(p core.Point) (int, int) {
	return int(p.X/cellWidth) - v.panX, int(p.Y/cellHeight) - v.panY
}

func (v *Viewer) drawNode(screen tcell.Screen, n *core.Node, box, label tcell.Style) {
	b := n.Bounds()
	x0, y0 := v.toCell(core.Point{X: b.X, Y: b.Y})
	x1, y1 := v.toCell(core.Point{X: b.MaxX(), Y: b.MaxY()})
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	for x := x0; x <= x1; x++ {
		screen.SetContent(x, y0, tcell.RuneHLine, nil, box)
		screen.SetContent(x, y1, tcell.RuneHLine, nil, box)
	}
	for y := y0; y <= y1; y++ {
		screen.SetContent(x0, y, tcell.RuneVLine, nil, box)
		screen.SetContent(x1, y, tcell.RuneVLine, nil, box)
	}
	screen.SetContent(x0, y0, tcell.RuneULCorner, nil, box)
	screen.SetContent(x1, y0, tcell.RuneURCorner, nil, box)
	screen.SetContent(x0, y1, tcell.RuneLLCorner, nil, box)
	screen.SetContent(x1, y1, tcell.RuneLRCorner, nil, box)

	text := n.Label
	if text == "" {
		text = n.Type.DisplayName()
	}
	drawText(screen, x0+1, (y0+y1)/2, label, text, x1-x0-1)
}

// drawText renders text left to right from column x, advancing by display
// width so wide runes occupy two cells. maxWidth caps the rendered width;
// zero or negative means unbounded.
func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string, maxWidth int) {
	col := x
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if maxWidth > 0 && col+w > x+maxWidth {
			return
		}
		screen.SetContent(col, y, r, nil, style)
		col += w
	}
}

func (v *Viewer) drawRoute(screen tcell.Screen, r route.Route, style tcell.Style) {
	for i := 0; i < len(r.Points)-1; i++ {
		ax, ay := v.toCell(r.Points[i])
		bx, by := v.toCell(r.Points[i+1])
		if ay == by {
			for x := minInt(ax, bx); x <= maxInt(ax, bx); x++ {
				screen.SetContent(x, ay, tcell.RuneHLine, nil, style)
			}
		} else {
			for y := minInt(ay, by); y <= maxInt(ay, by); y++ {
				screen.SetContent(ax, y, tcell.RuneVLine, nil, style)
			}
		}
	}
}

func (v *Viewer) drawStatus(screen tcell.Screen) {
	_, h := screen.Size()
	msg := fmt.Sprintf("pan %d,%d  arrows: pan  q: quit", v.panX, v.panY)
	drawText(screen, 0, h-1, tcell.StyleDefault.Foreground(tcell.ColorTeal), msg, 0)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
