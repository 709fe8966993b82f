package terminal

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"flowcanvas/core"
)

func simScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	return screen
}

func runeAt(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func TestDrawNodePlacesRunesByDisplayColumn(t *testing.T) {
	screen := simScreen(t)
	// An instruction box at the origin spans cells (0,0)-(20,5); the label
	// row is 2 and label columns start at 1.
	n := core.Node{ID: "a", Type: core.NodeInstruction, Label: "triage général"}
	v := NewViewer(&core.Diagram{Nodes: []core.Node{n}}, nil)

	v.drawNode(screen, &n, tcell.StyleDefault, tcell.StyleDefault)
	screen.Show()

	if got := runeAt(screen, 1, 2); got != 't' {
		t.Errorf("column 1 = %q, want 't'", got)
	}
	// Multi-byte runes advance one column, not one per byte.
	if got := runeAt(screen, 9, 2); got != 'é' {
		t.Errorf("column 9 = %q, want 'é'", got)
	}
	if got := runeAt(screen, 14, 2); got != 'l' {
		t.Errorf("column 14 = %q, want 'l'", got)
	}
}

func TestDrawNodeWideRunes(t *testing.T) {
	screen := simScreen(t)
	n := core.Node{ID: "a", Type: core.NodeInstruction, Label: "状態確認"}
	v := NewViewer(&core.Diagram{Nodes: []core.Node{n}}, nil)

	v.drawNode(screen, &n, tcell.StyleDefault, tcell.StyleDefault)
	screen.Show()

	// Double-width runes occupy two columns each.
	if got := runeAt(screen, 1, 2); got != '状' {
		t.Errorf("column 1 = %q, want '状'", got)
	}
	if got := runeAt(screen, 3, 2); got != '態' {
		t.Errorf("column 3 = %q, want '態'", got)
	}
}

func TestDrawNodeTruncatesAtBorder(t *testing.T) {
	screen := simScreen(t)
	n := core.Node{ID: "a", Type: core.NodeInstruction, Label: "状態確認状態確認状態確認"}
	v := NewViewer(&core.Diagram{Nodes: []core.Node{n}}, nil)

	v.drawNode(screen, &n, tcell.StyleDefault, tcell.StyleDefault)
	screen.Show()

	// Interior width is 19 columns, so a wide rune never starts past
	// column 18 and the right border rune survives.
	if got := runeAt(screen, 19, 2); got != ' ' {
		t.Errorf("column 19 = %q, want blank", got)
	}
	if got := runeAt(screen, 20, 2); got != tcell.RuneVLine {
		t.Errorf("column 20 = %q, want the box border", got)
	}
}
