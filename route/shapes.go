package route

import (
	"math"

	"flowcanvas/core"
)

// Fixed route shapes for specific node-type/handle combinations. These are
// domain conventions for visual predictability: when a rule matches, the
// shape is used as-is and the collision search is bypassed entirely.

type fixedShape struct {
	points []core.Point
	// labelSegment indexes the designated horizontal segment whose midpoint
	// anchors the edge label.
	labelSegment int
}

// matchFixedShape returns the fixed shape for the given endpoints, if one of
// the enumerated rules applies.
func matchFixedShape(src, tgt *core.Node, srcDir, tgtDir core.Direction, srcAnchor, tgtAnchor core.Point) (fixedShape, bool) {
	// A decision node's side handle feeding an instruction node's top handle
	// always lays out horizontal-then-vertical.
	if src.Type == core.NodeDecision && srcDir.Horizontal() &&
		tgt.Type == core.NodeInstruction && tgtDir == core.Top {
		pts := appendPoints(nil,
			srcAnchor,
			core.Point{X: tgtAnchor.X, Y: srcAnchor.Y},
			tgtAnchor,
		)
		return fixedShape{points: pts, labelSegment: 0}, true
	}

	// A bottom handle feeding a top handle drops vertically to the lower of
	// the two anchor Y-coordinates, then aligns horizontally.
	if srcDir == core.Bottom && tgtDir == core.Top {
		dropY := math.Max(srcAnchor.Y, tgtAnchor.Y)
		pts := appendPoints(nil,
			srcAnchor,
			core.Point{X: srcAnchor.X, Y: dropY},
			core.Point{X: tgtAnchor.X, Y: dropY},
			tgtAnchor,
		)
		return fixedShape{points: pts, labelSegment: horizontalSegment(pts)}, true
	}

	return fixedShape{}, false
}

// horizontalSegment returns the index of the first horizontal segment with
// nonzero length, or 0 when the path has none.
func horizontalSegment(pts []core.Point) int {
	for i := 0; i < len(pts)-1; i++ {
		if pts[i].Y == pts[i+1].Y && pts[i].X != pts[i+1].X {
			return i
		}
	}
	return 0
}
