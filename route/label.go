package route

import "flowcanvas/core"

// LabelAnchor returns the on-path anchor for an edge label: the midpoint of
// the longest segment. The label itself is rendered as an independent
// overlay at these diagram coordinates, not as part of the path.
func LabelAnchor(points []core.Point) core.Point {
	if len(points) == 0 {
		return core.Point{}
	}
	if len(points) == 1 {
		return points[0]
	}
	longest := 0
	var best float64 = -1
	for i := 0; i < len(points)-1; i++ {
		if l := points[i].ManhattanDistanceTo(points[i+1]); l > best {
			best = l
			longest = i
		}
	}
	return segmentMidpoint(points, longest)
}

// segmentMidpoint returns the midpoint of segment i. Degenerate paths with
// fewer than two points anchor at the sole point, or the origin when empty.
func segmentMidpoint(points []core.Point, i int) core.Point {
	if len(points) == 0 {
		return core.Point{}
	}
	if len(points) == 1 {
		return points[0]
	}
	if i < 0 || i >= len(points)-1 {
		i = 0
	}
	a, b := points[i], points[i+1]
	return core.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
