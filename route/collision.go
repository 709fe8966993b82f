package route

import "flowcanvas/core"

// Segment is one axis-aligned piece of a candidate path. Segments are
// horizontal or vertical by construction, never diagonal.
type Segment struct {
	A, B core.Point
}

// HitsRect tests the segment against a rectangle with inclusive bounds: the
// fixed coordinate must fall within the rectangle's span on its axis and the
// variable range must overlap the span on the other axis.
func (s Segment) HitsRect(r core.Rect) bool {
	if s.A.Y == s.B.Y {
		// Horizontal: fixed Y, variable X.
		if s.A.Y < r.Y || s.A.Y > r.MaxY() {
			return false
		}
		lo, hi := ordered(s.A.X, s.B.X)
		return hi >= r.X && lo <= r.MaxX()
	}
	// Vertical: fixed X, variable Y.
	if s.A.X < r.X || s.A.X > r.MaxX() {
		return false
	}
	lo, hi := ordered(s.A.Y, s.B.Y)
	return hi >= r.Y && lo <= r.MaxY()
}

func ordered(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}

// pathCollides tests every segment of a candidate against the index. The
// segment adjacent to the source endpoint ignores the source node's own
// rectangle, and the segment adjacent to the target endpoint ignores the
// target's, so an edge never self-collides with the nodes it connects.
func pathCollides(points []core.Point, ix *ObstacleIndex, sourceID, targetID string) bool {
	for i := 0; i < len(points)-1; i++ {
		exclude := map[string]bool{}
		if i == 0 {
			exclude[sourceID] = true
		}
		if i == len(points)-2 {
			exclude[targetID] = true
		}
		if ix.SegmentHits(Segment{A: points[i], B: points[i+1]}, exclude) {
			return true
		}
	}
	return false
}

// manhattanLength sums |dx| + |dy| across consecutive points.
func manhattanLength(points []core.Point) float64 {
	var total float64
	for i := 0; i < len(points)-1; i++ {
		total += points[i].ManhattanDistanceTo(points[i+1])
	}
	return total
}
