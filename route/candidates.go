package route

import "flowcanvas/core"

// appendPoint appends p unless it equals the previous point, so candidate
// paths never carry duplicate consecutive points.
func appendPoint(pts []core.Point, p core.Point) []core.Point {
	if len(pts) > 0 && pts[len(pts)-1] == p {
		return pts
	}
	return append(pts, p)
}

// appendPoints appends each point in order with duplicate suppression.
func appendPoints(pts []core.Point, more ...core.Point) []core.Point {
	for _, p := range more {
		pts = appendPoint(pts, p)
	}
	return pts
}

// elbowHV proposes the horizontal-then-vertical candidate: bend at
// (to.X, from.Y).
func elbowHV(from, to core.Point) []core.Point {
	return appendPoints(nil, from, core.Point{X: to.X, Y: from.Y}, to)
}

// elbowVH proposes the vertical-then-horizontal candidate: bend at
// (from.X, to.Y).
func elbowVH(from, to core.Point) []core.Point {
	return appendPoints(nil, from, core.Point{X: from.X, Y: to.Y}, to)
}

// escapeElbows proposes the fallback candidates used when both direct
// elbows collide: push further from the source along its exit direction,
// then elbow from the escape point.
func escapeElbows(anchor, approach core.Point, exitDir core.Direction, exit core.Point, escape float64) [][]core.Point {
	escapePoint := StandoffPoint(anchor, exitDir, escape)
	hv := appendPoints(nil, exit, escapePoint)
	hv = appendPoints(hv, elbowHV(escapePoint, approach)[1:]...)
	vh := appendPoints(nil, exit, escapePoint)
	vh = appendPoints(vh, elbowVH(escapePoint, approach)[1:]...)
	return [][]core.Point{hv, vh}
}
