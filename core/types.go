// Package core contains the fundamental types shared by the flowcanvas
// routing and session packages.
package core

import "math"

// Point represents a 2D coordinate in diagram space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Offset returns the point translated by dx, dy.
func (p Point) Offset(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// ManhattanDistanceTo returns |dx| + |dy| between two points.
func (p Point) ManhattanDistanceTo(q Point) float64 {
	return math.Abs(p.X-q.X) + math.Abs(p.Y-q.Y)
}

// Direction represents a cardinal direction on a node's perimeter.
type Direction int

const (
	Top Direction = iota
	Bottom
	Left
	Right
)

// String returns the string representation of a Direction.
func (d Direction) String() string {
	switch d {
	case Top:
		return "Top"
	case Bottom:
		return "Bottom"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return "Unknown"
	}
}

// Opposite returns the opposite direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	case Right:
		return Left
	default:
		return d
	}
}

// Horizontal reports whether the direction points along the X axis.
func (d Direction) Horizontal() bool {
	return d == Left || d == Right
}

// Size represents node dimensions in diagram space.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect represents an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// MaxX returns the rectangle's right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the rectangle's bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains checks if a point is inside the rectangle (inclusive bounds).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() &&
		p.Y >= r.Y && p.Y <= r.MaxY()
}

// Expand returns the rectangle grown by pad on every side.
func (r Rect) Expand(pad float64) Rect {
	return Rect{X: r.X - pad, Y: r.Y - pad, W: r.W + 2*pad, H: r.H + 2*pad}
}

// Intersects checks if two rectangles overlap (inclusive bounds).
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.MaxX() && o.X <= r.MaxX() &&
		r.Y <= o.MaxY() && o.Y <= r.MaxY()
}
