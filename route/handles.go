// Package route computes orthogonal connector paths between diagram nodes.
// All routing is synchronous and pure: it reads node geometry and produces
// point lists, with no side effects.
package route

import (
	"strings"

	"flowcanvas/core"
)

// ResolveDirection maps a handle token to the cardinal direction of the node
// side it sits on. Matching is by directional suffix, so both source and
// target tokens resolve the same way. Empty or unrecognized tokens resolve
// to fallback.
func ResolveDirection(handle string, fallback core.Direction) core.Direction {
	switch {
	case strings.HasSuffix(handle, "-top"):
		return core.Top
	case strings.HasSuffix(handle, "-bottom"):
		return core.Bottom
	case strings.HasSuffix(handle, "-left"):
		return core.Left
	case strings.HasSuffix(handle, "-right"):
		return core.Right
	default:
		return fallback
	}
}

// AnchorPoint returns the point on the node perimeter where a handle on the
// given side attaches: the middle of that side.
func AnchorPoint(n *core.Node, dir core.Direction) core.Point {
	b := n.Bounds()
	switch dir {
	case core.Top:
		return core.Point{X: b.X + b.W/2, Y: b.Y}
	case core.Bottom:
		return core.Point{X: b.X + b.W/2, Y: b.MaxY()}
	case core.Left:
		return core.Point{X: b.X, Y: b.Y + b.H/2}
	default:
		return core.Point{X: b.MaxX(), Y: b.Y + b.H/2}
	}
}

// StandoffPoint returns the anchor offset outward along dir by dist. For a
// source handle this is the exit point, for a target handle the approach
// point.
func StandoffPoint(anchor core.Point, dir core.Direction, dist float64) core.Point {
	switch dir {
	case core.Top:
		return anchor.Offset(0, -dist)
	case core.Bottom:
		return anchor.Offset(0, dist)
	case core.Left:
		return anchor.Offset(-dist, 0)
	default:
		return anchor.Offset(dist, 0)
	}
}
