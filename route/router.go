package route

import (
	"fmt"

	"github.com/rs/zerolog"

	"flowcanvas/core"
)

// Options holds the routing distances, all in diagram units.
type Options struct {
	Standoff float64 // exit/approach distance from a handle anchor
	Padding  float64 // obstacle expansion around node bounds
	Escape   float64 // escape-routing distance from the source anchor
}

// DefaultOptions returns the standard routing distances.
func DefaultOptions() Options {
	return Options{Standoff: 24, Padding: 16, Escape: 80}
}

// Route is a fully computed connector path.
type Route struct {
	Points []core.Point // ordered, no duplicate consecutive points
	Path   string       // serialized path description
	Label  core.Point   // label overlay anchor in diagram coordinates
}

// Router computes orthogonal routes for diagram connections.
type Router struct {
	opts Options
	log  zerolog.Logger
}

// NewRouter creates a router with the given options and a disabled logger.
func NewRouter(opts Options) *Router {
	return &Router{opts: opts, log: zerolog.Nop()}
}

// SetLogger sets the logger used for per-edge trace output.
func (r *Router) SetLogger(log zerolog.Logger) {
	r.log = log
}

// RouteConnection computes the path for one connection against the current
// node geometry. Routing never fails for resolvable endpoints: when no
// collision-free candidate exists the best available path is returned, since
// visual overlap is preferable to a missing edge.
func (r *Router) RouteConnection(conn core.Connection, d *core.Diagram) (Route, error) {
	src := d.NodeByID(conn.SourceID)
	tgt := d.NodeByID(conn.TargetID)
	if src == nil || tgt == nil {
		return Route{}, fmt.Errorf("connection %s: source or target node not found", conn.ID)
	}

	srcDir := ResolveDirection(conn.SourceHandle, core.Bottom)
	tgtDir := ResolveDirection(conn.TargetHandle, core.Top)
	srcAnchor := AnchorPoint(src, srcDir)
	tgtAnchor := AnchorPoint(tgt, tgtDir)

	if shape, ok := matchFixedShape(src, tgt, srcDir, tgtDir, srcAnchor, tgtAnchor); ok {
		r.trace(conn, "fixed shape", shape.points)
		return Route{
			Points: shape.points,
			Path:   SerializePath(shape.points),
			Label:  segmentMidpoint(shape.points, shape.labelSegment),
		}, nil
	}

	exit := StandoffPoint(srcAnchor, srcDir, r.opts.Standoff)
	approach := StandoffPoint(tgtAnchor, tgtDir, r.opts.Standoff)
	ix := BuildObstacleIndex(d.Nodes, r.opts.Padding)

	chosen := r.selectCandidate(ix, conn, srcAnchor, exit, approach, srcDir)

	points := appendPoints(nil, srcAnchor)
	points = appendPoints(points, chosen...)
	points = appendPoints(points, tgtAnchor)
	r.trace(conn, "selected", points)

	return Route{
		Points: points,
		Path:   SerializePath(points),
		Label:  LabelAnchor(points),
	}, nil
}

// candidate pairs the emitted point list with the sub-path evaluated for
// collisions. For escape candidates the exit-to-escape stub runs through the
// source's own congested corridor and is exempt from testing; escaping past
// an obstacle that sits on the exit corridor would otherwise be impossible.
type candidate struct {
	points []core.Point
	tested []core.Point
}

func directCandidate(points []core.Point) candidate {
	return candidate{points: points, tested: points}
}

func escapeCandidate(points []core.Point) candidate {
	return candidate{points: points, tested: points[1:]}
}

// selectCandidate applies the selection policy: prefer a collision-free
// direct elbow, shortest Manhattan length breaking ties toward
// horizontal-first; when both direct elbows collide, retry over the escape
// candidates; when everything collides, fall back to horizontal-first.
func (r *Router) selectCandidate(ix *ObstacleIndex, conn core.Connection, srcAnchor, exit, approach core.Point, srcDir core.Direction) []core.Point {
	hv := elbowHV(exit, approach)
	vh := elbowVH(exit, approach)
	if pick, ok := pickClear(ix, conn, directCandidate(hv), directCandidate(vh)); ok {
		return pick
	}
	r.trace(conn, "direct elbows collide, escaping", nil)

	escapes := escapeElbows(srcAnchor, approach, srcDir, exit, r.opts.Escape)
	if pick, ok := pickClear(ix, conn, escapeCandidate(escapes[0]), escapeCandidate(escapes[1])); ok {
		return pick
	}
	r.trace(conn, "escape candidates collide, falling back", hv)
	return hv
}

// pickClear chooses between a horizontal-first and vertical-first candidate
// pair. Reports false when both collide.
func pickClear(ix *ObstacleIndex, conn core.Connection, hv, vh candidate) ([]core.Point, bool) {
	hvClear := !pathCollides(hv.tested, ix, conn.SourceID, conn.TargetID)
	vhClear := !pathCollides(vh.tested, ix, conn.SourceID, conn.TargetID)
	switch {
	case hvClear && vhClear:
		if manhattanLength(vh.points) < manhattanLength(hv.points) {
			return vh.points, true
		}
		return hv.points, true
	case hvClear:
		return hv.points, true
	case vhClear:
		return vh.points, true
	default:
		return nil, false
	}
}

// RouteAll routes every connection on the diagram, skipping connections
// whose endpoints are missing.
func (r *Router) RouteAll(d *core.Diagram) map[string]Route {
	routes := make(map[string]Route, len(d.Connections))
	for _, conn := range d.Connections {
		route, err := r.RouteConnection(conn, d)
		if err != nil {
			continue
		}
		routes[conn.ID] = route
	}
	return routes
}
