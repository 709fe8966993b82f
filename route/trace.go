package route

import (
	"os"

	"flowcanvas/core"
)

// TraceEnv names the environment variable that enables verbose routing
// trace for a single edge id. Tracing only emits log output and never
// affects routing decisions.
const TraceEnv = "FLOWCANVAS_TRACE_EDGE"

func (r *Router) trace(conn core.Connection, stage string, points []core.Point) {
	if os.Getenv(TraceEnv) != conn.ID {
		return
	}
	ev := r.log.Debug().Str("edge", conn.ID).Str("stage", stage)
	if points != nil {
		coords := make([]float64, 0, len(points)*2)
		for _, p := range points {
			coords = append(coords, p.X, p.Y)
		}
		ev = ev.Floats64("polyline", coords)
	}
	ev.Msg("route trace")
}
