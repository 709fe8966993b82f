package route

import (
	"strconv"
	"strings"

	"flowcanvas/core"
)

// SerializePath renders an ordered, duplicate-free point list as a drawable
// path description: move to the first point, then line to each subsequent
// point.
func SerializePath(points []core.Point) string {
	if len(points) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, points[0])
	for _, p := range points[1:] {
		b.WriteString(" L ")
		writePoint(&b, p)
	}
	return b.String()
}

func writePoint(b *strings.Builder, p core.Point) {
	b.WriteString(formatCoord(p.X))
	b.WriteByte(' ')
	b.WriteString(formatCoord(p.Y))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
