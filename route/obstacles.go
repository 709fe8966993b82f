package route

import "flowcanvas/core"

// ObstacleIndex holds one padded rectangle per node, used only during route
// computation. Rectangles are derived from current node bounds and never
// persisted.
type ObstacleIndex struct {
	rects []obstacleRect
}

type obstacleRect struct {
	id   string
	rect core.Rect
}

// BuildObstacleIndex builds the index over every node on the diagram,
// expanding each bounding box by padding.
func BuildObstacleIndex(nodes []core.Node, padding float64) *ObstacleIndex {
	ix := &ObstacleIndex{rects: make([]obstacleRect, 0, len(nodes))}
	for i := range nodes {
		ix.rects = append(ix.rects, obstacleRect{
			id:   nodes[i].ID,
			rect: nodes[i].Bounds().Expand(padding),
		})
	}
	return ix
}

// SegmentHits reports whether the segment crosses any obstacle whose node id
// is not in exclude.
func (ix *ObstacleIndex) SegmentHits(seg Segment, exclude map[string]bool) bool {
	for _, o := range ix.rects {
		if exclude[o.id] {
			continue
		}
		if seg.HitsRect(o.rect) {
			return true
		}
	}
	return false
}
