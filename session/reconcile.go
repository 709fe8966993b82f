package session

import "flowcanvas/core"

// ApplySnapshot merges an authoritative refresh into the live diagram
// without clobbering in-flight gestures.
//
// Per incoming node: when an active resize session owns the node, the
// current local dimensions are kept and the incoming ones discarded;
// otherwise the incoming dimensions are adopted. Either way they are
// clamped to the minimum. The local selection flag always survives.
//
// Nodes merely absent from the incoming set are kept: a node the user just
// added optimistically must not vanish because the server snapshot has not
// caught up yet. Removal happens only through an explicit delete action.
//
// Returns true when the refresh changed anything; a refresh that is
// shallow-equal to the rendered state is a no-op.
func (s *Session) ApplySnapshot(incoming core.Diagram) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if shallowEqual(&s.diagram, &incoming) {
		return false
	}

	merged := make([]core.Node, 0, len(incoming.Nodes))
	seen := make(map[string]bool, len(incoming.Nodes))
	for _, in := range incoming.Nodes {
		seen[in.ID] = true
		local := s.diagram.NodeByID(in.ID)
		if local == nil {
			if in.Dimensions != nil {
				in.SetDimensions(*in.Dimensions)
			}
			merged = append(merged, in)
			continue
		}
		in.Selected = local.Selected
		if _, active := s.resizing[in.ID]; active && local.Dimensions != nil {
			local.SetDimensions(*local.Dimensions)
			dim := *local.Dimensions
			in.Dimensions = &dim
		} else if in.Dimensions != nil {
			in.SetDimensions(*in.Dimensions)
		}
		merged = append(merged, in)
	}
	for _, local := range s.diagram.Nodes {
		if !seen[local.ID] {
			merged = append(merged, local)
		}
	}
	s.diagram.Nodes = merged

	mergedConns := make([]core.Connection, 0, len(incoming.Connections))
	seenConns := make(map[string]bool, len(incoming.Connections))
	for _, in := range incoming.Connections {
		seenConns[in.ID] = true
		mergedConns = append(mergedConns, in)
	}
	for _, local := range s.diagram.Connections {
		if !seenConns[local.ID] {
			mergedConns = append(mergedConns, local)
		}
	}
	s.diagram.Connections = mergedConns
	return true
}

// shallowEqual compares the rendered diagram against an incoming snapshot
// on the fields a refresh can meaningfully change: id set and ordering,
// type, position, dimensions, and primary label.
func shallowEqual(local, incoming *core.Diagram) bool {
	if len(local.Nodes) != len(incoming.Nodes) ||
		len(local.Connections) != len(incoming.Connections) {
		return false
	}
	for i := range incoming.Nodes {
		a, b := &local.Nodes[i], &incoming.Nodes[i]
		if a.ID != b.ID || a.Type != b.Type || a.Position != b.Position || a.Label != b.Label {
			return false
		}
		if (a.Dimensions == nil) != (b.Dimensions == nil) {
			return false
		}
		if a.Dimensions != nil && *a.Dimensions != *b.Dimensions {
			return false
		}
	}
	for i := range incoming.Connections {
		if local.Connections[i] != incoming.Connections[i] {
			return false
		}
	}
	return true
}
