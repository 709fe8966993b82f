// Package snapshot encodes and decodes the authoritative diagram snapshot
// exchanged with the surrounding application. Refreshes arrive on every
// poll, so decoding uses sonic rather than the standard JSON package.
package snapshot

import (
	"fmt"

	"github.com/bytedance/sonic"

	"flowcanvas/core"
)

// Snapshot is the wire form of a full diagram refresh.
type Snapshot struct {
	Nodes       []NodeSnapshot       `json:"nodes"`
	Connections []ConnectionSnapshot `json:"connections"`
}

// NodeSnapshot is the wire form of one node. Dimensions are optional; most
// node types render at their default size.
type NodeSnapshot struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Position   core.Point     `json:"position"`
	Dimensions *core.Size     `json:"dimensions,omitempty"`
	Style      map[string]any `json:"style,omitempty"`
	Label      string         `json:"label,omitempty"`
	Body       string         `json:"body,omitempty"`
}

// ConnectionSnapshot is the wire form of one connection. Handles may be
// absent; routing falls back to default directions.
type ConnectionSnapshot struct {
	ID           string `json:"id"`
	SourceID     string `json:"sourceNodeId"`
	TargetID     string `json:"targetNodeId"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
	Label        string `json:"label,omitempty"`
}

// Decode parses a wire snapshot into a diagram.
func Decode(data []byte) (core.Diagram, error) {
	var snap Snapshot
	if err := sonic.Unmarshal(data, &snap); err != nil {
		return core.Diagram{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap.Diagram(), nil
}

// Encode serializes a diagram into its wire form.
func Encode(d core.Diagram) ([]byte, error) {
	snap := FromDiagram(d)
	data, err := sonic.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Diagram converts the wire snapshot into the core model.
func (s Snapshot) Diagram() core.Diagram {
	d := core.Diagram{
		Nodes:       make([]core.Node, 0, len(s.Nodes)),
		Connections: make([]core.Connection, 0, len(s.Connections)),
	}
	for _, n := range s.Nodes {
		node := core.Node{
			ID:       n.ID,
			Type:     core.NodeType(n.Type),
			Position: n.Position,
			Style:    n.Style,
			Label:    n.Label,
			Body:     n.Body,
		}
		if n.Dimensions != nil {
			node.SetDimensions(*n.Dimensions)
		}
		d.Nodes = append(d.Nodes, node)
	}
	for _, c := range s.Connections {
		d.Connections = append(d.Connections, core.Connection{
			ID:           c.ID,
			SourceID:     c.SourceID,
			TargetID:     c.TargetID,
			SourceHandle: c.SourceHandle,
			TargetHandle: c.TargetHandle,
			Label:        c.Label,
		})
	}
	return d
}

// FromDiagram converts the core model into its wire form.
func FromDiagram(d core.Diagram) Snapshot {
	snap := Snapshot{
		Nodes:       make([]NodeSnapshot, 0, len(d.Nodes)),
		Connections: make([]ConnectionSnapshot, 0, len(d.Connections)),
	}
	for _, n := range d.Nodes {
		snap.Nodes = append(snap.Nodes, NodeSnapshot{
			ID:         n.ID,
			Type:       string(n.Type),
			Position:   n.Position,
			Dimensions: n.Dimensions,
			Style:      n.Style,
			Label:      n.Label,
			Body:       n.Body,
		})
	}
	for _, c := range d.Connections {
		snap.Connections = append(snap.Connections, ConnectionSnapshot{
			ID:           c.ID,
			SourceID:     c.SourceID,
			TargetID:     c.TargetID,
			SourceHandle: c.SourceHandle,
			TargetHandle: c.TargetHandle,
			Label:        c.Label,
		})
	}
	return snap
}
