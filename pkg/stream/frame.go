// Package stream fans layout frames out to consumers: an in-process
// bus for the TUI and API, and optional socket publishers for remote
// renderers.
package stream

import (
	"github.com/dd0wney/keygraph/pkg/layout"
)

// Frame is one layout update on the wire
type Frame struct {
	SessionID string      `json:"session_id"`
	Sequence  uint64      `json:"sequence"`
	Phase     string      `json:"phase"`
	Alpha     float64     `json:"alpha"`
	Tick      int         `json:"tick"`
	Variant   string      `json:"variant"`
	Nodes     []FrameNode `json:"nodes"`
}

// FrameNode is the per-node payload of a frame
type FrameNode struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Community int     `json:"community"`
	Radius    float64 `json:"radius"`
	Pinned    bool    `json:"pinned,omitempty"`
}

// FromSnapshot converts a layout snapshot into a frame
func FromSnapshot(sessionID string, sequence uint64, snap layout.Snapshot) Frame {
	nodes := make([]FrameNode, len(snap.Nodes))
	for i, n := range snap.Nodes {
		nodes[i] = FrameNode{
			ID:        n.ID,
			X:         n.X,
			Y:         n.Y,
			Community: n.Community,
			Radius:    n.Radius,
			Pinned:    n.Pinned,
		}
	}
	return Frame{
		SessionID: sessionID,
		Sequence:  sequence,
		Phase:     snap.Phase,
		Alpha:     snap.Alpha,
		Tick:      snap.Tick,
		Variant:   snap.Variant,
		Nodes:     nodes,
	}
}
