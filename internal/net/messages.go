// Package net carries board state between a host and its clients over
// websocket JSON messages.
package net

import "github.com/anchor-btc/anchor-os-sub000/internal/state"

// Message types.
const (
	MsgSnapshotRequest = "snapshot_request"
	MsgSnapshot        = "snapshot"
	MsgSubmit          = "submit"
)

// Message is the single wire envelope. Type selects which fields are set.
type Message struct {
	Type   string                 `json:"type"`
	Pixels map[string]state.Pixel `json:"pixels,omitempty"`
	Batch  *state.CommitBatch     `json:"batch,omitempty"`
	Error  string                 `json:"error,omitempty"`
}
