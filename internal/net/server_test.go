package net

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/anchor-btc/anchor-os-sub000/internal/state"
)

func dialHost(t *testing.T, h *BoardHost) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSnapshotRequestReturnsFullMap(t *testing.T) {
	h := NewBoardHost(32, 32)
	h.Apply(state.CommitBatch{ID: "seed", Pixels: []state.Pixel{
		state.NewPixel(1, 1, state.RGB{R: 7}),
	}})

	conn := dialHost(t, h)
	if err := conn.WriteJSON(Message{Type: MsgSnapshotRequest}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != MsgSnapshot {
		t.Fatalf("reply type = %q, want %q", msg.Type, MsgSnapshot)
	}
	p, ok := msg.Pixels["1,1"]
	if !ok || p.R != 7 {
		t.Errorf("snapshot missing seeded pixel, got %+v", msg.Pixels)
	}
}

func TestSubmitMergesLastWriteWinsAndAnswersWithSnapshot(t *testing.T) {
	h := NewBoardHost(32, 32)
	conn := dialHost(t, h)

	batch := state.CommitBatch{ID: "b1", Pixels: []state.Pixel{
		state.NewPixel(2, 2, state.RGB{R: 1}),
		state.NewPixel(2, 2, state.RGB{G: 1}),   // same cell, later write wins
		state.NewPixel(99, 99, state.RGB{B: 1}), // out of bounds, dropped
	}}
	if err := conn.WriteJSON(Message{Type: MsgSubmit, Batch: &batch}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != MsgSnapshot {
		t.Fatalf("submit reply type = %q, want a fresh snapshot", msg.Type)
	}
	if len(msg.Pixels) != 1 {
		t.Fatalf("snapshot has %d pixels, want 1", len(msg.Pixels))
	}
	if p := msg.Pixels["2,2"]; p.G != 1 || p.R != 0 {
		t.Errorf("cell (2,2) = %+v, want the later write", p)
	}
}

func TestSubmitBroadcastsToOtherClients(t *testing.T) {
	h := NewBoardHost(32, 32)
	watcher := dialHost(t, h)
	submitter := dialHost(t, h)

	// A snapshot roundtrip guarantees the watcher is registered before the
	// submit lands.
	if err := watcher.WriteJSON(Message{Type: MsgSnapshotRequest}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var prime Message
	if err := watcher.ReadJSON(&prime); err != nil {
		t.Fatalf("read: %v", err)
	}

	batch := state.CommitBatch{ID: "b2", Pixels: []state.Pixel{
		state.NewPixel(4, 4, state.RGB{R: 9}),
	}}
	if err := submitter.WriteJSON(Message{Type: MsgSubmit, Batch: &batch}); err != nil {
		t.Fatalf("write: %v", err)
	}

	// The watcher never asked for anything; the submit alone must push a
	// snapshot to it.
	watcher.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := watcher.ReadJSON(&msg); err != nil {
		t.Fatalf("watcher got no snapshot after another client's submit: %v", err)
	}
	if msg.Type != MsgSnapshot {
		t.Fatalf("broadcast type = %q, want %q", msg.Type, MsgSnapshot)
	}
	if p, ok := msg.Pixels["4,4"]; !ok || p.R != 9 {
		t.Errorf("broadcast snapshot = %+v, want the submitted pixel at 4,4", msg.Pixels)
	}

	// The submitter hears the same broadcast.
	submitter.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := submitter.ReadJSON(&msg); err != nil {
		t.Fatalf("submitter got no snapshot back: %v", err)
	}
	if msg.Type != MsgSnapshot {
		t.Errorf("submitter reply type = %q, want %q", msg.Type, MsgSnapshot)
	}
}

func TestClientPollDeliversSnapshot(t *testing.T) {
	h := NewBoardHost(16, 16)
	h.Apply(state.CommitBatch{ID: "seed", Pixels: []state.Pixel{
		state.NewPixel(3, 4, state.RGB{B: 5}),
	}})
	srv := httptest.NewServer(h)
	defer srv.Close()

	c := NewClient(strings.TrimPrefix(srv.URL, "http://"), time.Hour)
	got := make(chan map[string]state.Pixel, 1)
	c.OnSnapshot = func(pixels map[string]state.Pixel) {
		select {
		case got <- pixels:
		default:
		}
	}

	c.poll()
	defer c.dropConn()

	select {
	case pixels := <-got:
		if p, ok := pixels["3,4"]; !ok || p.B != 5 {
			t.Errorf("snapshot = %+v, want seeded pixel at 3,4", pixels)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered within 2s")
	}
}

func TestClientPollFailureIsRecoverable(t *testing.T) {
	c := NewClient("127.0.0.1:1", time.Hour) // nothing listening
	errs := make(chan error, 1)
	c.OnError = func(err error) {
		select {
		case errs <- err:
		default:
		}
	}

	c.poll()

	select {
	case <-errs:
	case <-time.After(2 * time.Second):
		t.Fatal("failed poll did not surface an error")
	}

	// The failure must not have left a half-open connection behind.
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		t.Error("connection left dangling after a failed dial")
	}
}
