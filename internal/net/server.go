package net

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/anchor-btc/anchor-os-sub000/internal/state"
)

// BoardHost owns the authoritative pixel map and serves it to websocket
// clients. Submits are merged last-write-wins; every snapshot request gets
// the full current map, never a delta.
type BoardHost struct {
	width  int
	height int

	mu     sync.RWMutex
	pixels map[string]state.Pixel

	connMu   sync.Mutex
	conns    map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

// NewBoardHost creates an empty host for a width x height board.
func NewBoardHost(width, height int) *BoardHost {
	return &BoardHost{
		width:  width,
		height: height,
		pixels: make(map[string]state.Pixel),
		conns:  make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			// LAN tool; any origin on the local network may join.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Snapshot returns a copy of the authoritative pixel map.
func (h *BoardHost) Snapshot() map[string]state.Pixel {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]state.Pixel, len(h.pixels))
	for k, p := range h.pixels {
		out[k] = p
	}
	return out
}

// Apply merges a submitted batch, last write wins per coordinate.
// Out-of-bounds pixels are dropped. Returns how many pixels were applied.
func (h *BoardHost) Apply(batch state.CommitBatch) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	applied := 0
	for _, p := range batch.Pixels {
		if p.X < 0 || p.X >= h.width || p.Y < 0 || p.Y >= h.height {
			continue
		}
		h.pixels[p.Key()] = p
		applied++
	}
	log.Printf("[HOST] Applied batch %s: %d/%d pixel(s)", batch.ID, applied, len(batch.Pixels))
	return applied
}

// ServeHTTP upgrades the request and speaks the board protocol until the
// client disconnects.
func (h *BoardHost) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HOST] Upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	h.addConn(conn)
	defer h.removeConn(conn)
	defer conn.Close()

	addr := conn.RemoteAddr().String()
	log.Printf("[HOST] Client connected from %s", addr)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			log.Printf("[HOST] Client %s disconnected: %v", addr, err)
			return
		}

		switch msg.Type {
		case MsgSnapshotRequest:
			if err := h.writeSnapshot(conn); err != nil {
				log.Printf("[HOST] Snapshot write to %s failed: %v", addr, err)
				return
			}
		case MsgSubmit:
			if msg.Batch != nil {
				h.Apply(*msg.Batch)
				// Push the fresh state to everyone, submitter included, so
				// no client waits out a full poll interval.
				h.broadcastSnapshot()
			}
		default:
			log.Printf("[HOST] Ignoring message type %q from %s", msg.Type, addr)
		}
	}
}

func (h *BoardHost) writeSnapshot(conn *websocket.Conn) error {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return conn.WriteJSON(Message{Type: MsgSnapshot, Pixels: h.Snapshot()})
}

// broadcastSnapshot sends the current state to every connected client.
// Clients that fail the write are dropped; their read loop redials on the
// next poll.
func (h *BoardHost) broadcastSnapshot() {
	msg := Message{Type: MsgSnapshot, Pixels: h.Snapshot()}
	h.connMu.Lock()
	defer h.connMu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("[HOST] Broadcast to %s failed: %v", conn.RemoteAddr(), err)
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

func (h *BoardHost) addConn(conn *websocket.Conn) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.conns[conn] = true
}

func (h *BoardHost) removeConn(conn *websocket.Conn) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	delete(h.conns, conn)
}

// ListenAndServe runs the websocket endpoint on /ws. Blocks until the server
// fails.
func (h *BoardHost) ListenAndServe(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	addr := fmt.Sprintf(":%d", port)
	log.Printf("[HOST] Board server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
