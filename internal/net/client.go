package net

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/anchor-btc/anchor-os-sub000/internal/state"
)

// Client polls a board host for full snapshots and submits commit batches.
// Snapshot delivery is asynchronous: the poll ticker and the websocket reader
// run on their own goroutines and report through the On* callbacks, so the
// UI thread never blocks on the network. While a poll is in flight (or
// failing) the previous snapshot stays authoritative on the caller's side.
type Client struct {
	ID       string
	url      string
	interval time.Duration

	mu   sync.Mutex
	conn *websocket.Conn

	OnSnapshot func(map[string]state.Pixel)
	OnError    func(error)
	OnStatus   func(string)
}

// NewClient builds a client for a host address ("10.0.0.5:8899"). No I/O
// happens until Run.
func NewClient(addr string, interval time.Duration) *Client {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Client{
		ID:       uuid.NewString(),
		url:      fmt.Sprintf("ws://%s/ws", addr),
		interval: interval,
	}
}

// Run polls until the context is cancelled. The first poll fires immediately.
// A failed poll surfaces through OnError and the client simply tries again on
// the next tick; there is no other retry.
func (c *Client) Run(ctx context.Context) {
	log.Printf("[CLIENT] %s polling %s every %s", c.ID, c.url, c.interval)
	c.poll()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.dropConn()
			return
		case <-ticker.C:
			c.poll()
		}
	}
}

// Submit sends a commit batch to the host. The host answers with a fresh
// snapshot on the same connection, which arrives via OnSnapshot.
func (c *Client) Submit(batch state.CommitBatch) error {
	if err := c.send(Message{Type: MsgSubmit, Batch: &batch}); err != nil {
		c.dropConn()
		c.fail(fmt.Errorf("submit batch %s: %w", batch.ID, err))
		return err
	}
	c.status(fmt.Sprintf("Submitted %d pixel(s)", len(batch.Pixels)))
	return nil
}

func (c *Client) poll() {
	if err := c.send(Message{Type: MsgSnapshotRequest}); err != nil {
		c.dropConn()
		c.fail(fmt.Errorf("snapshot poll: %w", err))
	}
}

// send writes one message, dialing first if needed.
func (c *Client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
		if err != nil {
			return fmt.Errorf("dial %s: %w", c.url, err)
		}
		c.conn = conn
		go c.readLoop(conn)
		c.status("Connected to host")
	}
	return c.conn.WriteJSON(msg)
}

// readLoop delivers host messages until the connection dies. The next poll
// tick redials.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			c.mu.Lock()
			if c.conn == conn {
				c.conn = nil
			}
			c.mu.Unlock()
			c.fail(fmt.Errorf("connection lost: %w", err))
			return
		}

		switch msg.Type {
		case MsgSnapshot:
			if c.OnSnapshot != nil {
				c.OnSnapshot(msg.Pixels)
			}
		default:
			log.Printf("[CLIENT] Ignoring message type %q", msg.Type)
		}
	}
}

func (c *Client) dropConn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) fail(err error) {
	log.Printf("[CLIENT] %v", err)
	if c.OnError != nil {
		c.OnError(err)
	}
}

func (c *Client) status(msg string) {
	if c.OnStatus != nil {
		c.OnStatus(msg)
	}
}
