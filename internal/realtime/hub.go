// Package realtime carries notification and presence payloads to connected
// clients. The transport is deliberately thin: connections are only accepted
// after the authorization pipeline has admitted the request, and delivery is
// best effort.
package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

// client wraps one websocket connection. The mutex serializes writes:
// gorilla/websocket allows at most one concurrent writer per connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(payload)
}

type Hub struct {
	mu    sync.RWMutex
	conns map[uint][]*client

	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[uint][]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin enforcement happens in the CORS middleware upstream.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve upgrades the request and registers the connection for the user. The
// caller has already authenticated the request; userID comes from the
// resolved session, never from the client.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uint) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	cl := &client{conn: conn}

	h.mu.Lock()
	h.conns[userID] = append(h.conns[userID], cl)
	h.mu.Unlock()

	// Reader loop exists only to detect close; inbound frames are ignored.
	go func() {
		defer h.drop(userID, cl)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}

// Push delivers a JSON payload to every live connection of the user. Safe
// for concurrent use: each connection admits one writer at a time.
func (h *Hub) Push(userID uint, payload interface{}) {
	h.mu.RLock()
	clients := append([]*client(nil), h.conns[userID]...)
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.writeJSON(payload); err != nil {
			h.drop(userID, cl)
		}
	}
}

// Online reports whether the user has at least one live connection.
func (h *Hub) Online(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID]) > 0
}

func (h *Hub) drop(userID uint, cl *client) {
	cl.conn.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	remaining := h.conns[userID][:0]
	for _, c := range h.conns[userID] {
		if c != cl {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		delete(h.conns, userID)
	} else {
		h.conns[userID] = remaining
	}
}
