// Package ws pushes snapshot-update notifications to connected dashboard
// clients, so the UI re-fetches only when change detection let an update
// through.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// UpdateMessage tells a dashboard client that the sequence snapshot was
// replaced. The client reacts by re-fetching /sequences.
type UpdateMessage struct {
	Type      string `json:"type"`
	Version   uint64 `json:"version"`
	Sequences int    `json:"sequences"`
	UpdatedAt string `json:"updated_at"`
}

// Hub manages WebSocket connections for dashboard live updates.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> client id
	mu      sync.RWMutex

	// writeMu serializes broadcasts: gorilla/websocket allows at most one
	// concurrent writer per connection, and cron runs jobs on separate
	// goroutines.
	writeMu sync.Mutex

	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]string),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard UI is served from another origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Register adds a connection and returns its client id.
func (h *Hub) Register(conn *websocket.Conn) string {
	id := uuid.NewString()

	h.mu.Lock()
	h.clients[conn] = id
	total := len(h.clients)
	h.mu.Unlock()

	log.Printf("[WS] Client %s registered (total: %d)", id, total)
	return id
}

// Unregister removes a connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	id, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()

	if ok {
		log.Printf("[WS] Client %s unregistered", id)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastUpdate sends a snapshot-update message to every client. Dead
// connections are dropped on write failure.
func (h *Hub) BroadcastUpdate(msg UpdateMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WS] Error marshaling update message: %v", err)
		return
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[WS] Error sending to client: %v", err)
			h.Unregister(conn)
			conn.Close()
		}
	}
}

// Serve upgrades an HTTP request to a websocket subscription and blocks
// reading until the client goes away. Clients only listen; inbound frames
// are discarded.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}

	h.Register(conn)
	defer func() {
		h.Unregister(conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
