package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/conneroisu/weaver/internal/logging"
)

// writeWait bounds a single broadcast write to one peer.
const writeWait = 10 * time.Second

// ReloadMessage is pushed to connected clients when templates change.
type ReloadMessage struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub tracks hot-reload websocket clients and broadcasts reload
// notifications to all of them.
type Hub struct {
	origins []string
	logger  logging.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]struct{}
	closed  bool
}

// NewHub creates a hub accepting connections from the given origin
// patterns. An empty list restricts connections to the same host.
func NewHub(origins []string, logger logging.Logger) *Hub {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Hub{
		origins: origins,
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the connection registered
// until the peer disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		h.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	// Reload clients never send meaningful data; reading just detects
	// disconnects.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}

// BroadcastReload notifies every connected client that it should
// reload.
func (h *Hub) BroadcastReload() {
	payload, err := json.Marshal(ReloadMessage{Type: "full_reload", Timestamp: time.Now()})
	if err != nil {
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
			h.logger.Debug(ctx, "dropping websocket client", "error", err.Error())
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close(websocket.StatusAbnormalClosure, "write failed")
		}
		cancel()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and rejects future connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for conn := range h.clients {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
	h.clients = make(map[*websocket.Conn]struct{})
}
