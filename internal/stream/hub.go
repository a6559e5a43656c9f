package stream

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/fightsim/internal/metrics"
)

// Hub keeps the set of connected clients and fans messages out to them.
type Hub struct {
	logger *logrus.Entry

	clientsMu sync.RWMutex
	clients   map[*Client]bool

	broadcast  chan ServerMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	statsMu          sync.Mutex
	totalConnections int64
	totalMessages    int64
}

// NewHub creates a new Hub instance
func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.New()
	}
	return &Hub{
		logger:     logger.WithField("component", "stream"),
		clients:    make(map[*Client]bool),
		broadcast:  make(chan ServerMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues a message for every client. It drops the message when
// the queue is full.
func (h *Hub) Broadcast(msgType string, payload interface{}) {
	msg := ServerMessage{Type: msgType, Payload: payload, Timestamp: time.Now()}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Broadcast buffer full, dropping message")
	}
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.clientsMu.Unlock()

	h.statsMu.Lock()
	h.totalConnections++
	h.statsMu.Unlock()

	metrics.UpdateWebsocketClients(count)
	h.logger.WithFields(logrus.Fields{"client_id": c.ID, "clients": count}).Info("Client connected")
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		c.closeSend()
	}
	count := len(h.clients)
	h.clientsMu.Unlock()

	if ok {
		metrics.UpdateWebsocketClients(count)
		h.logger.WithFields(logrus.Fields{"client_id": c.ID, "clients": count}).Info("Client disconnected")
	}
}

func (h *Hub) broadcastMessage(msg ServerMessage) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	sent := 0
	for _, c := range clients {
		if c.TrySend(msg) {
			sent++
			continue
		}
		// too slow to keep up
		h.logger.WithField("client_id", c.ID).Warn("Client buffer full, disconnecting")
		h.unregisterClient(c)
	}

	if sent > 0 {
		h.statsMu.Lock()
		h.totalMessages++
		h.statsMu.Unlock()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Stats returns hub counters.
func (h *Hub) Stats() map[string]interface{} {
	h.statsMu.Lock()
	defer h.statsMu.Unlock()
	return map[string]interface{}{
		"active_clients":    h.ClientCount(),
		"total_connections": h.totalConnections,
		"total_messages":    h.totalMessages,
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.logger.WithField("clients", len(h.clients)).Info("Shutting down hub")
	for c := range h.clients {
		c.closeSend()
		delete(h.clients, c)
	}
	metrics.UpdateWebsocketClients(0)
}
