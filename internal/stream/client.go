package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	sendBufferSize = 64
)

// Unregisterer is the part of the hub a client talks back to.
type Unregisterer interface {
	Unregister(client *Client)
}

// Client is one websocket connection.
type Client struct {
	ID     string
	Send   chan ServerMessage
	conn   *websocket.Conn
	hub    Unregisterer
	logger *logrus.Entry

	sendMu sync.Mutex
	closed bool

	mu               sync.Mutex
	connectedAt      time.Time
	messagesSent     int64
	messagesReceived int64
	lastMessageAt    time.Time
}

// NewClient creates a new client instance
func NewClient(id string, conn *websocket.Conn, hub Unregisterer, logger *logrus.Entry) *Client {
	return &Client{
		ID:          id,
		Send:        make(chan ServerMessage, sendBufferSize),
		conn:        conn,
		hub:         hub,
		logger:      logger.WithField("client_id", id),
		connectedAt: time.Now(),
	}
}

// ReadPump reads client messages until the connection closes.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if ctx.Err() != nil {
			return
		}

		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.WithError(err).Warn("Unexpected websocket close")
			}
			return
		}

		c.updateReceived()
		c.handleClientMessage(msg)
	}
}

// WritePump writes queued messages and keeps the connection alive with pings.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.WithError(err).Debug("Websocket write failed")
				return
			}
			c.updateSent()

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues msg without blocking. It returns false when the buffer is
// full.
func (c *Client) TrySend(msg ServerMessage) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// closeSend closes the outbound queue once; later sends are dropped.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// Stats returns connection statistics.
func (c *Client) Stats() ConnectionStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ConnectionStats{
		ClientID:         c.ID,
		ConnectedAt:      c.connectedAt,
		MessagesSent:     c.messagesSent,
		MessagesReceived: c.messagesReceived,
		LastMessageAt:    c.lastMessageAt,
	}
}

func (c *Client) handleClientMessage(msg ClientMessage) {
	switch msg.Type {
	case MessageTypeHeartbeat:
		c.TrySend(ServerMessage{
			Type:      MessageTypeHeartbeat,
			Payload:   c.Stats(),
			Timestamp: time.Now(),
		})
	default:
		c.TrySend(ServerMessage{
			Type: MessageTypeError,
			Payload: ErrorMessage{
				Code:    "unknown_message_type",
				Message: fmt.Sprintf("unknown message type: %s", msg.Type),
			},
			Timestamp: time.Now(),
		})
	}
}

func (c *Client) updateSent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messagesSent++
	c.lastMessageAt = time.Now()
}

func (c *Client) updateReceived() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messagesReceived++
	c.lastMessageAt = time.Now()
}
