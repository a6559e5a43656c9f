// Package stream pushes live simulation snapshots to websocket clients.
package stream

import "time"

// Message types exchanged with clients.
const (
	MessageTypeSnapshot  = "snapshot"
	MessageTypeTrials    = "trials"
	MessageTypeHeartbeat = "heartbeat"
	MessageTypeError     = "error"
)

// ServerMessage is sent from the server to a client.
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// ClientMessage is sent from a client to the server.
type ClientMessage struct {
	Type string `json:"type"`
}

// ErrorMessage is the payload of an error message.
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ConnectionStats describes one client connection.
type ConnectionStats struct {
	ClientID         string    `json:"client_id"`
	ConnectedAt      time.Time `json:"connected_at"`
	MessagesSent     int64     `json:"messages_sent"`
	MessagesReceived int64     `json:"messages_received"`
	LastMessageAt    time.Time `json:"last_message_at"`
}
