// Package events contains the WebSocket message contracts pushed to dashboard pages.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Dataset messages
	MessageTypeDatasetReloaded MessageType = "dataset_reloaded"
	MessageTypeReloadFailed    MessageType = "dataset_reload_failed"

	// Connection messages
	MessageTypeConnect MessageType = "connection"
	MessageTypeError   MessageType = "error"
)

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// DatasetReloaded is the payload of MessageTypeDatasetReloaded
type DatasetReloaded struct {
	Path     string    `json:"path"`
	Rows     int       `json:"rows"`
	Start    string    `json:"start"`
	End      string    `json:"end"`
	LoadedAt time.Time `json:"loaded_at"`
}

// ReloadFailed is the payload of MessageTypeReloadFailed
type ReloadFailed struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// NewMessage stamps a message with the current time
func NewMessage(msgType MessageType, data interface{}) WebSocketMessage {
	return WebSocketMessage{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
