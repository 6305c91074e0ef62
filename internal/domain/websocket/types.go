package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents different real-time event types
type EventType string

const (
	// Connection events
	EventTypePing      EventType = "ping"
	EventTypePong      EventType = "pong"
	EventTypeConnected EventType = "connected"
	EventTypeError     EventType = "error"

	// Entity change events (server -> client)
	EventTypeBookingCreated EventType = "booking:created"
	EventTypeBookingUpdated EventType = "booking:updated"
	EventTypeJobCreated     EventType = "job:created"
	EventTypeJobUpdated     EventType = "job:updated"
	EventTypeInvoiceCreated EventType = "invoice:created"
	EventTypeInvoiceUpdated EventType = "invoice:updated"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	ID        string      `json:"id,omitempty"`
}

// EntityEventData describes a change to a persisted record.
type EntityEventData struct {
	Entity    string `json:"entity"`
	EntityID  int64  `json:"entity_id"`
	Reference string `json:"reference,omitempty"`
	Status    string `json:"status,omitempty"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessage creates a timestamped message.
func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		ID:        generateMessageID(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	err := json.Unmarshal(data, &msg)
	return &msg, err
}

func generateMessageID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
