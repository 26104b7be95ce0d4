// Package events builds and publishes the domain events of the order
// lifecycle. Events form a closed set of fixed variants (OrderCreated,
// OrderStatusChanged, OrderCancelled) serialized through a single envelope
// encode boundary and delivered over two independent transports.
//
// Delivery is best-effort, not transactional: there is no outbox and no
// atomic dual-delivery, so a crash between the two emits yields partial
// publication. The system accepts at-least-once / at-most-once semantics per
// transport as its correctness model.
package events

import (
	"encoding/json"
	"time"
)

// Event type discriminators carried in the envelope.
const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
	TypeOrderCancelled     = "order.cancelled"
)

// Envelope is the canonical wire form of a domain event:
// a type tag, an ISO-8601 timestamp, and one of the fixed data variants.
type Envelope struct {
	EventType string          `json:"eventType"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// OrderCreatedData is the payload of an order.created event.
type OrderCreatedData struct {
	OrderID     string  `json:"orderId"`
	UserID      string  `json:"userId"`
	TotalAmount float64 `json:"totalAmount"`
	Status      string  `json:"status"`
	ItemCount   int     `json:"itemCount"`
}

// OrderStatusChangedData is the payload of an order.status_changed event.
type OrderStatusChangedData struct {
	OrderID   string `json:"orderId"`
	UserID    string `json:"userId"`
	NewStatus string `json:"newStatus"`
}

// OrderCancelledData is the payload of an order.cancelled event.
type OrderCancelledData struct {
	OrderID      string `json:"orderId"`
	UserID       string `json:"userId"`
	CancelReason string `json:"cancelReason,omitempty"`
}

// encode is the single serialization boundary for outgoing events.
func encode(eventType string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	})
}

// DecodeEnvelope parses a serialized event back into its envelope.
// Consumers unmarshal Envelope.Data into the variant matching EventType.
func DecodeEnvelope(payload []byte) (Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return Envelope{}, err
	}
	return envelope, nil
}
