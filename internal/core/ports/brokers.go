package ports

import (
	"context"
)

// EventStream is the partition/topic-oriented message transport ("broker A").
// Emit writes a payload to a topic partitioned by key. Delivery is
// at-most-once from the caller's perspective: the call returning nil means
// the transport accepted the message, not that any consumer saw it.
type EventStream interface {
	Emit(ctx context.Context, topic string, key string, payload []byte) error
}

// EventQueue is the durable queue transport ("broker B").
// Emit blocks until the queue acknowledges the message; a nil return means
// the message is durably stored.
type EventQueue interface {
	Emit(ctx context.Context, queue string, payload []byte) error
}
