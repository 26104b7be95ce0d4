// Package natsjs provides the NATS JetStream adapter for the durable event
// queue. Unlike the partitioned stream feed, every publish here waits for a
// broker acknowledgment before returning.
package natsjs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	connectAttempts = 3
	connectWait     = 2 * time.Second
)

// EventQueue publishes order events to JetStream subjects with awaited acks.
type EventQueue struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	logger *slog.Logger
}

// NewEventQueue connects to the NATS server and opens a JetStream context.
// The initial connect is retried a few times so the service survives a broker
// that comes up slightly later than it does.
func NewEventQueue(url string, logger *slog.Logger) (*EventQueue, error) {
	logger = logger.With("component", "event-queue")

	var nc *nats.Conn
	var err error
	for i := 0; i < connectAttempts; i++ {
		nc, err = nats.Connect(url,
			nats.Name("orders"),
			nats.MaxReconnects(5),
			nats.ReconnectWait(connectWait),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("nats disconnected", "error", err)
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				logger.Info("nats reconnected", "url", nc.ConnectedUrl())
			}),
		)
		if err == nil {
			break
		}
		logger.Warn("failed to connect to nats", "attempt", i+1, "error", err)
		time.Sleep(connectWait)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to nats at %s: %w", url, err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("open jetstream context: %w", err)
	}

	return &EventQueue{nc: nc, js: js, logger: logger}, nil
}

// Emit publishes one event to the subject and waits for the JetStream ack.
// An error means the broker did not durably accept the message.
func (q *EventQueue) Emit(ctx context.Context, subject string, payload []byte) error {
	_, err := q.js.Publish(subject, payload, nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}

// Close drains the connection, flushing buffered messages before shutdown.
func (q *EventQueue) Close() {
	if q.nc != nil && !q.nc.IsClosed() {
		if err := q.nc.Drain(); err != nil {
			q.logger.Warn("failed to drain nats connection", "error", err)
		}
	}
}
