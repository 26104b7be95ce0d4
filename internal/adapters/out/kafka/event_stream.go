// Package kafka provides the Kafka-backed event stream adapter used for the
// partitioned order event feed.
package kafka

import (
	"context"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventStream writes order events to Kafka. Messages are keyed, and the hash
// balancer routes every message with the same key to the same partition, so
// per-order ordering is preserved for downstream consumers.
type EventStream struct {
	writer *kafka.Writer
}

// NewEventStream creates an event stream over the given brokers. Topics are
// chosen per emit, so one writer serves all of them.
func NewEventStream(brokersCSV string) *EventStream {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}

	return &EventStream{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Emit writes one event to the topic, keyed for partition routing.
func (s *EventStream) Emit(ctx context.Context, topic, key string, payload []byte) error {
	return s.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now().UTC(),
	})
}

// Close flushes pending messages and releases the writer.
func (s *EventStream) Close() error {
	return s.writer.Close()
}
