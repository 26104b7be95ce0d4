package events

import (
	"context"
	"log/slog"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// Destinations names the transport endpoints events are delivered to.
type Destinations struct {
	// StreamTopic is the broker A topic, partitioned by order id.
	StreamTopic string

	// EventsQueue is the broker B durable queue receiving full lifecycle events.
	EventsQueue string

	// NotificationsQueue is the broker B durable queue receiving customer
	// notification triggers for shipped and delivered orders.
	NotificationsQueue string
}

// Publisher builds domain event envelopes and dual-emits them to the
// partitioned stream (broker A) and the durable queue (broker B).
//
// Failure policy, by event:
//   - order.created: failures on either transport propagate to the caller
//   - order.status_changed: failures on either transport propagate
//   - order.cancelled: failures are logged and swallowed, never propagated
type Publisher struct {
	stream       ports.EventStream
	queue        ports.EventQueue
	destinations Destinations
	logger       *slog.Logger
}

// NewPublisher creates a Publisher over the two broker ports.
func NewPublisher(
	stream ports.EventStream,
	queue ports.EventQueue,
	destinations Destinations,
	logger *slog.Logger,
) *Publisher {
	return &Publisher{
		stream:       stream,
		queue:        queue,
		destinations: destinations,
		logger:       logger.With("component", "event_publisher"),
	}
}

// PublishOrderCreated emits an order.created event to the stream, partitioned
// by order id, and to the durable events queue, awaiting its acknowledgment.
// A failure on either transport propagates as a PublishFailedError; the
// already-persisted order is never rolled back because of it.
func (p *Publisher) PublishOrderCreated(ctx context.Context, aggregate *order.Order) error {
	payload, err := encode(TypeOrderCreated, OrderCreatedData{
		OrderID:     aggregate.ID().String(),
		UserID:      aggregate.UserID().String(),
		TotalAmount: aggregate.TotalAmount().Float64(),
		Status:      aggregate.Status().String(),
		ItemCount:   aggregate.ItemCount(),
	})
	if err != nil {
		return err
	}

	if err := p.stream.Emit(ctx, p.destinations.StreamTopic, aggregate.ID().String(), payload); err != nil {
		return errs.NewPublishFailedError("stream", p.destinations.StreamTopic, err)
	}

	if err := p.queue.Emit(ctx, p.destinations.EventsQueue, payload); err != nil {
		return errs.NewPublishFailedError("queue", p.destinations.EventsQueue, err)
	}

	return nil
}

// PublishOrderStatusChanged emits an order.status_changed event to the
// stream. When the new status is Shipped or Delivered it additionally sends a
// notification trigger to the durable notifications queue. A failure of
// either emit propagates as a PublishFailedError.
func (p *Publisher) PublishOrderStatusChanged(ctx context.Context, aggregate *order.Order) error {
	payload, err := encode(TypeOrderStatusChanged, OrderStatusChangedData{
		OrderID:   aggregate.ID().String(),
		UserID:    aggregate.UserID().String(),
		NewStatus: aggregate.Status().String(),
	})
	if err != nil {
		return err
	}

	if err := p.stream.Emit(ctx, p.destinations.StreamTopic, aggregate.ID().String(), payload); err != nil {
		return errs.NewPublishFailedError("stream", p.destinations.StreamTopic, err)
	}

	if status := aggregate.Status(); status == order.Shipped || status == order.Delivered {
		if err := p.queue.Emit(ctx, p.destinations.NotificationsQueue, payload); err != nil {
			return errs.NewPublishFailedError("queue", p.destinations.NotificationsQueue, err)
		}
	}

	return nil
}

// PublishOrderCancelled emits an order.cancelled event to both transports.
// Unlike the other publish paths, all failures are logged and swallowed:
// cancellation never fails because an event could not be delivered.
func (p *Publisher) PublishOrderCancelled(ctx context.Context, aggregate *order.Order) {
	payload, err := encode(TypeOrderCancelled, OrderCancelledData{
		OrderID:      aggregate.ID().String(),
		UserID:       aggregate.UserID().String(),
		CancelReason: aggregate.CancelReason(),
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "order.cancelled encoding failed",
			"orderId", aggregate.ID(), "error", err)
		return
	}

	if err := p.stream.Emit(ctx, p.destinations.StreamTopic, aggregate.ID().String(), payload); err != nil {
		p.logger.ErrorContext(ctx, "order.cancelled stream emit failed",
			"orderId", aggregate.ID(), "topic", p.destinations.StreamTopic, "error", err)
	}

	if err := p.queue.Emit(ctx, p.destinations.EventsQueue, payload); err != nil {
		p.logger.ErrorContext(ctx, "order.cancelled queue emit failed",
			"orderId", aggregate.ID(), "queue", p.destinations.EventsQueue, "error", err)
	}
}
