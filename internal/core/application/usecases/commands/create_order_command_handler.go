package commands

import (
	"context"
	"log/slog"
	"time"

	"orders/internal/core/application/caching"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

// fulfillmentJobOptions is the retry policy of every fulfillment queue job:
// three attempts with exponential backoff starting at two seconds.
func fulfillmentJobOptions(dedupKey string) ports.JobOptions {
	return ports.JobOptions{
		Attempts: 3,
		Backoff: ports.Backoff{
			Type:         ports.BackoffExponential,
			InitialDelay: 2 * time.Second,
		},
		DedupKey: dedupKey,
	}
}

// CreateOrderCommandHandler handles the business logic for order creation.
// Persists the new order in Pending status, then runs the non-transactional
// side effects: listing cache invalidation, order.created publication, and
// fulfillment job enqueueing.
//
// Persistence is the atomic gate: if it fails, no side effect runs. A failure
// in publication or enqueueing is not rolled back. The order stays persisted
// and the error surfaces to the caller.
type CreateOrderCommandHandler struct {
	uowFactory  OrderUoWFactory
	invalidator *caching.Invalidator
	publisher   EventPublisher
	jobQueue    ports.JobQueue
	logger      *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	invalidator *caching.Invalidator,
	publisher EventPublisher,
	jobQueue ports.JobQueue,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:  uowFactory,
		invalidator: invalidator,
		publisher:   publisher,
		jobQueue:    jobQueue,
		logger:      logger.With("component", "create_order_handler"),
	}
}

// Handle processes the order creation command and returns the persisted order.
// The total amount is computed once, from the item list, inside the aggregate
// constructor.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	aggregate, err := order.NewOrder(
		kernel.NewUUID(),
		cmd.UserID(),
		cmd.Items(),
		cmd.ShippingAddress(),
		cmd.Metadata(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	// The order is durable from here on. Everything below is best-effort and
	// never undoes the persisted state.
	h.invalidator.InvalidateUserOrders(ctx, aggregate.UserID())

	if err = h.publisher.PublishOrderCreated(ctx, aggregate); err != nil {
		return nil, err
	}

	payload := ports.ProcessOrderPayload{
		OrderID: aggregate.ID().String(),
		UserID:  aggregate.UserID().String(),
	}
	opts := fulfillmentJobOptions(ports.JobProcessOrder + ":" + aggregate.ID().String())
	if err = h.jobQueue.Enqueue(ctx, ports.JobProcessOrder, payload, opts); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order created",
		"orderId", aggregate.ID(), "userId", aggregate.UserID(),
		"totalAmount", aggregate.TotalAmount().String(), "items", aggregate.ItemCount())
	return aggregate, nil
}
