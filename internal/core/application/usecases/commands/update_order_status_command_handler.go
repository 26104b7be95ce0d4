package commands

import (
	"context"
	"log/slog"

	"orders/internal/core/application/caching"
	"orders/internal/core/domain/model/order"
)

// UpdateOrderStatusCommandHandler handles status moves of existing orders,
// whether requested by clients or by the background fulfillment pipeline.
//
// The order is loaded through the shared cache-aside loader, so the read may
// be cache-served. The transition is validated against the state machine,
// persisted with an optimistic version check, and only then published and
// invalidated from the cache. Cancellations publish through the swallowing
// cancelled path; every other status publishes through the propagating
// status-changed path.
type UpdateOrderStatusCommandHandler struct {
	uowFactory  OrderUoWFactory
	loader      *caching.OrderLoader
	invalidator *caching.Invalidator
	publisher   EventPublisher
	logger      *slog.Logger
}

// NewUpdateOrderStatusCommandHandler creates a handler for order status updates.
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	loader *caching.OrderLoader,
	invalidator *caching.Invalidator,
	publisher EventPublisher,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory:  uowFactory,
		loader:      loader,
		invalidator: invalidator,
		publisher:   publisher,
		logger:      logger.With("component", "update_order_status_handler"),
	}
}

// Handle processes the status update command and returns the updated order.
//
// Failure modes surface synchronously: ObjectNotFoundError for unknown
// orders, InvalidStatusTransitionError for moves outside the state machine
// (the stored order is left unchanged), VersionConflictError when another
// writer advanced the order first, and PublishFailedError when the
// status-changed publication fails after the persisted move.
func (h *UpdateOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	aggregate, err := h.loader.Load(ctx, repo, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = aggregate.ChangeStatus(cmd.Status(), cmd.CancelReason()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if cmd.Status() == order.Cancelled {
		h.publisher.PublishOrderCancelled(ctx, aggregate)
	} else if err = h.publisher.PublishOrderStatusChanged(ctx, aggregate); err != nil {
		return nil, err
	}

	h.invalidator.InvalidateOrder(ctx, aggregate.ID())
	h.invalidator.InvalidateUserOrders(ctx, aggregate.UserID())

	h.logger.InfoContext(ctx, "order status updated",
		"orderId", aggregate.ID(), "status", aggregate.Status().String())
	return aggregate, nil
}
