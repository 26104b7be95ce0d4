package commands

import (
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/guard"
)

var (
	ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
		"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
	)
)

// UpdateOrderStatusCommand represents a request to move an order to a new
// status. The move itself is validated against the status state machine by
// the handler, against the order's current status; the command only validates
// its own shape.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	status       order.Status
	cancelReason string

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates a command to move an order to a new status.
// The cancel reason is only meaningful when the requested status is Cancelled
// and is ignored otherwise.
func NewUpdateOrderStatusCommand(
	orderID kernel.UUID,
	status order.Status,
	cancelReason string,
) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{
		cancelReason: cancelReason,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStatus(status),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return cmd, nil
}

// NewCancelOrderCommand creates a command that cancels an order with the
// given reason. Shorthand for NewUpdateOrderStatusCommand with Cancelled.
func NewCancelOrderCommand(orderID kernel.UUID, reason string) (UpdateOrderStatusCommand, error) {
	return NewUpdateOrderStatusCommand(orderID, order.Cancelled, reason)
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateOrderStatusCommandIsNotConstructed if validation fails.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to move.
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Status returns the requested target status.
func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

// CancelReason returns the reason recorded when cancelling.
func (c UpdateOrderStatusCommand) CancelReason() string {
	return c.cancelReason
}

func (c *UpdateOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setStatus(status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.status = status
	return nil
}
