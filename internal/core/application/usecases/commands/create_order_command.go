package commands

import (
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a request to place a new order.
// Encapsulates the owning user, the order lines, the shipping destination,
// and optional free-form metadata.
//
// Example:
//
//	item, _ := order.NewItem(productID, "widget", 2, unitPrice)
//	address, _ := order.NewAddress("1 Main Street", "Springfield", "12345", "US")
//	cmd, err := NewCreateOrderCommand(userID, []order.Item{item}, address, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	userID          kernel.UUID
	items           []order.Item
	shippingAddress order.Address
	metadata        map[string]any

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Validates that the user id is constructed, the item list is non-empty with
// valid items, and the address was built through its constructor.
func NewCreateOrderCommand(
	userID kernel.UUID,
	items []order.Item,
	shippingAddress order.Address,
	metadata map[string]any,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		metadata: metadata,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setItems(items),
		cmd.setShippingAddress(shippingAddress),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// UserID returns the identifier of the user placing the order.
func (c CreateOrderCommand) UserID() kernel.UUID {
	return c.userID
}

// Items returns the order lines.
func (c CreateOrderCommand) Items() []order.Item {
	return c.items
}

// ShippingAddress returns the shipping destination.
func (c CreateOrderCommand) ShippingAddress() order.Address {
	return c.shippingAddress
}

// Metadata returns the optional free-form metadata.
func (c CreateOrderCommand) Metadata() map[string]any {
	return c.metadata
}

func (c *CreateOrderCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	c.userID = userID
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	c.items = items
	return nil
}

func (c *CreateOrderCommand) setShippingAddress(shippingAddress order.Address) error {
	if err := shippingAddress.Validate(); err != nil {
		return err
	}
	c.shippingAddress = shippingAddress
	return nil
}
