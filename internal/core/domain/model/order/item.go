package order

import (
	"errors"
	"fmt"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item instance was not created
// through the NewItem factory method.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is an order line. Items are owned exclusively by their Order: they are
// created with it, persisted with it, and removed with it.
//
// Item maintains these invariants:
//   - Quantity is at least 1
//   - Unit price is non-negative (enforced by kernel.Money)
//   - Total price equals unit price times quantity, computed once at creation
//     and never independently mutated
type Item struct { //nolint:recvcheck //using for validation
	productID   kernel.UUID
	productName string
	quantity    int
	unitPrice   kernel.Money
	totalPrice  kernel.Money

	guard guard.ConstructorGuard
}

// NewItem creates an order line with validation and derives its total price
// from the unit price and quantity.
func NewItem(productID kernel.UUID, productName string, quantity int, unitPrice kernel.Money) (Item, error) {
	item := Item{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setProductID(productID),
		item.setProductName(productName),
		item.setQuantity(quantity),
	); err != nil {
		return Item{}, err
	}

	item.unitPrice = unitPrice
	item.totalPrice = unitPrice.MulInt(quantity)
	return item, nil
}

// RestoreItem reconstructs an order line from persistence without recomputing
// the total price. Used by repository and cache adapters.
func RestoreItem(
	productID kernel.UUID,
	productName string,
	quantity int,
	unitPrice kernel.Money,
	totalPrice kernel.Money,
) (Item, error) {
	item, err := NewItem(productID, productName, quantity, unitPrice)
	if err != nil {
		return Item{}, err
	}
	item.totalPrice = totalPrice
	return item, nil
}

// Validate ensures the Item instance was properly constructed through NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// ProductID returns the identifier of the purchased product.
func (i Item) ProductID() kernel.UUID {
	return i.productID
}

// ProductName returns the display name of the purchased product at purchase time.
func (i Item) ProductName() string {
	return i.productName
}

// Quantity returns the number of units purchased.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the price of a single unit.
func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// TotalPrice returns the line total, derived at creation as unit price times quantity.
func (i Item) TotalPrice() kernel.Money {
	return i.totalPrice
}

func (i *Item) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	i.productID = productID
	return nil
}

func (i *Item) setProductName(productName string) error {
	if productName == "" {
		return errs.NewValueIsRequiredError("productName")
	}
	i.productName = productName
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}
