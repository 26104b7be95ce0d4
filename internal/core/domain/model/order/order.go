package order

import (
	"errors"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// Order is the aggregate root representing a customer purchase. It owns its
// items exclusively and manages the order lifecycle from creation through
// fulfillment to delivery or cancellation.
//
// Order maintains these invariants:
//   - Must have a valid unique identifier and owning user
//   - Must have at least one item
//   - Total amount equals the sum of its items' total prices, computed once at
//     creation and never revised by later status changes
//   - Status only moves forward along the transition graph (see Status)
//   - CancelledAt and CancelReason are set exactly when the order transitions
//     to Cancelled, and never otherwise
//   - Orders are never deleted; Delivered and Cancelled are terminal statuses
//
// The struct uses private fields to ensure encapsulation and maintains its
// invariants through validated methods.
type Order struct {
	id              kernel.UUID
	userID          kernel.UUID
	status          Status
	totalAmount     kernel.Money
	shippingAddress Address
	items           []Item
	metadata        map[string]any

	createdAt    time.Time
	updatedAt    time.Time
	cancelledAt  *time.Time
	cancelReason string

	// version supports optimistic concurrency on status updates.
	version int

	isConstructed bool
}

// NewOrder creates a new Order in Pending status with validation.
// The total amount is computed as the sum of the items' total prices; it is
// fixed at this point and later status changes never revise it.
//
// Returns a validation error if the item list is empty, if any component is
// invalid, or if the identifiers are not properly constructed.
func NewOrder(
	id kernel.UUID,
	userID kernel.UUID,
	items []Item,
	shippingAddress Address,
	metadata map[string]any,
) (*Order, error) {
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	if err := errors.Join(
		id.Validate(),
		userID.Validate(),
		shippingAddress.Validate(),
	); err != nil {
		return nil, err
	}

	totalAmount := kernel.Money{}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		totalAmount = totalAmount.Add(item.TotalPrice())
	}

	now := time.Now().UTC()
	return &Order{
		id:              id,
		userID:          userID,
		status:          Pending,
		totalAmount:     totalAmount,
		shippingAddress: shippingAddress,
		items:           items,
		metadata:        metadata,
		createdAt:       now,
		updatedAt:       now,
		version:         1,
		isConstructed:   true,
	}, nil
}

// RestoreOrder reconstructs an Order from persistence or a cache snapshot.
// Unlike NewOrder it does not recompute the total amount: the stored value is
// authoritative. The status must be valid but is otherwise taken as-is.
func RestoreOrder(
	id kernel.UUID,
	userID kernel.UUID,
	status Status,
	totalAmount kernel.Money,
	items []Item,
	shippingAddress Address,
	metadata map[string]any,
	createdAt time.Time,
	updatedAt time.Time,
	cancelledAt *time.Time,
	cancelReason string,
	version int,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		userID.Validate(),
		status.Validate(),
		shippingAddress.Validate(),
	); err != nil {
		return nil, err
	}

	return &Order{
		id:              id,
		userID:          userID,
		status:          status,
		totalAmount:     totalAmount,
		shippingAddress: shippingAddress,
		items:           items,
		metadata:        metadata,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		cancelledAt:     cancelledAt,
		cancelReason:    cancelReason,
		version:         version,
		isConstructed:   true,
	}, nil
}

// Validate ensures the Order instance was properly constructed through a factory method.
// This prevents bypassing validation by directly instantiating the struct.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// UserID returns the identifier of the user owning the order.
func (o *Order) UserID() kernel.UUID {
	return o.userID
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// TotalAmount returns the order total, fixed at creation from the item list.
func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

// ShippingAddress returns the immutable shipping destination.
func (o *Order) ShippingAddress() Address {
	return o.shippingAddress
}

// Items returns the order lines. The returned slice is a copy; the aggregate
// keeps exclusive ownership of its items.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// ItemCount returns the number of order lines.
func (o *Order) ItemCount() int {
	return len(o.items)
}

// Metadata returns the free-form metadata attached at creation.
func (o *Order) Metadata() map[string]any {
	return o.metadata
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the timestamp of the last mutation.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// CancelledAt returns the cancellation timestamp.
// Returns nil unless the order status is Cancelled.
func (o *Order) CancelledAt() *time.Time {
	return o.cancelledAt
}

// CancelReason returns the reason recorded when the order was cancelled.
// Empty unless the order status is Cancelled.
func (o *Order) CancelReason() string {
	return o.cancelReason
}

// Version returns the persistence version used for optimistic concurrency.
func (o *Order) Version() int {
	return o.version
}

// ChangeStatus moves the order to the requested status.
//
// The move must be an edge of the status transition graph; otherwise the
// order is left unchanged and an InvalidStatusTransitionError is returned.
// When the requested status is Cancelled, the cancellation timestamp and
// reason are stamped exactly once; for every other status they stay untouched.
//
// Example:
//
//	if err := order.ChangeStatus(order.Confirmed, ""); err != nil {
//	    // transition not allowed from the current status
//	}
func (o *Order) ChangeStatus(requested Status, cancelReason string) error {
	if err := o.status.ValidateTransition(requested); err != nil {
		return err
	}

	o.status = requested
	o.updatedAt = time.Now().UTC()

	if requested == Cancelled {
		now := time.Now().UTC()
		o.cancelledAt = &now
		o.cancelReason = cancelReason
	}

	return nil
}

// Cancel moves the order to Cancelled with the given reason.
// Shorthand for ChangeStatus(Cancelled, reason).
func (o *Order) Cancel(reason string) error {
	return o.ChangeStatus(Cancelled, reason)
}
