package ports

import (
	"context"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// StatusStat is one row of the grouped order statistics aggregation:
// the number of orders and their summed total amount for a single status.
type StatusStat struct {
	Status      order.Status
	Count       int64
	TotalAmount kernel.Money
}

// OrderRepository defines the persistence contract for order aggregates.
// Items are owned by their order: they are created, loaded, and removed with
// it, never addressed independently.
type OrderRepository interface {
	// Add persists a new order aggregate with its items.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate. The write is
	// conditional on the aggregate's version: if another writer advanced the
	// version first, Update fails with a VersionConflictError and persists
	// nothing. Items are immutable after creation and are not rewritten.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier with its
	// items eagerly attached. Returns ObjectNotFoundError for unknown ids.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByUser retrieves one page of a user's orders ordered by creation
	// time descending, with items eagerly attached, together with the total
	// number of the user's orders across all pages.
	GetByUser(ctx context.Context, userID kernel.UUID, page, limit int) ([]*order.Order, int64, error)

	// GetStats returns order count and summed total amount grouped by status,
	// optionally filtered by the owning user when userID is non-nil.
	GetStats(ctx context.Context, userID *kernel.UUID) ([]StatusStat, error)
}
