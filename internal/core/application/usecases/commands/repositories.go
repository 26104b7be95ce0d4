// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management,
// persistence, and then the non-transactional side effects (cache
// invalidation, event publication, job enqueueing) in that order.
package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency within the order aggregate
// boundary; side effects outside the store run after commit and share no
// transaction with it.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW manages transactions for order operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)

// EventPublisher is the command handlers' view of the domain event publisher.
// The cancelled path returns nothing: its failures are swallowed by contract.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, aggregate *order.Order) error
	PublishOrderStatusChanged(ctx context.Context, aggregate *order.Order) error
	PublishOrderCancelled(ctx context.Context, aggregate *order.Order)
}
