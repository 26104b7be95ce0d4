package ports

import (
	"context"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// InventoryClient talks to the external inventory service.
// Implementations carry their own timeout and retry policy, independent of
// the job queue's attempt count.
type InventoryClient interface {
	// CheckAvailability reports whether every item of the order can be
	// fulfilled from stock. false with a nil error is a regular business
	// outcome, not a failure.
	CheckAvailability(ctx context.Context, items []order.Item) (bool, error)

	// Reserve puts a hold on the stock for the given order.
	Reserve(ctx context.Context, orderID kernel.UUID, items []order.Item) error
}

// PaymentClient talks to the external payment service.
type PaymentClient interface {
	// InitiatePayment starts a payment for the order's total amount.
	InitiatePayment(ctx context.Context, orderID kernel.UUID, userID kernel.UUID, amount kernel.Money) error
}

// NotificationClient delivers customer-facing messages.
// Message bodies are produced by the external service; the core only names
// the notification type.
type NotificationClient interface {
	SendEmail(ctx context.Context, userID kernel.UUID, orderID kernel.UUID, notificationType string) error
	SendSMS(ctx context.Context, userID kernel.UUID, orderID kernel.UUID, notificationType string) error
}

// InvoiceGenerator produces an invoice artifact for an order and returns a
// reference to it.
type InvoiceGenerator interface {
	Generate(ctx context.Context, aggregate *order.Order) (string, error)
}
