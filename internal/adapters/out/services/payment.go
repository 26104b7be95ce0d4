package services

import (
	"context"
	"time"

	"orders/internal/core/domain/model/kernel"
)

// PaymentClient calls the payment service over HTTP.
type PaymentClient struct {
	http httpClient
}

// NewPaymentClient creates a payment client for the given base URL.
func NewPaymentClient(baseURL string, timeout time.Duration) *PaymentClient {
	return &PaymentClient{http: newHTTPClient(baseURL, timeout)}
}

// InitiatePayment starts a payment for the order's total amount.
// The amount travels as a decimal string to avoid float rounding on the wire.
func (c *PaymentClient) InitiatePayment(
	ctx context.Context, orderID kernel.UUID, userID kernel.UUID, amount kernel.Money,
) error {
	request := struct {
		OrderID string `json:"orderId"`
		UserID  string `json:"userId"`
		Amount  string `json:"amount"`
	}{
		OrderID: orderID.String(),
		UserID:  userID.String(),
		Amount:  amount.String(),
	}

	return c.http.postJSON(ctx, "/payments", request, nil)
}
