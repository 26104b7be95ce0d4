package services

import (
	"context"
	"time"

	"orders/internal/core/domain/model/order"
)

// InvoiceGenerator calls the invoicing service over HTTP and returns a
// reference to the generated artifact.
type InvoiceGenerator struct {
	http httpClient
}

// NewInvoiceGenerator creates an invoice generator client for the given base URL.
func NewInvoiceGenerator(baseURL string, timeout time.Duration) *InvoiceGenerator {
	return &InvoiceGenerator{http: newHTTPClient(baseURL, timeout)}
}

type invoiceLine struct {
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	TotalPrice  string `json:"totalPrice"`
}

type invoiceResponse struct {
	InvoiceURL string `json:"invoiceUrl"`
}

// Generate produces an invoice for the order and returns its reference.
func (g *InvoiceGenerator) Generate(ctx context.Context, aggregate *order.Order) (string, error) {
	items := aggregate.Items()
	lines := make([]invoiceLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, invoiceLine{
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().String(),
			TotalPrice:  item.TotalPrice().String(),
		})
	}

	request := struct {
		OrderID     string        `json:"orderId"`
		UserID      string        `json:"userId"`
		TotalAmount string        `json:"totalAmount"`
		Lines       []invoiceLine `json:"lines"`
	}{
		OrderID:     aggregate.ID().String(),
		UserID:      aggregate.UserID().String(),
		TotalAmount: aggregate.TotalAmount().String(),
		Lines:       lines,
	}

	var response invoiceResponse
	if err := g.http.postJSON(ctx, "/invoices", request, &response); err != nil {
		return "", err
	}
	return response.InvoiceURL, nil
}
