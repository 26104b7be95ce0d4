package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// GenerateInvoiceJob produces an invoice artifact for an order. The order is
// loaded through the cache-aside read path; no status mutation happens here.
type GenerateInvoiceJob struct {
	getOrder queries.GetOrderQueryHandler
	invoices ports.InvoiceGenerator
	logger   *slog.Logger
}

// NewGenerateInvoiceJob creates the generate-invoice handler.
func NewGenerateInvoiceJob(
	getOrder queries.GetOrderQueryHandler,
	invoices ports.InvoiceGenerator,
	logger *slog.Logger,
) *GenerateInvoiceJob {
	return &GenerateInvoiceJob{
		getOrder: getOrder,
		invoices: invoices,
		logger:   logger.With("component", "generate_invoice_job"),
	}
}

// Run generates the invoice and logs the artifact reference.
func (j *GenerateInvoiceJob) Run(ctx context.Context, job ports.Job, progress ProgressFunc) error {
	var payload ports.GenerateInvoicePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("payload", err)
	}

	orderID, err := kernel.UUIDFromString(payload.OrderID)
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return err
	}

	aggregate, err := j.getOrder.Handle(ctx, query)
	if err != nil {
		return err
	}
	progress(50)

	reference, err := j.invoices.Generate(ctx, aggregate)
	if err != nil {
		return err
	}
	progress(100)

	j.logger.InfoContext(ctx, "Invoice generated", "orderId", payload.OrderID, "invoice", reference)
	return nil
}
