package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// Pipeline progress checkpoints. The steps are strictly sequential, so the
// reported percentage always moves forward within one attempt.
const (
	progressValidated = 20
	progressChecked   = 40
	progressReserved  = 60
	progressPaid      = 80
	progressConfirmed = 100
)

// ProcessOrderJob drives a freshly placed order through the fulfillment
// pipeline: validate, check inventory, reserve stock, initiate payment, and
// confirm. Any step failing cancels the order with the failure as the reason
// and then returns the error, so the queue's retry policy stays in charge of
// rescheduling. Every retry re-runs the pipeline from the start.
type ProcessOrderJob struct {
	getOrder     queries.GetOrderQueryHandler
	updateStatus commands.UpdateOrderStatusCommandHandler
	inventory    ports.InventoryClient
	payment      ports.PaymentClient
	jobQueue     ports.JobQueue
	logger       *slog.Logger
}

// NewProcessOrderJob creates the process-order handler.
func NewProcessOrderJob(
	getOrder queries.GetOrderQueryHandler,
	updateStatus commands.UpdateOrderStatusCommandHandler,
	inventory ports.InventoryClient,
	payment ports.PaymentClient,
	jobQueue ports.JobQueue,
	logger *slog.Logger,
) *ProcessOrderJob {
	return &ProcessOrderJob{
		getOrder:     getOrder,
		updateStatus: updateStatus,
		inventory:    inventory,
		payment:      payment,
		jobQueue:     jobQueue,
		logger:       logger.With("component", "process_order_job"),
	}
}

// Run executes the fulfillment pipeline for one order.
func (j *ProcessOrderJob) Run(ctx context.Context, job ports.Job, progress ProgressFunc) error {
	var payload ports.ProcessOrderPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("payload", err)
	}

	orderID, err := kernel.UUIDFromString(payload.OrderID)
	if err != nil {
		return err
	}

	aggregate, err := j.runPipeline(ctx, orderID, progress)
	if err != nil {
		j.cancelOrder(ctx, orderID, err)
		return err
	}

	j.enqueueFollowUps(ctx, aggregate)
	return nil
}

func (j *ProcessOrderJob) runPipeline(
	ctx context.Context, orderID kernel.UUID, progress ProgressFunc,
) (*order.Order, error) {
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return nil, err
	}

	aggregate, err := j.getOrder.Handle(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(aggregate.Items()) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}
	progress(progressValidated)

	available, err := j.inventory.CheckAvailability(ctx, aggregate.Items())
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, fmt.Errorf("items unavailable for order %s", orderID)
	}
	progress(progressChecked)

	if err = j.inventory.Reserve(ctx, orderID, aggregate.Items()); err != nil {
		return nil, err
	}
	progress(progressReserved)

	if err = j.payment.InitiatePayment(ctx, orderID, aggregate.UserID(), aggregate.TotalAmount()); err != nil {
		return nil, err
	}
	progress(progressPaid)

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, order.Confirmed, "")
	if err != nil {
		return nil, err
	}
	confirmed, err := j.updateStatus.Handle(ctx, cmd)
	if err != nil {
		return nil, err
	}
	progress(progressConfirmed)

	return confirmed, nil
}

// cancelOrder drives the order to the cancelled state with the pipeline
// failure as the reason. Best-effort: a cancel that fails (the order may
// already be in a terminal state from a previous attempt) is logged and the
// original pipeline error still decides the job outcome.
func (j *ProcessOrderJob) cancelOrder(ctx context.Context, orderID kernel.UUID, cause error) {
	cmd, err := commands.NewCancelOrderCommand(orderID, cause.Error())
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to build cancel command", "orderId", orderID.String(), "error", err)
		return
	}

	if _, err = j.updateStatus.Handle(ctx, cmd); err != nil {
		j.logger.ErrorContext(ctx, "Failed to cancel order after pipeline failure",
			"orderId", orderID.String(), "cause", cause, "error", err)
	}
}

// enqueueFollowUps schedules the confirmation notification and the invoice
// job. Both are best-effort: the order is already confirmed, and a failed
// enqueue must not fail the completed pipeline.
func (j *ProcessOrderJob) enqueueFollowUps(ctx context.Context, aggregate *order.Order) {
	opts := func(dedupKey string) ports.JobOptions {
		return ports.JobOptions{
			Attempts: 3,
			Backoff:  ports.Backoff{Type: ports.BackoffExponential, InitialDelay: 2 * time.Second},
			DedupKey: dedupKey,
		}
	}

	orderID := aggregate.ID().String()
	notification := ports.SendNotificationPayload{
		OrderID: orderID,
		Type:    "order_confirmed",
		UserID:  aggregate.UserID().String(),
	}
	err := j.jobQueue.Enqueue(ctx, ports.JobSendNotification, notification,
		opts(ports.JobSendNotification+":"+orderID+":order_confirmed"))
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to enqueue notification job", "orderId", orderID, "error", err)
	}

	invoice := ports.GenerateInvoicePayload{OrderID: orderID}
	err = j.jobQueue.Enqueue(ctx, ports.JobGenerateInvoice, invoice,
		opts(ports.JobGenerateInvoice+":"+orderID))
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to enqueue invoice job", "orderId", orderID, "error", err)
	}
}
