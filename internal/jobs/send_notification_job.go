package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// SendNotificationJob delivers a customer notification over both email and
// SMS. It never mutates order state; a failed channel fails the attempt so
// the queue can retry delivery.
type SendNotificationJob struct {
	notifications ports.NotificationClient
	logger        *slog.Logger
}

// NewSendNotificationJob creates the send-notification handler.
func NewSendNotificationJob(notifications ports.NotificationClient, logger *slog.Logger) *SendNotificationJob {
	return &SendNotificationJob{
		notifications: notifications,
		logger:        logger.With("component", "send_notification_job"),
	}
}

// Run sends the notification on both channels. Both are attempted even when
// the first fails, so one broken channel does not silence the other.
func (j *SendNotificationJob) Run(ctx context.Context, job ports.Job, progress ProgressFunc) error {
	var payload ports.SendNotificationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("payload", err)
	}

	orderID, err := kernel.UUIDFromString(payload.OrderID)
	if err != nil {
		return err
	}
	userID, err := kernel.UUIDFromString(payload.UserID)
	if err != nil {
		return err
	}

	emailErr := j.notifications.SendEmail(ctx, userID, orderID, payload.Type)
	if emailErr != nil {
		j.logger.ErrorContext(ctx, "Failed to send email notification",
			"orderId", payload.OrderID, "type", payload.Type, "error", emailErr)
	}
	progress(50)

	smsErr := j.notifications.SendSMS(ctx, userID, orderID, payload.Type)
	if smsErr != nil {
		j.logger.ErrorContext(ctx, "Failed to send sms notification",
			"orderId", payload.OrderID, "type", payload.Type, "error", smsErr)
	}
	progress(100)

	return errors.Join(emailErr, smsErr)
}
