package services

import (
	"context"
	"time"

	"orders/internal/core/domain/model/kernel"
)

// NotificationClient calls the notification service over HTTP. The service
// owns message templates; this client only names the notification type and
// the delivery channel.
type NotificationClient struct {
	http httpClient
}

// NewNotificationClient creates a notification client for the given base URL.
func NewNotificationClient(baseURL string, timeout time.Duration) *NotificationClient {
	return &NotificationClient{http: newHTTPClient(baseURL, timeout)}
}

type notificationRequest struct {
	Channel          string `json:"channel"`
	UserID           string `json:"userId"`
	OrderID          string `json:"orderId"`
	NotificationType string `json:"notificationType"`
}

// SendEmail asks the notification service to deliver an email.
func (c *NotificationClient) SendEmail(
	ctx context.Context, userID kernel.UUID, orderID kernel.UUID, notificationType string,
) error {
	return c.http.postJSON(ctx, "/notifications", notificationRequest{
		Channel:          "email",
		UserID:           userID.String(),
		OrderID:          orderID.String(),
		NotificationType: notificationType,
	}, nil)
}

// SendSMS asks the notification service to deliver an SMS.
func (c *NotificationClient) SendSMS(
	ctx context.Context, userID kernel.UUID, orderID kernel.UUID, notificationType string,
) error {
	return c.http.postJSON(ctx, "/notifications", notificationRequest{
		Channel:          "sms",
		UserID:           userID.String(),
		OrderID:          orderID.String(),
		NotificationType: notificationType,
	}, nil)
}
