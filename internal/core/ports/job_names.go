package ports

// Job names shared between producers (command handlers, the fulfillment
// pipeline) and the worker dispatching on them.
const (
	// JobProcessOrder drives a pending order through the fulfillment pipeline.
	JobProcessOrder = "process-order"

	// JobSendNotification delivers a customer notification by email and SMS.
	JobSendNotification = "send-notification"

	// JobGenerateInvoice produces an invoice artifact for an order.
	JobGenerateInvoice = "generate-invoice"
)

// ProcessOrderPayload is the payload of a process-order job.
type ProcessOrderPayload struct {
	OrderID string `json:"orderId"`
	UserID  string `json:"userId"`
}

// SendNotificationPayload is the payload of a send-notification job.
type SendNotificationPayload struct {
	OrderID string `json:"orderId"`
	Type    string `json:"type"`
	UserID  string `json:"userId"`
}

// GenerateInvoicePayload is the payload of a generate-invoice job.
type GenerateInvoicePayload struct {
	OrderID string `json:"orderId"`
}
