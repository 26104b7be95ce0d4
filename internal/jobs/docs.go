// Package jobs provides the background fulfillment worker for the order system.
//
// A cron-driven poller (github.com/robfig/cron/v3) claims due jobs from the
// durable queue every second and dispatches them to registered handlers:
//
// 1. ProcessOrderJob - drives a fresh order through inventory, payment, and confirmation
// 2. SendNotificationJob - delivers customer notifications over email and SMS
// 3. GenerateInvoiceJob - produces an invoice artifact for an order
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(worker, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Retry semantics
//
// A handler returning an error fails the current attempt; the queue
// reschedules the job with exponential backoff until its attempt budget is
// exhausted, after which the job record remains in a failed state for
// inspection. Successful jobs are removed from the queue entirely.
//
// Progress reporting and the prometheus lifecycle metrics are observability
// only and never alter control flow.
package jobs
