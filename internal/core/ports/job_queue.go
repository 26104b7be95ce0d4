package ports

import (
	"context"
	"encoding/json"
	"time"
)

// BackoffType names a retry delay strategy.
type BackoffType string

// BackoffExponential doubles the delay on every failed attempt:
// initial, 2*initial, 4*initial, and so on.
const BackoffExponential BackoffType = "exponential"

// Backoff describes the retry delay policy of a job.
type Backoff struct {
	Type         BackoffType
	InitialDelay time.Duration
}

// JobOptions configures a job at enqueue time.
type JobOptions struct {
	// Attempts is the maximum number of executions before the job is left in
	// a failed, inspectable state.
	Attempts int

	// Backoff governs the delay between attempts.
	Backoff Backoff

	// DedupKey, when non-empty, makes the enqueue idempotent: a second
	// enqueue with the same key while the first job is still pending or
	// running is a no-op.
	DedupKey string
}

// Job is a unit of background work fetched from the queue.
type Job struct {
	ID          string
	Name        string
	Payload     json.RawMessage
	Attempt     int // 1-based, the attempt currently executing
	MaxAttempts int
	Backoff     Backoff
}

// JobQueue is the producer side of the named job queue.
type JobQueue interface {
	// Enqueue schedules a job for immediate execution. The payload is
	// serialized to JSON. See JobOptions for retry and dedup behavior.
	Enqueue(ctx context.Context, name string, payload any, opts JobOptions) error
}

// JobConsumer is the worker side of the job queue.
type JobConsumer interface {
	// FetchDue atomically claims up to limit jobs that are due to run.
	// A claimed job is invisible to other consumers until completed or failed.
	FetchDue(ctx context.Context, limit int) ([]Job, error)

	// ReportProgress records the completion percentage of a running job.
	// Observability only; failures here must not abort the job.
	ReportProgress(ctx context.Context, jobID string, percent int) error

	// Complete removes the job record after a successful run.
	Complete(ctx context.Context, jobID string) error

	// Fail records a failed attempt. If attempts remain, the job is
	// rescheduled after its backoff delay; otherwise it stays in a failed,
	// inspectable state.
	Fail(ctx context.Context, jobID string, cause error) error
}
