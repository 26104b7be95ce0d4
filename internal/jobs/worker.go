package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

const fetchBatchSize = 10

// ProgressFunc reports the completion percentage of the running job.
// Reporting is observability only; handlers ignore its outcome.
type ProgressFunc func(percent int)

// Handler executes one kind of background job.
type Handler interface {
	Run(ctx context.Context, job ports.Job, progress ProgressFunc) error
}

// Worker polls the durable job queue every second and dispatches claimed jobs
// to their registered handlers. Jobs run concurrently, bounded by the pool
// size; a job with no registered handler is failed immediately.
type Worker struct {
	consumer ports.JobConsumer
	handlers map[string]Handler
	pool     chan struct{}
	cron     *cron.Cron
	wg       sync.WaitGroup
	metrics  *WorkerMetrics
	logger   *slog.Logger
}

// NewWorker creates a worker with the given concurrency bound.
func NewWorker(consumer ports.JobConsumer, poolSize int, metrics *WorkerMetrics, logger *slog.Logger) *Worker {
	if poolSize < 1 {
		poolSize = 1
	}
	return &Worker{
		consumer: consumer,
		handlers: make(map[string]Handler),
		pool:     make(chan struct{}, poolSize),
		cron:     cron.New(cron.WithSeconds()),
		metrics:  metrics,
		logger:   logger.With("component", "fulfillment_worker"),
	}
}

// Register binds a handler to a job name. Must be called before Start.
func (w *Worker) Register(name string, handler Handler) {
	w.handlers[name] = handler
}

// Start begins polling the queue every second.
func (w *Worker) Start() error {
	_, err := w.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		jobs, err := w.consumer.FetchDue(ctx, fetchBatchSize)
		if err != nil {
			w.logger.ErrorContext(ctx, "Failed to fetch due jobs", "error", err)
			return
		}

		for _, job := range jobs {
			w.pool <- struct{}{}
			w.wg.Add(1)
			go func(job ports.Job) {
				defer func() {
					<-w.pool
					w.wg.Done()
				}()
				w.runJob(ctx, job)
			}(job)
		}
	})
	if err != nil {
		return err
	}

	w.cron.Start()
	w.logger.InfoContext(context.Background(), "Fulfillment worker started (polling every second)")
	return nil
}

// Stop stops polling and waits for in-flight jobs to finish.
func (w *Worker) Stop() {
	<-w.cron.Stop().Done()
	w.wg.Wait()
	w.logger.InfoContext(context.Background(), "Fulfillment worker stopped")
}

func (w *Worker) runJob(ctx context.Context, job ports.Job) {
	logger := w.logger.With("job", job.Name, "jobId", job.ID, "attempt", job.Attempt)

	handler, ok := w.handlers[job.Name]
	if !ok {
		logger.ErrorContext(ctx, "No handler registered for job")
		if err := w.consumer.Fail(ctx, job.ID, errs.NewValueIsInvalidError("jobName")); err != nil {
			logger.ErrorContext(ctx, "Failed to mark job failed", "error", err)
		}
		return
	}

	w.metrics.Started.WithLabelValues(job.Name).Inc()
	started := time.Now()

	progress := func(percent int) {
		if err := w.consumer.ReportProgress(ctx, job.ID, percent); err != nil {
			logger.WarnContext(ctx, "Failed to report job progress", "percent", percent, "error", err)
		}
	}

	err := handler.Run(ctx, job, progress)
	w.metrics.DurationMS.WithLabelValues(job.Name).Observe(float64(time.Since(started).Milliseconds()))

	if err != nil {
		w.metrics.Failed.WithLabelValues(job.Name).Inc()
		logger.ErrorContext(ctx, "Job attempt failed", "error", err)
		if failErr := w.consumer.Fail(ctx, job.ID, err); failErr != nil {
			logger.ErrorContext(ctx, "Failed to record job failure", "error", failErr)
		}
		return
	}

	w.metrics.Completed.WithLabelValues(job.Name).Inc()
	if err := w.consumer.Complete(ctx, job.ID); err != nil {
		logger.ErrorContext(ctx, "Failed to complete job", "error", err)
	}
}
