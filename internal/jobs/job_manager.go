package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates the background worker of the application.
// Provides a unified interface to start and stop background processing.
type JobManager struct {
	worker *Worker
	logger *slog.Logger
}

// NewJobManager creates a job manager around a fully registered worker.
func NewJobManager(worker *Worker, logger *slog.Logger) *JobManager {
	return &JobManager{
		worker: worker,
		logger: logger.With("component", "job_manager"),
	}
}

// StartAll starts background processing.
// Returns an error if the worker fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.worker.Start(); err != nil {
		return fmt.Errorf("failed to start fulfillment worker: %w", err)
	}
	return nil
}

// StopAll stops background processing gracefully, waiting for in-flight jobs.
func (jm *JobManager) StopAll() {
	jm.worker.Stop()
}
