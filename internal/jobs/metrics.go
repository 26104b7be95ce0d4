package jobs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WorkerMetrics exposes job lifecycle counters and run duration. Purely
// observational: recording never alters job control flow.
type WorkerMetrics struct {
	Started    *prometheus.CounterVec
	Completed  *prometheus.CounterVec
	Failed     *prometheus.CounterVec
	DurationMS *prometheus.HistogramVec
}

// NewWorkerMetrics creates and registers the worker metric set.
func NewWorkerMetrics() *WorkerMetrics {
	started := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orders",
		Subsystem: "worker",
		Name:      "jobs_started_total",
		Help:      "Total number of job attempts started.",
	}, []string{"job"})
	completed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orders",
		Subsystem: "worker",
		Name:      "jobs_completed_total",
		Help:      "Total number of jobs completed successfully.",
	}, []string{"job"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orders",
		Subsystem: "worker",
		Name:      "jobs_failed_total",
		Help:      "Total number of failed job attempts.",
	}, []string{"job"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "orders",
		Subsystem: "worker",
		Name:      "job_duration_ms",
		Help:      "Job attempt duration in milliseconds.",
		Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	}, []string{"job"})

	prometheus.MustRegister(started, completed, failed, duration)
	return &WorkerMetrics{
		Started:    started,
		Completed:  completed,
		Failed:     failed,
		DurationMS: duration,
	}
}
