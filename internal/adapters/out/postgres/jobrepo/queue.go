package jobrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"orders/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJobQueue implements both the producer (ports.JobQueue) and consumer
// (ports.JobConsumer) sides of the job queue on a shared jobs table.
type GormJobQueue struct {
	db *gorm.DB
}

// NewGormJobQueue creates a job queue over the given database connection.
func NewGormJobQueue(db *gorm.DB) *GormJobQueue {
	return &GormJobQueue{db: db}
}

// Enqueue schedules a job for immediate execution. When a dedup key is set
// and a job with the same key already exists, the insert is silently skipped.
func (q *GormJobQueue) Enqueue(ctx context.Context, name string, payload any, opts ports.JobOptions) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	attempts := opts.Attempts
	if attempts < 1 {
		attempts = 1
	}

	now := time.Now().UTC()
	dto := JobDTO{
		ID:             uuid.New(),
		Name:           name,
		Payload:        raw,
		Status:         statusPending,
		Attempt:        0,
		MaxAttempts:    attempts,
		BackoffType:    string(opts.Backoff.Type),
		BackoffInitial: opts.Backoff.InitialDelay,
		RunAt:          now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if opts.DedupKey != "" {
		key := opts.DedupKey
		dto.DedupKey = &key
	}

	return q.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedup_key"}},
			DoNothing: true,
		}).
		Create(&dto).Error
}

// staleClaimAfter is how long an active job may go without a progress or
// status update before it is considered abandoned by a crashed worker and
// becomes claimable again.
const staleClaimAfter = 5 * time.Minute

// FetchDue atomically claims up to limit due jobs. Claimed rows are locked
// with FOR UPDATE SKIP LOCKED and flipped to active inside one transaction,
// so concurrent workers never receive the same job. Active jobs whose last
// update is older than staleClaimAfter are treated as abandoned: they are
// reclaimed if attempts remain, failed otherwise, so a worker crash never
// leaves a job (and its dedup key) stuck forever.
func (q *GormJobQueue) FetchDue(ctx context.Context, limit int) ([]ports.Job, error) {
	var dtos []JobDTO
	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		staleBefore := now.Add(-staleClaimAfter)

		err := tx.Model(&JobDTO{}).
			Where("status = ? AND updated_at <= ? AND attempt >= max_attempts", statusActive, staleBefore).
			Updates(map[string]any{
				"status":     statusFailed,
				"last_error": "abandoned by worker",
				"updated_at": now,
			}).Error
		if err != nil {
			return err
		}

		err = tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("(status = ? AND run_at <= ?) OR (status = ? AND updated_at <= ?)",
				statusPending, now, statusActive, staleBefore).
			Order("run_at").
			Limit(limit).
			Find(&dtos).Error
		if err != nil {
			return err
		}
		if len(dtos) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, 0, len(dtos))
		for _, dto := range dtos {
			ids = append(ids, dto.ID)
		}

		return tx.Model(&JobDTO{}).
			Where("id IN ?", ids).
			Updates(map[string]any{
				"status":     statusActive,
				"attempt":    gorm.Expr("attempt + 1"),
				"updated_at": time.Now().UTC(),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	jobs := make([]ports.Job, 0, len(dtos))
	for _, dto := range dtos {
		jobs = append(jobs, ports.Job{
			ID:          dto.ID.String(),
			Name:        dto.Name,
			Payload:     json.RawMessage(dto.Payload),
			Attempt:     dto.Attempt + 1,
			MaxAttempts: dto.MaxAttempts,
			Backoff: ports.Backoff{
				Type:         ports.BackoffType(dto.BackoffType),
				InitialDelay: dto.BackoffInitial,
			},
		})
	}

	return jobs, nil
}

// ReportProgress records the completion percentage of a running job.
func (q *GormJobQueue) ReportProgress(ctx context.Context, jobID string, percent int) error {
	id, err := uuid.Parse(jobID)
	if err != nil {
		return err
	}

	return q.db.WithContext(ctx).Model(&JobDTO{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"progress":   percent,
			"updated_at": time.Now().UTC(),
		}).Error
}

// Complete removes the job record after a successful run, which also frees
// its dedup key for future enqueues.
func (q *GormJobQueue) Complete(ctx context.Context, jobID string) error {
	id, err := uuid.Parse(jobID)
	if err != nil {
		return err
	}

	return q.db.WithContext(ctx).Delete(&JobDTO{}, "id = ?", id).Error
}

// Fail records a failed attempt. If attempts remain the job goes back to
// pending with its next run delayed by the backoff policy; otherwise it is
// left in the failed state for inspection.
func (q *GormJobQueue) Fail(ctx context.Context, jobID string, cause error) error {
	id, err := uuid.Parse(jobID)
	if err != nil {
		return err
	}

	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dto JobDTO
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&dto, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		lastError := ""
		if cause != nil {
			lastError = cause.Error()
		}

		updates := map[string]any{
			"last_error": lastError,
			"updated_at": time.Now().UTC(),
		}
		if dto.Attempt >= dto.MaxAttempts {
			updates["status"] = statusFailed
		} else {
			updates["status"] = statusPending
			updates["run_at"] = time.Now().UTC().Add(backoffDelay(ports.Backoff{
				Type:         ports.BackoffType(dto.BackoffType),
				InitialDelay: dto.BackoffInitial,
			}, dto.Attempt))
		}

		return tx.Model(&JobDTO{}).Where("id = ?", id).Updates(updates).Error
	})
}

// backoffDelay returns the delay before the attempt following failedAttempt.
// Exponential backoff doubles the initial delay per completed attempt:
// attempt 1 waits initial, attempt 2 waits 2*initial, and so on. Unknown
// backoff types fall back to a constant initial delay.
func backoffDelay(backoff ports.Backoff, failedAttempt int) time.Duration {
	if backoff.InitialDelay <= 0 {
		return 0
	}
	if backoff.Type != ports.BackoffExponential {
		return backoff.InitialDelay
	}

	delay := backoff.InitialDelay
	for i := 1; i < failedAttempt; i++ {
		delay *= 2
	}
	return delay
}
