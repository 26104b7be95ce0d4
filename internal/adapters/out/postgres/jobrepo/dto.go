// Package jobrepo provides a durable background job queue backed by PostgreSQL.
// Jobs are stored in a table and claimed by workers with row-level locking,
// so multiple worker processes can poll the same queue without double
// execution. Retry scheduling and enqueue deduplication are handled at the
// storage level.
package jobrepo

import (
	"time"

	"github.com/google/uuid"
)

// Job lifecycle states as stored in the status column.
const (
	statusPending = "pending"
	statusActive  = "active"
	statusFailed  = "failed"
)

// JobDTO represents one queued job. Completed jobs are deleted rather than
// kept, so the table only holds pending, running, and dead work. The dedup
// key carries a unique index: a second enqueue with the same key while the
// first job is still present is rejected by the database and treated as a
// no-op.
type JobDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"index"`
	Payload        []byte    `gorm:"type:jsonb"`
	DedupKey       *string   `gorm:"uniqueIndex"`
	Status         string    `gorm:"index:idx_jobs_due"`
	Attempt        int
	MaxAttempts    int
	BackoffType    string
	BackoffInitial time.Duration
	Progress       int
	RunAt          time.Time `gorm:"index:idx_jobs_due"`
	LastError      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the database table name for queued jobs.
func (JobDTO) TableName() string {
	return "jobs"
}
