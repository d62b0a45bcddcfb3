package job

import (
	"context"
	"time"
)

// Repository defines the interface for job persistence operations.
type Repository interface {
	// FindByID retrieves a job by its unique identifier.
	// Returns nil if not found.
	FindByID(ctx context.Context, id string) (*Job, error)

	// FindRecent retrieves up to limit jobs, newest first.
	FindRecent(ctx context.Context, limit int) ([]*Job, error)

	// Insert creates a new job and assigns its ID.
	Insert(ctx context.Context, job *Job) error

	// UpdateStatus records the outcome of a job.
	UpdateStatus(ctx context.Context, id string, status Status, errMsg string, finishedAt time.Time) error

	// DeleteAll removes every job.
	DeleteAll(ctx context.Context) error
}
