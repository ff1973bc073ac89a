package repository

import (
	"context"

	"github.com/StevenJWChen/layout-automation/pkg/model"
)

// JobRepository defines the interface for solve-job database operations.
// The Scheduler and Job Service depend on this interface, not on GORM
// directly.
type JobRepository interface {
	// Create inserts a new pending job and assigns its ID.
	Create(ctx context.Context, job *model.SolveJob) error

	// GetByUUID retrieves a job by its UUID.
	GetByUUID(ctx context.Context, uuid string) (*model.SolveJob, error)

	// GetPending retrieves up to limit jobs in pending status, oldest first.
	GetPending(ctx context.Context, limit int) ([]*model.SolveJob, error)

	// LockForSolve atomically transitions a pending job to running,
	// returning false if another worker already claimed it.
	LockForSolve(ctx context.Context, id int64) (bool, error)

	// MarkSolved records a successful solve and its result storage key.
	MarkSolved(ctx context.Context, id int64, resultKey string) error

	// MarkInfeasible records that the job's constraints had no solution.
	MarkInfeasible(ctx context.Context, id int64, reason string) error

	// MarkFailed records a backend error (timeout, import/export failure).
	MarkFailed(ctx context.Context, id int64, reason string) error
}
