package scheduler

import (
	"context"

	"github.com/StevenJWChen/layout-automation/internal/repository"
	"github.com/StevenJWChen/layout-automation/pkg/model"
)

// RepositoryJobFetcher implements JobFetcher using the job repository.
type RepositoryJobFetcher struct {
	jobs repository.JobRepository
}

// NewRepositoryJobFetcher creates a new RepositoryJobFetcher.
func NewRepositoryJobFetcher(jobs repository.JobRepository) *RepositoryJobFetcher {
	return &RepositoryJobFetcher{jobs: jobs}
}

// FetchPending returns up to limit pending solve jobs.
func (f *RepositoryJobFetcher) FetchPending(ctx context.Context, limit int) ([]*model.SolveJob, error) {
	return f.jobs.GetPending(ctx, limit)
}

// Lock attempts to claim a job for processing, transitioning it out of
// pending so no other poll cycle (or replica) picks it up concurrently.
func (f *RepositoryJobFetcher) Lock(ctx context.Context, id int64) (bool, error) {
	return f.jobs.LockForSolve(ctx, id)
}
