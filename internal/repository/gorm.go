package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/StevenJWChen/layout-automation/pkg/model"
)

// GormJobRepository implements JobRepository using GORM: row-locking via
// clause.Locking, the create/get/update shape, and the
// not-found-vs-other-error split on gorm.ErrRecordNotFound.
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new GormJobRepository.
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// Create inserts a new pending job and assigns its ID.
func (r *GormJobRepository) Create(ctx context.Context, job *model.SolveJob) error {
	record := fromModel(job)
	record.Status = model.JobStatusPending

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create solve job: %w", err)
	}
	job.ID = record.ID
	job.Status = record.Status
	job.CreatedAt = record.CreatedAt
	return nil
}

// GetByUUID retrieves a job by its UUID.
func (r *GormJobRepository) GetByUUID(ctx context.Context, uuid string) (*model.SolveJob, error) {
	var record SolveJobRecord

	err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job not found: %s", uuid)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return record.ToModel(), nil
}

// GetPending retrieves up to limit jobs in pending status, oldest first.
func (r *GormJobRepository) GetPending(ctx context.Context, limit int) ([]*model.SolveJob, error) {
	var records []SolveJobRecord

	err := r.db.WithContext(ctx).
		Where("status = ?", model.JobStatusPending).
		Order("id ASC").
		Limit(limit).
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to query pending jobs: %w", err)
	}

	jobs := make([]*model.SolveJob, len(records))
	for i, rec := range records {
		jobs[i] = rec.ToModel()
	}
	return jobs, nil
}

// LockForSolve atomically transitions a pending job to running.
func (r *GormJobRepository) LockForSolve(ctx context.Context, id int64) (bool, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record SolveJobRecord

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND status = ?", id, model.JobStatusPending).
			First(&record).Error
		if err != nil {
			return err
		}

		now := time.Now()
		return tx.Model(&SolveJobRecord{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":     model.JobStatusRunning,
				"started_at": now,
			}).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to lock job: %w", err)
	}
	return true, nil
}

// MarkSolved records a successful solve and its result storage key.
func (r *GormJobRepository) MarkSolved(ctx context.Context, id int64, resultKey string) error {
	return r.finish(ctx, id, model.JobStatusSolved, resultKey, "")
}

// MarkInfeasible records that the job's constraints had no solution.
func (r *GormJobRepository) MarkInfeasible(ctx context.Context, id int64, reason string) error {
	return r.finish(ctx, id, model.JobStatusInfeasible, "", reason)
}

// MarkFailed records a backend error (timeout, import/export failure).
func (r *GormJobRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	return r.finish(ctx, id, model.JobStatusFailed, "", reason)
}

func (r *GormJobRepository) finish(ctx context.Context, id int64, status model.JobStatus, resultKey, reason string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&SolveJobRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"result_key":  resultKey,
			"error":       reason,
			"finished_at": now,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to finish job %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("job not found: %d", id)
	}
	return nil
}
