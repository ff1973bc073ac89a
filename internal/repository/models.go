// Package repository provides database abstraction for the layout solve
// job service.
package repository

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/StevenJWChen/layout-automation/pkg/model"
)

// SolveJobRecord represents the solve_job table: a job-lifecycle row keyed
// by UUID, carrying storage keys for the job document and solved-tree
// result instead of inline payload columns.
type SolveJobRecord struct {
	ID         int64            `gorm:"column:id;primaryKey;autoIncrement"`
	UUID       string           `gorm:"column:uuid;type:varchar(64);uniqueIndex"`
	Status     model.JobStatus  `gorm:"column:status;type:varchar(16)"`
	InputKey   string           `gorm:"column:input_key;type:varchar(512)"`
	ResultKey  string           `gorm:"column:result_key;type:varchar(512)"`
	Error      string           `gorm:"column:error;type:text"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	StartedAt  *time.Time       `gorm:"column:started_at"`
	FinishedAt *time.Time       `gorm:"column:finished_at"`
}

// TableName returns the table name for SolveJobRecord.
func (SolveJobRecord) TableName() string {
	return "solve_job"
}

// ToModel converts a SolveJobRecord to model.SolveJob.
func (r *SolveJobRecord) ToModel() *model.SolveJob {
	return &model.SolveJob{
		ID:         r.ID,
		UUID:       r.UUID,
		Status:     r.Status,
		InputKey:   r.InputKey,
		ResultKey:  r.ResultKey,
		Error:      r.Error,
		CreatedAt:  r.CreatedAt,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

// fromModel builds a SolveJobRecord from a model.SolveJob for inserts.
func fromModel(j *model.SolveJob) *SolveJobRecord {
	return &SolveJobRecord{
		UUID:      j.UUID,
		Status:    j.Status,
		InputKey:  j.InputKey,
		ResultKey: j.ResultKey,
		Error:     j.Error,
	}
}

// JSONField is a custom type for handling JSON fields in GORM.
type JSONField []byte

// Value implements driver.Valuer interface.
func (j JSONField) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements sql.Scanner interface.
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = []byte(v)
		return nil
	default:
		return errors.New("unsupported type for JSONField")
	}
}

// MarshalJSON implements json.Marshaler interface.
func (j JSONField) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (j *JSONField) UnmarshalJSON(data []byte) error {
	if data == nil || string(data) == "null" {
		*j = nil
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}
