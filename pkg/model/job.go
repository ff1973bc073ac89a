// Package model holds the data types exchanged between the core solver
// library and its ambient layers (CLI, job service, repository).
package model

import "time"

// JobStatus is the lifecycle state of a SolveJob.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusRunning    JobStatus = "running"
	JobStatusSolved     JobStatus = "solved"
	JobStatusInfeasible JobStatus = "infeasible"
	JobStatusFailed     JobStatus = "failed"
)

// SolveJob is a persisted record of one solve() invocation requested
// through the Job Service.
type SolveJob struct {
	ID         int64      `json:"id"`
	UUID       string     `json:"uuid"`
	Status     JobStatus  `json:"status"`
	InputKey   string     `json:"input_key"`            // storage key of the job document
	ResultKey  string     `json:"result_key,omitempty"` // storage key of the solved-tree JSON, once solved
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
