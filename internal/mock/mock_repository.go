package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/StevenJWChen/layout-automation/pkg/model"
)

// MockJobRepository is a mock implementation of the JobRepository interface.
type MockJobRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockJobRepository) Create(ctx context.Context, job *model.SolveJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// GetByUUID mocks the GetByUUID method.
func (m *MockJobRepository) GetByUUID(ctx context.Context, uuid string) (*model.SolveJob, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SolveJob), args.Error(1)
}

// GetPending mocks the GetPending method.
func (m *MockJobRepository) GetPending(ctx context.Context, limit int) ([]*model.SolveJob, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SolveJob), args.Error(1)
}

// LockForSolve mocks the LockForSolve method.
func (m *MockJobRepository) LockForSolve(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MarkSolved mocks the MarkSolved method.
func (m *MockJobRepository) MarkSolved(ctx context.Context, id int64, resultKey string) error {
	args := m.Called(ctx, id, resultKey)
	return args.Error(0)
}

// MarkInfeasible mocks the MarkInfeasible method.
func (m *MockJobRepository) MarkInfeasible(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

// MarkFailed mocks the MarkFailed method.
func (m *MockJobRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

// ExpectGetPending sets up an expectation for GetPending.
func (m *MockJobRepository) ExpectGetPending(limit int, jobs []*model.SolveJob, err error) *mock.Call {
	return m.On("GetPending", mock.Anything, limit).Return(jobs, err)
}

// ExpectLockForSolve sets up an expectation for LockForSolve.
func (m *MockJobRepository) ExpectLockForSolve(id int64, success bool, err error) *mock.Call {
	return m.On("LockForSolve", mock.Anything, id).Return(success, err)
}
