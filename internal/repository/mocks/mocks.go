package mocks

import (
	"context"
	"time"

	"github.com/rpggio/timekeep/internal/auth"
	"github.com/rpggio/timekeep/internal/domain/activity"
	"github.com/rpggio/timekeep/internal/domain/history"
	"github.com/rpggio/timekeep/internal/domain/task"
	"github.com/stretchr/testify/mock"
)

// TaskRepository is a mock for task.Repository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, tenantID string, t *task.Task) error {
	args := m.Called(ctx, tenantID, t)
	return args.Error(0)
}

func (m *TaskRepository) Get(ctx context.Context, tenantID, id string) (*task.Task, error) {
	args := m.Called(ctx, tenantID, id)
	if t, ok := args.Get(0).(*task.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) List(ctx context.Context, tenantID string, opts task.ListOptions) ([]task.Task, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]task.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Update(ctx context.Context, tenantID string, t *task.Task) error {
	args := m.Called(ctx, tenantID, t)
	return args.Error(0)
}

func (m *TaskRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// HistoryRepository is a mock for task.HistoryRepository and history.Repository.
type HistoryRepository struct {
	mock.Mock
}

func (m *HistoryRepository) FindByTaskAndDate(ctx context.Context, tenantID, taskID, startDate string) (*history.Entry, error) {
	args := m.Called(ctx, tenantID, taskID, startDate)
	if e, ok := args.Get(0).(*history.Entry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *HistoryRepository) Create(ctx context.Context, tenantID string, entry *history.Entry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *HistoryRepository) Update(ctx context.Context, tenantID string, entry *history.Entry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *HistoryRepository) DeleteByTask(ctx context.Context, tenantID, taskID string) error {
	args := m.Called(ctx, tenantID, taskID)
	return args.Error(0)
}

func (m *HistoryRepository) List(ctx context.Context, tenantID string, filter history.Filter) ([]history.Entry, error) {
	args := m.Called(ctx, tenantID, filter)
	if list, ok := args.Get(0).([]history.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Transactor is a mock for task.Transactor. When the expectation returns a
// nil error the callback runs with the same context.
type Transactor struct {
	mock.Mock
}

func (m *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.Entry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// APIKeyRepository is a mock for auth.Repository.
type APIKeyRepository struct {
	mock.Mock
}

func (m *APIKeyRepository) Create(ctx context.Context, key *auth.APIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *APIKeyRepository) GetByHash(ctx context.Context, keyHash string) (*auth.APIKey, error) {
	args := m.Called(ctx, keyHash)
	if k, ok := args.Get(0).(*auth.APIKey); ok {
		return k, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *APIKeyRepository) List(ctx context.Context, tenantID string) ([]auth.APIKey, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]auth.APIKey); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *APIKeyRepository) Revoke(ctx context.Context, tenantID, id string, at time.Time) error {
	args := m.Called(ctx, tenantID, id, at)
	return args.Error(0)
}

func (m *APIKeyRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
