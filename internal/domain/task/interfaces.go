package task

import (
	"context"

	"github.com/rpggio/timekeep/internal/domain/activity"
	"github.com/rpggio/timekeep/internal/domain/history"
)

// Repository provides persistence for tasks.
type Repository interface {
	Create(ctx context.Context, tenantID string, t *Task) error
	Get(ctx context.Context, tenantID, id string) (*Task, error)
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Task, error)
	Update(ctx context.Context, tenantID string, t *Task) error
	Delete(ctx context.Context, tenantID, id string) error
}

// HistoryRepository provides the per-day history writes made by the timer.
type HistoryRepository interface {
	FindByTaskAndDate(ctx context.Context, tenantID, taskID, startDate string) (*history.Entry, error)
	Create(ctx context.Context, tenantID string, entry *history.Entry) error
	Update(ctx context.Context, tenantID string, entry *history.Entry) error
	DeleteByTask(ctx context.Context, tenantID, taskID string) error
}

// Transactor runs fn so that every repository call made with the context it
// receives commits or rolls back together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ActivityRepository logs task activities.
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.Entry) error
}
