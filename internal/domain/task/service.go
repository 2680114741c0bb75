package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/timekeep/internal/domain/activity"
	"github.com/rpggio/timekeep/internal/domain/history"
	"github.com/rpggio/timekeep/internal/interval"
	"github.com/rpggio/timekeep/internal/repository"
)

// Service runs the task timer and keeps per-day history in step with each
// task's total.
type Service struct {
	tasks      Repository
	history    HistoryRepository
	tx         Transactor
	activities ActivityRepository
	cache      *Cache
	logger     *slog.Logger
	now        func() time.Time
	loc        *time.Location
}

// NewService creates a new task service. tx and activities may be nil; without
// a Transactor the history and task writes of Stop are not atomic.
func NewService(
	tasks Repository,
	hist HistoryRepository,
	tx Transactor,
	activities ActivityRepository,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		tasks:      tasks,
		history:    hist,
		tx:         tx,
		activities: activities,
		cache:      NewCache(),
		logger:     logger,
		now:        time.Now,
		loc:        time.Local,
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SetLocation sets the zone whose calendar days history is bucketed by.
func (s *Service) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

// Location returns the zone used for day bucketing.
func (s *Service) Location() *time.Location {
	return s.loc
}

// CreateRequest describes a task creation request.
type CreateRequest struct {
	Name     string
	Priority Priority
}

// Create inserts a new idle task. Empty fields take their defaults.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Task, error) {
	if tenantID == "" {
		return nil, ErrInvalidInput
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = DefaultName
	}
	priority := req.Priority
	if priority == "" {
		priority = DefaultPriority
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	now := s.now()
	t := &Task{
		ID:               uuid.NewString(),
		TenantID:         tenantID,
		Name:             name,
		Priority:         priority,
		TotalElapsedTime: interval.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.tasks.Create(ctx, tenantID, t); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	s.cache.put(tenantID, *t)

	s.logActivity(ctx, tenantID, t.ID, activity.TypeTaskCreated, fmt.Sprintf("created task %q", t.Name))
	return t, nil
}

// List returns the user's tasks in the requested order and refreshes the
// cache with them.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]Task, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	list, err := s.tasks.List(ctx, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	// interval text does not order numerically once hours pass 99
	if opts.SortField == SortByTotalElapsedTime {
		SortByElapsed(list, opts.SortOrder)
	}
	s.cache.replaceAll(tenantID, list)
	return list, nil
}

// Cached returns the last-known-good task list without touching persistence.
func (s *Service) Cached(tenantID string) []Task {
	return s.cache.Snapshot(tenantID)
}

// Get returns a task by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Task, error) {
	t, err := s.tasks.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

// Start moves an idle task to running. Starting a running task is a no-op.
func (s *Service) Start(ctx context.Context, tenantID, id string) (*Task, error) {
	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if current.IsRunning {
		s.logger.Debug("start ignored: timer already running", "task_id", id)
		return current, nil
	}

	now := s.now()
	updated := *current
	updated.IsRunning = true
	updated.LastStartTime = &now
	updated.UpdatedAt = now

	if err := s.update(ctx, tenantID, &updated); err != nil {
		return nil, err
	}
	s.cache.put(tenantID, updated)

	s.logActivity(ctx, tenantID, id, activity.TypeTimerStarted, fmt.Sprintf("started %q", updated.Name))
	return &updated, nil
}

// Stop moves a running task to idle, adds the session to the task total and
// to the history row for the calendar day the session started on. Both
// writes commit together or not at all. Stopping an idle task is a no-op.
func (s *Service) Stop(ctx context.Context, tenantID, id string) (*Task, error) {
	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !current.IsRunning || current.LastStartTime == nil {
		s.logger.Debug("stop ignored: timer not running", "task_id", id)
		return current, nil
	}

	now := s.now()
	start := *current.LastStartTime
	session := now.Sub(start)
	regressed := session < 0
	if regressed {
		s.logger.Warn("clock regression on stop, session counted as zero",
			"task_id", id, "last_start_time", start, "now", now)
		session = 0
	}
	sessionMs := session.Milliseconds()
	day := start.In(s.loc).Format(history.DateLayout)

	updated := *current
	updated.IsRunning = false
	updated.TotalElapsedTime = interval.Encode(current.TotalElapsedMs() + sessionMs)
	updated.UpdatedAt = now

	err = s.withinTx(ctx, func(ctx context.Context) error {
		if err := s.addToHistory(ctx, tenantID, id, day, sessionMs, now); err != nil {
			return err
		}
		return s.update(ctx, tenantID, &updated)
	})
	if err != nil {
		return nil, err
	}
	s.cache.put(tenantID, updated)

	if regressed {
		s.logActivity(ctx, tenantID, id, activity.TypeClockRegression,
			fmt.Sprintf("stop time %s precedes start time %s", now.Format(time.RFC3339), start.Format(time.RFC3339)))
	}
	s.logActivity(ctx, tenantID, id, activity.TypeTimerStopped,
		fmt.Sprintf("stopped %q after %s", updated.Name, interval.Encode(sessionMs)))
	return &updated, nil
}

func (s *Service) addToHistory(ctx context.Context, tenantID, taskID, day string, sessionMs int64, now time.Time) error {
	existing, err := s.history.FindByTaskAndDate(ctx, tenantID, taskID, day)
	switch {
	case err == nil:
		entry := *existing
		entry.ElapsedTime = interval.Encode(existing.ElapsedMs() + sessionMs)
		entry.UpdatedAt = now
		if err := s.history.Update(ctx, tenantID, &entry); err != nil {
			return fmt.Errorf("updating history: %w", err)
		}
		return nil
	case errors.Is(err, repository.ErrNotFound):
		entry := &history.Entry{
			ID:          uuid.NewString(),
			TenantID:    tenantID,
			TaskID:      taskID,
			StartDate:   day,
			ElapsedTime: interval.Encode(sessionMs),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.history.Create(ctx, tenantID, entry); err != nil {
			return fmt.Errorf("creating history: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("loading history: %w", err)
	}
}

// Rename changes a task's name. A blank name is ignored and the task is
// returned unchanged.
func (s *Service) Rename(ctx context.Context, tenantID, id, name string) (*Task, error) {
	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" || name == current.Name {
		return current, nil
	}

	updated := *current
	updated.Name = name
	updated.UpdatedAt = s.now()
	if err := s.update(ctx, tenantID, &updated); err != nil {
		return nil, err
	}
	s.cache.put(tenantID, updated)

	s.logActivity(ctx, tenantID, id, activity.TypeTaskRenamed, fmt.Sprintf("renamed %q to %q", current.Name, name))
	return &updated, nil
}

// SetPriority changes a task's priority.
func (s *Service) SetPriority(ctx context.Context, tenantID, id string, p Priority) (*Task, error) {
	if !p.Valid() {
		return nil, ErrInvalidPriority
	}
	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if current.Priority == p {
		return current, nil
	}

	updated := *current
	updated.Priority = p
	updated.UpdatedAt = s.now()
	if err := s.update(ctx, tenantID, &updated); err != nil {
		return nil, err
	}
	s.cache.put(tenantID, updated)

	s.logActivity(ctx, tenantID, id, activity.TypePriorityChanged,
		fmt.Sprintf("priority of %q changed from %s to %s", updated.Name, current.Priority, p))
	return &updated, nil
}

// Delete removes a task's history and then the task. If the history delete
// fails the task is left in place.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	err := s.withinTx(ctx, func(ctx context.Context) error {
		if err := s.history.DeleteByTask(ctx, tenantID, id); err != nil {
			return fmt.Errorf("deleting history: %w", err)
		}
		if err := s.tasks.Delete(ctx, tenantID, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("deleting task: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.remove(tenantID, id)

	s.logActivity(ctx, tenantID, id, activity.TypeTaskDeleted, "deleted task")
	return nil
}

func (s *Service) update(ctx context.Context, tenantID string, t *Task) error {
	if err := s.tasks.Update(ctx, tenantID, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

func (s *Service) withinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.WithinTx(ctx, fn)
}

func (s *Service) logActivity(ctx context.Context, tenantID, taskID string, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	id := taskID
	if err := s.activities.Log(ctx, tenantID, &activity.Entry{
		TaskID:    &id,
		Type:      typ,
		Summary:   summary,
		CreatedAt: s.now(),
	}); err != nil {
		s.logger.Warn("logging activity failed", "type", typ, "task_id", taskID, "error", err)
	}
}

// SortByElapsed orders tasks by decoded total elapsed time. Ties keep their
// existing order.
func SortByElapsed(list []Task, order SortOrder) {
	slices.SortStableFunc(list, func(a, b Task) int {
		d := a.TotalElapsedMs() - b.TotalElapsedMs()
		if order == SortDesc {
			d = -d
		}
		switch {
		case d < 0:
			return -1
		case d > 0:
			return 1
		}
		return 0
	})
}
