// Package app opens the store and assembles the domain services shared by
// the server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rpggio/timekeep/internal/auth"
	"github.com/rpggio/timekeep/internal/domain/activity"
	"github.com/rpggio/timekeep/internal/domain/history"
	"github.com/rpggio/timekeep/internal/domain/report"
	"github.com/rpggio/timekeep/internal/domain/task"
	"github.com/rpggio/timekeep/internal/mcp"
	"github.com/rpggio/timekeep/internal/sqlite"
)

// ErrLocked is returned by Lock when another process holds the database lock
// past the wait.
var ErrLocked = errors.New("database is in use by another timekeep process")

// App holds an open database and the services built on it.
type App struct {
	DB       *sqlite.DB
	Tasks    *task.Service
	History  *history.Service
	Reports  *report.Service
	Activity *activity.Service
	Auth     *auth.Service
}

// Open opens (creating if needed) the database at path, migrates it and
// wires the services. Days are bucketed in loc.
func Open(path string, loc *time.Location, logger *slog.Logger) (*App, error) {
	if err := ensureDBDir(path); err != nil {
		return nil, fmt.Errorf("preparing database path: %w", err)
	}
	db, err := sqlite.New(path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db, loc, logger), nil
}

// New wires the services over an already migrated database.
func New(db *sqlite.DB, loc *time.Location, logger *slog.Logger) *App {
	taskRepo := sqlite.NewTaskRepository(db)
	historyRepo := sqlite.NewHistoryRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	keyRepo := sqlite.NewAPIKeyRepository(db)

	a := &App{
		DB:       db,
		Tasks:    task.NewService(taskRepo, historyRepo, db, activityRepo, logger),
		History:  history.NewService(historyRepo, logger),
		Reports:  report.NewService(historyRepo, logger),
		Activity: activity.NewService(activityRepo, logger),
		Auth:     auth.NewService(keyRepo, logger),
	}
	a.Tasks.SetLocation(loc)
	a.Reports.SetLocation(loc)
	return a
}

// SetClock replaces the time source of the clock-dependent services.
func (a *App) SetClock(now func() time.Time) {
	a.Tasks.SetClock(now)
	a.Reports.SetClock(now)
}

// MCPServices returns the services exposed as tools.
func (a *App) MCPServices() mcp.Services {
	return mcp.Services{
		Tasks:    a.Tasks,
		History:  a.History,
		Reports:  a.Reports,
		Activity: a.Activity,
	}
}

// Close closes the database.
func (a *App) Close() error {
	return a.DB.Close()
}

// Lock takes the exclusive lock file next to the database at dbPath, retrying
// for up to wait. The caller releases it with Unlock.
func Lock(ctx context.Context, dbPath string, wait time.Duration) (*flock.Flock, error) {
	if err := ensureDBDir(dbPath); err != nil {
		return nil, fmt.Errorf("preparing lock path: %w", err)
	}
	lock := flock.New(dbPath + ".lock")

	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	locked, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return lock, nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
