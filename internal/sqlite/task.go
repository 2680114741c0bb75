package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/timekeep/internal/domain/task"
	"github.com/rpggio/timekeep/internal/repository"
)

var _ task.Repository = (*TaskRepository)(nil)

// TaskRepository implements task.Repository for SQLite
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, tenant_id, name, priority, is_running, last_start_time, total_elapsed_time, created_at, updated_at`

// Create inserts a new task
func (r *TaskRepository) Create(ctx context.Context, tenantID string, t *task.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		t.ID,
		tenantID,
		t.Name,
		string(t.Priority),
		t.IsRunning,
		utcPtr(t.LastStartTime),
		t.TotalElapsedTime,
		utc(t.CreatedAt),
		utc(t.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create task: %w", err)
	}

	t.TenantID = tenantID
	return nil
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, tenantID, id string) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND tenant_id = ?`

	t, err := scanTask(r.db.conn(ctx).QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

var taskOrderColumns = map[task.SortField]string{
	task.SortByName:             "name COLLATE NOCASE",
	task.SortByPriority:         "priority",
	task.SortByLastStartTime:    "last_start_time",
	task.SortByTotalElapsedTime: "total_elapsed_time",
}

// List returns all tasks for a tenant in the requested order
func (r *TaskRepository) List(ctx context.Context, tenantID string, opts task.ListOptions) ([]task.Task, error) {
	column, ok := taskOrderColumns[opts.SortField]
	if !ok {
		column = taskOrderColumns[task.SortByLastStartTime]
	}
	direction := "DESC"
	if opts.SortOrder == task.SortAsc {
		direction = "ASC"
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE tenant_id = ?` +
		` ORDER BY ` + column + ` ` + direction + `, created_at ASC`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}

// Update writes every mutable column of a task
func (r *TaskRepository) Update(ctx context.Context, tenantID string, t *task.Task) error {
	query := `
		UPDATE tasks
		SET name = ?, priority = ?, is_running = ?, last_start_time = ?,
			total_elapsed_time = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		t.Name,
		string(t.Priority),
		t.IsRunning,
		utcPtr(t.LastStartTime),
		t.TotalElapsedTime,
		utc(t.UpdatedAt),
		t.ID,
		tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a task. History rows must be deleted first.
func (r *TaskRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND tenant_id = ?`, id, tenantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*task.Task, error) {
	var t task.Task
	var lastStart sql.NullTime
	if err := row.Scan(
		&t.ID,
		&t.TenantID,
		&t.Name,
		&t.Priority,
		&t.IsRunning,
		&lastStart,
		&t.TotalElapsedTime,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if lastStart.Valid {
		ts := lastStart.Time
		t.LastStartTime = &ts
	}
	return &t, nil
}
