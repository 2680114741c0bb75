package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/timekeep/internal/domain/history"
	"github.com/rpggio/timekeep/internal/domain/task"
	"github.com/rpggio/timekeep/internal/repository"
)

var (
	_ task.HistoryRepository = (*HistoryRepository)(nil)
	_ history.Repository     = (*HistoryRepository)(nil)
)

// HistoryRepository implements the per-day history store for SQLite
type HistoryRepository struct {
	db *DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// FindByTaskAndDate returns the row for one task on one day
func (r *HistoryRepository) FindByTaskAndDate(ctx context.Context, tenantID, taskID, startDate string) (*history.Entry, error) {
	query := `
		SELECT id, tenant_id, task_id, start_date, elapsed_time, created_at, updated_at
		FROM task_history
		WHERE tenant_id = ? AND task_id = ? AND start_date = ?
	`

	var e history.Entry
	err := r.db.conn(ctx).QueryRowContext(ctx, query, tenantID, taskID, startDate).Scan(
		&e.ID,
		&e.TenantID,
		&e.TaskID,
		&e.StartDate,
		&e.ElapsedTime,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history entry: %w", err)
	}
	return &e, nil
}

// Create inserts a history row
func (r *HistoryRepository) Create(ctx context.Context, tenantID string, e *history.Entry) error {
	query := `
		INSERT INTO task_history (id, tenant_id, task_id, start_date, elapsed_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		e.ID,
		tenantID,
		e.TaskID,
		e.StartDate,
		e.ElapsedTime,
		utc(e.CreatedAt),
		utc(e.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create history entry: %w", err)
	}

	e.TenantID = tenantID
	return nil
}

// Update replaces the elapsed time of a history row
func (r *HistoryRepository) Update(ctx context.Context, tenantID string, e *history.Entry) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`UPDATE task_history SET elapsed_time = ?, updated_at = ? WHERE id = ? AND tenant_id = ?`,
		e.ElapsedTime, utc(e.UpdatedAt), e.ID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to update history entry: %w", err)
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

// DeleteByTask removes every history row of a task
func (r *HistoryRepository) DeleteByTask(ctx context.Context, tenantID, taskID string) error {
	_, err := r.db.conn(ctx).ExecContext(ctx,
		`DELETE FROM task_history WHERE tenant_id = ? AND task_id = ?`, tenantID, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task history: %w", err)
	}
	return nil
}

// List returns history rows with task names, oldest day first
func (r *HistoryRepository) List(ctx context.Context, tenantID string, filter history.Filter) ([]history.Entry, error) {
	query := `
		SELECT
			h.id, h.tenant_id, h.task_id, COALESCE(t.name, ''),
			h.start_date, h.elapsed_time, h.created_at, h.updated_at
		FROM task_history h
		LEFT JOIN tasks t ON t.id = h.task_id AND t.tenant_id = h.tenant_id
		WHERE h.tenant_id = ?
	`

	args := []any{tenantID}
	conditions := []string{}

	if filter.TaskID != nil {
		conditions = append(conditions, "h.task_id = ?")
		args = append(args, *filter.TaskID)
	}
	if filter.From != "" {
		conditions = append(conditions, "h.start_date >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		conditions = append(conditions, "h.start_date <= ?")
		args = append(args, filter.To)
	}

	if len(conditions) > 0 {
		query += " AND " + joinConditions(conditions)
	}
	query += " ORDER BY h.start_date ASC, h.created_at ASC"

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := []history.Entry{}
	for rows.Next() {
		var e history.Entry
		if err := rows.Scan(
			&e.ID,
			&e.TenantID,
			&e.TaskID,
			&e.TaskName,
			&e.StartDate,
			&e.ElapsedTime,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}
	return entries, nil
}
