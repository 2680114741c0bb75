package mcp

import (
	"time"

	"github.com/rpggio/timekeep/internal/domain/activity"
	"github.com/rpggio/timekeep/internal/domain/report"
)

type ListTasksParams struct {
	SortField string `json:"sort_field,omitempty" jsonschema:"name, priority, last_start_time or total_elapsed_time (default last_start_time)"`
	SortOrder string `json:"sort_order,omitempty" jsonschema:"asc or desc (default desc)"`
}

type TaskIDParams struct {
	ID string `json:"id" jsonschema:"task ID"`
}

type CreateTaskParams struct {
	Name     string `json:"name,omitempty" jsonschema:"task name (default New Task)"`
	Priority string `json:"priority,omitempty" jsonschema:"P1 (most urgent) to P5 (default P3)"`
}

type RenameTaskParams struct {
	ID   string `json:"id" jsonschema:"task ID"`
	Name string `json:"name" jsonschema:"new name; blank names are ignored"`
}

type SetPriorityParams struct {
	ID       string `json:"id" jsonschema:"task ID"`
	Priority string `json:"priority" jsonschema:"P1 to P5"`
}

type ListHistoryParams struct {
	TaskID string `json:"task_id,omitempty" jsonschema:"only entries of this task"`
	From   string `json:"from,omitempty" jsonschema:"first day, YYYY-MM-DD"`
	To     string `json:"to,omitempty" jsonschema:"last day, YYYY-MM-DD"`
}

type GetReportParams struct {
	Range string `json:"range,omitempty" jsonschema:"day, week, month or ytd (default week)"`
}

type ExportReportParams struct {
	Range  string `json:"range,omitempty" jsonschema:"day, week, month or ytd (default week)"`
	Format string `json:"format" jsonschema:"csv, json or pdf"`
}

type GetRecentActivityParams struct {
	TaskID string `json:"task_id,omitempty" jsonschema:"only activity of this task"`
	Type   string `json:"type,omitempty" jsonschema:"only activity of this type"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum entries (default 50)"`
	Offset int    `json:"offset,omitempty"`
}

// TaskResponse is a task with its totals rendered for display.
type TaskResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Priority         string     `json:"priority"`
	IsRunning        bool       `json:"is_running"`
	LastStartTime    *time.Time `json:"last_start_time,omitempty"`
	TotalElapsedTime string     `json:"total_elapsed_time"`
	// Elapsed includes the running session, in "Hh Mm" form.
	Elapsed   string    `json:"elapsed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

type DeleteTaskResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type HistoryEntryResponse struct {
	TaskID      string `json:"task_id"`
	TaskName    string `json:"task_name"`
	StartDate   string `json:"start_date"`
	ElapsedTime string `json:"elapsed_time"`
	Elapsed     string `json:"elapsed"`
}

type HistoryListResponse struct {
	Entries []HistoryEntryResponse `json:"entries"`
}

type ReportResponse struct {
	*report.Report
	Label string         `json:"label"`
	Chart []report.Point `json:"chart"`
}

type ExportResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	// Encoding is "base64" for binary formats and empty for text.
	Encoding string `json:"encoding,omitempty"`
	Content  string `json:"content"`
}

type ActivityListResponse struct {
	Entries []activity.Entry `json:"entries"`
}
