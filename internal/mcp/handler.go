package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/timekeep/internal/domain/activity"
	"github.com/rpggio/timekeep/internal/domain/history"
	"github.com/rpggio/timekeep/internal/domain/report"
	"github.com/rpggio/timekeep/internal/domain/task"
	"github.com/rpggio/timekeep/internal/export"
	"github.com/rpggio/timekeep/internal/interval"
)

// Handler dispatches MCP commands.
type Handler struct {
	tasks    TaskService
	history  HistoryService
	reports  ReportService
	activity ActivityService
	now      func() time.Time
}

// NewHandler creates a new MCP handler.
func NewHandler(services Services) *Handler {
	return &Handler{
		tasks:    services.Tasks,
		history:  services.History,
		reports:  services.Reports,
		activity: services.Activity,
		now:      time.Now,
	}
}

// Handle dispatches a JSON-RPC method to the tool of the same name.
func (h *Handler) Handle(ctx context.Context, tenantID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "list_tasks":
		var req ListTasksParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.ListTasks(ctx, tenantID, req)
	case "get_task":
		var req TaskIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.GetTask(ctx, tenantID, req)
	case "create_task":
		var req CreateTaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.CreateTask(ctx, tenantID, req)
	case "start_timer":
		var req TaskIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.StartTimer(ctx, tenantID, req)
	case "stop_timer":
		var req TaskIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.StopTimer(ctx, tenantID, req)
	case "rename_task":
		var req RenameTaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.RenameTask(ctx, tenantID, req)
	case "set_priority":
		var req SetPriorityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.SetPriority(ctx, tenantID, req)
	case "delete_task":
		var req TaskIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.DeleteTask(ctx, tenantID, req)
	case "list_history":
		var req ListHistoryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.ListHistory(ctx, tenantID, req)
	case "get_report":
		var req GetReportParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.GetReport(ctx, tenantID, req)
	case "export_report":
		var req ExportReportParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.ExportReport(ctx, tenantID, req)
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.GetRecentActivity(ctx, tenantID, req)
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

func (h *Handler) ListTasks(ctx context.Context, tenantID string, req ListTasksParams) (TaskListResponse, error) {
	tasks, err := h.tasks.List(ctx, tenantID, task.ListOptions{
		SortField: task.SortField(req.SortField),
		SortOrder: task.SortOrder(req.SortOrder),
	})
	if err != nil {
		return TaskListResponse{}, mapError(err)
	}
	now := h.now()
	resp := TaskListResponse{Tasks: make([]TaskResponse, 0, len(tasks))}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(t, now))
	}
	return resp, nil
}

func (h *Handler) GetTask(ctx context.Context, tenantID string, req TaskIDParams) (TaskResponse, error) {
	return h.taskResult(h.tasks.Get(ctx, tenantID, req.ID))
}

func (h *Handler) CreateTask(ctx context.Context, tenantID string, req CreateTaskParams) (TaskResponse, error) {
	return h.taskResult(h.tasks.Create(ctx, tenantID, task.CreateRequest{
		Name:     req.Name,
		Priority: task.Priority(req.Priority),
	}))
}

func (h *Handler) StartTimer(ctx context.Context, tenantID string, req TaskIDParams) (TaskResponse, error) {
	return h.taskResult(h.tasks.Start(ctx, tenantID, req.ID))
}

func (h *Handler) StopTimer(ctx context.Context, tenantID string, req TaskIDParams) (TaskResponse, error) {
	return h.taskResult(h.tasks.Stop(ctx, tenantID, req.ID))
}

func (h *Handler) RenameTask(ctx context.Context, tenantID string, req RenameTaskParams) (TaskResponse, error) {
	return h.taskResult(h.tasks.Rename(ctx, tenantID, req.ID, req.Name))
}

func (h *Handler) SetPriority(ctx context.Context, tenantID string, req SetPriorityParams) (TaskResponse, error) {
	return h.taskResult(h.tasks.SetPriority(ctx, tenantID, req.ID, task.Priority(req.Priority)))
}

func (h *Handler) DeleteTask(ctx context.Context, tenantID string, req TaskIDParams) (DeleteTaskResponse, error) {
	if err := h.tasks.Delete(ctx, tenantID, req.ID); err != nil {
		return DeleteTaskResponse{}, mapError(err)
	}
	return DeleteTaskResponse{ID: req.ID, Deleted: true}, nil
}

func (h *Handler) ListHistory(ctx context.Context, tenantID string, req ListHistoryParams) (HistoryListResponse, error) {
	filter := history.Filter{From: req.From, To: req.To}
	if req.TaskID != "" {
		filter.TaskID = &req.TaskID
	}
	entries, err := h.history.List(ctx, tenantID, filter)
	if err != nil {
		return HistoryListResponse{}, mapError(err)
	}
	resp := HistoryListResponse{Entries: make([]HistoryEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, HistoryEntryResponse{
			TaskID:      e.TaskID,
			TaskName:    e.TaskName,
			StartDate:   e.StartDate,
			ElapsedTime: e.ElapsedTime,
			Elapsed:     interval.Human(e.ElapsedTime),
		})
	}
	return resp, nil
}

func (h *Handler) GetReport(ctx context.Context, tenantID string, req GetReportParams) (ReportResponse, error) {
	rep, err := h.reports.Build(ctx, tenantID, report.Range(req.Range))
	if err != nil {
		return ReportResponse{}, mapError(err)
	}
	return ReportResponse{Report: rep, Label: rep.Period.Label(), Chart: rep.Chart()}, nil
}

func (h *Handler) ExportReport(ctx context.Context, tenantID string, req ExportReportParams) (ExportResponse, error) {
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return ExportResponse{}, &APIError{Code: CodeInvalidInput, Message: err.Error(), RecoveryHint: "Use csv, json or pdf"}
	}
	rep, err := h.reports.Build(ctx, tenantID, report.Range(req.Range))
	if err != nil {
		return ExportResponse{}, mapError(err)
	}
	data, err := export.Render(format, rep)
	if err != nil {
		return ExportResponse{}, err
	}

	resp := ExportResponse{
		Filename:    export.Filename(format, rep.Range, rep.Generated),
		ContentType: format.ContentType(),
		Content:     string(data),
	}
	if format == export.FormatPDF {
		resp.Encoding = "base64"
		resp.Content = base64.StdEncoding.EncodeToString(data)
	}
	return resp, nil
}

func (h *Handler) GetRecentActivity(ctx context.Context, tenantID string, req GetRecentActivityParams) (ActivityListResponse, error) {
	opts := activity.ListOptions{Limit: req.Limit, Offset: req.Offset}
	if req.TaskID != "" {
		opts.TaskID = &req.TaskID
	}
	if req.Type != "" {
		typ := activity.ActivityType(req.Type)
		opts.Type = &typ
	}
	entries, err := h.activity.GetRecentActivity(ctx, tenantID, opts)
	if err != nil {
		return ActivityListResponse{}, mapError(err)
	}
	if entries == nil {
		entries = []activity.Entry{}
	}
	return ActivityListResponse{Entries: entries}, nil
}

func (h *Handler) taskResult(t *task.Task, err error) (TaskResponse, error) {
	if err != nil {
		return TaskResponse{}, mapError(err)
	}
	return toTaskResponse(*t, h.now()), nil
}

func toTaskResponse(t task.Task, now time.Time) TaskResponse {
	return TaskResponse{
		ID:               t.ID,
		Name:             t.Name,
		Priority:         string(t.Priority),
		IsRunning:        t.IsRunning,
		LastStartTime:    t.LastStartTime,
		TotalElapsedTime: t.TotalElapsedTime,
		Elapsed:          interval.Human(interval.Encode(t.Elapsed(now).Milliseconds())),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: CodeInvalidInput, Message: fmt.Sprintf("invalid params: %v", err)}
	}
	return nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
