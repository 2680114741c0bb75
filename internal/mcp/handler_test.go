package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/timekeep/internal/domain/activity"
	"github.com/rpggio/timekeep/internal/domain/history"
	"github.com/rpggio/timekeep/internal/domain/report"
	"github.com/rpggio/timekeep/internal/domain/task"
	"github.com/stretchr/testify/require"
)

type taskStub struct {
	createFn   func(context.Context, string, task.CreateRequest) (*task.Task, error)
	listFn     func(context.Context, string, task.ListOptions) ([]task.Task, error)
	getFn      func(context.Context, string, string) (*task.Task, error)
	startFn    func(context.Context, string, string) (*task.Task, error)
	stopFn     func(context.Context, string, string) (*task.Task, error)
	renameFn   func(context.Context, string, string, string) (*task.Task, error)
	priorityFn func(context.Context, string, string, task.Priority) (*task.Task, error)
	deleteFn   func(context.Context, string, string) error
}

func (s taskStub) Create(ctx context.Context, tenantID string, req task.CreateRequest) (*task.Task, error) {
	return s.createFn(ctx, tenantID, req)
}
func (s taskStub) List(ctx context.Context, tenantID string, opts task.ListOptions) ([]task.Task, error) {
	return s.listFn(ctx, tenantID, opts)
}
func (s taskStub) Get(ctx context.Context, tenantID, id string) (*task.Task, error) {
	return s.getFn(ctx, tenantID, id)
}
func (s taskStub) Start(ctx context.Context, tenantID, id string) (*task.Task, error) {
	return s.startFn(ctx, tenantID, id)
}
func (s taskStub) Stop(ctx context.Context, tenantID, id string) (*task.Task, error) {
	return s.stopFn(ctx, tenantID, id)
}
func (s taskStub) Rename(ctx context.Context, tenantID, id, name string) (*task.Task, error) {
	return s.renameFn(ctx, tenantID, id, name)
}
func (s taskStub) SetPriority(ctx context.Context, tenantID, id string, p task.Priority) (*task.Task, error) {
	return s.priorityFn(ctx, tenantID, id, p)
}
func (s taskStub) Delete(ctx context.Context, tenantID, id string) error {
	return s.deleteFn(ctx, tenantID, id)
}

type historyStub struct {
	listFn func(context.Context, string, history.Filter) ([]history.Entry, error)
}

func (s historyStub) List(ctx context.Context, tenantID string, filter history.Filter) ([]history.Entry, error) {
	return s.listFn(ctx, tenantID, filter)
}

type reportStub struct {
	buildFn func(context.Context, string, report.Range) (*report.Report, error)
}

func (s reportStub) Build(ctx context.Context, tenantID string, r report.Range) (*report.Report, error) {
	return s.buildFn(ctx, tenantID, r)
}

type activityStub struct {
	listFn func(context.Context, string, activity.ListOptions) ([]activity.Entry, error)
}

func (s activityStub) GetRecentActivity(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Entry, error) {
	return s.listFn(ctx, tenantID, opts)
}

var handlerNow = time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

func newTestHandler(services Services) *Handler {
	h := NewHandler(services)
	h.now = func() time.Time { return handlerNow }
	return h
}

func sampleReport() *report.Report {
	rep := report.Aggregate([]history.Entry{
		{TaskName: "Write", StartDate: "2024-03-04", ElapsedTime: "01:20:00"},
		{TaskName: "Review", StartDate: "2024-03-05", ElapsedTime: "00:10:00"},
	})
	rep.Range = report.RangeWeek
	rep.Period = report.DateRange{Start: "2024-03-04", End: "2024-03-10"}
	rep.Generated = handlerNow
	return &rep
}

func TestHandler_ListTasks(t *testing.T) {
	ctx := context.Background()
	started := handlerNow.Add(-30 * time.Minute)

	var gotOpts task.ListOptions
	handler := newTestHandler(Services{Tasks: taskStub{
		listFn: func(_ context.Context, tenantID string, opts task.ListOptions) ([]task.Task, error) {
			require.Equal(t, "tenant1", tenantID)
			gotOpts = opts
			return []task.Task{
				{ID: "t1", Name: "Write", Priority: task.P1, IsRunning: true, LastStartTime: &started, TotalElapsedTime: "01:00:00"},
				{ID: "t2", Name: "Review", Priority: task.P3, TotalElapsedTime: "00:05:00"},
			}, nil
		},
	}})

	result, err := handler.Handle(ctx, "tenant1", "list_tasks", mustJSON(t, ListTasksParams{SortField: "name", SortOrder: "asc"}))
	require.NoError(t, err)
	require.Equal(t, task.SortByName, gotOpts.SortField)
	require.Equal(t, task.SortAsc, gotOpts.SortOrder)

	resp := result.(TaskListResponse)
	require.Len(t, resp.Tasks, 2)
	require.Equal(t, "1h 30m", resp.Tasks[0].Elapsed)
	require.Equal(t, "01:00:00", resp.Tasks[0].TotalElapsedTime)
	require.Equal(t, "0h 5m", resp.Tasks[1].Elapsed)
}

func TestHandler_CreateTask(t *testing.T) {
	ctx := context.Background()
	handler := newTestHandler(Services{Tasks: taskStub{
		createFn: func(_ context.Context, _ string, req task.CreateRequest) (*task.Task, error) {
			require.Equal(t, "Write", req.Name)
			require.Equal(t, task.P2, req.Priority)
			return &task.Task{ID: "t1", Name: req.Name, Priority: req.Priority, TotalElapsedTime: "00:00:00"}, nil
		},
	}})

	result, err := handler.Handle(ctx, "tenant1", "create_task", mustJSON(t, CreateTaskParams{Name: "Write", Priority: "P2"}))
	require.NoError(t, err)
	resp := result.(TaskResponse)
	require.Equal(t, "t1", resp.ID)
	require.Equal(t, "P2", resp.Priority)
	require.False(t, resp.IsRunning)
}

func TestHandler_TimerMethods(t *testing.T) {
	ctx := context.Background()
	var calls []string
	handler := newTestHandler(Services{Tasks: taskStub{
		startFn: func(_ context.Context, _ string, id string) (*task.Task, error) {
			calls = append(calls, "start:"+id)
			return &task.Task{ID: id, IsRunning: true, LastStartTime: &handlerNow}, nil
		},
		stopFn: func(_ context.Context, _ string, id string) (*task.Task, error) {
			calls = append(calls, "stop:"+id)
			return &task.Task{ID: id, TotalElapsedTime: "00:10:00"}, nil
		},
	}})

	result, err := handler.Handle(ctx, "tenant1", "start_timer", mustJSON(t, TaskIDParams{ID: "t1"}))
	require.NoError(t, err)
	require.True(t, result.(TaskResponse).IsRunning)

	result, err = handler.Handle(ctx, "tenant1", "stop_timer", mustJSON(t, TaskIDParams{ID: "t1"}))
	require.NoError(t, err)
	require.Equal(t, "00:10:00", result.(TaskResponse).TotalElapsedTime)
	require.Equal(t, []string{"start:t1", "stop:t1"}, calls)
}

func TestHandler_DeleteTask(t *testing.T) {
	handler := newTestHandler(Services{Tasks: taskStub{
		deleteFn: func(_ context.Context, _ string, id string) error {
			require.Equal(t, "t1", id)
			return nil
		},
	}})

	result, err := handler.Handle(context.Background(), "tenant1", "delete_task", mustJSON(t, TaskIDParams{ID: "t1"}))
	require.NoError(t, err)
	require.Equal(t, DeleteTaskResponse{ID: "t1", Deleted: true}, result)
}

func TestHandler_ListHistory(t *testing.T) {
	handler := newTestHandler(Services{History: historyStub{
		listFn: func(_ context.Context, _ string, filter history.Filter) ([]history.Entry, error) {
			require.NotNil(t, filter.TaskID)
			require.Equal(t, "t1", *filter.TaskID)
			require.Equal(t, "2024-03-01", filter.From)
			require.Empty(t, filter.To)
			return []history.Entry{{TaskID: "t1", TaskName: "Write", StartDate: "2024-03-04", ElapsedTime: "02:15:30"}}, nil
		},
	}})

	result, err := handler.Handle(context.Background(), "tenant1", "list_history", mustJSON(t, ListHistoryParams{TaskID: "t1", From: "2024-03-01"}))
	require.NoError(t, err)
	resp := result.(HistoryListResponse)
	require.Len(t, resp.Entries, 1)
	require.Equal(t, "2h 15m", resp.Entries[0].Elapsed)
}

func TestHandler_GetReport(t *testing.T) {
	handler := newTestHandler(Services{Reports: reportStub{
		buildFn: func(_ context.Context, _ string, r report.Range) (*report.Report, error) {
			require.Equal(t, report.Range("week"), r)
			return sampleReport(), nil
		},
	}})

	result, err := handler.Handle(context.Background(), "tenant1", "get_report", mustJSON(t, GetReportParams{Range: "week"}))
	require.NoError(t, err)
	resp := result.(ReportResponse)
	require.Equal(t, "1h 30m", resp.Total.String())
	require.Equal(t, "Mar 4, 2024 - Mar 10, 2024", resp.Label)
	require.Equal(t, []report.Point{{Label: "Mar 4", Hours: 1.33}, {Label: "Mar 5", Hours: 0.17}}, resp.Chart)
}

func TestHandler_ExportReport(t *testing.T) {
	handler := newTestHandler(Services{Reports: reportStub{
		buildFn: func(_ context.Context, _ string, _ report.Range) (*report.Report, error) {
			return sampleReport(), nil
		},
	}})

	result, err := handler.Handle(context.Background(), "tenant1", "export_report", mustJSON(t, ExportReportParams{Format: "csv"}))
	require.NoError(t, err)
	resp := result.(ExportResponse)
	require.Equal(t, "task-time-spreadsheet-week-2024-03-04.csv", resp.Filename)
	require.Empty(t, resp.Encoding)
	require.True(t, strings.HasPrefix(resp.Content, "Date,Total Time,Tasks\n"))

	result, err = handler.Handle(context.Background(), "tenant1", "export_report", mustJSON(t, ExportReportParams{Format: "pdf"}))
	require.NoError(t, err)
	resp = result.(ExportResponse)
	require.Equal(t, "base64", resp.Encoding)
	data, err := base64.StdEncoding.DecodeString(resp.Content)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "%PDF"))

	_, err = handler.Handle(context.Background(), "tenant1", "export_report", mustJSON(t, ExportReportParams{Format: "xlsx"}))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, CodeInvalidInput, apiErr.Code)
}

func TestHandler_GetRecentActivity(t *testing.T) {
	handler := newTestHandler(Services{Activity: activityStub{
		listFn: func(_ context.Context, _ string, opts activity.ListOptions) ([]activity.Entry, error) {
			require.Equal(t, 10, opts.Limit)
			require.NotNil(t, opts.Type)
			require.Equal(t, activity.TypeTimerStopped, *opts.Type)
			require.Nil(t, opts.TaskID)
			return nil, nil
		},
	}})

	result, err := handler.Handle(context.Background(), "tenant1", "get_recent_activity", mustJSON(t, GetRecentActivityParams{Type: "timer_stopped", Limit: 10}))
	require.NoError(t, err)
	require.NotNil(t, result.(ActivityListResponse).Entries)
}

func TestHandler_ErrorMapping(t *testing.T) {
	ctx := context.Background()
	handler := newTestHandler(Services{
		Tasks: taskStub{
			getFn: func(_ context.Context, _ string, _ string) (*task.Task, error) {
				return nil, task.ErrTaskNotFound
			},
			priorityFn: func(_ context.Context, _ string, _ string, _ task.Priority) (*task.Task, error) {
				return nil, task.ErrInvalidPriority
			},
			listFn: func(_ context.Context, _ string, _ task.ListOptions) ([]task.Task, error) {
				return nil, errors.New("disk full")
			},
		},
		Reports: reportStub{
			buildFn: func(_ context.Context, _ string, _ report.Range) (*report.Report, error) {
				return nil, report.ErrInvalidRange
			},
		},
	})

	cases := []struct {
		method string
		params any
		code   string
	}{
		{"get_task", TaskIDParams{ID: "missing"}, CodeTaskNotFound},
		{"set_priority", SetPriorityParams{ID: "t1", Priority: "P9"}, CodeInvalidPriority},
		{"get_report", GetReportParams{Range: "decade"}, CodeInvalidRange},
	}
	for _, tc := range cases {
		_, err := handler.Handle(ctx, "tenant1", tc.method, mustJSON(t, tc.params))
		require.Error(t, err)
		apiErr, ok := err.(*APIError)
		require.True(t, ok, tc.method)
		require.Equal(t, tc.code, apiErr.Code)
	}

	_, err := handler.Handle(ctx, "tenant1", "list_tasks", nil)
	require.EqualError(t, err, "disk full")
}

func TestHandler_UnknownMethodAndBadParams(t *testing.T) {
	handler := newTestHandler(Services{})

	_, err := handler.Handle(context.Background(), "tenant1", "list_projects", nil)
	require.EqualError(t, err, "unknown method: list_projects")

	_, err = handler.Handle(context.Background(), "tenant1", "get_task", json.RawMessage(`{"id":5}`))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, CodeInvalidInput, apiErr.Code)
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
