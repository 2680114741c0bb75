package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// addTool registers fn under tool. Outputs are returned as structured
// content; errors become tool errors carrying the APIError text.
func addTool[In, Out any](server *sdkmcp.Server, tool *sdkmcp.Tool, fn func(context.Context, string, In) (Out, error)) {
	sdkmcp.AddTool(server, tool, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
		out, err := fn(ctx, getTenantID(ctx), in)
		if err != nil {
			return nil, nil, err
		}
		return nil, out, nil
	})
}

func registerTools(server *sdkmcp.Server, h *Handler) {
	// Tasks
	addTool(server, &sdkmcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks with their priority, running state and accumulated time",
	}, h.ListTasks)
	addTool(server, &sdkmcp.Tool{
		Name:        "get_task",
		Description: "Get a single task by ID",
	}, h.GetTask)
	addTool(server, &sdkmcp.Tool{
		Name:        "create_task",
		Description: "Create an idle task with zero accumulated time",
	}, h.CreateTask)
	addTool(server, &sdkmcp.Tool{
		Name:        "rename_task",
		Description: "Rename a task; blank names leave the task unchanged",
	}, h.RenameTask)
	addTool(server, &sdkmcp.Tool{
		Name:        "set_priority",
		Description: "Change a task's priority (P1 to P5)",
	}, h.SetPriority)
	addTool(server, &sdkmcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task and all of its history",
	}, h.DeleteTask)

	// Timer
	addTool(server, &sdkmcp.Tool{
		Name:        "start_timer",
		Description: "Start a task's timer; no-op if it is already running",
	}, h.StartTimer)
	addTool(server, &sdkmcp.Tool{
		Name:        "stop_timer",
		Description: "Stop a task's timer and add the session to the task total and the day's history; no-op if idle",
	}, h.StopTimer)

	// History and reports
	addTool(server, &sdkmcp.Tool{
		Name:        "list_history",
		Description: "List per-day history entries, optionally for one task or a date window",
	}, h.ListHistory)
	addTool(server, &sdkmcp.Tool{
		Name:        "get_report",
		Description: "Aggregate time for a day, week, month or year-to-date window: totals, top five tasks and daily breakdown",
	}, h.GetReport)
	addTool(server, &sdkmcp.Tool{
		Name:        "export_report",
		Description: "Render a report as CSV, JSON or PDF (base64)",
	}, h.ExportReport)

	// Activity
	addTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent task activity, newest first",
	}, h.GetRecentActivity)
}
