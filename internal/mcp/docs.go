package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `timekeep tracks time spent on tasks.

Model:
- Task: name, priority P1 (most urgent) to P5, a timer that is running or idle, and a total elapsed time (HH:MM:SS).
- History: one entry per task per calendar day holding the time recorded on that day. A session is credited to the day it started on.
- Report: totals for a day, week (Monday start), month or year-to-date window, with the top five tasks and a daily breakdown.

Workflow:
1) list_tasks to find task IDs (create_task if none fits).
2) start_timer when work begins and stop_timer when it ends. Starting a running task or stopping an idle one does nothing.
3) get_report or export_report for summaries; list_history for raw per-day entries.

Docs:
- timekeep://docs/index
- timekeep://docs/reports
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "timekeep://docs/index",
		Name:        "docs_index",
		Title:       "timekeep docs index",
		Description: "Tools, timer semantics and error codes.",
		Content: `# timekeep

## Tools

| Tool | Purpose |
|---|---|
| ` + "`list_tasks`" + ` | tasks sorted by ` + "`sort_field`" + ` (name, priority, last_start_time, total_elapsed_time) and ` + "`sort_order`" + ` |
| ` + "`create_task`" + ` | new idle task, defaults "New Task" and P3 |
| ` + "`rename_task`" + ` / ` + "`set_priority`" + ` | edit a task |
| ` + "`start_timer`" + ` / ` + "`stop_timer`" + ` | run the timer |
| ` + "`delete_task`" + ` | remove a task and its history |
| ` + "`list_history`" + ` | per-day entries |
| ` + "`get_report`" + ` / ` + "`export_report`" + ` | aggregates |
| ` + "`get_recent_activity`" + ` | audit trail |

## Timer

Stopping a task adds the session to the task total and to the history entry of
the day the session started, in one transaction. A session that crosses
midnight is credited entirely to its start day. If the clock moved backwards
the session counts as zero.

## Errors

Tool errors start with a stable code: ` + "`TASK_NOT_FOUND`" + `, ` + "`INVALID_PRIORITY`" + `,
` + "`INVALID_SORT`" + `, ` + "`INVALID_RANGE`" + `, ` + "`INVALID_DATE`" + `, ` + "`INVALID_INPUT`" + `, ` + "`UNAUTHORIZED`" + `.
`,
	},
	{
		URI:         "timekeep://docs/reports",
		Name:        "docs_reports",
		Title:       "Reports",
		Description: "Report windows, rounding and export formats.",
		Content: `# Reports

## Windows

- ` + "`day`" + `: today.
- ` + "`week`" + `: Monday through Sunday of the current week (default).
- ` + "`month`" + `: the current calendar month.
- ` + "`ytd`" + `: January 1 through December 31 of the current year.

## Rounding

Each history entry is truncated to whole minutes before it is summed, so
totals can be lower than the sum of the raw entries. Chart values are hours
rounded to two decimals.

## Export

` + "`export_report`" + ` returns ` + "`csv`" + ` (Date, Total Time, Tasks, with a closing Total row),
` + "`json`" + ` (the report plus its chart series) or ` + "`pdf`" + ` (base64 encoded).
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
