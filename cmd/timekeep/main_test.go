package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpggio/timekeep/internal/domain/task"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t      *testing.T
	dbPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, key := range []string{"TIMEKEEP_CONFIG_PATH", "TIMEKEEP_TRANSPORT", "TIMEKEEP_TIMEZONE", "TIMEKEEP_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	return &harness{t: t, dbPath: filepath.Join(t.TempDir(), "timekeep.db")}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"-db", h.dbPath, "-tz", "UTC"}, args...)
	err := run(context.Background(), full, &stdout, &stderr)
	return stdout.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "timekeep %v", args)
	return out
}

func TestRun_TaskLifecycle(t *testing.T) {
	h := newHarness(t)

	id := strings.TrimSpace(h.mustRun("add", "-priority", "p2", "Write", "report"))
	require.NotEmpty(t, id)

	out := h.mustRun("tasks")
	require.Contains(t, out, "Write report")
	require.Contains(t, out, "P2")
	require.Contains(t, out, "idle")

	require.Contains(t, h.mustRun("start", id), `started "Write report"`)
	require.Contains(t, h.mustRun("tasks"), "running")
	require.Contains(t, h.mustRun("stop", id), `stopped "Write report", total 0h 0m`)

	require.Contains(t, h.mustRun("rename", id, "Edit", "report"), `renamed to "Edit report"`)
	require.Contains(t, h.mustRun("priority", id, "P1"), `"Edit report" is now P1`)

	out = h.mustRun("history", "-task", id)
	require.Contains(t, out, "Edit report")
	require.Contains(t, out, "0h 0m")

	out = h.mustRun("activity")
	require.Contains(t, out, "task_created")
	require.Contains(t, out, "timer_stopped")

	require.Contains(t, h.mustRun("delete", id), "deleted "+id)
	require.Contains(t, h.mustRun("tasks"), "no tasks")
	require.Contains(t, h.mustRun("history"), "no history")
}

func TestRun_Errors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("start", "missing")
	require.ErrorIs(t, err, task.ErrTaskNotFound)

	id := strings.TrimSpace(h.mustRun("add"))
	_, err = h.run("priority", id, "P9")
	require.ErrorIs(t, err, task.ErrInvalidPriority)

	_, err = h.run("tasks", "-sort", "color")
	require.ErrorIs(t, err, task.ErrInvalidSort)

	_, err = h.run("report", "-range", "decade")
	require.Error(t, err)

	_, err = h.run("report", "-format", "xls")
	require.Error(t, err)

	_, err = h.run("bogus")
	require.EqualError(t, err, `unknown command "bogus"`)
}

func TestRun_ReportFormats(t *testing.T) {
	h := newHarness(t)
	id := strings.TrimSpace(h.mustRun("add", "Write"))
	h.mustRun("start", id)
	h.mustRun("stop", id)

	out := h.mustRun("report", "-range", "day", "-format", "csv")
	require.True(t, strings.HasPrefix(out, "Date,Total Time,Tasks\n"))
	require.Contains(t, out, "Total,0m,")

	out = h.mustRun("report", "-range", "day", "-format", "json")
	require.Contains(t, out, `"range": "day"`)

	out = h.mustRun("report", "-range", "week")
	require.Contains(t, out, "Task Time Report (WEEK)")
	require.Contains(t, out, "Total:  0m")

	pdfPath := filepath.Join(t.TempDir(), "report.pdf")
	require.Contains(t, h.mustRun("report", "-format", "pdf", "-out", pdfPath), "wrote "+pdfPath)
	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRun_Keys(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("key", "create", "-description", "laptop")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	keyID := strings.TrimPrefix(lines[0], "key ")
	require.True(t, strings.HasPrefix(lines[1], "token "))

	out = h.mustRun("key", "list")
	require.Contains(t, out, keyID)
	require.Contains(t, out, "laptop")
	require.Contains(t, out, "active")

	require.Contains(t, h.mustRun("key", "revoke", keyID), "revoked "+keyID)
	require.Contains(t, h.mustRun("key", "list"), "revoked")
}

func TestRun_TenantsAreSeparate(t *testing.T) {
	h := newHarness(t)
	h.mustRun("-tenant", "alice", "add", "Alice task")

	require.Contains(t, h.mustRun("-tenant", "bob", "tasks"), "no tasks")
	require.Contains(t, h.mustRun("-tenant", "alice", "tasks"), "Alice task")
}
