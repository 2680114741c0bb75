package functional_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// stdioSession wraps an MCP client session for stdio transport testing
type stdioSession struct {
	session *sdkmcp.ClientSession
	cancel  context.CancelFunc
}

func newStdioSession(t *testing.T) *stdioSession {
	t.Helper()

	binaryPath := "./bin/timekeep-server"
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		binaryPath = "../../bin/timekeep-server"
		if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
			t.Skip("Server binary not found. Run 'go build -o bin/timekeep-server ./cmd/server' first.")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	cmd := exec.CommandContext(ctx, binaryPath)
	cmd.Env = append(os.Environ(),
		"TIMEKEEP_TRANSPORT=stdio",
		"TIMEKEEP_DB_PATH=:memory:",
	)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		cancel()
		t.Fatalf("Failed to connect: %v", err)
	}

	t.Cleanup(func() {
		session.Close()
		cancel()
	})

	return &stdioSession{session: session, cancel: cancel}
}

func (s *stdioSession) callToolResult(t *testing.T, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, "CallTool %s failed", name)
	return result
}

func (s *stdioSession) callTool(t *testing.T, name string, args map[string]any) json.RawMessage {
	t.Helper()
	result := s.callToolResult(t, name, args)
	require.False(t, result.IsError, "Tool %s returned error", name)
	require.NotEmpty(t, result.Content, "Tool %s returned no content", name)

	for _, content := range result.Content {
		if textContent, ok := content.(*sdkmcp.TextContent); ok {
			return json.RawMessage(textContent.Text)
		}
	}
	t.Fatalf("Tool %s returned no text content", name)
	return nil
}

func TestStdioFunctional_TaskLifecycle(t *testing.T) {
	s := newStdioSession(t)

	var created taskResult
	require.NoError(t, json.Unmarshal(s.callTool(t, "create_task", map[string]any{"name": "Stdio task"}), &created))
	require.NotEmpty(t, created.ID)

	var started taskResult
	require.NoError(t, json.Unmarshal(s.callTool(t, "start_timer", map[string]any{"id": created.ID}), &started))
	require.True(t, started.IsRunning)

	var stopped taskResult
	require.NoError(t, json.Unmarshal(s.callTool(t, "stop_timer", map[string]any{"id": created.ID}), &stopped))
	require.False(t, stopped.IsRunning)

	var renamed taskResult
	require.NoError(t, json.Unmarshal(s.callTool(t, "rename_task", map[string]any{"id": created.ID, "name": "Renamed"}), &renamed))
	require.Equal(t, "Renamed", renamed.Name)

	var list struct {
		Tasks []taskResult `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(s.callTool(t, "list_tasks", map[string]any{"sort_field": "name"}), &list))
	require.Len(t, list.Tasks, 1)

	report := s.callTool(t, "get_report", map[string]any{"range": "day"})
	require.NotEmpty(t, report)
}

func TestStdioFunctional_ToolError(t *testing.T) {
	s := newStdioSession(t)

	result := s.callToolResult(t, "delete_task", map[string]any{"id": "missing"})
	require.True(t, result.IsError)
	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	require.Contains(t, text.Text, "TASK_NOT_FOUND")
}
