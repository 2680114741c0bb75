package testserver

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/timekeep/internal/app"
	"github.com/rpggio/timekeep/internal/mcp"
	"github.com/rpggio/timekeep/internal/sqlite"
	"github.com/rpggio/timekeep/internal/transport"
	"github.com/stretchr/testify/require"
)

// TestServer is an in-process HTTP server over an in-memory database.
type TestServer struct {
	Server   *httptest.Server
	App      *app.App
	Token    string
	TenantID string

	mu  sync.Mutex
	now time.Time
}

func New(t *testing.T, tenantID string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	ts := &TestServer{
		App:      app.New(db, time.UTC, nil),
		TenantID: tenantID,
		now:      time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
	}
	ts.App.SetClock(ts.Now)

	handler := mcp.NewHandler(ts.App.MCPServices())
	ts.Server = httptest.NewServer(transport.NewServer(handler, ts.App.Reports, transport.AuthMiddleware(ts.App.Auth), nil))

	token, err := ts.AddAPIKey(tenantID)
	require.NoError(t, err)
	ts.Token = token

	t.Cleanup(func() {
		ts.Server.Close()
		_ = db.Close()
	})

	return ts
}

// AddAPIKey issues a token for tenantID.
func (ts *TestServer) AddAPIKey(tenantID string) (string, error) {
	token, _, err := ts.App.Auth.CreateKey(context.Background(), tenantID, "test")
	return token, err
}

// Now returns the time the services see. It starts at 2024-03-06 09:00 UTC.
func (ts *TestServer) Now() time.Time {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.now
}

// Advance moves the service clock forward by d.
func (ts *TestServer) Advance(d time.Duration) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.now = ts.now.Add(d)
}
