package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/timekeep/internal/domain/activity"
	"github.com/rpggio/timekeep/internal/domain/history"
	"github.com/rpggio/timekeep/internal/domain/report"
	"github.com/rpggio/timekeep/internal/domain/task"
)

// DefaultTenant is the tenant used when auth is disabled.
const DefaultTenant = "default"

// TaskService defines task operations needed by MCP.
type TaskService interface {
	Create(ctx context.Context, tenantID string, req task.CreateRequest) (*task.Task, error)
	List(ctx context.Context, tenantID string, opts task.ListOptions) ([]task.Task, error)
	Get(ctx context.Context, tenantID, id string) (*task.Task, error)
	Start(ctx context.Context, tenantID, id string) (*task.Task, error)
	Stop(ctx context.Context, tenantID, id string) (*task.Task, error)
	Rename(ctx context.Context, tenantID, id, name string) (*task.Task, error)
	SetPriority(ctx context.Context, tenantID, id string, p task.Priority) (*task.Task, error)
	Delete(ctx context.Context, tenantID, id string) error
}

// HistoryService defines history operations needed by MCP.
type HistoryService interface {
	List(ctx context.Context, tenantID string, filter history.Filter) ([]history.Entry, error)
}

// ReportService defines report operations needed by MCP.
type ReportService interface {
	Build(ctx context.Context, tenantID string, r report.Range) (*report.Report, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Entry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Tasks    TaskService
	History  HistoryService
	Reports  ReportService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      TenantResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "timekeep",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// stdio is a local single-user transport
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware(DefaultTenant))
	}
	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Services))

	return server
}
