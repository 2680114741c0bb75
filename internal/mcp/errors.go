package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/timekeep/internal/auth"
	"github.com/rpggio/timekeep/internal/domain/activity"
	"github.com/rpggio/timekeep/internal/domain/history"
	"github.com/rpggio/timekeep/internal/domain/report"
	"github.com/rpggio/timekeep/internal/domain/task"
)

// Stable error codes returned to clients.
const (
	CodeTaskNotFound    = "TASK_NOT_FOUND"
	CodeInvalidPriority = "INVALID_PRIORITY"
	CodeInvalidSort     = "INVALID_SORT"
	CodeInvalidRange    = "INVALID_RANGE"
	CodeInvalidDate     = "INVALID_DATE"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeUnauthorized    = "UNAUTHORIZED"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes. It returns nil for errors
// with no stable code.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		return &APIError{Code: CodeTaskNotFound, Message: "task not found", RecoveryHint: "Call list_tasks for valid IDs"}
	case errors.Is(err, task.ErrInvalidPriority):
		return &APIError{Code: CodeInvalidPriority, Message: "invalid priority", Details: task.Priorities, RecoveryHint: "Use one of P1..P5"}
	case errors.Is(err, task.ErrInvalidSort):
		return &APIError{Code: CodeInvalidSort, Message: "invalid sort", RecoveryHint: "Sort by name, priority, last_start_time or total_elapsed_time"}
	case errors.Is(err, report.ErrInvalidRange):
		return &APIError{Code: CodeInvalidRange, Message: "invalid report range", Details: report.Ranges, RecoveryHint: "Use day, week, month or ytd"}
	case errors.Is(err, history.ErrInvalidDate), errors.Is(err, history.ErrInvalidRange):
		return &APIError{Code: CodeInvalidDate, Message: err.Error(), RecoveryHint: "Dates are YYYY-MM-DD and from must not follow to"}
	case errors.Is(err, task.ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: CodeInvalidInput, Message: err.Error()}
	case errors.Is(err, auth.ErrUnauthorized):
		return &APIError{Code: CodeUnauthorized, Message: "unauthorized", RecoveryHint: "Send a valid bearer token"}
	default:
		return nil
	}
}
