package task

import (
	"time"

	"github.com/rpggio/timekeep/internal/interval"
)

// Priority is a task's urgency label. P1 is the most urgent.
type Priority string

const (
	P1 Priority = "P1"
	P2 Priority = "P2"
	P3 Priority = "P3"
	P4 Priority = "P4"
	P5 Priority = "P5"
)

// DefaultPriority is assigned to new tasks.
const DefaultPriority = P3

// DefaultName is assigned to new tasks created without a name.
const DefaultName = "New Task"

// Priorities lists every valid priority, most urgent first.
var Priorities = []Priority{P1, P2, P3, P4, P5}

// Valid reports whether p is one of P1..P5.
func (p Priority) Valid() bool {
	switch p {
	case P1, P2, P3, P4, P5:
		return true
	}
	return false
}

// Task is a named unit of work with a timer.
type Task struct {
	ID               string     `json:"id"`
	TenantID         string     `json:"tenant_id"`
	Name             string     `json:"name"`
	Priority         Priority   `json:"priority"`
	IsRunning        bool       `json:"is_running"`
	LastStartTime    *time.Time `json:"last_start_time,omitempty"`
	TotalElapsedTime string     `json:"total_elapsed_time"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TotalElapsedMs decodes TotalElapsedTime.
func (t Task) TotalElapsedMs() int64 {
	return interval.Decode(t.TotalElapsedTime)
}

// Elapsed reports the total plus the in-flight session when the timer runs.
// The result is for display only and never persisted.
func (t Task) Elapsed(now time.Time) time.Duration {
	total := time.Duration(t.TotalElapsedMs()) * time.Millisecond
	if t.IsRunning && t.LastStartTime != nil && now.After(*t.LastStartTime) {
		total += now.Sub(*t.LastStartTime)
	}
	return total
}
