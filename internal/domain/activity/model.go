package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeTaskCreated     ActivityType = "task_created"
	TypeTaskRenamed     ActivityType = "task_renamed"
	TypePriorityChanged ActivityType = "priority_changed"
	TypeTimerStarted    ActivityType = "timer_started"
	TypeTimerStopped    ActivityType = "timer_stopped"
	TypeTaskDeleted     ActivityType = "task_deleted"
	TypeClockRegression ActivityType = "clock_regression"
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case TypeTaskCreated, TypeTaskRenamed, TypePriorityChanged, TypeTimerStarted,
		TypeTimerStopped, TypeTaskDeleted, TypeClockRegression:
		return true
	}
	return false
}

// Entry represents an event in a user's activity log
type Entry struct {
	ID        int64        `json:"id"`
	TenantID  string       `json:"tenant_id"`
	TaskID    *string      `json:"task_id,omitempty"`
	Type      ActivityType `json:"type"`
	Summary   string       `json:"summary"`
	Details   string       `json:"details,omitempty"` // JSON string
	CreatedAt time.Time    `json:"created_at"`
}
