package history

import (
	"time"

	"github.com/rpggio/timekeep/internal/interval"
)

// DateLayout is the civil-date format of StartDate.
const DateLayout = "2006-01-02"

// Entry is the time logged against one task on one calendar day. There is at
// most one entry per (TaskID, StartDate).
type Entry struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	TaskID      string    `json:"task_id"`
	TaskName    string    `json:"task_name,omitempty"`
	StartDate   string    `json:"start_date"`
	ElapsedTime string    `json:"elapsed_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ElapsedMs decodes ElapsedTime.
func (e Entry) ElapsedMs() int64 {
	return interval.Decode(e.ElapsedTime)
}

// Filter narrows a history listing. From and To are inclusive civil dates.
type Filter struct {
	TaskID *string
	From   string
	To     string
}
