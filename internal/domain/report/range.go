package report

import (
	"strings"
	"time"

	"github.com/rpggio/timekeep/internal/domain/history"
)

// Range selects the reporting window.
type Range string

const (
	RangeDay   Range = "day"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYTD   Range = "ytd"
)

// Ranges lists every supported range.
var Ranges = []Range{RangeDay, RangeWeek, RangeMonth, RangeYTD}

// ParseRange accepts a range name case-insensitively. An empty name selects
// the week.
func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RangeWeek, nil
	case RangeDay, RangeWeek, RangeMonth, RangeYTD:
		return r, nil
	}
	return "", ErrInvalidRange
}

// DateRange is an inclusive span of civil dates in history.DateLayout.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Bounds computes the window containing now, using calendar days in loc.
// Weeks run Monday through Sunday. The year-to-date window covers the whole
// calendar year.
func (r Range) Bounds(now time.Time, loc *time.Location) DateRange {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	var start, end time.Time
	switch r {
	case RangeDay:
		start, end = today, today
	case RangeMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		end = time.Date(y, m+1, 0, 0, 0, 0, 0, loc)
	case RangeYTD:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		end = time.Date(y, time.December, 31, 0, 0, 0, 0, loc)
	default:
		// Monday is offset 0
		offset := (int(today.Weekday()) + 6) % 7
		start = today.AddDate(0, 0, -offset)
		end = start.AddDate(0, 0, 6)
	}
	return DateRange{
		Start: start.Format(history.DateLayout),
		End:   end.Format(history.DateLayout),
	}
}

// Label renders the window as "Jan 2, 2006 - Jan 8, 2006".
func (d DateRange) Label() string {
	return displayDate(d.Start) + " - " + displayDate(d.End)
}

func displayDate(s string) string {
	t, err := time.Parse(history.DateLayout, s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2, 2006")
}
