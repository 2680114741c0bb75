package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rpggio/timekeep/internal/domain/history"
	"github.com/rpggio/timekeep/internal/domain/report"
)

// CSV writes one row per day followed by a Total row. Cells containing commas
// are quoted.
func CSV(w io.Writer, rep *report.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Total Time", "Tasks"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, day := range rep.Days {
		parts := make([]string, 0, len(day.Tasks))
		for _, t := range day.Tasks {
			parts = append(parts, fmt.Sprintf("%s: %s", t.Name, t.Duration))
		}
		record := []string{displayDate(day.Date), day.Duration.String(), strings.Join(parts, "; ")}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", day.Date, err)
		}
	}

	if err := cw.Write([]string{"Total", rep.Total.String(), ""}); err != nil {
		return fmt.Errorf("writing csv total: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func displayDate(s string) string {
	t, err := time.Parse(history.DateLayout, s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2, 2006")
}
