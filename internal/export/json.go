package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rpggio/timekeep/internal/domain/report"
)

// JSON writes the report snapshot with its chart series.
func JSON(w io.Writer, rep *report.Report) error {
	payload := struct {
		*report.Report
		Chart []report.Point `json:"chart"`
	}{Report: rep, Chart: rep.Chart()}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
