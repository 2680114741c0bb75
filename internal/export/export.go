// Package export renders reports as downloadable files and terminal charts.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/timekeep/internal/domain/report"
)

// Format is an export file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// ErrUnknownFormat indicates a format other than csv, pdf or json.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat parses a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatPDF, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Render encodes rep in format f.
func Render(f Format, rep *report.Report) ([]byte, error) {
	switch f {
	case FormatPDF:
		return PDF(rep)
	case FormatCSV, FormatJSON:
		var buf bytes.Buffer
		write := CSV
		if f == FormatJSON {
			write = JSON
		}
		if err := write(&buf, rep); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

// Filename names an export of rep produced on day, e.g.
// "task-time-report-week-2024-03-04.pdf".
func Filename(f Format, r report.Range, day time.Time) string {
	kind := "report"
	if f == FormatCSV {
		kind = "spreadsheet"
	}
	return fmt.Sprintf("task-time-%s-%s-%s.%s", kind, r, day.Format("2006-01-02"), f)
}
