package export_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/timekeep/internal/domain/history"
	"github.com/rpggio/timekeep/internal/domain/report"
	"github.com/rpggio/timekeep/internal/export"
	"github.com/stretchr/testify/require"
)

func sampleReport() *report.Report {
	rep := report.Aggregate([]history.Entry{
		{TaskName: "taskA", StartDate: "2024-03-04", ElapsedTime: "01:00:00"},
		{TaskName: "Lunch, long", StartDate: "2024-03-04", ElapsedTime: "00:15:00"},
		{TaskName: "taskA", StartDate: "2024-03-05", ElapsedTime: "00:30:00"},
	})
	rep.Range = report.RangeWeek
	rep.Period = report.DateRange{Start: "2024-03-04", End: "2024-03-10"}
	return &rep
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.CSV(&buf, sampleReport()))

	want := strings.Join([]string{
		"Date,Total Time,Tasks",
		`"Mar 4, 2024",1h 15m,"taskA: 1h 0m; Lunch, long: 15m"`,
		`"Mar 5, 2024",30m,taskA: 30m`,
		"Total,1h 45m,",
		"",
	}, "\n")
	require.Equal(t, want, buf.String())
}

func TestCSV_EmptyReport(t *testing.T) {
	rep := report.Aggregate(nil)
	var buf bytes.Buffer
	require.NoError(t, export.CSV(&buf, &rep))
	require.Equal(t, "Date,Total Time,Tasks\nTotal,0m,\n", buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.JSON(&buf, sampleReport()))

	var decoded struct {
		Range string `json:"range"`
		Total struct {
			Hours   int64 `json:"hours"`
			Minutes int64 `json:"minutes"`
		} `json:"total"`
		TopTasks []struct {
			Name string `json:"name"`
		} `json:"top_tasks"`
		Chart []report.Point `json:"chart"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "week", decoded.Range)
	require.Equal(t, int64(1), decoded.Total.Hours)
	require.Equal(t, int64(45), decoded.Total.Minutes)
	require.Equal(t, "taskA", decoded.TopTasks[0].Name)
	require.Len(t, decoded.Chart, 2)
}

func TestPDF(t *testing.T) {
	data, err := export.PDF(sampleReport())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestChart(t *testing.T) {
	out := export.Chart(sampleReport(), 40, 10)
	require.NotEmpty(t, out)

	empty := report.Aggregate(nil)
	require.Empty(t, export.Chart(&empty, 40, 10))

	zero := report.Aggregate([]history.Entry{{TaskName: "Idle", StartDate: "2024-03-04", ElapsedTime: "00:00:30"}})
	require.Empty(t, export.Chart(&zero, 40, 10))
}

func TestFilename(t *testing.T) {
	day := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "task-time-spreadsheet-week-2024-03-06.csv", export.Filename(export.FormatCSV, report.RangeWeek, day))
	require.Equal(t, "task-time-report-month-2024-03-06.pdf", export.Filename(export.FormatPDF, report.RangeMonth, day))
	require.Equal(t, "application/pdf", export.FormatPDF.ContentType())
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat(" CSV ")
	require.NoError(t, err)
	require.Equal(t, export.FormatCSV, f)

	_, err = export.ParseFormat("xlsx")
	require.ErrorIs(t, err, export.ErrUnknownFormat)
}

func TestRender(t *testing.T) {
	rep := sampleReport()

	data, err := export.Render(export.FormatCSV, rep)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "Date,Total Time,Tasks\n"))

	data, err = export.Render(export.FormatJSON, rep)
	require.NoError(t, err)
	require.Contains(t, string(data), `"chart"`)

	_, err = export.Render(export.Format("xlsx"), rep)
	require.ErrorIs(t, err, export.ErrUnknownFormat)
}
