package export

import (
	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/rpggio/timekeep/internal/domain/report"
)

var barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

// Chart draws the per-day hours of rep as a terminal bar chart. It returns an
// empty string when the report has no recorded minutes.
func Chart(rep *report.Report, width, height int) string {
	points := rep.Chart()
	if len(points) == 0 || rep.Total.TotalMinutes() == 0 {
		return ""
	}
	if width < 20 {
		width = 20
	}
	if height < 6 {
		height = 6
	}

	bars := make([]barchart.BarData, 0, len(points))
	for _, p := range points {
		bars = append(bars, barchart.BarData{
			Label: p.Label,
			Values: []barchart.BarValue{{
				Name:  p.Label,
				Value: p.Hours,
				Style: barStyle,
			}},
		})
	}

	chart := barchart.New(width, height)
	chart.PushAll(bars)
	chart.Draw()
	return chart.View()
}
