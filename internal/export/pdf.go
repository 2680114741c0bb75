package export

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
	"github.com/rpggio/timekeep/internal/domain/report"
)

var (
	stripe      = color.Color{Red: 240, Green: 240, Blue: 240}
	twoColumns  = []uint{8, 4}
	dailyColumn = []uint{3, 3, 6}
)

// PDF renders the report as an A4 document: title, summary, top tasks and a
// per-day table.
func PDF(rep *report.Report) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(12, func() {
			m.Col(12, func() {
				m.Text(fmt.Sprintf("Task Time Report (%s)", strings.ToUpper(string(rep.Range))), props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
	})

	heading(m, "Summary")
	line(m, "Total Time: "+rep.Total.String())
	line(m, "Period: "+rep.Period.Label())

	heading(m, "Top Tasks")
	if len(rep.TopTasks) == 0 {
		line(m, "No time recorded.")
	} else {
		rows := make([][]string, 0, len(rep.TopTasks))
		for _, t := range rep.TopTasks {
			rows = append(rows, []string{t.Name, t.Duration.String()})
		}
		m.TableList([]string{"Task", "Time"}, rows, tableProps(twoColumns))
	}

	if len(rep.Days) > 0 {
		heading(m, "Daily Hours")
		rows := make([][]string, 0, len(rep.Days))
		for _, p := range rep.Chart() {
			rows = append(rows, []string{p.Label, fmt.Sprintf("%.2f", p.Hours), bar(p.Hours)})
		}
		m.TableList([]string{"Day", "Hours", ""}, rows, tableProps(dailyColumn))
	}

	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func heading(m pdf.Maroto, text string) {
	m.Row(12, func() {
		m.Col(12, func() {
			m.Text(text, props.Text{
				Top:   5,
				Style: consts.Bold,
				Size:  13,
			})
		})
	})
}

func line(m pdf.Maroto, text string) {
	m.Row(7, func() {
		m.Col(12, func() {
			m.Text(text, props.Text{Size: 10})
		})
	})
}

func tableProps(grid []uint) props.TableList {
	return props.TableList{
		HeaderProp: props.TableListContent{
			Size:      10,
			GridSizes: grid,
		},
		ContentProp: props.TableListContent{
			Size:      10,
			GridSizes: grid,
		},
		Align:                consts.Left,
		AlternatedBackground: &stripe,
		HeaderContentSpace:   1,
		Line:                 false,
	}
}

// bar draws hours as a text bar, one block per half hour, capped at 24.
func bar(hours float64) string {
	n := int(hours * 2)
	if n > 24 {
		n = 24
	}
	if n < 0 {
		n = 0
	}
	return strings.Repeat("#", n)
}
