package report

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/rpggio/timekeep/internal/domain/history"
	"github.com/rpggio/timekeep/internal/interval"
)

// TopTaskCount is how many tasks the ranking keeps.
const TopTaskCount = 5

// Duration is an hours and minutes pair with minutes kept below 60.
type Duration struct {
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
}

func (d *Duration) add(hours, minutes int64) {
	d.Hours += hours
	d.Minutes += minutes
	if d.Minutes >= 60 {
		d.Hours += d.Minutes / 60
		d.Minutes %= 60
	}
}

// TotalMinutes returns the duration in minutes.
func (d Duration) TotalMinutes() int64 {
	return d.Hours*60 + d.Minutes
}

// FractionalHours returns hours plus minutes/60 rounded to two decimals.
func (d Duration) FractionalHours() float64 {
	return math.Round((float64(d.Hours)+float64(d.Minutes)/60)*100) / 100
}

// String renders "1h 5m", or "5m" when under an hour.
func (d Duration) String() string {
	return interval.Format(d.Hours, d.Minutes)
}

// TaskTotal is the time spent on a task name.
type TaskTotal struct {
	Name string `json:"name"`
	Duration
}

// DayTotal is the time spent on one date with a per-task breakdown in
// first-encountered order.
type DayTotal struct {
	Date string `json:"date"`
	Duration
	Tasks []TaskTotal `json:"tasks"`
}

// Report is the aggregate of the history rows of one window.
type Report struct {
	Range    Range       `json:"range"`
	Period   DateRange   `json:"period"`
	Total    Duration    `json:"total"`
	Tasks    []TaskTotal `json:"tasks"`
	TopTasks []TaskTotal `json:"top_tasks"`
	Days     []DayTotal  `json:"days"`
	// Generated is when the report was built.
	Generated time.Time `json:"generated_at"`
}

// Aggregate folds history rows into totals. Each row is truncated to whole
// minutes before it is added. Tasks are keyed by name, so two tasks sharing a
// name are reported together.
func Aggregate(rows []history.Entry) Report {
	var rep Report
	taskIndex := make(map[string]int)
	dayIndex := make(map[string]int)
	dayTaskIndex := make(map[string]map[string]int)

	for _, row := range rows {
		h, m := interval.Split(row.ElapsedMs())

		rep.Total.add(h, m)

		ti, ok := taskIndex[row.TaskName]
		if !ok {
			ti = len(rep.Tasks)
			taskIndex[row.TaskName] = ti
			rep.Tasks = append(rep.Tasks, TaskTotal{Name: row.TaskName})
		}
		rep.Tasks[ti].add(h, m)

		di, ok := dayIndex[row.StartDate]
		if !ok {
			di = len(rep.Days)
			dayIndex[row.StartDate] = di
			dayTaskIndex[row.StartDate] = make(map[string]int)
			rep.Days = append(rep.Days, DayTotal{Date: row.StartDate})
		}
		day := &rep.Days[di]
		day.add(h, m)

		dti, ok := dayTaskIndex[row.StartDate][row.TaskName]
		if !ok {
			dti = len(day.Tasks)
			dayTaskIndex[row.StartDate][row.TaskName] = dti
			day.Tasks = append(day.Tasks, TaskTotal{Name: row.TaskName})
		}
		day.Tasks[dti].add(h, m)
	}

	rep.TopTasks = slices.Clone(rep.Tasks)
	slices.SortStableFunc(rep.TopTasks, func(a, b TaskTotal) int {
		return cmp.Compare(b.TotalMinutes(), a.TotalMinutes())
	})
	if len(rep.TopTasks) > TopTaskCount {
		rep.TopTasks = rep.TopTasks[:TopTaskCount]
	}

	slices.SortStableFunc(rep.Days, func(a, b DayTotal) int {
		return cmp.Compare(a.Date, b.Date)
	})

	if rep.Tasks == nil {
		rep.Tasks = []TaskTotal{}
		rep.TopTasks = []TaskTotal{}
		rep.Days = []DayTotal{}
	}
	return rep
}

// Point is one bar of the daily chart.
type Point struct {
	Label string  `json:"label"`
	Hours float64 `json:"hours"`
}

// Chart returns the per-day hours series, labelled "Jan 2".
func (r Report) Chart() []Point {
	points := make([]Point, 0, len(r.Days))
	for _, d := range r.Days {
		label := d.Date
		if t, err := time.Parse(history.DateLayout, d.Date); err == nil {
			label = t.Format("Jan 2")
		}
		points = append(points, Point{Label: label, Hours: d.FractionalHours()})
	}
	return points
}
