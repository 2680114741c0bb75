package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rpggio/timekeep/internal/app"
	"github.com/rpggio/timekeep/internal/config"
	"github.com/rpggio/timekeep/internal/domain/activity"
	"github.com/rpggio/timekeep/internal/domain/history"
	"github.com/rpggio/timekeep/internal/domain/report"
	"github.com/rpggio/timekeep/internal/domain/task"
	"github.com/rpggio/timekeep/internal/export"
	"github.com/rpggio/timekeep/internal/interval"
	"github.com/rpggio/timekeep/internal/logging"
	"github.com/rpggio/timekeep/internal/mcp"
)

const usage = `timekeep - track time spent on tasks

Usage:
  timekeep [flags] <command> [args]

Commands:
  tasks [-sort FIELD] [-order asc|desc]   List tasks
  add [-priority P1..P5] [NAME...]         Create a task and print its id
  start ID                                Start a task's timer
  stop ID                                 Stop a task's timer
  rename ID NAME...                       Rename a task
  priority ID P1..P5                      Change a task's priority
  delete ID                               Delete a task and its history
  history [-task ID] [-from D] [-to D]    List per-day history rows
  report [-range R] [-format F] [-out P]  Build a day|week|month|ytd report
                                          as chart|csv|pdf|json
  activity [-limit N]                     Show recent activity
  key create [-description TEXT]          Create an API key for the server
  key list                                List API keys
  key revoke ID                           Revoke an API key

Flags:
`

// lockWait bounds how long a command waits for another process to finish.
const lockWait = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "timekeep: %v\n", err)
		os.Exit(1)
	}
}

type cli struct {
	app    *app.App
	tenant string
	stdout io.Writer
	now    func() time.Time
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("timekeep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", cfg.DB.Path, "path to the SQLite database")
	tenant := fs.String("tenant", mcp.DefaultTenant, "user whose tasks are managed")
	tz := fs.String("tz", cfg.Timezone, "IANA zone used for calendar days (default: system zone)")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}
	cfg.Timezone = *tz
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	lock, err := app.Lock(ctx, *dbPath, lockWait)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	logger := logging.New(stderr, cfg.Log.Level)
	a, err := app.Open(*dbPath, loc, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	c := &cli{app: a, tenant: *tenant, stdout: stdout, now: time.Now}
	return c.dispatch(ctx, fs.Arg(0), fs.Args()[1:], stderr)
}

func (c *cli) dispatch(ctx context.Context, cmd string, args []string, stderr io.Writer) error {
	switch cmd {
	case "tasks":
		return c.listTasks(ctx, args, stderr)
	case "add":
		return c.addTask(ctx, args, stderr)
	case "start":
		return c.withTaskID(args, func(id string) error {
			t, err := c.app.Tasks.Start(ctx, c.tenant, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "started %q at %s\n", t.Name, t.LastStartTime.In(c.app.Tasks.Location()).Format("15:04"))
			return nil
		})
	case "stop":
		return c.withTaskID(args, func(id string) error {
			t, err := c.app.Tasks.Stop(ctx, c.tenant, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "stopped %q, total %s\n", t.Name, interval.Human(t.TotalElapsedTime))
			return nil
		})
	case "rename":
		if len(args) < 2 {
			return errors.New("usage: rename ID NAME...")
		}
		t, err := c.app.Tasks.Rename(ctx, c.tenant, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "renamed to %q\n", t.Name)
		return nil
	case "priority":
		if len(args) != 2 {
			return errors.New("usage: priority ID P1..P5")
		}
		t, err := c.app.Tasks.SetPriority(ctx, c.tenant, args[0], task.Priority(strings.ToUpper(args[1])))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "%q is now %s\n", t.Name, t.Priority)
		return nil
	case "delete":
		return c.withTaskID(args, func(id string) error {
			if err := c.app.Tasks.Delete(ctx, c.tenant, id); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "deleted %s\n", id)
			return nil
		})
	case "history":
		return c.listHistory(ctx, args, stderr)
	case "report":
		return c.report(ctx, args, stderr)
	case "activity":
		return c.activity(ctx, args, stderr)
	case "key":
		return c.key(ctx, args, stderr)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (c *cli) withTaskID(args []string, fn func(id string) error) error {
	if len(args) != 1 {
		return errors.New("expected a single task id")
	}
	return fn(args[0])
}

func (c *cli) listTasks(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("tasks", stderr)
	sortField := fs.String("sort", string(task.SortByLastStartTime), "name, priority, last_start_time or total_elapsed_time")
	order := fs.String("order", string(task.SortDesc), "asc or desc")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := c.app.Tasks.List(ctx, c.tenant, task.ListOptions{
		SortField: task.SortField(*sortField),
		SortOrder: task.SortOrder(*order),
	})
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(c.stdout, "no tasks")
		return nil
	}

	now := c.now()
	rows := make([][]string, 0, len(list))
	for _, t := range list {
		state := "idle"
		if t.IsRunning {
			state = "running"
		}
		h, m := interval.Split(t.Elapsed(now).Milliseconds())
		rows = append(rows, []string{t.ID, t.Name, string(t.Priority), state, interval.Format(h, m)})
	}
	c.printTable([]string{"ID", "NAME", "PRIORITY", "STATE", "ELAPSED"}, rows)
	return nil
}

func (c *cli) addTask(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("add", stderr)
	priority := fs.String("priority", string(task.DefaultPriority), "P1 (most urgent) to P5")
	if err := fs.Parse(args); err != nil {
		return err
	}
	t, err := c.app.Tasks.Create(ctx, c.tenant, task.CreateRequest{
		Name:     strings.Join(fs.Args(), " "),
		Priority: task.Priority(strings.ToUpper(*priority)),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, t.ID)
	return nil
}

func (c *cli) listHistory(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("history", stderr)
	taskID := fs.String("task", "", "only rows of this task")
	from := fs.String("from", "", "first day, YYYY-MM-DD")
	to := fs.String("to", "", "last day, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := history.Filter{From: *from, To: *to}
	if *taskID != "" {
		filter.TaskID = taskID
	}
	entries, err := c.app.History.List(ctx, c.tenant, filter)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.stdout, "no history")
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.StartDate, e.TaskName, interval.Human(e.ElapsedTime)})
	}
	c.printTable([]string{"DATE", "TASK", "TIME"}, rows)
	return nil
}

func (c *cli) report(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("report", stderr)
	rangeName := fs.String("range", string(report.RangeWeek), "day, week, month or ytd")
	format := fs.String("format", "chart", "chart, csv, pdf or json")
	out := fs.String("out", "", "write to this file; \"auto\" picks the download file name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r, err := report.ParseRange(*rangeName)
	if err != nil {
		return err
	}
	rep, err := c.app.Reports.Build(ctx, c.tenant, r)
	if err != nil {
		return err
	}

	var data []byte
	if *format == "chart" {
		data = []byte(c.summary(rep))
	} else {
		f, err := export.ParseFormat(*format)
		if err != nil {
			return err
		}
		if data, err = export.Render(f, rep); err != nil {
			return err
		}
		if *out == "auto" {
			*out = export.Filename(f, r, rep.Generated.In(c.app.Reports.Location()))
		}
	}

	if *out == "" || *out == "-" {
		_, err = c.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Fprintf(c.stdout, "wrote %s\n", *out)
	return nil
}

func (c *cli) summary(rep *report.Report) string {
	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true)
	fmt.Fprintln(&b, title.Render(fmt.Sprintf("Task Time Report (%s)", strings.ToUpper(string(rep.Range)))))
	fmt.Fprintf(&b, "Period: %s\n", rep.Period.Label())
	fmt.Fprintf(&b, "Total:  %s\n", rep.Total)
	if chart := export.Chart(rep, 60, 12); chart != "" {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, chart)
	}
	if len(rep.TopTasks) == 0 {
		return b.String()
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, title.Render("Top tasks"))
	for i, t := range rep.TopTasks {
		fmt.Fprintf(&b, "%d. %s  %s\n", i+1, t.Name, t.Duration)
	}
	return b.String()
}

func (c *cli) activity(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("activity", stderr)
	limit := fs.Int("limit", activity.DefaultLimit, "maximum entries")
	if err := fs.Parse(args); err != nil {
		return err
	}
	entries, err := c.app.Activity.GetRecentActivity(ctx, c.tenant, activity.ListOptions{Limit: *limit})
	if err != nil {
		return err
	}
	loc := c.app.Tasks.Location()
	for _, e := range entries {
		fmt.Fprintf(c.stdout, "%s  %-16s %s\n", e.CreatedAt.In(loc).Format("2006-01-02 15:04"), e.Type, e.Summary)
	}
	return nil
}

func (c *cli) key(ctx context.Context, args []string, stderr io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: key create|list|revoke")
	}
	switch args[0] {
	case "create":
		fs := newFlagSet("key create", stderr)
		desc := fs.String("description", "", "note stored with the key")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		token, key, err := c.app.Auth.CreateKey(ctx, c.tenant, *desc)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "key %s\ntoken %s\n", key.ID, token)
		return nil
	case "list":
		keys, err := c.app.Auth.ListKeys(ctx, c.tenant)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			state := "active"
			if !k.Active() {
				state = "revoked"
			}
			rows = append(rows, []string{k.ID, k.Description, k.CreatedAt.Format(time.RFC3339), state})
		}
		c.printTable([]string{"ID", "DESCRIPTION", "CREATED", "STATE"}, rows)
		return nil
	case "revoke":
		if len(args) != 2 {
			return errors.New("usage: key revoke ID")
		}
		if err := c.app.Auth.RevokeKey(ctx, c.tenant, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "revoked %s\n", args[1])
		return nil
	}
	return fmt.Errorf("unknown key command %q", args[0])
}

func (c *cli) printTable(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(c.stdout, t.Render())
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}
