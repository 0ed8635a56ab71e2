package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/querylib/internal/catalog"
	"github.com/julianstephens/querylib/internal/constants"
	"github.com/julianstephens/querylib/internal/ics"
	"github.com/julianstephens/querylib/internal/recurrence"
)

type SchedulesCmd struct {
	List    ScheduleListCmd    `cmd:"" default:"withargs" help:"List schedules."`
	Inbox   ScheduleInboxCmd   `cmd:"" help:"List delivered runs."`
	Preview SchedulePreviewCmd `cmd:"" help:"Preview the next runs of a recurrence."`
	Export  ScheduleExportCmd  `cmd:"" help:"Export a schedule's upcoming runs as iCalendar."`
}

type ScheduleListCmd struct {
	Filter string `help:"Schedule filter." enum:"all,failed,mine,success,paused,scheduled" default:"all"`
	Search string `help:"Filter by query name, frequency or recipient."`
}

func (c *ScheduleListCmd) Run(ctx *Context) error {
	filter, err := catalog.ParseScheduleFilter(c.Filter)
	if err != nil {
		return err
	}

	counts := ctx.Catalog.ScheduleCounts()
	var chips []string
	for _, f := range catalog.ScheduleFilters {
		chips = append(chips, fmt.Sprintf("%s %d", f, counts[f]))
	}
	ctx.printf("Schedules: %s\n", strings.Join(chips, " · "))

	items := ctx.Catalog.ListSchedules(filter, c.Search)
	if len(items) == 0 {
		ctx.println("No schedules found")
		return nil
	}
	now := ctx.now()
	for _, s := range items {
		name := s.QueryID
		if q, err := ctx.Catalog.Query(s.QueryID); err == nil {
			name = q.Name
		}
		next := constants.Placeholder
		if t, ok, err := catalog.NextRun(s, now); err != nil {
			next = "invalid cron"
		} else if ok {
			next = fmt.Sprintf("%s (%s)", ctx.formatTime(t), ctx.relative(t))
		}
		ctx.printf("  %-4s %-36s %-9s %-9s next %s\n", s.ID, name, s.Frequency, s.Status, next)
		ctx.printf("       by %s, to %s\n", orPlaceholder(s.ScheduledBy), joinOr(s.Recipients))
	}
	return nil
}

type ScheduleInboxCmd struct {
	Filter string `help:"Inbox filter." enum:"all,new,archived" default:"all"`
}

func (c *ScheduleInboxCmd) Run(ctx *Context) error {
	filter, err := catalog.ParseInboxFilter(c.Filter)
	if err != nil {
		return err
	}
	counts := ctx.Catalog.InboxCounts()
	ctx.printf("Inbox: all %d · new %d · archived %d\n",
		counts[catalog.InboxAll], counts[catalog.InboxNew], counts[catalog.InboxArchived])

	items := ctx.Catalog.ListInbox(filter)
	if len(items) == 0 {
		ctx.println("No delivered runs")
		return nil
	}
	for _, it := range items {
		name := it.QueryID
		if q, err := ctx.Catalog.Query(it.QueryID); err == nil {
			name = q.Name
		}
		clip := ""
		if it.HasAttachment {
			clip = " 📎"
		}
		ctx.printf("  %-4s %s  %-8s %s%s\n", it.ID, ctx.formatTime(it.Date), it.Status, name, clip)
	}
	return nil
}

type SchedulePreviewCmd struct {
	Pattern  string `help:"Recurrence pattern." enum:"daily,weekly" default:"weekly"`
	Interval int    `help:"Repeat every N days or weeks." default:"1"`
	Weekdays string `help:"Comma separated weekdays for weekly recurrences (e.g. mon,wed)." default:"mon"`
	Time     string `help:"Time of day (HH:MM)." default:"09:00"`
	ICS      string `name:"ics" help:"Also write the previewed runs to this iCalendar file." type:"path"`
}

func (c *SchedulePreviewCmd) Run(ctx *Context) error {
	spec, err := recurrence.ParseSpec(c.Pattern, c.Interval, c.Weekdays, c.Time)
	if err != nil {
		return err
	}

	ctx.println(recurrence.Describe(spec))
	preview := recurrence.NewPreview(spec, ctx.now())
	if preview.NoDaysSelected {
		ctx.println("No days selected")
		return nil
	}
	for _, run := range preview.Runs {
		ctx.printf("  %s  %s\n", run.Format("Mon Jan 2 2006 15:04"), ctx.relative(run))
	}

	if c.ICS == "" {
		return nil
	}
	return writeFile(c.ICS, func(w io.Writer) error {
		return ics.Export(w, recurrence.Describe(spec), preview.Runs, ics.Options{Source: "preview", Stamp: ctx.now()})
	})
}

type ScheduleExportCmd struct {
	ID    string `arg:"" help:"Schedule id."`
	Count int    `help:"Number of upcoming runs." default:"5"`
	Out   string `short:"o" help:"Output file. Defaults to stdout." type:"path"`
}

func (c *ScheduleExportCmd) Run(ctx *Context) error {
	s, err := ctx.Catalog.Schedule(c.ID)
	if err != nil {
		return fmt.Errorf("schedule %q: %w", c.ID, err)
	}
	runs, err := catalog.UpcomingRuns(s, ctx.now(), c.Count)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return fmt.Errorf("schedule %s has no upcoming runs", s.ID)
	}

	name := s.QueryID
	if q, err := ctx.Catalog.Query(s.QueryID); err == nil {
		name = q.Name
	}
	opts := ics.Options{
		Source:      s.ID,
		Description: fmt.Sprintf("%s schedule, delivered to %s", s.Frequency, joinOr(s.Recipients)),
		Stamp:       ctx.now(),
	}
	export := func(w io.Writer) error { return ics.Export(w, name, runs, opts) }

	if c.Out == "" {
		return export(ctx.Out)
	}
	if err := writeFile(c.Out, export); err != nil {
		return err
	}
	ctx.printf("Exported %d runs of %s to %s\n", len(runs), s.ID, c.Out)
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
