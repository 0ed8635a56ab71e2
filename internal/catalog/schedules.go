package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/querylib/internal/models"
)

// ScheduleFilter is one of the chips above the schedules table.
type ScheduleFilter string

const (
	ScheduleAll       ScheduleFilter = "all"
	ScheduleFailed    ScheduleFilter = "failed"
	ScheduleMine      ScheduleFilter = "mine"
	ScheduleSuccess   ScheduleFilter = "success"
	SchedulePaused    ScheduleFilter = "paused"
	ScheduleScheduled ScheduleFilter = "scheduled"
)

// ScheduleFilters lists schedule filters in display order.
var ScheduleFilters = []ScheduleFilter{ScheduleAll, ScheduleFailed, ScheduleMine, ScheduleSuccess, SchedulePaused, ScheduleScheduled}

// ParseScheduleFilter accepts a filter name; empty means all.
func ParseScheduleFilter(s string) (ScheduleFilter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ScheduleAll, nil
	}
	for _, f := range ScheduleFilters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid schedule filter %q", s)
}

func (c *Catalog) scheduleMatches(s models.ScheduleItem, f ScheduleFilter) bool {
	switch f {
	case ScheduleFailed:
		return s.Status == models.ScheduleFailed
	case ScheduleSuccess:
		return s.Status == models.ScheduleSuccess
	case SchedulePaused:
		return s.Status == models.SchedulePaused
	case ScheduleScheduled:
		return s.Status == models.ScheduleScheduled
	case ScheduleMine:
		return strings.EqualFold(s.ScheduledBy, c.User)
	default:
		return true
	}
}

// ListSchedules returns the schedules matching the filter and a case-insensitive
// term on the query name, the scheduler and the recipients.
func (c *Catalog) ListSchedules(f ScheduleFilter, term string) []models.ScheduleItem {
	term = strings.ToLower(strings.TrimSpace(term))

	var out []models.ScheduleItem
	for _, s := range c.Schedules {
		if !c.scheduleMatches(s, f) {
			continue
		}
		if term != "" {
			name := ""
			if q, err := c.Query(s.QueryID); err == nil {
				name = q.Name
			}
			if !strings.Contains(strings.ToLower(name), term) &&
				!strings.Contains(strings.ToLower(s.ScheduledBy), term) &&
				!strings.Contains(strings.ToLower(strings.Join(s.Recipients, ",")), term) {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// ScheduleCounts counts all schedules per filter, ignoring any search term.
func (c *Catalog) ScheduleCounts() map[ScheduleFilter]int {
	counts := make(map[ScheduleFilter]int, len(ScheduleFilters))
	for _, f := range ScheduleFilters {
		counts[f] = 0
		for _, s := range c.Schedules {
			if c.scheduleMatches(s, f) {
				counts[f]++
			}
		}
	}
	return counts
}

// SchedulesForQuery returns a query's schedules in catalog order.
func (c *Catalog) SchedulesForQuery(queryID string) []models.ScheduleItem {
	var out []models.ScheduleItem
	for _, s := range c.Schedules {
		if s.QueryID == queryID {
			out = append(out, s)
		}
	}
	return out
}

// Schedule returns the schedule with the given id.
func (c *Catalog) Schedule(id string) (models.ScheduleItem, error) {
	for _, s := range c.Schedules {
		if s.ID == id {
			return s, nil
		}
	}
	return models.ScheduleItem{}, fmt.Errorf("schedule %q: %w", id, ErrNotFound)
}

// LatestSchedule returns the query's schedule with the most recent last run.
// Schedules that never ran sort last; ties keep catalog order.
func (c *Catalog) LatestSchedule(queryID string) (models.ScheduleItem, bool) {
	var (
		best  models.ScheduleItem
		found bool
	)
	for _, s := range c.SchedulesForQuery(queryID) {
		if !found || lastRunAfter(s, best) {
			best, found = s, true
		}
	}
	return best, found
}

func lastRunAfter(a, b models.ScheduleItem) bool {
	if a.LastRun == nil {
		return false
	}
	return b.LastRun == nil || a.LastRun.After(*b.LastRun)
}

// Recipients is the union of recipients over a query's schedules, first seen first.
func (c *Catalog) Recipients(queryID string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range c.SchedulesForQuery(queryID) {
		for _, r := range s.Recipients {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	return out
}

// EditableFilterNames returns the filters a viewer may change. Queries with
// the date-only policy expose only date-like filters.
func EditableFilterNames(q models.QueryItem) []string {
	if q.Config == nil {
		return nil
	}
	var out []string
	for _, f := range q.Config.Filters {
		if q.Policy() == models.FilterPolicyDateOnly && !IsDateField(f.Name) {
			continue
		}
		out = append(out, f.Name)
	}
	return out
}

// ValidateCron checks a standard 5-field cron expression.
func ValidateCron(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

// NextRun returns the schedule's stored next run, or the next time its cron
// expression fires after now. ok is false when neither is available.
func NextRun(s models.ScheduleItem, now time.Time) (next time.Time, ok bool, err error) {
	if s.NextRun != nil {
		return *s.NextRun, true, nil
	}
	if s.Cron == "" {
		return time.Time{}, false, nil
	}
	sched, err := cron.ParseStandard(s.Cron)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("schedule %s: invalid cron expression %q: %w", s.ID, s.Cron, err)
	}
	return sched.Next(now), true, nil
}

// UpcomingRuns returns up to n future fire times of the schedule's cron
// expression. A schedule without cron yields its stored next run, if any.
func UpcomingRuns(s models.ScheduleItem, now time.Time, n int) ([]time.Time, error) {
	if s.Cron == "" {
		if s.NextRun != nil && s.NextRun.After(now) && n > 0 {
			return []time.Time{*s.NextRun}, nil
		}
		return []time.Time{}, nil
	}
	sched, err := cron.ParseStandard(s.Cron)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: invalid cron expression %q: %w", s.ID, s.Cron, err)
	}
	runs := make([]time.Time, 0, n)
	t := now
	for i := 0; i < n; i++ {
		t = sched.Next(t)
		if t.IsZero() {
			break
		}
		runs = append(runs, t)
	}
	return runs, nil
}
