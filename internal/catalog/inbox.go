package catalog

import (
	"fmt"
	"strings"

	"github.com/julianstephens/querylib/internal/models"
)

// InboxFilter selects delivered runs by status.
type InboxFilter string

const (
	InboxAll      InboxFilter = "all"
	InboxNew      InboxFilter = "new"
	InboxArchived InboxFilter = "archived"
)

var InboxFilters = []InboxFilter{InboxAll, InboxNew, InboxArchived}

// ParseInboxFilter accepts all, new or archived; empty means all.
func ParseInboxFilter(s string) (InboxFilter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return InboxAll, nil
	}
	for _, f := range InboxFilters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid inbox filter %q (want all, new or archived)", s)
}

func (f InboxFilter) match(i models.InboxItem) bool {
	switch f {
	case InboxNew:
		return i.Status == models.RunNew
	case InboxArchived:
		return i.Status == models.RunArchived
	default:
		return true
	}
}

// ListInbox returns delivered runs matching f in catalog order.
func (c *Catalog) ListInbox(f InboxFilter) []models.InboxItem {
	var out []models.InboxItem
	for _, i := range c.Inbox {
		if f.match(i) {
			out = append(out, i)
		}
	}
	return out
}

// InboxCounts counts delivered runs per filter.
func (c *Catalog) InboxCounts() map[InboxFilter]int {
	counts := make(map[InboxFilter]int, len(InboxFilters))
	for _, f := range InboxFilters {
		counts[f] = len(c.ListInbox(f))
	}
	return counts
}

// Runs returns the query's executions, taken from its inbox deliveries.
func (c *Catalog) Runs(queryID string) []models.ExecutionEvent {
	var out []models.ExecutionEvent
	for _, i := range c.Inbox {
		if i.QueryID != queryID {
			continue
		}
		out = append(out, models.ExecutionEvent{
			ID:         i.ID,
			Timestamp:  i.Date,
			Actor:      i.ScheduledBy,
			Recipients: i.Recipients,
			Status:     i.Status,
		})
	}
	return out
}

// Edits returns the query's activity history.
func (c *Catalog) Edits(queryID string) []models.EditEvent {
	q, err := c.Query(queryID)
	if err != nil {
		return nil
	}
	return q.Activity
}

// ScheduleSummary returns the query's first schedule, or nil when it has none.
func (c *Catalog) ScheduleSummary(queryID string) *models.ScheduleSummary {
	for _, s := range c.Schedules {
		if s.QueryID != queryID {
			continue
		}
		return &models.ScheduleSummary{
			ID:          s.ID,
			Frequency:   s.Frequency,
			Status:      s.Status,
			Recipients:  s.Recipients,
			NextRun:     s.NextRun,
			LastRun:     s.LastRun,
			ScheduledBy: s.ScheduledBy,
		}
	}
	return nil
}
