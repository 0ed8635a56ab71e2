package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/querylib/internal/catalog"
	"github.com/julianstephens/querylib/internal/constants"
	"github.com/julianstephens/querylib/internal/models"
	"github.com/julianstephens/querylib/internal/timeline"
)

func (m Model) formatTime(t time.Time) string {
	if t.IsZero() {
		return constants.Placeholder
	}
	return t.In(m.deps.Location).Format(constants.DisplayFormat)
}

func (m Model) formatOptional(t *time.Time) string {
	if t == nil {
		return constants.Placeholder
	}
	return m.formatTime(*t)
}

func (m Model) relative(t time.Time) string {
	return humanize.RelTime(t, m.now(), "ago", "from now")
}

func (m Model) queryName(id string) string {
	if q, err := m.deps.Catalog.Query(id); err == nil {
		return q.Name
	}
	return id
}

func (m Model) renderDetail() string {
	q, err := m.deps.Catalog.Query(m.detailID)
	if err != nil {
		return dangerStyle.Render(fmt.Sprintf("Query %q not found", m.detailID))
	}

	var b strings.Builder
	title := q.Name
	if m.deps.Favorites.IsFavorite(q.ID) {
		title = "★ " + title
	}
	b.WriteString(headerStyle.Render(title) + "\n")
	if q.Description != "" {
		b.WriteString(q.Description + "\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Type      %s\n", q.Type)
	fmt.Fprintf(&b, "Folder    %s\n", m.deps.Catalog.FolderName(q.FolderID))
	fmt.Fprintf(&b, "Owner     %s\n", catalog.OwnerLabel(q))
	fmt.Fprintf(&b, "Tags      %s\n", joinOr(q.Tags))
	fmt.Fprintf(&b, "Modified  %s (%s)\n", m.formatTime(q.LastModified), m.relative(q.LastModified))
	fmt.Fprintf(&b, "Last run  %s\n", m.formatOptional(q.LastRun))
	if recipients := m.deps.Catalog.Recipients(q.ID); len(recipients) > 0 {
		fmt.Fprintf(&b, "Delivers  %s\n", strings.Join(recipients, ", "))
	}

	rows := m.deps.Reconciler.Reconcile(
		m.deps.Catalog.Runs(q.ID),
		m.deps.Catalog.Edits(q.ID),
		m.deps.Catalog.ScheduleSummary(q.ID),
	)
	counts := timeline.Counts(rows)
	var chips []string
	for _, f := range timeline.Filters {
		chip := fmt.Sprintf("%s %d", f, counts[f])
		if f == m.detailFilter {
			chip = activeTabStyle.Render(chip)
		} else {
			chip = inactiveTabStyle.Render(chip)
		}
		chips = append(chips, chip)
	}
	b.WriteString("\n" + headerStyle.Render("Activity") + "  " + strings.Join(chips, "") + "\n")
	b.WriteString(m.renderTimeline(timeline.Filter(rows, m.detailFilter)))
	return b.String()
}

func (m Model) renderTimeline(rows []models.TimelineRow) string {
	if len(rows) == 0 {
		return dimStyle.Render("No activity") + "\n"
	}
	var b strings.Builder
	for _, r := range rows {
		label := r.Label
		if r.Source == models.SourceScheduled {
			label = scheduledStyle.Render(label)
		}
		fmt.Fprintf(&b, "%s  %-16s %-24s %s\n",
			dimStyle.Render(m.formatTime(r.Timestamp)), label, r.StatusOrAction, orPlaceholder(r.Actor))
		if len(r.Actions) > 0 {
			var actions []string
			for _, a := range r.Actions {
				actions = append(actions, string(a))
			}
			b.WriteString(dimStyle.Render("    "+strings.Join(actions, " · ")) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderInbox() string {
	items := m.deps.Catalog.ListInbox(catalog.InboxAll)
	if len(items) == 0 {
		return ""
	}
	counts := m.deps.Catalog.InboxCounts()

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", headerStyle.Render(fmt.Sprintf("Inbox  all %d · new %d · archived %d",
		counts[catalog.InboxAll], counts[catalog.InboxNew], counts[catalog.InboxArchived])))
	for _, it := range items {
		clip := ""
		if it.HasAttachment {
			clip = " 📎"
		}
		fmt.Fprintf(&b, "%s  %-8s %s%s\n", dimStyle.Render(m.formatTime(it.Date)), it.Status, m.queryName(it.QueryID), clip)
		fmt.Fprintf(&b, "    %s\n", dimStyle.Render("by "+orPlaceholder(it.ScheduledBy)+" to "+joinOr(it.Recipients)))
	}
	return b.String()
}

func (m Model) renderSchedules() string {
	items := m.deps.Catalog.ListSchedules(catalog.ScheduleAll, "")
	if len(items) == 0 {
		return ""
	}
	counts := m.deps.Catalog.ScheduleCounts()
	var chips []string
	for _, f := range catalog.ScheduleFilters {
		chips = append(chips, fmt.Sprintf("%s %d", f, counts[f]))
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Schedules  "+strings.Join(chips, " · ")) + "\n\n")
	now := m.now()
	for _, s := range items {
		next := constants.Placeholder
		if t, ok, err := catalog.NextRun(s, now); err != nil {
			next = dangerStyle.Render("invalid cron")
		} else if ok {
			next = m.formatTime(t) + " (" + m.relative(t) + ")"
		}
		status := string(s.Status)
		if s.Status == models.ScheduleFailed {
			status = dangerStyle.Render(status)
		}
		fmt.Fprintf(&b, "%-36s %-9s %s\n", m.queryName(s.QueryID), s.Frequency, status)
		fmt.Fprintf(&b, "    %s\n", dimStyle.Render("next "+next+", by "+orPlaceholder(s.ScheduledBy)))
	}
	return b.String()
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return constants.Placeholder
	}
	return s
}

func joinOr(items []string) string {
	if len(items) == 0 {
		return constants.Placeholder
	}
	return strings.Join(items, ", ")
}
