// Package timeline merges a query's runs, edits and schedule into one labeled
// activity feed, newest first.
package timeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/querylib/internal/constants"
	"github.com/julianstephens/querylib/internal/models"
)

var rowNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("querylib:timeline"))

// Reconciler builds timeline rows. The zero value is not usable; use New.
type Reconciler struct {
	// Window is the lookahead used to relate an edit to a following run or save.
	Window time.Duration
	// User is the current user. Runs by anyone else are attributed to the scheduler.
	User string
	// Now stamps a schedule row that has neither a next nor a last run.
	Now func() time.Time
}

// New returns a Reconciler with the standard 10 minute window.
func New() *Reconciler {
	return &Reconciler{
		Window: constants.ActivityWindow,
		User:   constants.CurrentUser,
		Now:    time.Now,
	}
}

// Reconcile merges the three streams of one query. The inputs are not modified.
func (r *Reconciler) Reconcile(runs []models.ExecutionEvent, edits []models.EditEvent, schedule *models.ScheduleSummary) []models.TimelineRow {
	rows := make([]models.TimelineRow, 0, len(runs)+len(edits)+1)

	for i, run := range runs {
		id := run.ID
		if id == "" {
			id = rowID(models.KindRun, run.Timestamp, run.Actor, i)
		}
		rows = append(rows, models.TimelineRow{
			ID:             id,
			Timestamp:      run.Timestamp,
			Kind:           models.KindRun,
			Actor:          run.Actor,
			Recipients:     run.Recipients,
			StatusOrAction: string(run.Status),
			Label:          models.LabelRun,
			Source:         r.runSource(run.Actor),
			Actions:        []models.Action{models.ActionView, models.ActionDownload},
		})
	}

	for i, edit := range edits {
		row := models.TimelineRow{
			ID:             rowID(models.KindEdit, edit.Timestamp, edit.Actor, i),
			Timestamp:      edit.Timestamp,
			Kind:           models.KindEdit,
			Actor:          edit.Actor,
			StatusOrAction: edit.Action,
			Label:          models.LabelEdited,
			Source:         models.SourceUser,
		}

		if run, ok := r.followingRun(edit, runs); ok {
			row.Label = models.LabelEditedAndRun
			row.Actions = []models.Action{models.ActionView, models.ActionDownload}
			if r.saveWithin(edit.Actor, run.Timestamp, edits) {
				row.Label = models.LabelEditRunSave
			}
		} else if r.saveWithin(edit.Actor, edit.Timestamp, edits) {
			row.Actions = []models.Action{models.ActionViewChanges}
		}

		rows = append(rows, row)
	}

	if schedule != nil {
		rows = append(rows, r.scheduleRow(schedule))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.After(rows[j].Timestamp)
	})
	return rows
}

// followingRun finds the run by the edit's actor inside [edit, edit+Window].
// Among several candidates the earliest wins; equal timestamps keep input order.
func (r *Reconciler) followingRun(edit models.EditEvent, runs []models.ExecutionEvent) (models.ExecutionEvent, bool) {
	var (
		match models.ExecutionEvent
		found bool
	)
	for _, run := range runs {
		if run.Actor != edit.Actor || !r.within(edit.Timestamp, run.Timestamp) {
			continue
		}
		if !found || run.Timestamp.Before(match.Timestamp) {
			match, found = run, true
		}
	}
	return match, found
}

// saveWithin reports whether actor has a save edit inside [from, from+Window].
func (r *Reconciler) saveWithin(actor string, from time.Time, edits []models.EditEvent) bool {
	for _, e := range edits {
		if e.Actor == actor && IsSave(e.Action) && r.within(from, e.Timestamp) {
			return true
		}
	}
	return false
}

func (r *Reconciler) within(from, t time.Time) bool {
	return !t.Before(from) && !t.After(from.Add(r.Window))
}

func (r *Reconciler) runSource(actor string) models.RowSource {
	if actor != "" && !strings.EqualFold(actor, r.User) {
		return models.SourceScheduled
	}
	return models.SourceUser
}

func (r *Reconciler) scheduleRow(s *models.ScheduleSummary) models.TimelineRow {
	var ts time.Time
	switch {
	case s.NextRun != nil:
		ts = *s.NextRun
	case s.LastRun != nil:
		ts = *s.LastRun
	default:
		ts = r.Now()
	}

	id := s.ID
	if id == "" {
		id = rowID(models.KindSchedule, ts, s.ScheduledBy, 0)
	}

	return models.TimelineRow{
		ID:             id,
		Timestamp:      ts,
		Kind:           models.KindSchedule,
		Actor:          s.ScheduledBy,
		Recipients:     s.Recipients,
		StatusOrAction: fmt.Sprintf("%s (%s)", s.Frequency, s.Status),
		Label:          models.LabelSchedule,
		Source:         models.SourceScheduled,
		Actions:        []models.Action{models.ActionViewSchedule},
		ScheduleID:     s.ID,
	}
}

// IsSave reports whether an edit action records a save ("Save", "Saved", "Saved draft").
func IsSave(action string) bool {
	return strings.Contains(strings.ToLower(action), "save")
}

func rowID(kind models.RowKind, ts time.Time, actor string, idx int) string {
	name := fmt.Sprintf("%s|%s|%s|%d", kind, ts.UTC().Format(time.RFC3339Nano), actor, idx)
	return uuid.NewSHA1(rowNamespace, []byte(name)).String()
}
