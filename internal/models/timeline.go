package models

import "time"

type RunStatus string

const (
	RunNew      RunStatus = "New"
	RunRead     RunStatus = "Read"
	RunArchived RunStatus = "Archived"
	RunFailed   RunStatus = "Failed"
	RunPaused   RunStatus = "Paused"
)

// ExecutionEvent is a single run of a query.
type ExecutionEvent struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Actor      string    `json:"actor"`
	Recipients []string  `json:"recipients,omitempty"`
	Status     RunStatus `json:"status"`
}

// EditEvent is an entry of a query's activity history.
type EditEvent struct {
	Timestamp time.Time `yaml:"at" json:"at"`
	Actor     string    `yaml:"by" json:"by"`
	Action    string    `yaml:"action" json:"action"` // e.g. "Executed", "Updated", "Schedule Modified"
	Details   string    `yaml:"details,omitempty" json:"details,omitempty"`
}

// ScheduleSummary is the part of a schedule surfaced on the timeline.
type ScheduleSummary struct {
	ID          string         `json:"id"`
	Frequency   Frequency      `json:"frequency"`
	Status      ScheduleStatus `json:"status"`
	Recipients  []string       `json:"recipients,omitempty"`
	NextRun     *time.Time     `json:"next_run,omitempty"`
	LastRun     *time.Time     `json:"last_run,omitempty"`
	ScheduledBy string         `json:"scheduled_by,omitempty"`
}

type RowKind string

const (
	KindRun      RowKind = "run"
	KindEdit     RowKind = "edit"
	KindSchedule RowKind = "schedule"
)

type RowSource string

const (
	SourceUser      RowSource = "user"
	SourceScheduled RowSource = "scheduled"
)

type Action string

const (
	ActionView         Action = "view"
	ActionDownload     Action = "download"
	ActionViewSchedule Action = "view-schedule"
	ActionViewChanges  Action = "view-changes"
)

// Timeline labels
const (
	LabelRun          = "run"
	LabelEdited       = "edited"
	LabelEditedAndRun = "edited and run"
	LabelEditRunSave  = "edit-run-save"
	LabelSchedule     = "schedule"
)

// TimelineRow is one reconciled entry of the activity feed. Derived, never stored.
type TimelineRow struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Kind           RowKind   `json:"kind"`
	Actor          string    `json:"actor"`
	Recipients     []string  `json:"recipients,omitempty"`
	StatusOrAction string    `json:"status_or_action"`
	Label          string    `json:"label"`
	Source         RowSource `json:"source"`
	Actions        []Action  `json:"actions,omitempty"`
	ScheduleID     string    `json:"schedule_id,omitempty"`
}

// Has reports whether the row exposes the action.
func (r TimelineRow) Has(a Action) bool {
	for _, x := range r.Actions {
		if x == a {
			return true
		}
	}
	return false
}
