package models

import "time"

type QueryType string

const (
	QueryTypeAthena   QueryType = "Athena"
	QueryTypePractice QueryType = "Practice"
	QueryTypeCustom   QueryType = "Custom"
)

type AccessLevel string

const (
	AccessViewer AccessLevel = "Viewer"
	AccessEditor AccessLevel = "Editor"
	AccessOwner  AccessLevel = "Owner"
)

type FilterPolicy string

const (
	FilterPolicyDateOnly FilterPolicy = "date-only"
	FilterPolicyFull     FilterPolicy = "full"
)

type Frequency string

const (
	FrequencyDaily     Frequency = "Daily"
	FrequencyWeekly    Frequency = "Weekly"
	FrequencyMonthly   Frequency = "Monthly"
	FrequencyQuarterly Frequency = "Quarterly"
	FrequencyAdHoc     Frequency = "Ad-hoc"
)

type ScheduleStatus string

const (
	ScheduleScheduled ScheduleStatus = "Scheduled"
	ScheduleSuccess   ScheduleStatus = "Success"
	ScheduleFailed    ScheduleStatus = "Failed"
	SchedulePaused    ScheduleStatus = "Paused"
)

type Folder struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type QueryFilter struct {
	Name     string `yaml:"name" json:"name"`
	Operator string `yaml:"operator,omitempty" json:"operator,omitempty"`
	Value    string `yaml:"value" json:"value"`
}

type QueryConfig struct {
	Columns []string      `yaml:"columns" json:"columns"`
	Filters []QueryFilter `yaml:"filters" json:"filters"`
}

type QueryItem struct {
	ID                   string       `yaml:"id" json:"id"`
	Name                 string       `yaml:"name" json:"name"`
	Description          string       `yaml:"description,omitempty" json:"description,omitempty"`
	Type                 QueryType    `yaml:"type" json:"type"`
	FolderID             string       `yaml:"folder" json:"folder_id"`
	Tags                 []string     `yaml:"tags" json:"tags"`
	Owner                string       `yaml:"owner" json:"owner"`
	SQL                  string       `yaml:"sql" json:"sql"`
	CreatedBy            string       `yaml:"created_by" json:"created_by"`
	CreatedOn            time.Time    `yaml:"created_on" json:"created_on"`
	LastRun              *time.Time   `yaml:"last_run,omitempty" json:"last_run,omitempty"`
	LastModified         time.Time    `yaml:"last_modified" json:"last_modified"`
	Favorite             bool         `yaml:"favorite,omitempty" json:"favorite,omitempty"`
	SharedBy             string       `yaml:"shared_by,omitempty" json:"shared_by,omitempty"`
	AccessLevel          AccessLevel  `yaml:"access_level,omitempty" json:"access_level,omitempty"`
	Config               *QueryConfig `yaml:"config,omitempty" json:"config,omitempty"`
	Activity             []EditEvent  `yaml:"activity,omitempty" json:"activity,omitempty"`
	EditableFilterPolicy FilterPolicy `yaml:"editable_filter_policy,omitempty" json:"editable_filter_policy,omitempty"`
}

// Policy returns the editable filter policy, defaulting to full.
func (q QueryItem) Policy() FilterPolicy {
	if q.EditableFilterPolicy == "" {
		return FilterPolicyFull
	}
	return q.EditableFilterPolicy
}

// HasTag reports whether the query carries the tag (exact match).
func (q QueryItem) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type ScheduleItem struct {
	ID          string         `yaml:"id" json:"id"`
	QueryID     string         `yaml:"query" json:"query_id"`
	Frequency   Frequency      `yaml:"frequency" json:"frequency"`
	Cron        string         `yaml:"cron,omitempty" json:"cron,omitempty"` // standard 5-field expression
	NextRun     *time.Time     `yaml:"next_run,omitempty" json:"next_run,omitempty"`
	LastRun     *time.Time     `yaml:"last_run,omitempty" json:"last_run,omitempty"`
	Status      ScheduleStatus `yaml:"status" json:"status"`
	Recipients  []string       `yaml:"recipients,omitempty" json:"recipients,omitempty"`
	ScheduledBy string         `yaml:"scheduled_by,omitempty" json:"scheduled_by,omitempty"`
}

type InboxItem struct {
	ID            string    `yaml:"id" json:"id"`
	QueryID       string    `yaml:"query" json:"query_id"`
	Date          time.Time `yaml:"date" json:"date"`
	Status        RunStatus `yaml:"status" json:"status"`
	HasAttachment bool      `yaml:"has_attachment,omitempty" json:"has_attachment,omitempty"`
	Recipients    []string  `yaml:"recipients,omitempty" json:"recipients,omitempty"`
	ScheduledBy   string    `yaml:"scheduled_by,omitempty" json:"scheduled_by,omitempty"`
}
