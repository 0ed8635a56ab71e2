package models

import (
	"fmt"
	"time"
)

type RecurrencePattern string

const (
	PatternDaily  RecurrencePattern = "daily"
	PatternWeekly RecurrencePattern = "weekly"
)

// TimeOfDay is a 24h wall clock time.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On returns the time of day on the calendar date of d, in d's location.
func (t TimeOfDay) On(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, 0, 0, d.Location())
}

// RecurrenceSpec is built from the schedule form. It is never persisted.
type RecurrenceSpec struct {
	Pattern   RecurrencePattern `json:"pattern"`
	Interval  int               `json:"interval"`           // every N days or weeks
	Weekdays  []time.Weekday    `json:"weekdays,omitempty"` // weekly only
	TimeOfDay TimeOfDay         `json:"time_of_day"`
}

// HasWeekday reports whether wd is selected.
func (s RecurrenceSpec) HasWeekday(wd time.Weekday) bool {
	for _, d := range s.Weekdays {
		if d == wd {
			return true
		}
	}
	return false
}
