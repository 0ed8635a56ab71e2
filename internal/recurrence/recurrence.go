package recurrence

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/julianstephens/querylib/internal/constants"
	"github.com/julianstephens/querylib/internal/logger"
	"github.com/julianstephens/querylib/internal/models"
)

// ErrNoWeekdays is returned by Rule for a weekly spec without any selected day.
var ErrNoWeekdays = errors.New("no weekdays selected")

// Preview is what the schedule form shows under the recurrence inputs.
type Preview struct {
	Runs []time.Time
	// NoDaysSelected is set for a weekly spec with an empty weekday set. Callers
	// render a "no days selected" message instead of an empty list.
	NoDaysSelected bool
}

// Anchor returns the first candidate slot: today at tod if that is still in the
// future, otherwise tomorrow at tod. The result is in now's location.
func Anchor(tod models.TimeOfDay, now time.Time) time.Time {
	today := tod.On(now)
	if today.After(now) {
		return today
	}
	return tod.On(now.AddDate(0, 0, 1))
}

// Rule builds the RFC 5545 rule producing the next n occurrences of spec after now.
//
// Weekly rules use the anchor's weekday as WKST, so the rule's week periods start
// on the anchor day. A day is then accepted only when
// floor(daysSinceAnchor/7) % interval == 0.
func Rule(spec models.RecurrenceSpec, now time.Time, n int) (*rrule.RRule, error) {
	// Form input is permissive: an interval below 1 behaves as 1.
	interval := spec.Interval
	if interval < 1 {
		interval = 1
	}

	anchor := Anchor(spec.TimeOfDay, now)
	opt := rrule.ROption{
		Dtstart:  anchor,
		Interval: interval,
		Count:    n,
	}

	switch spec.Pattern {
	case models.PatternDaily:
		opt.Freq = rrule.DAILY
	case models.PatternWeekly:
		if len(spec.Weekdays) == 0 {
			return nil, ErrNoWeekdays
		}
		opt.Freq = rrule.WEEKLY
		opt.Wkst = toRRuleWeekday(anchor.Weekday())
		opt.Byweekday = make([]rrule.Weekday, 0, len(spec.Weekdays))
		for _, wd := range spec.Weekdays {
			opt.Byweekday = append(opt.Byweekday, toRRuleWeekday(wd))
		}
	default:
		return nil, errors.New("unknown recurrence pattern: " + string(spec.Pattern))
	}

	return rrule.NewRRule(opt)
}

// NextRuns returns the next n occurrences of spec strictly after now, ascending.
// A weekly spec with no weekdays yields an empty slice.
func NextRuns(spec models.RecurrenceSpec, now time.Time, n int) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}

	r, err := Rule(spec, now, n)
	if err != nil {
		if !errors.Is(err, ErrNoWeekdays) {
			logger.Warn("Recurrence rule rejected", "pattern", spec.Pattern, "error", err)
		}
		return []time.Time{}
	}
	return r.All()
}

// NewPreview computes the preview shown by the schedule form.
func NewPreview(spec models.RecurrenceSpec, now time.Time) Preview {
	if spec.Pattern == models.PatternWeekly && len(spec.Weekdays) == 0 {
		return Preview{Runs: []time.Time{}, NoDaysSelected: true}
	}
	return Preview{Runs: NextRuns(spec, now, constants.PreviewCount)}
}

func toRRuleWeekday(wd time.Weekday) rrule.Weekday {
	switch wd {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}
