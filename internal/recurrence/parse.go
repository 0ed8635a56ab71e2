package recurrence

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/querylib/internal/constants"
	"github.com/julianstephens/querylib/internal/models"
)

var dayMap = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

// ParsePattern parses "daily" or "weekly" (case-insensitive).
func ParsePattern(s string) (models.RecurrencePattern, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return models.PatternDaily, nil
	case "weekly":
		return models.PatternWeekly, nil
	default:
		return "", fmt.Errorf("invalid recurrence pattern: %s", s)
	}
}

// ParseWeekdays parses a comma-separated list of weekdays. Names and numbers
// (0=Sunday, 6=Saturday) are accepted; duplicates are dropped. An empty string
// yields an empty set.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	weekdays := []time.Weekday{}
	if strings.TrimSpace(s) == "" {
		return weekdays, nil
	}

	seen := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		wd, ok := dayMap[part]
		if !ok {
			num, err := strconv.Atoi(part)
			if err != nil || num < 0 || num > 6 {
				return nil, fmt.Errorf("invalid weekday: %s", part)
			}
			wd = time.Weekday(num)
		}
		if !seen[wd] {
			seen[wd] = true
			weekdays = append(weekdays, wd)
		}
	}

	return weekdays, nil
}

// ParseTimeOfDay parses a time string in the standard format (HH:MM).
func ParseTimeOfDay(s string) (models.TimeOfDay, error) {
	t, err := time.Parse(constants.TimeFormat, strings.TrimSpace(s))
	if err != nil {
		return models.TimeOfDay{}, fmt.Errorf("invalid time %q (expected HH:MM): %w", s, err)
	}
	return models.TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// FormatWeekdays renders weekdays Monday first, e.g. "Mon, Wed".
func FormatWeekdays(days []time.Weekday) string {
	sorted := append([]time.Weekday(nil), days...)
	sort.Slice(sorted, func(i, j int) bool {
		return mondayFirst(sorted[i]) < mondayFirst(sorted[j])
	})
	names := make([]string, len(sorted))
	for i, wd := range sorted {
		names[i] = wd.String()[:3]
	}
	return strings.Join(names, ", ")
}

func mondayFirst(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// Describe formats a recurrence spec into a human-readable string
func Describe(spec models.RecurrenceSpec) string {
	interval := spec.Interval
	if interval < 1 {
		interval = 1
	}

	switch spec.Pattern {
	case models.PatternDaily:
		if interval == 1 {
			return fmt.Sprintf("Daily at %s", spec.TimeOfDay)
		}
		return fmt.Sprintf("Every %d days at %s", interval, spec.TimeOfDay)
	case models.PatternWeekly:
		days := "no days"
		if len(spec.Weekdays) > 0 {
			days = FormatWeekdays(spec.Weekdays)
		}
		if interval == 1 {
			return fmt.Sprintf("Weekly on %s at %s", days, spec.TimeOfDay)
		}
		return fmt.Sprintf("Every %d weeks on %s at %s", interval, days, spec.TimeOfDay)
	default:
		return "unknown"
	}
}

// ParseSpec builds a spec from form or flag values.
func ParseSpec(pattern string, interval int, weekdays, timeOfDay string) (models.RecurrenceSpec, error) {
	p, err := ParsePattern(pattern)
	if err != nil {
		return models.RecurrenceSpec{}, err
	}
	days, err := ParseWeekdays(weekdays)
	if err != nil {
		return models.RecurrenceSpec{}, err
	}
	tod, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return models.RecurrenceSpec{}, err
	}
	if p == models.PatternDaily {
		days = nil
	}
	return models.RecurrenceSpec{Pattern: p, Interval: interval, Weekdays: days, TimeOfDay: tod}, nil
}
