package timeline

import (
	"fmt"
	"strings"

	"github.com/julianstephens/querylib/internal/models"
)

// FilterKind selects a subset of a timeline.
type FilterKind string

const (
	FilterAll       FilterKind = "all"
	FilterRuns      FilterKind = "runs"
	FilterEdits     FilterKind = "edits"
	FilterScheduled FilterKind = "scheduled"
)

// Filters lists the filter kinds in display order.
var Filters = []FilterKind{FilterAll, FilterRuns, FilterEdits, FilterScheduled}

// ParseFilter accepts a filter name; an empty string means all.
func ParseFilter(s string) (FilterKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FilterAll, nil
	}
	for _, f := range Filters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid timeline filter %q (want all, runs, edits or scheduled)", s)
}

func (f FilterKind) match(row models.TimelineRow) bool {
	switch f {
	case FilterRuns:
		return row.Kind == models.KindRun
	case FilterEdits:
		return row.Kind == models.KindEdit
	case FilterScheduled:
		return row.Source == models.SourceScheduled
	default:
		return true
	}
}

// Filter keeps the rows matching f, preserving order.
func Filter(rows []models.TimelineRow, f FilterKind) []models.TimelineRow {
	out := make([]models.TimelineRow, 0, len(rows))
	for _, row := range rows {
		if f.match(row) {
			out = append(out, row)
		}
	}
	return out
}

// Counts returns the number of rows per filter kind.
func Counts(rows []models.TimelineRow) map[FilterKind]int {
	counts := make(map[FilterKind]int, len(Filters))
	for _, f := range Filters {
		counts[f] = 0
	}
	for _, row := range rows {
		for _, f := range Filters {
			if f.match(row) {
				counts[f]++
			}
		}
	}
	return counts
}
