package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/querylib/internal/catalog"
	"github.com/julianstephens/querylib/internal/models"
)

func parse(t *testing.T, data string) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return c
}

func hasConflict(result ValidationResult, ct ConflictType, item string) bool {
	for _, c := range result.Conflicts {
		if c.Type != ct {
			continue
		}
		for _, id := range c.Items {
			if id == item {
				return true
			}
		}
	}
	return false
}

func TestValidateCatalog_Default(t *testing.T) {
	c, err := catalog.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	result := New().ValidateCatalog(c)
	if result.HasConflicts() {
		t.Errorf("built-in catalog should be clean:\n%s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report %q", result.FormatReport())
	}
}

func TestValidateCatalog_Conflicts(t *testing.T) {
	c := parse(t, `folders:
  - id: a
    name: Team Reports
  - id: b
    name: team reports
  - id: a
    name: Again
  - id: c
    name: ""
queries:
  - id: q1
    name: Revenue
    type: Custom
    folder: a
  - id: q1
    name: Revenue copy
    type: Athena
    folder: nowhere
  - id: q2
    name: ""
    type: SQL
    folder: a
    editable_filter_policy: some
schedules:
  - id: s1
    query: q1
    cron: "not a cron"
    status: Scheduled
  - id: s2
    query: ghost
    status: Scheduled
  - id: s3
    query: q2
    status: Paused
inbox:
  - id: i1
    query: ghost
    date: 2025-09-30T12:01:00Z
    status: New
  - id: i2
    query: ghost
    date: 2025-09-30T12:02:00Z
    status: New
`)

	result := New().ValidateCatalog(c)

	tests := []struct {
		ct   ConflictType
		item string
	}{
		{ConflictDuplicateID, "a"},
		{ConflictDuplicateSlug, "b"},
		{ConflictMissingName, "c"},
		{ConflictDuplicateID, "q1"},
		{ConflictUnknownFolder, "q1"},
		{ConflictMissingName, "q2"},
		{ConflictUnknownType, "q2"},
		{ConflictInvalidPolicy, "q2"},
		{ConflictInvalidCron, "s1"},
		{ConflictUnknownQuery, "s2"},
		{ConflictNoNextRun, "s2"},
		{ConflictUnknownQuery, "i1"},
		{ConflictUnknownQuery, "i2"},
		{ConflictEmptyFolder, "b"},
		{ConflictEmptyFolder, "c"},
	}
	for _, tt := range tests {
		if !hasConflict(result, tt.ct, tt.item) {
			t.Errorf("missing %s conflict for %s", tt.ct, tt.item)
		}
	}
	if hasConflict(result, ConflictNoNextRun, "s3") {
		t.Error("paused schedule without next run should not be reported")
	}

	report := result.FormatReport()
	if !strings.HasPrefix(report, "Conflicts detected:\n") || !strings.Contains(report, `Inbox items i1, i2 reference unknown query "ghost"`) {
		t.Errorf("unexpected report:\n%s", report)
	}
}

func TestValidateCatalog_ScheduleWithNextRun(t *testing.T) {
	next := time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC)
	c := parse(t, `folders:
  - id: a
    name: A
queries:
  - id: q1
    name: Q
    type: Practice
    folder: a
`)
	c.Schedules = []models.ScheduleItem{{ID: "s1", QueryID: "q1", Status: models.ScheduleScheduled, NextRun: &next}}

	if result := New().ValidateCatalog(c); result.HasConflicts() {
		t.Errorf("unexpected conflicts:\n%s", result.FormatReport())
	}
}

func TestValidateCatalog_EmptyFolders(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		empty []string
	}{
		{
			name: "every folder used",
			data: `folders:
  - id: a
    name: A
queries:
  - id: q1
    name: Q
    type: Custom
    folder: a
`,
		},
		{
			name: "orphaned folders",
			data: `folders:
  - id: a
    name: A
  - id: arch
    name: Archived - 2022 Reports
  - id: tmp
    name: Temp - Exports
queries:
  - id: q1
    name: Q
    type: Custom
    folder: tmp
`,
			empty: []string{"a", "arch"},
		},
		{
			name: "duplicate folder id reported once",
			data: `folders:
  - id: a
    name: A
  - id: a
    name: Again
`,
			empty: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().ValidateCatalog(parse(t, tt.data))
			var got []string
			for _, c := range result.Conflicts {
				if c.Type == ConflictEmptyFolder {
					got = append(got, c.Items...)
				}
			}
			if strings.Join(got, ",") != strings.Join(tt.empty, ",") {
				t.Errorf("empty folders = %v, want %v", got, tt.empty)
			}
		})
	}

	result := New().ValidateCatalog(parse(t, `folders:
  - id: arch
    name: Archived - 2022 Reports
`))
	if !strings.Contains(result.FormatReport(), "Folder arch (Archived - 2022 Reports) has no queries") {
		t.Errorf("unexpected report:\n%s", result.FormatReport())
	}
}
