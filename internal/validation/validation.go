package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/querylib/internal/catalog"
	"github.com/julianstephens/querylib/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateID   ConflictType = "duplicate_id"
	ConflictDuplicateSlug ConflictType = "duplicate_slug"
	ConflictMissingName   ConflictType = "missing_name"
	ConflictUnknownFolder ConflictType = "unknown_folder"
	ConflictUnknownQuery  ConflictType = "unknown_query"
	ConflictUnknownType   ConflictType = "unknown_query_type"
	ConflictInvalidCron   ConflictType = "invalid_cron"
	ConflictNoNextRun     ConflictType = "no_next_run"
	ConflictInvalidPolicy ConflictType = "invalid_filter_policy"
	ConflictEmptyFolder   ConflictType = "empty_folder"
)

// Conflict represents a problem found in the catalog
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // ids of the records involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks a catalog for integrity problems
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateCatalog runs every check against c. Conflicts are grouped by check,
// in catalog order within a group.
func (v *Validator) ValidateCatalog(c *catalog.Catalog) ValidationResult {
	var result ValidationResult
	add := func(conflicts ...Conflict) {
		result.Conflicts = append(result.Conflicts, conflicts...)
	}

	add(v.checkFolders(c.Folders)...)
	add(v.checkEmptyFolders(c)...)
	add(v.checkQueries(c)...)
	add(v.checkSchedules(c)...)
	add(v.checkInbox(c)...)
	return result
}

func (v *Validator) checkFolders(folders []models.Folder) []Conflict {
	var conflicts []Conflict
	ids := make(map[string]bool)
	slugs := make(map[string]string)

	for _, f := range folders {
		if ids[f.ID] {
			conflicts = append(conflicts, duplicate("folder", f.ID))
		}
		ids[f.ID] = true

		if strings.TrimSpace(f.Name) == "" {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictMissingName,
				Description: fmt.Sprintf("Folder %s has no name", f.ID),
				Items:       []string{f.ID},
			})
			continue
		}

		slug := catalog.Slug(f.Name)
		if other, ok := slugs[slug]; ok && other != f.ID {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictDuplicateSlug,
				Description: fmt.Sprintf("Folders %s and %s share the slug %q", other, f.ID, slug),
				Items:       []string{other, f.ID},
			})
		}
		slugs[slug] = f.ID
	}
	return conflicts
}

// checkEmptyFolders reports folders that no query lives in.
func (v *Validator) checkEmptyFolders(c *catalog.Catalog) []Conflict {
	var conflicts []Conflict
	seen := make(map[string]bool)

	for _, f := range c.Folders {
		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true

		if len(c.QueriesInFolder(f.ID)) == 0 {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictEmptyFolder,
				Description: fmt.Sprintf("Folder %s (%s) has no queries", f.ID, orPlaceholder(f.Name)),
				Items:       []string{f.ID},
			})
		}
	}
	return conflicts
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unnamed"
	}
	return s
}

func (v *Validator) checkQueries(c *catalog.Catalog) []Conflict {
	var conflicts []Conflict
	ids := make(map[string]bool)

	for _, q := range c.Queries {
		if ids[q.ID] {
			conflicts = append(conflicts, duplicate("query", q.ID))
		}
		ids[q.ID] = true

		if strings.TrimSpace(q.Name) == "" {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictMissingName,
				Description: fmt.Sprintf("Query %s has no name", q.ID),
				Items:       []string{q.ID},
			})
		}
		if _, err := c.Folder(q.FolderID); err != nil {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictUnknownFolder,
				Description: fmt.Sprintf("Query %s references unknown folder %q", q.ID, q.FolderID),
				Items:       []string{q.ID},
			})
		}
		switch q.Type {
		case models.QueryTypeAthena, models.QueryTypePractice, models.QueryTypeCustom:
		default:
			conflicts = append(conflicts, Conflict{
				Type:        ConflictUnknownType,
				Description: fmt.Sprintf("Query %s has unknown type %q", q.ID, q.Type),
				Items:       []string{q.ID},
			})
		}
		switch q.EditableFilterPolicy {
		case "", models.FilterPolicyDateOnly, models.FilterPolicyFull:
		default:
			conflicts = append(conflicts, Conflict{
				Type:        ConflictInvalidPolicy,
				Description: fmt.Sprintf("Query %s has unknown filter policy %q", q.ID, q.EditableFilterPolicy),
				Items:       []string{q.ID},
			})
		}
	}
	return conflicts
}

func (v *Validator) checkSchedules(c *catalog.Catalog) []Conflict {
	var conflicts []Conflict
	ids := make(map[string]bool)

	for _, s := range c.Schedules {
		if ids[s.ID] {
			conflicts = append(conflicts, duplicate("schedule", s.ID))
		}
		ids[s.ID] = true

		if _, err := c.Query(s.QueryID); err != nil {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictUnknownQuery,
				Description: fmt.Sprintf("Schedule %s references unknown query %q", s.ID, s.QueryID),
				Items:       []string{s.ID},
			})
		}

		switch {
		case s.Cron != "":
			if err := catalog.ValidateCron(s.Cron); err != nil {
				conflicts = append(conflicts, Conflict{
					Type:        ConflictInvalidCron,
					Description: fmt.Sprintf("Schedule %s: %v", s.ID, err),
					Items:       []string{s.ID},
				})
			}
		case s.NextRun == nil && s.Status == models.ScheduleScheduled:
			conflicts = append(conflicts, Conflict{
				Type:        ConflictNoNextRun,
				Description: fmt.Sprintf("Schedule %s is active but has neither next_run nor cron", s.ID),
				Items:       []string{s.ID},
			})
		}
	}
	return conflicts
}

func (v *Validator) checkInbox(c *catalog.Catalog) []Conflict {
	var conflicts []Conflict
	ids := make(map[string]bool)
	unknown := make(map[string][]string)

	for _, i := range c.Inbox {
		if ids[i.ID] {
			conflicts = append(conflicts, duplicate("inbox item", i.ID))
		}
		ids[i.ID] = true

		if _, err := c.Query(i.QueryID); err != nil {
			unknown[i.QueryID] = append(unknown[i.QueryID], i.ID)
		}
	}

	queryIDs := make([]string, 0, len(unknown))
	for id := range unknown {
		queryIDs = append(queryIDs, id)
	}
	sort.Strings(queryIDs)
	for _, id := range queryIDs {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictUnknownQuery,
			Description: fmt.Sprintf("Inbox items %s reference unknown query %q", strings.Join(unknown[id], ", "), id),
			Items:       unknown[id],
		})
	}
	return conflicts
}

func duplicate(kind, id string) Conflict {
	return Conflict{
		Type:        ConflictDuplicateID,
		Description: fmt.Sprintf("Duplicate %s id %q", kind, id),
		Items:       []string{id},
	}
}
