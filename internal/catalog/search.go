package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/julianstephens/querylib/internal/constants"
	"github.com/julianstephens/querylib/internal/models"
)

// SearchOptions narrows a query search. Zero values match everything.
type SearchOptions struct {
	Term     string
	Type     models.QueryType
	FolderID string
	// Tags must all be present on a query (exact match).
	Tags []string
}

// Search applies the structured filters, then the free-text term against the
// name, description, tags and folder name. With a term, queries whose name
// fuzzy-matches come first by score; the rest keep catalog order.
func (c *Catalog) Search(opts SearchOptions) []models.QueryItem {
	term := strings.ToLower(strings.TrimSpace(opts.Term))

	var hits []models.QueryItem
	for _, q := range c.Queries {
		if !matchesFilters(q, opts) {
			continue
		}
		if term != "" && !c.matchesTerm(q, term) {
			continue
		}
		hits = append(hits, q)
	}
	if term == "" || len(hits) < 2 {
		return hits
	}
	return rankByName(hits, term)
}

func matchesFilters(q models.QueryItem, opts SearchOptions) bool {
	if opts.Type != "" && q.Type != opts.Type {
		return false
	}
	if opts.FolderID != "" && q.FolderID != opts.FolderID {
		return false
	}
	for _, t := range opts.Tags {
		if !q.HasTag(t) {
			return false
		}
	}
	return true
}

func (c *Catalog) matchesTerm(q models.QueryItem, term string) bool {
	if strings.Contains(strings.ToLower(q.Name), term) ||
		strings.Contains(strings.ToLower(q.Description), term) ||
		strings.Contains(strings.ToLower(c.FolderName(q.FolderID)), term) {
		return true
	}
	for _, t := range q.Tags {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}

type nameSource []models.QueryItem

func (s nameSource) String(i int) string { return strings.ToLower(s[i].Name) }
func (s nameSource) Len() int            { return len(s) }

func rankByName(hits []models.QueryItem, term string) []models.QueryItem {
	matches := fuzzy.FindFrom(term, nameSource(hits))

	ranked := make([]models.QueryItem, 0, len(hits))
	used := make([]bool, len(hits))
	for _, m := range matches {
		ranked = append(ranked, hits[m.Index])
		used[m.Index] = true
	}
	for i, q := range hits {
		if !used[i] {
			ranked = append(ranked, q)
		}
	}
	return ranked
}

// Recommended returns up to n Athena queries from the result set, in order.
func Recommended(queries []models.QueryItem, n int) []models.QueryItem {
	var out []models.QueryItem
	for _, q := range queries {
		if len(out) == n {
			break
		}
		if q.Type == models.QueryTypeAthena {
			out = append(out, q)
		}
	}
	return out
}

// TypeCount is one entry of the catalog's type summary.
type TypeCount struct {
	Label string
	Count int
}

// TypeSummary counts queries per kind: Athenahealth, Practice, My Query and
// Shared. A shared query is counted under its type as well. Empty kinds are omitted.
func TypeSummary(queries []models.QueryItem) []TypeCount {
	labels := []string{"Athenahealth", "Practice", "My Query", "Shared"}
	counts := make([]int, len(labels))
	for _, q := range queries {
		switch q.Type {
		case models.QueryTypeAthena:
			counts[0]++
		case models.QueryTypePractice:
			counts[1]++
		case models.QueryTypeCustom:
			counts[2]++
		}
		if q.SharedBy != "" {
			counts[3]++
		}
	}

	var out []TypeCount
	for i, label := range labels {
		if counts[i] > 0 {
			out = append(out, TypeCount{Label: label, Count: counts[i]})
		}
	}
	return out
}

// OwnerLabel renders who owns a query for listings.
func OwnerLabel(q models.QueryItem) string {
	switch q.Type {
	case models.QueryTypeAthena:
		return "athenahealth"
	case models.QueryTypePractice:
		return "Practice: " + q.Owner
	}
	switch {
	case q.SharedBy != "":
		return q.CreatedBy + " • Shared by " + q.SharedBy
	case q.CreatedBy != "":
		return q.CreatedBy
	case q.Owner != "":
		return q.Owner
	default:
		return constants.Placeholder
	}
}

// FlaggedFavorites returns the ids of queries marked favorite in the dataset.
func (c *Catalog) FlaggedFavorites() []string {
	var out []string
	for _, q := range c.Queries {
		if q.Favorite {
			out = append(out, q.ID)
		}
	}
	return out
}
