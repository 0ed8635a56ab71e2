package catalog

import (
	"fmt"
	"strings"

	"github.com/julianstephens/querylib/internal/models"
)

// FolderCategory splits folders into system domains and user folders.
type FolderCategory string

const (
	CategoryAll    FolderCategory = "all"
	CategorySystem FolderCategory = "system"
	CategoryMy     FolderCategory = "my"
)

// ParseCategory accepts all, system or my; empty means all.
func ParseCategory(s string) (FolderCategory, error) {
	switch FolderCategory(strings.ToLower(strings.TrimSpace(s))) {
	case "", CategoryAll:
		return CategoryAll, nil
	case CategorySystem:
		return CategorySystem, nil
	case CategoryMy:
		return CategoryMy, nil
	default:
		return "", fmt.Errorf("invalid folder category %q (want all, system or my)", s)
	}
}

// FolderStat is a folder card: the folder plus a summary of its contents.
type FolderStat struct {
	Folder models.Folder
	Slug   string
	Count  int
	// IsMy is set when the folder holds at least one custom query.
	IsMy     bool
	Tags     []string
	Previews []models.QueryItem
}

const (
	folderTagLimit     = 6
	folderPreviewLimit = 3
)

// FolderStats lists folders in catalog order, filtered by category and by a
// case-insensitive term matched against the name and description.
func (c *Catalog) FolderStats(category FolderCategory, term string) []FolderStat {
	term = strings.ToLower(strings.TrimSpace(term))

	var out []FolderStat
	for _, f := range c.Folders {
		stat := c.folderStat(f)
		if term != "" &&
			!strings.Contains(strings.ToLower(f.Name), term) &&
			!strings.Contains(strings.ToLower(f.Description), term) {
			continue
		}
		switch category {
		case CategorySystem:
			if stat.IsMy {
				continue
			}
		case CategoryMy:
			if !stat.IsMy {
				continue
			}
		}
		out = append(out, stat)
	}
	return out
}

func (c *Catalog) folderStat(f models.Folder) FolderStat {
	queries := c.QueriesInFolder(f.ID)
	stat := FolderStat{Folder: f, Slug: Slug(f.Name), Count: len(queries)}

	seen := make(map[string]bool)
	for _, q := range queries {
		if q.Type == models.QueryTypeCustom {
			stat.IsMy = true
		}
		for _, t := range q.Tags {
			if !seen[t] && len(stat.Tags) < folderTagLimit {
				seen[t] = true
				stat.Tags = append(stat.Tags, t)
			}
		}
	}
	if len(queries) > folderPreviewLimit {
		queries = queries[:folderPreviewLimit]
	}
	stat.Previews = queries
	return stat
}
