// Package catalog holds the read-only query library: folders, queries,
// schedules and delivered runs.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/querylib/internal/constants"
	"github.com/julianstephens/querylib/internal/logger"
	"github.com/julianstephens/querylib/internal/models"
)

//go:embed dataset.yaml
var defaultDataset []byte

// ErrNotFound is returned by lookups for unknown ids or slugs.
var ErrNotFound = errors.New("not found")

// Catalog is the loaded dataset plus lookup indexes. It is not modified after Load.
type Catalog struct {
	Folders   []models.Folder       `yaml:"folders"`
	Tags      []string              `yaml:"tags"`
	Queries   []models.QueryItem    `yaml:"queries"`
	Schedules []models.ScheduleItem `yaml:"schedules"`
	Inbox     []models.InboxItem    `yaml:"inbox"`

	// User is the current user; "mine" filters compare against it.
	User string `yaml:"-"`

	queryIdx  map[string]int
	folderIdx map[string]int
	slugIdx   map[string]int
}

// Load reads a dataset file. An empty path loads the built-in dataset.
func Load(path string) (*Catalog, error) {
	data := defaultDataset
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
	}

	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	logger.Debug("Catalog loaded", "path", path, "folders", len(c.Folders), "queries", len(c.Queries))
	return c, nil
}

// Parse decodes a YAML dataset.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	c.User = constants.CurrentUser
	c.reindex()
	return &c, nil
}

func (c *Catalog) reindex() {
	c.queryIdx = make(map[string]int, len(c.Queries))
	for i, q := range c.Queries {
		if _, dup := c.queryIdx[q.ID]; !dup {
			c.queryIdx[q.ID] = i
		}
	}
	c.folderIdx = make(map[string]int, len(c.Folders))
	c.slugIdx = make(map[string]int, len(c.Folders))
	for i, f := range c.Folders {
		if _, dup := c.folderIdx[f.ID]; !dup {
			c.folderIdx[f.ID] = i
		}
		if _, dup := c.slugIdx[Slug(f.Name)]; !dup {
			c.slugIdx[Slug(f.Name)] = i
		}
	}
}

// Query returns the query with the given id.
func (c *Catalog) Query(id string) (models.QueryItem, error) {
	i, ok := c.queryIdx[id]
	if !ok {
		return models.QueryItem{}, fmt.Errorf("query %q: %w", id, ErrNotFound)
	}
	return c.Queries[i], nil
}

// Folder returns the folder with the given id.
func (c *Catalog) Folder(id string) (models.Folder, error) {
	i, ok := c.folderIdx[id]
	if !ok {
		return models.Folder{}, fmt.Errorf("folder %q: %w", id, ErrNotFound)
	}
	return c.Folders[i], nil
}

// FolderBySlug resolves a folder from the slug of its name ("billing-team").
// A folder id is accepted as well.
func (c *Catalog) FolderBySlug(slug string) (models.Folder, error) {
	if i, ok := c.slugIdx[Slug(slug)]; ok {
		return c.Folders[i], nil
	}
	if f, err := c.Folder(slug); err == nil {
		return f, nil
	}
	return models.Folder{}, fmt.Errorf("folder %q: %w", slug, ErrNotFound)
}

// FolderName returns the folder's name, or "" for an unknown id.
func (c *Catalog) FolderName(id string) string {
	if f, err := c.Folder(id); err == nil {
		return f.Name
	}
	return ""
}

// QueriesInFolder returns the folder's queries in catalog order.
func (c *Catalog) QueriesInFolder(folderID string) []models.QueryItem {
	var out []models.QueryItem
	for _, q := range c.Queries {
		if q.FolderID == folderID {
			out = append(out, q)
		}
	}
	return out
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s and collapses everything outside [a-z0-9] into single dashes.
func Slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
