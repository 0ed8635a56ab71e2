package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/querylib/internal/catalog"
	"github.com/julianstephens/querylib/internal/preferences"
)

type FoldersCmd struct {
	List FolderListCmd `cmd:"" default:"withargs" help:"List folders, pinned first."`
	Show FolderShowCmd `cmd:"" help:"Show the queries in a folder."`
	Pin  FolderPinCmd  `cmd:"" help:"Pin or unpin a folder."`
}

type FolderListCmd struct {
	Category string `help:"Folder category." enum:"all,system,my" default:"all"`
	Search   string `help:"Filter by name or description."`
}

func (c *FolderListCmd) Run(ctx *Context) error {
	category, err := catalog.ParseCategory(c.Category)
	if err != nil {
		return err
	}
	stats := pinnedFirst(ctx.Catalog.FolderStats(category, c.Search), ctx.Pins.List())
	if len(stats) == 0 {
		ctx.println("No folders found")
		return nil
	}

	for _, st := range stats {
		pin := " "
		if ctx.Pins.IsPinned(st.Slug) {
			pin = "📌"
		}
		ctx.printf("%s %-28s %3d queries  (%s)\n", pin, st.Folder.Name, st.Count, st.Slug)
		if st.Folder.Description != "" {
			ctx.printf("   %s\n", st.Folder.Description)
		}
		if len(st.Tags) > 0 {
			ctx.printf("   tags: %s\n", strings.Join(st.Tags, ", "))
		}
	}
	return nil
}

// pinnedFirst moves pinned folders to the front in pin order; the rest keep their order.
func pinnedFirst(stats []catalog.FolderStat, pins []string) []catalog.FolderStat {
	out := make([]catalog.FolderStat, 0, len(stats))
	used := make([]bool, len(stats))
	for _, slug := range pins {
		for i, st := range stats {
			if !used[i] && st.Slug == slug {
				out = append(out, st)
				used[i] = true
			}
		}
	}
	for i, st := range stats {
		if !used[i] {
			out = append(out, st)
		}
	}
	return out
}

type FolderShowCmd struct {
	Folder string `arg:"" help:"Folder slug or id."`
}

func (c *FolderShowCmd) Run(ctx *Context) error {
	folder, err := ctx.Catalog.FolderBySlug(c.Folder)
	if err != nil {
		return fmt.Errorf("folder %q: %w", c.Folder, err)
	}
	ctx.printf("%s\n", folder.Name)
	if folder.Description != "" {
		ctx.printf("  %s\n", folder.Description)
	}
	ctx.println()
	printQueries(ctx, ctx.Catalog.QueriesInFolder(folder.ID))
	return nil
}

type FolderPinCmd struct {
	Folder string `arg:"" help:"Folder slug or id."`
}

func (c *FolderPinCmd) Run(ctx *Context) error {
	folder, err := ctx.Catalog.FolderBySlug(c.Folder)
	if err != nil {
		return fmt.Errorf("folder %q: %w", c.Folder, err)
	}
	slug := catalog.Slug(folder.Name)

	pinned, err := ctx.Pins.Toggle(slug)
	if preferences.IsPinLimit(err) {
		return fmt.Errorf("%w; unpin one of: %s", err, strings.Join(ctx.Pins.List(), ", "))
	}
	if err != nil {
		return err
	}
	if pinned {
		ctx.printf("Pinned %s\n", folder.Name)
	} else {
		ctx.printf("Unpinned %s\n", folder.Name)
	}
	return nil
}
