package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/querylib/internal/catalog"
	"github.com/julianstephens/querylib/internal/models"
	"github.com/julianstephens/querylib/internal/timeline"
)

type QueriesCmd struct {
	List     QueryListCmd     `cmd:"" default:"withargs" help:"List queries."`
	Search   QuerySearchCmd   `cmd:"" help:"Search queries by name, description, tag or folder."`
	Show     QueryShowCmd     `cmd:"" help:"Show a query with its schedules and activity."`
	Favorite QueryFavoriteCmd `cmd:"" help:"Toggle a query favorite."`
	Build    QueryBuildCmd    `cmd:"" help:"Draft column and filter changes to a query."`
}

// QueryFilterFlags are shared by list and search.
type QueryFilterFlags struct {
	Type      string   `help:"Only queries of this type." enum:",Athena,Practice,Custom" default:""`
	Folder    string   `help:"Folder slug or id."`
	Tag       []string `help:"Require a tag. Repeatable."`
	Favorites bool     `help:"Only favorites."`
	Shared    bool     `help:"Only queries shared with you."`
	Mine      bool     `help:"Only your custom queries."`
}

func (f QueryFilterFlags) search(ctx *Context, term string) ([]models.QueryItem, error) {
	opts := catalog.SearchOptions{
		Term: term,
		Type: models.QueryType(f.Type),
		Tags: f.Tag,
	}
	if f.Folder != "" {
		folder, err := ctx.Catalog.FolderBySlug(f.Folder)
		if err != nil {
			return nil, fmt.Errorf("folder %q: %w", f.Folder, err)
		}
		opts.FolderID = folder.ID
	}

	var out []models.QueryItem
	for _, q := range ctx.Catalog.Search(opts) {
		if f.Favorites && !ctx.Favorites.IsFavorite(q.ID) {
			continue
		}
		if f.Shared && q.SharedBy == "" {
			continue
		}
		if f.Mine && q.Type != models.QueryTypeCustom {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

type QueryListCmd struct {
	QueryFilterFlags `embed:""`
}

func (c *QueryListCmd) Run(ctx *Context) error {
	queries, err := c.search(ctx, "")
	if err != nil {
		return err
	}
	printQueries(ctx, queries)
	return nil
}

type QuerySearchCmd struct {
	Term string `arg:"" help:"Search term."`

	QueryFilterFlags `embed:""`
}

func (c *QuerySearchCmd) Run(ctx *Context) error {
	queries, err := c.search(ctx, c.Term)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		ctx.printf("No queries match %q\n", c.Term)
		return nil
	}
	if rec := catalog.Recommended(queries, 3); len(rec) > 0 {
		ctx.println("Recommended:")
		for _, q := range rec {
			ctx.printf("  %s (%s)\n", q.Name, q.ID)
		}
		ctx.println()
	}
	printQueries(ctx, queries)
	return nil
}

func printQueries(ctx *Context, queries []models.QueryItem) {
	if len(queries) == 0 {
		ctx.println("No queries found")
		return
	}

	var summary []string
	for _, tc := range catalog.TypeSummary(queries) {
		summary = append(summary, fmt.Sprintf("%s %d", tc.Label, tc.Count))
	}
	ctx.printf("Queries (%d): %s\n", len(queries), strings.Join(summary, " · "))

	for _, q := range queries {
		star := " "
		if ctx.Favorites.IsFavorite(q.ID) {
			star = "★"
		}
		ctx.printf("  %s %-6s %s [%s]\n", star, q.ID, q.Name, q.Type)
		ctx.printf("           %s · %s · modified %s\n",
			ctx.Catalog.FolderName(q.FolderID), catalog.OwnerLabel(q), ctx.relative(q.LastModified))
	}
}

type QueryShowCmd struct {
	ID     string `arg:"" help:"Query id."`
	Filter string `help:"Timeline filter." enum:"all,runs,edits,scheduled" default:"all"`
	SQL    bool   `help:"Print the SQL text."`
}

func (c *QueryShowCmd) Run(ctx *Context) error {
	q, err := ctx.Catalog.Query(c.ID)
	if err != nil {
		return fmt.Errorf("query %q: %w", c.ID, err)
	}
	filter, err := timeline.ParseFilter(c.Filter)
	if err != nil {
		return err
	}

	ctx.printf("%s (%s)\n", q.Name, q.ID)
	if q.Description != "" {
		ctx.printf("  %s\n", q.Description)
	}
	ctx.printf("  Type:      %s\n", q.Type)
	ctx.printf("  Folder:    %s\n", ctx.Catalog.FolderName(q.FolderID))
	ctx.printf("  Owner:     %s\n", catalog.OwnerLabel(q))
	ctx.printf("  Tags:      %s\n", joinOr(q.Tags))
	ctx.printf("  Created:   %s by %s\n", ctx.formatTime(q.CreatedOn), orPlaceholder(q.CreatedBy))
	ctx.printf("  Modified:  %s\n", ctx.formatTime(q.LastModified))
	ctx.printf("  Last run:  %s\n", ctx.formatOptional(q.LastRun))
	if q.AccessLevel != "" {
		ctx.printf("  Access:    %s\n", q.AccessLevel)
	}
	ctx.printf("  Favorite:  %t\n", ctx.Favorites.IsFavorite(q.ID))
	if q.Config != nil {
		ctx.printf("  Editable filters (%s): %s\n", q.Policy(), joinOr(catalog.EditableFilterNames(q)))
	}
	if c.SQL && q.SQL != "" {
		ctx.println()
		ctx.println(q.SQL)
	}

	schedules := ctx.Catalog.SchedulesForQuery(q.ID)
	ctx.println()
	ctx.printf("Schedules (%d):\n", len(schedules))
	for _, s := range schedules {
		ctx.printf("  %-4s %-9s %-9s next %s, last %s\n",
			s.ID, s.Frequency, s.Status, ctx.formatOptional(s.NextRun), ctx.formatOptional(s.LastRun))
	}

	rows := ctx.Timeline(q.ID)
	counts := timeline.Counts(rows)
	ctx.println()
	ctx.printf("Activity (all %d · runs %d · edits %d · scheduled %d):\n",
		counts[timeline.FilterAll], counts[timeline.FilterRuns], counts[timeline.FilterEdits], counts[timeline.FilterScheduled])
	printTimeline(ctx, timeline.Filter(rows, filter))
	return nil
}

func printTimeline(ctx *Context, rows []models.TimelineRow) {
	if len(rows) == 0 {
		ctx.println("  No activity")
		return
	}
	for _, r := range rows {
		var actions []string
		for _, a := range r.Actions {
			actions = append(actions, string(a))
		}
		ctx.printf("  %s  %-14s %-10s %-24s %s\n",
			ctx.formatTime(r.Timestamp), r.Label, r.Source, r.StatusOrAction, orPlaceholder(r.Actor))
		if len(r.Recipients) > 0 {
			ctx.printf("  %16s to: %s\n", "", strings.Join(r.Recipients, ", "))
		}
		if len(actions) > 0 {
			ctx.printf("  %16s actions: %s\n", "", strings.Join(actions, ", "))
		}
	}
}

type QueryFavoriteCmd struct {
	ID string `arg:"" help:"Query id."`
}

func (c *QueryFavoriteCmd) Run(ctx *Context) error {
	q, err := ctx.Catalog.Query(c.ID)
	if err != nil {
		return fmt.Errorf("query %q: %w", c.ID, err)
	}
	on, err := ctx.Favorites.Toggle(q.ID)
	if err != nil {
		return err
	}
	if on {
		ctx.printf("Added %s to favorites\n", q.Name)
	} else {
		ctx.printf("Removed %s from favorites\n", q.Name)
	}
	return nil
}

type QueryBuildCmd struct {
	ID         string   `arg:"" help:"Query id."`
	Search     string   `help:"Search the column attribute catalog."`
	Add        []string `help:"Add a column. Repeatable." sep:"none"`
	Remove     []string `help:"Remove a column. Repeatable." sep:"none"`
	Filter     []string `help:"Add a filter row as FIELD[:OPERATOR[:VALUE]]. Repeatable." sep:"none"`
	Edit       []string `help:"Change a filter row as N:OPERATOR:VALUE. Repeatable." sep:"none"`
	DropFilter []int    `help:"Remove filter row N. Repeatable." name:"drop-filter"`
}

// Run applies the edits to a draft of the query and prints the result. Row
// numbers in --edit and --drop-filter refer to the query's saved filters.
// The draft is not saved.
func (c *QueryBuildCmd) Run(ctx *Context) error {
	q, err := ctx.Catalog.Query(c.ID)
	if err != nil {
		return fmt.Errorf("query %q: %w", c.ID, err)
	}
	draft := catalog.NewDraft(q)

	for _, name := range c.Add {
		if !draft.AddColumn(name) {
			ctx.printf("Column %q already added\n", strings.TrimSpace(name))
		}
	}
	for _, name := range c.Remove {
		if !draft.RemoveColumn(name) {
			return fmt.Errorf("column %q is not in the query", name)
		}
	}
	for _, spec := range c.Edit {
		parts := strings.SplitN(spec, ":", 3)
		n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || len(parts) != 3 {
			return fmt.Errorf("invalid --edit %q (want N:OPERATOR:VALUE)", spec)
		}
		if err := draft.EditFilter(n-1, parts[1], parts[2]); err != nil {
			return err
		}
	}
	// highest row first so earlier removals do not shift later ones
	drops := append([]int(nil), c.DropFilter...)
	sort.Sort(sort.Reverse(sort.IntSlice(drops)))
	for _, n := range drops {
		if err := draft.RemoveFilter(n - 1); err != nil {
			return err
		}
	}
	for _, spec := range c.Filter {
		if err := addFilterRow(draft, spec); err != nil {
			return err
		}
	}

	printDraft(ctx, q, draft, c.Search)
	return nil
}

func addFilterRow(draft *catalog.Draft, spec string) error {
	parts := strings.SplitN(spec, ":", 3)
	i := draft.AddFilter()
	if err := draft.SetField(i, parts[0]); err != nil {
		return err
	}
	var op, value string
	if len(parts) > 1 {
		op = parts[1]
	}
	if len(parts) > 2 {
		value = parts[2]
	}
	if op == "" && value == "" {
		return nil
	}
	if err := draft.EditFilter(i, op, value); err != nil {
		_ = draft.RemoveFilter(i)
		return err
	}
	return nil
}

func printDraft(ctx *Context, q models.QueryItem, draft *catalog.Draft, search string) {
	ctx.printf("Query builder: %s (%s)\n", q.Name, q.ID)
	if draft.Policy == models.FilterPolicyDateOnly {
		ctx.println("  Only date filters can be edited on this query.")
	}

	ctx.println()
	if search != "" {
		ctx.printf("Column attributes matching %q:\n", search)
	} else {
		ctx.println("Column attributes:")
	}
	groups := catalog.SearchAttributes(search)
	if len(groups) == 0 {
		ctx.println("  No attributes found")
	}
	for _, g := range groups {
		ctx.printf("  %s\n", g.Group)
		for _, item := range g.Items {
			mark := "+"
			if draft.HasColumn(item) {
				mark = "✓"
			}
			ctx.printf("    %s %s\n", mark, item)
		}
	}

	ctx.println()
	ctx.printf("Added column attributes (%d):\n", len(draft.Columns))
	if len(draft.Columns) == 0 {
		ctx.println("  Select columns to start building your query.")
	}
	for _, col := range draft.Columns {
		ctx.printf("  %s\n", col)
	}

	ctx.println()
	ctx.printf("Filters (%d):\n", len(draft.Filters))
	if len(draft.Filters) == 0 {
		ctx.println("  No filters added.")
	}
	for i, f := range draft.Filters {
		lock := ""
		if draft.Locked(i) {
			lock = "  🔒"
		}
		ctx.printf("  %d. %-20s %-10s %s%s\n", i+1, orPlaceholder(f.Name), orPlaceholder(f.Operator), orPlaceholder(f.Value), lock)
	}
	ctx.println()
	ctx.println("Draft only, nothing was saved.")
}
