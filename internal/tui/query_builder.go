package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/querylib/internal/catalog"
	"github.com/julianstephens/querylib/internal/models"
)

// QueryBuilderForm backs the query builder form. Columns holds the full
// selection; RemoveRows are draft filter indexes to drop.
type QueryBuilderForm struct {
	Columns    []string
	RemoveRows []int
	Field      string
	Operator   string
	Value      string
}

func NewQueryBuilderForm(d *catalog.Draft) *QueryBuilderForm {
	return &QueryBuilderForm{Columns: append([]string{}, d.Columns...)}
}

// lockedInput rejects operator and value input for a non-date field on a
// date-only query.
func (b *QueryBuilderForm) lockedInput(policy models.FilterPolicy) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" || policy != models.FilterPolicyDateOnly {
			return nil
		}
		if !catalog.IsDateField(b.Field) {
			return catalog.ErrFilterLocked
		}
		return nil
	}
}

// Apply writes the form values into d. Columns are reconciled in form
// order, row removals run before the new filter row is added.
func (b *QueryBuilderForm) Apply(d *catalog.Draft) error {
	for _, c := range append([]string{}, d.Columns...) {
		if !contains(b.Columns, c) {
			d.RemoveColumn(c)
		}
	}
	for _, c := range b.Columns {
		d.AddColumn(c)
	}

	rows := append([]int{}, b.RemoveRows...)
	sort.Sort(sort.Reverse(sort.IntSlice(rows)))
	for _, i := range rows {
		if err := d.RemoveFilter(i); err != nil {
			return err
		}
	}

	if strings.TrimSpace(b.Field) == "" {
		return nil
	}
	i := d.AddFilter()
	if err := d.SetField(i, b.Field); err != nil {
		return err
	}
	if b.Operator == "" && b.Value == "" {
		return nil
	}
	if err := d.EditFilter(i, b.Operator, b.Value); err != nil {
		_ = d.RemoveFilter(i)
		return err
	}
	return nil
}

// columnOptions lists the attribute catalog followed by any saved columns
// it does not cover. Current columns start selected.
func columnOptions(d *catalog.Draft) []huh.Option[string] {
	var opts []huh.Option[string]
	seen := map[string]bool{}
	for _, g := range catalog.Attributes {
		for _, item := range g.Items {
			seen[item] = true
			opts = append(opts, huh.NewOption(g.Group+" · "+item, item).Selected(d.HasColumn(item)))
		}
	}
	for _, c := range d.Columns {
		if !seen[c] {
			opts = append(opts, huh.NewOption("Query · "+c, c).Selected(true))
		}
	}
	return opts
}

func filterLabel(f models.QueryFilter) string {
	var parts []string
	for _, p := range []string{f.Name, f.Operator, f.Value} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func newQueryBuilderForm(d *catalog.Draft, fm *QueryBuilderForm) *huh.Form {
	columns := huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Columns").
			Description("/ to search attributes").
			Options(columnOptions(d)...).
			Filterable(true).
			Height(12).
			Value(&fm.Columns),
	)

	var fields []huh.Field
	if len(d.Filters) > 0 {
		rows := make([]huh.Option[int], len(d.Filters))
		for i, f := range d.Filters {
			rows[i] = huh.NewOption(fmt.Sprintf("%d. %s", i+1, filterLabel(f)), i)
		}
		fields = append(fields, huh.NewMultiSelect[int]().
			Title("Remove filters").
			Options(rows...).
			Value(&fm.RemoveRows))
	}
	desc := ""
	if d.Policy == models.FilterPolicyDateOnly {
		desc = "Only date filters can be edited on this query"
	}
	fields = append(fields,
		huh.NewInput().
			Title("New filter field").
			Description(desc).
			Value(&fm.Field),
		huh.NewInput().
			Title("Operator").
			Value(&fm.Operator).
			Validate(fm.lockedInput(d.Policy)),
		huh.NewInput().
			Title("Value").
			Value(&fm.Value).
			Validate(fm.lockedInput(d.Policy)),
	)

	return huh.NewForm(columns, huh.NewGroup(fields...))
}

// renderDraft shows d as it would look with the form applied.
func renderDraft(d *catalog.Draft, fm *QueryBuilderForm) string {
	cfg := d.Config()
	preview := &catalog.Draft{QueryID: d.QueryID, Policy: d.Policy, Columns: cfg.Columns, Filters: cfg.Filters}

	var b strings.Builder
	if err := fm.Apply(preview); err != nil {
		msg := err.Error()
		if errors.Is(err, catalog.ErrFilterLocked) {
			msg = "🔒 " + msg
		}
		b.WriteString(dangerStyle.Render(msg))
		b.WriteString("\n\n")
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("Added column attributes (%d)", len(preview.Columns))))
	b.WriteString("\n")
	if len(preview.Columns) == 0 {
		b.WriteString(dimStyle.Render("none"))
		b.WriteString("\n")
	}
	for _, c := range preview.Columns {
		b.WriteString("• " + c + "\n")
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("Filters (%d)", len(preview.Filters))))
	b.WriteString("\n")
	for i, f := range preview.Filters {
		line := fmt.Sprintf("%d. %s", i+1, filterLabel(f))
		if preview.Locked(i) {
			line += " 🔒"
		}
		b.WriteString(line + "\n")
	}
	if preview.Policy == models.FilterPolicyDateOnly {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Only date filters can be edited on this query."))
	}
	return strings.TrimRight(b.String(), "\n")
}
