package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/julianstephens/querylib/internal/models"
)

// ErrFilterLocked is returned when editing the operator or value of a
// non-date filter on a date-only query.
var ErrFilterLocked = errors.New("only date filters can be edited on this query")

// AttributeGroup is one section of the column attribute catalog.
type AttributeGroup struct {
	Group string
	Items []string
}

// Attributes is the column attribute catalog offered by the query builder.
var Attributes = []AttributeGroup{
	{Group: "Commonly used", Items: []string{"Claim ID", "Patient ID", "Provider Group"}},
	{Group: "Provider", Items: []string{"Provider NPI", "Provider Name"}},
	{Group: "Transaction", Items: []string{"Total Charges", "Total Payments", "Contractual Adjustments"}},
	{Group: "Claim", Items: []string{"Payer Insurance Reporting Category", "Current Claim Error"}},
	{Group: "Payer", Items: []string{"Payer Name"}},
}

// SearchAttributes keeps the attributes containing term (case-insensitive).
// Groups left empty are dropped; an empty term returns every group.
func SearchAttributes(term string) []AttributeGroup {
	term = strings.ToLower(strings.TrimSpace(term))

	out := make([]AttributeGroup, 0, len(Attributes))
	for _, g := range Attributes {
		var items []string
		for _, item := range g.Items {
			if term == "" || strings.Contains(strings.ToLower(item), term) {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			out = append(out, AttributeGroup{Group: g.Group, Items: items})
		}
	}
	return out
}

var dateField = regexp.MustCompile(`(?i)date|month|day|week|year`)

// IsDateField reports whether a filter field is date-like ("service_date", "Month of Service").
func IsDateField(name string) bool {
	return dateField.MatchString(name)
}

// Draft is an in-progress edit of a query's columns and filters. It starts
// from the query's saved config and is never written back to the catalog.
type Draft struct {
	QueryID string
	Policy  models.FilterPolicy
	Columns []string
	Filters []models.QueryFilter
}

// NewDraft copies q's config into a draft.
func NewDraft(q models.QueryItem) *Draft {
	d := &Draft{QueryID: q.ID, Policy: q.Policy(), Columns: []string{}, Filters: []models.QueryFilter{}}
	if q.Config != nil {
		d.Columns = append(d.Columns, q.Config.Columns...)
		d.Filters = append(d.Filters, q.Config.Filters...)
	}
	return d
}

func (d *Draft) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends name unless it is blank or already present.
func (d *Draft) AddColumn(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || d.HasColumn(name) {
		return false
	}
	d.Columns = append(d.Columns, name)
	return true
}

// RemoveColumn drops name and reports whether it was present.
func (d *Draft) RemoveColumn(name string) bool {
	for i, c := range d.Columns {
		if c == name {
			d.Columns = append(d.Columns[:i], d.Columns[i+1:]...)
			return true
		}
	}
	return false
}

// AddFilter appends an empty filter row and returns its index.
func (d *Draft) AddFilter() int {
	d.Filters = append(d.Filters, models.QueryFilter{})
	return len(d.Filters) - 1
}

func (d *Draft) row(i int) (*models.QueryFilter, error) {
	if i < 0 || i >= len(d.Filters) {
		return nil, fmt.Errorf("filter row %d: %w", i+1, ErrNotFound)
	}
	return &d.Filters[i], nil
}

// Locked reports whether row i's operator and value are read-only: on a
// date-only query only rows with a date-like field can be edited.
func (d *Draft) Locked(i int) bool {
	if d.Policy != models.FilterPolicyDateOnly || i < 0 || i >= len(d.Filters) {
		return false
	}
	return !IsDateField(d.Filters[i].Name)
}

// SetField changes the field of row i. The field itself is never locked.
func (d *Draft) SetField(i int, name string) error {
	f, err := d.row(i)
	if err != nil {
		return err
	}
	f.Name = strings.TrimSpace(name)
	return nil
}

func (d *Draft) SetOperator(i int, op string) error {
	f, err := d.row(i)
	if err != nil {
		return err
	}
	if d.Locked(i) {
		return fmt.Errorf("filter %q: %w", f.Name, ErrFilterLocked)
	}
	f.Operator = strings.TrimSpace(op)
	return nil
}

func (d *Draft) SetValue(i int, value string) error {
	f, err := d.row(i)
	if err != nil {
		return err
	}
	if d.Locked(i) {
		return fmt.Errorf("filter %q: %w", f.Name, ErrFilterLocked)
	}
	f.Value = value
	return nil
}

// EditFilter sets the operator and value of row i in one step. Nothing
// changes when the row is locked.
func (d *Draft) EditFilter(i int, op, value string) error {
	if err := d.SetOperator(i, op); err != nil {
		return err
	}
	return d.SetValue(i, value)
}

// RemoveFilter deletes row i. Locked rows can be removed.
func (d *Draft) RemoveFilter(i int) error {
	if _, err := d.row(i); err != nil {
		return err
	}
	d.Filters = append(d.Filters[:i], d.Filters[i+1:]...)
	return nil
}

// Config returns a copy of the draft as a query config.
func (d *Draft) Config() models.QueryConfig {
	return models.QueryConfig{
		Columns: append([]string{}, d.Columns...),
		Filters: append([]models.QueryFilter{}, d.Filters...),
	}
}
