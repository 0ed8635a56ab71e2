package catalog

import (
	"errors"
	"reflect"
	"testing"

	"github.com/julianstephens/querylib/internal/models"
)

func TestSearchAttributes(t *testing.T) {
	tests := []struct {
		term       string
		wantGroups []string
		wantItems  int
	}{
		{"", []string{"Commonly used", "Provider", "Transaction", "Claim", "Payer"}, 11},
		{"payer", []string{"Claim", "Payer"}, 2},
		{"  TOTAL ", []string{"Transaction"}, 2},
		{"provider", []string{"Commonly used", "Provider"}, 3},
		{"nothing like this", []string{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := SearchAttributes(tt.term)
			groups := []string{}
			items := 0
			for _, g := range got {
				groups = append(groups, g.Group)
				items += len(g.Items)
			}
			if !reflect.DeepEqual(groups, tt.wantGroups) {
				t.Errorf("groups = %v, want %v", groups, tt.wantGroups)
			}
			if items != tt.wantItems {
				t.Errorf("items = %d, want %d", items, tt.wantItems)
			}
		})
	}

	// the catalog itself is left untouched
	if len(Attributes[0].Items) != 3 {
		t.Errorf("SearchAttributes modified the attribute catalog")
	}
}

func TestIsDateField(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"service_date", true},
		{"Month of Service", true},
		{"day", true},
		{"WEEK", true},
		{"fiscal_year", true},
		{"payer", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsDateField(tt.name); got != tt.want {
			t.Errorf("IsDateField(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewDraft(t *testing.T) {
	c := loadDefault(t)
	q, err := c.Query("q11")
	if err != nil {
		t.Fatal(err)
	}

	d := NewDraft(q)
	if d.Policy != models.FilterPolicyDateOnly {
		t.Errorf("policy = %s, want date-only", d.Policy)
	}
	want := []string{"payer", "total_payments", "total_adjustments", "outstanding_ar", "day"}
	if !reflect.DeepEqual(d.Columns, want) {
		t.Errorf("columns = %v, want %v", d.Columns, want)
	}

	// edits stay in the draft
	d.AddColumn("Payer Name")
	d.Filters[0].Value = "changed"
	q2, _ := c.Query("q11")
	if len(q2.Config.Columns) != 5 || q2.Config.Filters[0].Value != "Last 30 days" {
		t.Errorf("draft edits leaked into the catalog: %+v", q2.Config)
	}

	empty := NewDraft(models.QueryItem{ID: "x"})
	if empty.Policy != models.FilterPolicyFull || len(empty.Columns) != 0 || len(empty.Filters) != 0 {
		t.Errorf("draft without config = %+v", empty)
	}
}

func TestDraftColumns(t *testing.T) {
	d := NewDraft(models.QueryItem{Config: &models.QueryConfig{Columns: []string{"Claim ID"}}})

	steps := []struct {
		op   string
		name string
		want bool
		cols []string
	}{
		{"add", "Total Charges", true, []string{"Claim ID", "Total Charges"}},
		{"add", "Claim ID", false, []string{"Claim ID", "Total Charges"}},
		{"add", "  ", false, []string{"Claim ID", "Total Charges"}},
		{"add", " Payer Name ", true, []string{"Claim ID", "Total Charges", "Payer Name"}},
		{"remove", "Claim ID", true, []string{"Total Charges", "Payer Name"}},
		{"remove", "Claim ID", false, []string{"Total Charges", "Payer Name"}},
	}
	for i, s := range steps {
		var got bool
		if s.op == "add" {
			got = d.AddColumn(s.name)
		} else {
			got = d.RemoveColumn(s.name)
		}
		if got != s.want {
			t.Errorf("step %d: %s(%q) = %v, want %v", i, s.op, s.name, got, s.want)
		}
		if !reflect.DeepEqual(d.Columns, s.cols) {
			t.Errorf("step %d: columns = %v, want %v", i, d.Columns, s.cols)
		}
	}
}

func TestDraftFilters_DateOnlyGate(t *testing.T) {
	tests := []struct {
		name    string
		policy  models.FilterPolicy
		field   string
		wantErr error
	}{
		{"full policy non-date field", models.FilterPolicyFull, "payer", nil},
		{"full policy date field", models.FilterPolicyFull, "service_date", nil},
		{"date-only date field", models.FilterPolicyDateOnly, "service_date", nil},
		{"date-only month field", models.FilterPolicyDateOnly, "Month of Service", nil},
		{"date-only non-date field", models.FilterPolicyDateOnly, "payer", ErrFilterLocked},
		{"date-only blank field", models.FilterPolicyDateOnly, "", ErrFilterLocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Draft{Policy: tt.policy}
			i := d.AddFilter()
			if err := d.SetField(i, tt.field); err != nil {
				t.Fatalf("SetField failed: %v", err)
			}

			err := d.EditFilter(i, "=", "Last 30 days")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("EditFilter error = %v, want %v", err, tt.wantErr)
			}
			if d.Locked(i) != (tt.wantErr != nil) {
				t.Errorf("Locked = %v", d.Locked(i))
			}

			got := d.Filters[i]
			if tt.wantErr != nil {
				if got.Operator != "" || got.Value != "" {
					t.Errorf("locked row changed: %+v", got)
				}
				// locked rows can still be removed
				if err := d.RemoveFilter(i); err != nil || len(d.Filters) != 0 {
					t.Errorf("RemoveFilter = %v, filters %v", err, d.Filters)
				}
				return
			}
			if got.Operator != "=" || got.Value != "Last 30 days" {
				t.Errorf("row = %+v", got)
			}
		})
	}
}

func TestDraftFilters_Rows(t *testing.T) {
	c := loadDefault(t)
	q, _ := c.Query("q11")
	d := NewDraft(q)

	// stored non-date filter on a date-only query is read-only
	if err := d.SetValue(1, "Aetna"); !errors.Is(err, ErrFilterLocked) {
		t.Errorf("SetValue on payer = %v, want ErrFilterLocked", err)
	}
	if err := d.SetValue(0, "Last 90 days"); err != nil {
		t.Errorf("SetValue on service_date failed: %v", err)
	}

	// renaming the field re-evaluates the gate
	if err := d.SetField(1, "payment_day"); err != nil {
		t.Fatal(err)
	}
	if d.Locked(1) {
		t.Error("row with a date-like field should be editable")
	}

	for _, i := range []int{-1, 2} {
		if err := d.SetField(i, "x"); !errors.Is(err, ErrNotFound) {
			t.Errorf("SetField(%d) = %v, want ErrNotFound", i, err)
		}
		if err := d.RemoveFilter(i); !errors.Is(err, ErrNotFound) {
			t.Errorf("RemoveFilter(%d) = %v, want ErrNotFound", i, err)
		}
	}

	if err := d.RemoveFilter(0); err != nil {
		t.Fatal(err)
	}
	cfg := d.Config()
	if len(cfg.Filters) != 1 || cfg.Filters[0].Name != "payment_day" {
		t.Errorf("config filters = %+v", cfg.Filters)
	}
	cfg.Columns[0] = "mutated"
	if d.Columns[0] == "mutated" {
		t.Error("Config should return a copy")
	}
}
