package tui

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/julianstephens/querylib/internal/catalog"
	"github.com/julianstephens/querylib/internal/constants"
	"github.com/julianstephens/querylib/internal/models"
	"github.com/julianstephens/querylib/internal/tui/components/querylist"
)

func q11Draft() *catalog.Draft {
	return &catalog.Draft{
		QueryID: "q11",
		Policy:  models.FilterPolicyDateOnly,
		Columns: []string{"payer", "day"},
		Filters: []models.QueryFilter{
			{Name: "service_date", Value: "Last 30 days"},
			{Name: "payer", Value: "All"},
		},
	}
}

func TestQueryBuilder(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = send(t, m, querylist.BuildQueryMsg{ID: "q11"})
	if m.state != constants.StateQueryBuilder || m.form == nil {
		t.Fatalf("state = %v, want query builder", m.state)
	}
	for _, want := range []string{
		"Added column attributes (5)",
		"1. service_date Last 30 days\n",
		"2. payer All 🔒",
		"Only date filters can be edited",
	} {
		if !strings.Contains(m.formView, want) {
			t.Errorf("builder view missing %q:\n%s", want, m.formView)
		}
	}
	if !strings.Contains(m.View(), "Query builder: Activity by Payer") {
		t.Error("view should name the query")
	}

	m, _ = send(t, m, keyPress("esc"))
	if m.state != constants.StateQueries || m.form != nil {
		t.Errorf("state after esc = %v", m.state)
	}

	m, _ = send(t, m, querylist.BuildQueryMsg{ID: "missing"})
	if m.state != constants.StateQueries || !strings.Contains(m.status, "not found") {
		t.Errorf("unknown query: state %v, status %q", m.state, m.status)
	}
}

func TestQueryBuilderFromDetail(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, querylist.OpenQueryMsg{ID: "q2"})
	m, _ = send(t, m, keyPress("b"))
	if m.state != constants.StateQueryBuilder || m.formFor != "q2" {
		t.Fatalf("state = %v for %q, want query builder for q2", m.state, m.formFor)
	}
	if strings.Contains(m.formView, "🔒") {
		t.Errorf("full policy query should have no locked rows:\n%s", m.formView)
	}

	m, _ = send(t, m, keyPress("esc"))
	if m.state != constants.StateDetail {
		t.Errorf("esc should return to detail, got %v", m.state)
	}
}

func TestQueryBuilderForm_Apply(t *testing.T) {
	tests := []struct {
		name        string
		form        QueryBuilderForm
		wantColumns []string
		wantFilters []string
		wantErr     error
	}{
		{
			name:        "unchanged",
			form:        QueryBuilderForm{Columns: []string{"payer", "day"}},
			wantColumns: []string{"payer", "day"},
			wantFilters: []string{"service_date Last 30 days", "payer All"},
		},
		{
			name:        "add and remove columns",
			form:        QueryBuilderForm{Columns: []string{"day", "Claim ID", "day"}},
			wantColumns: []string{"day", "Claim ID"},
			wantFilters: []string{"service_date Last 30 days", "payer All"},
		},
		{
			name:        "remove locked rows",
			form:        QueryBuilderForm{Columns: []string{"payer"}, RemoveRows: []int{0, 1}},
			wantColumns: []string{"payer"},
			wantFilters: []string{},
		},
		{
			name:        "add date filter",
			form:        QueryBuilderForm{Columns: []string{"payer"}, Field: "visit_date", Operator: ">=", Value: "2025-01-01"},
			wantColumns: []string{"payer"},
			wantFilters: []string{"service_date Last 30 days", "payer All", "visit_date >= 2025-01-01"},
		},
		{
			name:        "field only",
			form:        QueryBuilderForm{Field: "clinic"},
			wantColumns: []string{},
			wantFilters: []string{"service_date Last 30 days", "payer All", "clinic"},
		},
		{
			name:        "locked new filter",
			form:        QueryBuilderForm{Columns: []string{"payer", "day"}, Field: "clinic", Value: "North"},
			wantColumns: []string{"payer", "day"},
			wantFilters: []string{"service_date Last 30 days", "payer All"},
			wantErr:     catalog.ErrFilterLocked,
		},
		{
			name:    "unknown row",
			form:    QueryBuilderForm{Columns: []string{"payer", "day"}, RemoveRows: []int{7}},
			wantErr: catalog.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := q11Draft()
			err := tt.form.Apply(d)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Apply error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantColumns == nil {
				return
			}
			if !reflect.DeepEqual(d.Columns, tt.wantColumns) {
				t.Errorf("columns = %v, want %v", d.Columns, tt.wantColumns)
			}
			got := []string{}
			for _, f := range d.Filters {
				got = append(got, filterLabel(f))
			}
			if !reflect.DeepEqual(got, tt.wantFilters) {
				t.Errorf("filters = %v, want %v", got, tt.wantFilters)
			}
		})
	}
}

func TestQueryBuilderForm_LockedInput(t *testing.T) {
	tests := []struct {
		policy  models.FilterPolicy
		field   string
		input   string
		wantErr bool
	}{
		{models.FilterPolicyDateOnly, "service_date", "Last 7 days", false},
		{models.FilterPolicyDateOnly, "payer", "Aetna", true},
		{models.FilterPolicyDateOnly, "payer", "", false},
		{models.FilterPolicyDateOnly, "", "=", true},
		{models.FilterPolicyFull, "payer", "Aetna", false},
	}
	for _, tt := range tests {
		fm := &QueryBuilderForm{Field: tt.field}
		err := fm.lockedInput(tt.policy)(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s %q=%q: err = %v, wantErr %v", tt.policy, tt.field, tt.input, err, tt.wantErr)
		}
	}
}

func TestRenderDraft(t *testing.T) {
	d := q11Draft()

	got := renderDraft(d, &QueryBuilderForm{Columns: []string{"payer"}, Field: "payer", Value: "Aetna"})
	for _, want := range []string{"🔒 filter \"payer\"", "Added column attributes (1)", "Filters (2)"} {
		if !strings.Contains(got, want) {
			t.Errorf("render missing %q:\n%s", want, got)
		}
	}
	if len(d.Columns) != 2 {
		t.Error("rendering should not change the draft")
	}
}

func TestApplyDraft(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, querylist.BuildQueryMsg{ID: "q11"})

	m.builder.Columns = append(m.builder.Columns, "Payer Name")
	m.builder.RemoveRows = []int{1}
	m.applyDraft()
	if want := "Activity by Payer: 6 columns, 1 filters (draft, not saved)"; m.status != want {
		t.Errorf("status = %q, want %q", m.status, want)
	}

	q, _ := m.deps.Catalog.Query("q11")
	if len(q.Config.Columns) != 5 || len(q.Config.Filters) != 2 {
		t.Errorf("catalog query changed: %+v", q.Config)
	}
}
