package recurrence

import (
	"testing"
	"time"

	"github.com/julianstephens/querylib/internal/models"
)

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []time.Weekday
		wantErr bool
	}{
		{name: "empty", input: "", want: []time.Weekday{}},
		{name: "short names", input: "mon,wed", want: []time.Weekday{time.Monday, time.Wednesday}},
		{name: "mixed case and spaces", input: " Friday , SUN", want: []time.Weekday{time.Friday, time.Sunday}},
		{name: "numbers", input: "0,6", want: []time.Weekday{time.Sunday, time.Saturday}},
		{name: "duplicates dropped", input: "mon,monday,1", want: []time.Weekday{time.Monday}},
		{name: "invalid name", input: "funday", wantErr: true},
		{name: "out of range", input: "7", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWeekdays(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekdays(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseWeekdays(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseWeekdays(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("06:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tod.Hour != 6 || tod.Minute != 30 {
		t.Errorf("got %v, want 06:30", tod)
	}

	for _, bad := range []string{"", "25:00", "6pm", "12:60"} {
		if _, err := ParseTimeOfDay(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestParsePattern(t *testing.T) {
	if p, err := ParsePattern("Weekly"); err != nil || p != models.PatternWeekly {
		t.Errorf("ParsePattern(Weekly) = %v, %v", p, err)
	}
	if _, err := ParsePattern("monthly"); err == nil {
		t.Error("expected error for monthly")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		spec models.RecurrenceSpec
		want string
	}{
		{
			spec: models.RecurrenceSpec{Pattern: models.PatternDaily, Interval: 1, TimeOfDay: models.TimeOfDay{Hour: 6}},
			want: "Daily at 06:00",
		},
		{
			spec: models.RecurrenceSpec{Pattern: models.PatternDaily, Interval: 3, TimeOfDay: models.TimeOfDay{Hour: 18, Minute: 15}},
			want: "Every 3 days at 18:15",
		},
		{
			spec: models.RecurrenceSpec{Pattern: models.PatternWeekly, Interval: 1, Weekdays: []time.Weekday{time.Sunday, time.Monday}, TimeOfDay: models.TimeOfDay{Hour: 6}},
			want: "Weekly on Mon, Sun at 06:00",
		},
		{
			spec: models.RecurrenceSpec{Pattern: models.PatternWeekly, Interval: 2, TimeOfDay: models.TimeOfDay{Hour: 6}},
			want: "Every 2 weeks on no days at 06:00",
		},
	}

	for _, tt := range tests {
		if got := Describe(tt.spec); got != tt.want {
			t.Errorf("Describe(%+v) = %q, want %q", tt.spec, got, tt.want)
		}
	}
}

func TestParseSpec(t *testing.T) {
	spec, err := ParseSpec("Weekly", 2, "wed,mon", "07:30")
	if err != nil {
		t.Fatalf("ParseSpec failed: %v", err)
	}
	if spec.Pattern != models.PatternWeekly || spec.Interval != 2 || spec.TimeOfDay != (models.TimeOfDay{Hour: 7, Minute: 30}) {
		t.Errorf("unexpected spec %+v", spec)
	}
	if !spec.HasWeekday(time.Monday) || !spec.HasWeekday(time.Wednesday) || len(spec.Weekdays) != 2 {
		t.Errorf("weekdays = %v", spec.Weekdays)
	}

	daily, err := ParseSpec("daily", 1, "mon", "06:00")
	if err != nil {
		t.Fatalf("ParseSpec daily failed: %v", err)
	}
	if daily.Weekdays != nil {
		t.Errorf("daily spec should drop weekdays, got %v", daily.Weekdays)
	}

	for _, bad := range [][3]string{
		{"monthly", "", "06:00"},
		{"weekly", "funday", "06:00"},
		{"weekly", "mon", "6pm"},
	} {
		if _, err := ParseSpec(bad[0], 1, bad[1], bad[2]); err == nil {
			t.Errorf("ParseSpec(%q, %q, %q) should fail", bad[0], bad[1], bad[2])
		}
	}
}
