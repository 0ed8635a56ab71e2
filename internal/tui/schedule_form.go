package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/querylib/internal/models"
	"github.com/julianstephens/querylib/internal/recurrence"
)

// ScheduleForm backs the recurrence form.
type ScheduleForm struct {
	Pattern  models.RecurrencePattern
	Interval string
	Weekdays []time.Weekday
	Time     string
}

func NewScheduleForm() *ScheduleForm {
	return &ScheduleForm{
		Pattern:  models.PatternWeekly,
		Interval: "1",
		Weekdays: []time.Weekday{time.Monday},
		Time:     "09:00",
	}
}

// Spec converts the form values. An empty interval means 1.
func (b *ScheduleForm) Spec() (models.RecurrenceSpec, error) {
	interval := 1
	if s := strings.TrimSpace(b.Interval); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return models.RecurrenceSpec{}, fmt.Errorf("interval must be a number")
		}
		interval = n
	}
	tod, err := recurrence.ParseTimeOfDay(b.Time)
	if err != nil {
		return models.RecurrenceSpec{}, err
	}
	spec := models.RecurrenceSpec{Pattern: b.Pattern, Interval: interval, TimeOfDay: tod}
	if b.Pattern == models.PatternWeekly {
		spec.Weekdays = append([]time.Weekday(nil), b.Weekdays...)
	}
	return spec, nil
}

var weekdayOptions = []huh.Option[time.Weekday]{
	huh.NewOption("Monday", time.Monday),
	huh.NewOption("Tuesday", time.Tuesday),
	huh.NewOption("Wednesday", time.Wednesday),
	huh.NewOption("Thursday", time.Thursday),
	huh.NewOption("Friday", time.Friday),
	huh.NewOption("Saturday", time.Saturday),
	huh.NewOption("Sunday", time.Sunday),
}

func newScheduleForm(fm *ScheduleForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.RecurrencePattern]().
				Title("Repeats").
				Options(
					huh.NewOption("Daily", models.PatternDaily),
					huh.NewOption("Weekly", models.PatternWeekly),
				).
				Value(&fm.Pattern),
			huh.NewInput().
				Title("Every").
				Description("Number of days or weeks between runs").
				Value(&fm.Interval).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("interval must be a number")
					}
					return nil
				}),
			huh.NewMultiSelect[time.Weekday]().
				Title("On").
				Description("Weekly only").
				Options(weekdayOptions...).
				Value(&fm.Weekdays),
			huh.NewInput().
				Title("At (HH:MM)").
				Value(&fm.Time).
				Validate(func(s string) error {
					_, err := recurrence.ParseTimeOfDay(s)
					return err
				}),
		),
	)
}

// renderPreview shows the next runs for the current form values.
func renderPreview(fm *ScheduleForm, now time.Time) string {
	spec, err := fm.Spec()
	if err != nil {
		return dangerStyle.Render(err.Error())
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Next runs"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(recurrence.Describe(spec)))
	b.WriteString("\n\n")

	preview := recurrence.NewPreview(spec, now)
	if preview.NoDaysSelected {
		b.WriteString(warningStyle.Render("No days selected"))
		return b.String()
	}
	for _, run := range preview.Runs {
		b.WriteString(run.Format("Mon Jan 2 2006 15:04"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
