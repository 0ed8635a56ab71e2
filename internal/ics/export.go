// Package ics writes previewed or upcoming runs as an iCalendar feed.
package ics

import (
	"errors"
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/julianstephens/querylib/internal/constants"
)

// DefaultDuration is the event length used when Options.Duration is zero.
const DefaultDuration = 15 * time.Minute

var uidSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://querylib.local/ics"))

// Options describe the events written by Export.
type Options struct {
	// Source identifies what the runs belong to, usually a schedule id.
	// Together with the run time it determines the event UID.
	Source      string
	Description string
	Duration    time.Duration
	// Stamp is written as DTSTAMP. Defaults to the current time.
	Stamp time.Time
}

// Export writes a VCALENDAR named name with one VEVENT per run.
func Export(w io.Writer, name string, runs []time.Time, opts Options) error {
	if len(runs) == 0 {
		return errors.New("no runs to export")
	}

	duration := opts.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(fmt.Sprintf("-//%s//%s//EN", constants.AppName, constants.Version))
	cal.SetName(name)

	for _, run := range runs {
		event := cal.AddEvent(EventUID(opts.Source, run))
		event.SetDtStampTime(stamp.UTC())
		event.SetStartAt(run.UTC())
		event.SetEndAt(run.Add(duration).UTC())
		event.SetSummary(name)
		if opts.Description != "" {
			event.SetDescription(opts.Description)
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}

// EventUID is stable for a given source and run instant.
func EventUID(source string, run time.Time) string {
	key := source + "|" + run.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(uidSpace, []byte(key)).String() + "@" + constants.AppName
}
