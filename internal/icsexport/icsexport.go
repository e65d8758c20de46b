// Package icsexport renders the task collection as an iCalendar feed so
// schedules can be pulled into Google Calendar or Outlook. Each task
// becomes an all-day event spanning its inclusive date range.
package icsexport

import (
	"errors"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/editflowhq/editflow/internal/schedule"
)

// ErrNoTasks means there was nothing to export.
var ErrNoTasks = errors.New("no tasks to export")

const prodID = "-//editflow//schedule//EN"

// Export serializes tasks into an ICS payload. Tasks without a start
// date are skipped; DTEND is exclusive per RFC 5545, so the inclusive
// end date is pushed forward one day.
func Export(tasks []*schedule.Task, now time.Time) (string, error) {
	if len(tasks) == 0 {
		return "", ErrNoTasks
	}

	cal := ical.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetMethod(ical.MethodPublish)

	exported := 0
	for _, t := range tasks {
		if t.StartDate.IsZero() {
			continue
		}
		end := t.EndDate
		if end.IsZero() || end.Before(t.StartDate) {
			end = t.StartDate
		}

		ev := cal.AddEvent(fmt.Sprintf("%s@editflow", t.ID))
		ev.SetDtStampTime(now)
		ev.SetAllDayStartAt(t.StartDate)
		ev.SetAllDayEndAt(end.AddDate(0, 0, 1))
		ev.SetSummary(summary(t))
		ev.SetDescription(description(t))
		exported++
	}
	if exported == 0 {
		return "", ErrNoTasks
	}

	return cal.Serialize(), nil
}

func summary(t *schedule.Task) string {
	if t.Episode == "" {
		return t.Show
	}
	return fmt.Sprintf("%s %s", t.Show, t.Episode)
}

func description(t *schedule.Task) string {
	desc := fmt.Sprintf("Editor: %s", t.Editor)
	if t.Notes != "" {
		desc += "\n" + t.Notes
	}
	return desc
}
