package icsexport

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/editflowhq/editflow/internal/schedule"
)

var exportNow = time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)

func TestExport(t *testing.T) {
	task, err := schedule.New("DC Insiders", "EP12", "James", "2024-02-05", "2024-02-08")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	task.Notes = "needs captions"

	out, err := Export([]*schedule.Task{task}, exportNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"SUMMARY:DC Insiders EP12",
		"DTSTART;VALUE=DATE:20240205",
		// DTEND is exclusive: inclusive end 02-08 serializes as 02-09.
		"DTEND;VALUE=DATE:20240209",
		"END:VCALENDAR",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if !strings.Contains(out, "Editor: James") {
		t.Error("description missing the editor line")
	}
}

func TestExport_NoTasks(t *testing.T) {
	if _, err := Export(nil, exportNow); !errors.Is(err, ErrNoTasks) {
		t.Errorf("got %v, want ErrNoTasks", err)
	}

	// A collection of only unschedulable tasks is also empty.
	zero := &schedule.Task{ID: "x", Show: "Correspondents", Editor: "Eason"}
	if _, err := Export([]*schedule.Task{zero}, exportNow); !errors.Is(err, ErrNoTasks) {
		t.Errorf("got %v, want ErrNoTasks", err)
	}
}

func TestExport_SingleDaySpansOneDay(t *testing.T) {
	task, err := schedule.New("Correspondents", "EP3", "Eason", "2024-03-01", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := Export([]*schedule.Task{task}, exportNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "DTSTART;VALUE=DATE:20240301") {
		t.Error("missing DTSTART for single-day task")
	}
	if !strings.Contains(out, "DTEND;VALUE=DATE:20240302") {
		t.Error("single-day task should end the following day (exclusive DTEND)")
	}
}
