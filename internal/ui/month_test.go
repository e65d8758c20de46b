package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/editflowhq/editflow/internal/dateutil"
	"github.com/editflowhq/editflow/internal/layout"
	"github.com/editflowhq/editflow/internal/schedule"
)

func monthTask(t *testing.T, show, editor, start, end string) *schedule.Task {
	t.Helper()
	task, err := schedule.New(show, "EP1", editor, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return task
}

func TestRenderMonth(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	now := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	window := dateutil.MonthWindow(now)

	tasks := []*schedule.Task{
		monthTask(t, "DC Insiders", "James", "2024-02-05", "2024-02-08"),
		// Crosses the week boundary: Thu Feb 1 to Tue Feb 6.
		monthTask(t, "Correspondents", "Eason", "2024-02-01", "2024-02-06"),
	}

	assignment, warnings := layout.AssignLanes(tasks, window, layout.SortByEditor)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	grid := layout.Project(tasks, assignment, window, now)

	out := renderMonth(grid, layout.SortByEditor, 100)

	if !strings.Contains(out, "Mon") || !strings.Contains(out, "Sun") {
		t.Error("missing weekday header")
	}
	if !strings.Contains(out, "DC Insiders") {
		t.Error("missing bar label for DC Insiders")
	}
	// The week-straddling task re-anchors its label on both rows.
	if got := strings.Count(out, "Correspondents"); got != 2 {
		t.Errorf("got %d Correspondents labels, want 2 (one per week row)", got)
	}
}

func TestRenderMonth_ByShowLabelsEditor(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	now := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	window := dateutil.MonthWindow(now)
	tasks := []*schedule.Task{monthTask(t, "DC Insiders", "James", "2024-02-05", "2024-02-08")}

	assignment, _ := layout.AssignLanes(tasks, window, layout.SortByShow)
	grid := layout.Project(tasks, assignment, window, now)

	out := renderMonth(grid, layout.SortByShow, 100)
	if !strings.Contains(out, "James") {
		t.Error("show-grouped calendar should label bars with the editor")
	}
}

func TestBarTextEdges(t *testing.T) {
	task := &schedule.Task{Show: "A", Episode: "EP1", Editor: "James"}

	t.Run("clipped left gets the continuation marker", func(t *testing.T) {
		s := layout.Segment{Task: task, StartCol: 0, EndCol: 2, Shape: layout.ShapeOpenLeft, ClippedLeft: true}
		got := barText(s, layout.SortByEditor, 18)
		if !strings.HasPrefix(got, "◀") {
			t.Errorf("got %q, want leading ◀", got)
		}
	})

	t.Run("clipped right gets the continuation marker", func(t *testing.T) {
		s := layout.Segment{Task: task, StartCol: 4, EndCol: 6, Shape: layout.ShapeOpenRight, ClippedRight: true}
		got := barText(s, layout.SortByEditor, 18)
		if !strings.HasSuffix(got, "▶") {
			t.Errorf("got %q, want trailing ▶", got)
		}
	})

	t.Run("isolated bar has closed edges", func(t *testing.T) {
		s := layout.Segment{Task: task, StartCol: 1, EndCol: 3, Shape: layout.ShapeIsolated}
		got := barText(s, layout.SortByEditor, 18)
		if !strings.HasPrefix(got, "▐") || !strings.HasSuffix(got, "▌") {
			t.Errorf("got %q, want ▐...▌", got)
		}
	})
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q, want %q", got, "short")
	}
	if got := truncate("a very long label indeed", 10); len([]rune(got)) != 10 {
		t.Errorf("got %q with %d runes, want 10", got, len([]rune(got)))
	}
}
