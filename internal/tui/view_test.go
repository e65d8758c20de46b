package tui

import (
	"strings"
	"testing"

	"github.com/editflowhq/editflow/internal/schedule"
)

func TestViewCalendarShowsBars(t *testing.T) {
	m, _ := testModel(t)
	m.width = 100
	m.height = 40
	m.connected = true
	m.tasks = []*schedule.Task{
		testTask(t, "DC Insiders", "EP12", "James", "2024-02-05", "2024-02-08"),
	}
	m.gridDirty = true

	out := m.View()
	if !strings.Contains(out, "February 2024") {
		t.Error("calendar should show the focused month")
	}
	if !strings.Contains(out, "DC Insiders EP12") {
		t.Error("calendar should label the task bar with show and episode")
	}
	if !strings.Contains(out, "Mon") || !strings.Contains(out, "Sun") {
		t.Error("calendar should render the weekday header")
	}
}

func TestViewTimelineListsTasks(t *testing.T) {
	m, _ := testModel(t)
	m.view = ViewTimeline
	m.connected = true
	m.tasks = []*schedule.Task{
		testTask(t, "Correspondents", "EP3", "Eason", "2024-02-10", "2024-02-12"),
	}

	out := m.View()
	if !strings.Contains(out, "2024-02-10") {
		t.Error("timeline should group by start date")
	}
	if !strings.Contains(out, "Correspondents EP3") {
		t.Error("timeline should list the task")
	}
	if !strings.Contains(out, "(3d)") {
		t.Error("timeline should show the span length")
	}
}

func TestViewTimelineExcludesOtherMonths(t *testing.T) {
	m, _ := testModel(t)
	m.view = ViewTimeline
	m.tasks = []*schedule.Task{
		testTask(t, "Finding Formosa", "EP1", "Dolphine", "2024-06-10", "2024-06-12"),
	}

	out := m.View()
	if strings.Contains(out, "Finding Formosa") {
		t.Error("timeline should only list the focused month")
	}
}

func TestViewStats(t *testing.T) {
	m, _ := testModel(t)
	m.view = ViewStats
	m.tasks = []*schedule.Task{
		testTask(t, "DC Insiders", "EP12", "James", "2024-02-05", "2024-02-08"),
		testTask(t, "DC Insiders", "EP13", "James", "2024-02-12", "2024-02-14"),
		testTask(t, "Correspondents", "EP3", "Eason", "2024-02-10", "2024-02-12"),
	}

	out := m.View()
	if !strings.Contains(out, "3 tasks") {
		t.Error("stats should show the total")
	}
	if !strings.Contains(out, "DC Insiders") || !strings.Contains(out, "James") {
		t.Error("stats should break down by show and editor")
	}
	if !strings.Contains(out, "█") {
		t.Error("stats should draw bars")
	}
}

func TestViewOfflineIndicator(t *testing.T) {
	m, _ := testModel(t)
	m.connected = false

	out := m.View()
	if !strings.Contains(out, "offline") {
		t.Error("header should show the offline indicator")
	}

	m.connected = true
	out = m.View()
	if !strings.Contains(out, "live") {
		t.Error("header should show the live indicator when connected")
	}
}

func TestBarTextClipMarkers(t *testing.T) {
	m, _ := testModel(t)
	m.width = 100
	m.connected = true
	// Started in January, ends mid-February: clipped on the left of the
	// February window.
	m.tasks = []*schedule.Task{
		testTask(t, "Zoom In, Zoom Out", "EP9", "Dolphine", "2024-01-20", "2024-02-02"),
	}
	m.gridDirty = true

	out := m.View()
	if !strings.Contains(out, "◀") {
		t.Error("bar clipped by the window should carry the left marker")
	}
}

func TestClipMarkerNotRepeatedOnContinuationRows(t *testing.T) {
	m, _ := testModel(t)
	m.width = 100
	m.connected = true
	// Started in January, ends Wed Feb 7: the bar spans two week rows of
	// the February window, but only the first row continues from outside
	// the window.
	m.tasks = []*schedule.Task{
		testTask(t, "Zoom In, Zoom Out", "EP9", "Dolphine", "2024-01-20", "2024-02-07"),
	}
	m.gridDirty = true

	out := m.View()
	if got := strings.Count(out, "◀"); got != 1 {
		t.Errorf("left marker appears %d times, want 1 (first row only)", got)
	}
}

func TestWeekStraddlingTaskLabelsEachRow(t *testing.T) {
	m, _ := testModel(t)
	m.width = 100
	// Feb 1 2024 is a Thursday; Feb 1-6 crosses the first week boundary.
	m.tasks = []*schedule.Task{
		testTask(t, "Correspondents", "EP5", "Eason", "2024-02-01", "2024-02-06"),
	}
	m.gridDirty = true

	out := m.View()
	if got := strings.Count(out, "Correspondents EP5"); got != 2 {
		t.Errorf("label appears %d times, want 2 (one per week row)", got)
	}
}

func TestFallbackColorForUnknownEditor(t *testing.T) {
	m, _ := testModel(t)
	if got := m.local.EditorColor("Nobody"); got != schedule.FallbackColor {
		t.Errorf("unknown editor color = %q, want fallback", got)
	}
}

func TestStatusGlyph(t *testing.T) {
	tests := []struct {
		status schedule.Status
		want   string
	}{
		{schedule.StatusPending, "○"},
		{schedule.StatusInProgress, "◐"},
		{schedule.StatusInReview, "◑"},
		{schedule.StatusDelivered, "●"},
	}
	for _, tc := range tests {
		if got := statusGlyph(tc.status); got != tc.want {
			t.Errorf("statusGlyph(%s) = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("新聞面對面", 3); got != "新聞…" {
		t.Errorf("got %q, want %q", got, "新聞…")
	}
	if got := truncateRunes("short", 10); got != "short" {
		t.Errorf("got %q, want %q", got, "short")
	}
}

func TestShiftMonthRebuildsWindow(t *testing.T) {
	m, _ := testModel(t)
	m.width = 100
	m = m.shiftMonth(1)

	out := m.View()
	if !strings.Contains(out, "March 2024") {
		t.Error("shifting forward should focus March")
	}
}
