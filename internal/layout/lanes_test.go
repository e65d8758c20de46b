package layout

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/editflowhq/editflow/internal/dateutil"
	"github.com/editflowhq/editflow/internal/schedule"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func mkTask(id, editor, show, start, end string) *schedule.Task {
	return &schedule.Task{
		ID:        id,
		Show:      show,
		Episode:   "EP1",
		Editor:    editor,
		StartDate: day(start),
		EndDate:   day(end),
	}
}

func febWindow() dateutil.Window {
	// February 2024: Thu Feb 1 .. Thu Feb 29, aligned Mon Jan 29 .. Sun Mar 3.
	return dateutil.MonthWindow(day("2024-02-15"))
}

func TestAssignLanes(t *testing.T) {
	t.Run("zero tasks yields empty mapping", func(t *testing.T) {
		got, warnings := AssignLanes(nil, febWindow(), SortByEditor)
		if len(got) != 0 {
			t.Errorf("got %d assignments, want 0", len(got))
		}
		if len(warnings) != 0 {
			t.Errorf("got warnings %v, want none", warnings)
		}
		if LaneCount(got) != 0 {
			t.Errorf("got %d lanes, want 0", LaneCount(got))
		}
	})

	t.Run("non-overlapping tasks share a lane", func(t *testing.T) {
		tasks := []*schedule.Task{
			mkTask("a", "James", "DC Insiders", "2024-02-01", "2024-02-03"),
			mkTask("b", "James", "DC Insiders", "2024-02-05", "2024-02-07"),
		}
		got, _ := AssignLanes(tasks, febWindow(), SortByEditor)
		if got["a"] != 0 || got["b"] != 0 {
			t.Errorf("got lanes a=%d b=%d, want both 0", got["a"], got["b"])
		}
	})

	t.Run("same-day boundary does not reuse the lane", func(t *testing.T) {
		// First task ends Feb 3; a task starting Feb 3 must stack below,
		// but one starting Feb 4 may reuse lane 0.
		tasks := []*schedule.Task{
			mkTask("a", "Eason", "Zoom In, Zoom Out", "2024-02-01", "2024-02-03"),
			mkTask("b", "James", "DC Insiders", "2024-02-03", "2024-02-05"),
			mkTask("c", "Dolphine", "Finding Formosa", "2024-02-04", "2024-02-06"),
		}
		got, _ := AssignLanes(tasks, febWindow(), SortByEditor)
		if got["a"] != 0 {
			t.Errorf("got lane %d for a, want 0", got["a"])
		}
		if got["b"] != 1 {
			t.Errorf("got lane %d for b, want 1 (boundary day still occupied)", got["b"])
		}
		if got["c"] != 0 {
			t.Errorf("got lane %d for c, want 0 (lane free from Feb 4)", got["c"])
		}
	})

	t.Run("editor name breaks start-date ties", func(t *testing.T) {
		tasks := []*schedule.Task{
			mkTask("z", "Zoe", "Special Program", "2024-02-05", "2024-02-08"),
			mkTask("a", "Amy", "Special Program", "2024-02-05", "2024-02-08"),
		}
		got, _ := AssignLanes(tasks, febWindow(), SortByEditor)
		if got["a"] != 0 || got["z"] != 1 {
			t.Errorf("got a=%d z=%d, want Amy first (lane 0)", got["a"], got["z"])
		}
	})

	t.Run("show name breaks ties in show mode", func(t *testing.T) {
		tasks := []*schedule.Task{
			mkTask("z", "Amy", "Zoom In, Zoom Out", "2024-02-05", "2024-02-08"),
			mkTask("a", "Zoe", "Correspondents", "2024-02-05", "2024-02-08"),
		}
		got, _ := AssignLanes(tasks, febWindow(), SortByShow)
		if got["a"] != 0 || got["z"] != 1 {
			t.Errorf("got a=%d z=%d, want Correspondents first", got["a"], got["z"])
		}
	})

	t.Run("task outside window is never assigned", func(t *testing.T) {
		tasks := []*schedule.Task{
			mkTask("before", "James", "DC Insiders", "2024-01-01", "2024-01-20"),
			mkTask("after", "James", "DC Insiders", "2024-03-10", "2024-03-12"),
			mkTask("inside", "James", "DC Insiders", "2024-02-10", "2024-02-12"),
		}
		got, _ := AssignLanes(tasks, febWindow(), SortByEditor)
		if _, ok := got["before"]; ok {
			t.Error("task entirely before window was assigned a lane")
		}
		if _, ok := got["after"]; ok {
			t.Error("task entirely after window was assigned a lane")
		}
		if _, ok := got["inside"]; !ok {
			t.Error("task inside window was not assigned a lane")
		}
	})

	t.Run("window-straddling task is included", func(t *testing.T) {
		tasks := []*schedule.Task{
			mkTask("straddle", "James", "DC Insiders", "2024-01-20", "2024-02-02"),
		}
		got, _ := AssignLanes(tasks, febWindow(), SortByEditor)
		if _, ok := got["straddle"]; !ok {
			t.Error("task overlapping window start was excluded")
		}
	})

	t.Run("zero-date task excluded with warning", func(t *testing.T) {
		tasks := []*schedule.Task{
			{ID: "bad", Show: "X", Editor: "Y"},
			mkTask("good", "James", "DC Insiders", "2024-02-10", "2024-02-12"),
		}
		got, warnings := AssignLanes(tasks, febWindow(), SortByEditor)
		if _, ok := got["bad"]; ok {
			t.Error("unschedulable task was assigned a lane")
		}
		if len(warnings) != 1 {
			t.Errorf("got %d warnings, want 1", len(warnings))
		}
		if _, ok := got["good"]; !ok {
			t.Error("valid task missing from assignment")
		}
	})

	t.Run("single-day task occupies one lane-day", func(t *testing.T) {
		tasks := []*schedule.Task{
			mkTask("one", "James", "DC Insiders", "2024-02-10", "2024-02-10"),
		}
		got, _ := AssignLanes(tasks, febWindow(), SortByEditor)
		if got["one"] != 0 {
			t.Errorf("got lane %d, want 0", got["one"])
		}
	})
}

func TestAssignLanes_NoOverlapPerLane(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	window := febWindow()

	for trial := 0; trial < 50; trial++ {
		tasks := randomTasks(rng, 40)
		got, _ := AssignLanes(tasks, window, SortByEditor)

		byID := map[string]*schedule.Task{}
		for _, task := range tasks {
			byID[task.ID] = task
		}

		byLane := map[int][]*schedule.Task{}
		for id, lane := range got {
			byLane[lane] = append(byLane[lane], byID[id])
		}
		for lane, members := range byLane {
			for i := 0; i < len(members); i++ {
				for j := i + 1; j < len(members); j++ {
					if members[i].Overlaps(members[j]) {
						t.Fatalf("trial %d: lane %d holds overlapping tasks %s [%s..%s] and %s [%s..%s]",
							trial, lane,
							members[i].ID, dateutil.Format(members[i].StartDate), dateutil.Format(members[i].EndDate),
							members[j].ID, dateutil.Format(members[j].StartDate), dateutil.Format(members[j].EndDate))
					}
				}
			}
		}
	}
}

func TestAssignLanes_LaneMinimality(t *testing.T) {
	// The greedy packing must use exactly as many lanes as the busiest
	// day has simultaneous tasks, found by brute-force counting.
	rng := rand.New(rand.NewSource(42))
	window := febWindow()

	for trial := 0; trial < 50; trial++ {
		tasks := randomTasks(rng, 30)
		got, _ := AssignLanes(tasks, window, SortByEditor)

		assigned := map[string]bool{}
		for id := range got {
			assigned[id] = true
		}

		peak := 0
		for d := window.Start; !d.After(window.End); d = d.AddDate(0, 0, 1) {
			count := 0
			for _, task := range tasks {
				if !assigned[task.ID] {
					continue
				}
				if !d.Before(task.StartDate) && !d.After(task.EndDate) {
					count++
				}
			}
			if count > peak {
				peak = count
			}
		}

		if lanes := LaneCount(got); lanes != peak {
			t.Fatalf("trial %d: got %d lanes, want %d (peak simultaneous tasks)", trial, lanes, peak)
		}
	}
}

func TestAssignLanes_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	window := febWindow()
	tasks := randomTasks(rng, 25)

	first, _ := AssignLanes(tasks, window, SortByShow)
	for i := 0; i < 10; i++ {
		again, _ := AssignLanes(tasks, window, SortByShow)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced a different assignment", i)
		}
	}
}

// randomTasks generates tasks fully inside February 2024's aligned
// window so brute-force peak counting sees every assigned task.
func randomTasks(rng *rand.Rand, n int) []*schedule.Task {
	editors := []string{"Dolphine", "Eason", "James"}
	shows := []string{"Correspondents", "DC Insiders", "Finding Formosa", "Zoom In, Zoom Out"}

	window := febWindow()
	span := 35 // days in the aligned February 2024 window

	tasks := make([]*schedule.Task, 0, n)
	for i := 0; i < n; i++ {
		offset := rng.Intn(span)
		length := rng.Intn(6)
		start := window.Start.AddDate(0, 0, offset)
		end := start.AddDate(0, 0, length)
		if end.After(window.End) {
			end = window.End
		}
		tasks = append(tasks, &schedule.Task{
			ID:        fmt.Sprintf("t%d", i),
			Show:      shows[rng.Intn(len(shows))],
			Episode:   fmt.Sprintf("EP%d", i),
			Editor:    editors[rng.Intn(len(editors))],
			StartDate: start,
			EndDate:   end,
		})
	}
	return tasks
}
