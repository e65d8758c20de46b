// Package layout computes the calendar row-packing layout: it assigns
// overlapping date-ranged tasks to non-colliding lanes and projects them
// onto the visible month grid.
package layout

import (
	"fmt"
	"sort"
	"time"

	"github.com/editflowhq/editflow/internal/dateutil"
	"github.com/editflowhq/editflow/internal/schedule"
)

// SortKey picks the secondary ordering used to break start-date ties,
// which is also the grouping mode of the calendar view.
type SortKey string

const (
	SortByEditor SortKey = "editor"
	SortByShow   SortKey = "show"
)

// AssignLanes maps each task overlapping the window to a lane index such
// that no two tasks sharing a lane overlap in time, using the classic
// greedy interval packing: tasks sorted by start date are placed in the
// first lane whose end date is strictly before their start date. A lane
// ending exactly on a task's start day is still occupied that day and is
// not reused, so a task starting that day stacks below it.
//
// Tasks entirely outside the window are excluded. Tasks with a zero
// start or end date are unschedulable: they are excluded and reported in
// the returned warnings instead of propagating an error.
func AssignLanes(tasks []*schedule.Task, window dateutil.Window, key SortKey) (map[string]int, []string) {
	assignment := make(map[string]int)
	var warnings []string

	type entry struct {
		task  *schedule.Task
		start time.Time
		end   time.Time
		index int // input position, the final tiebreak
	}

	var visible []entry
	for i, t := range tasks {
		if t.StartDate.IsZero() || t.EndDate.IsZero() {
			warnings = append(warnings, fmt.Sprintf("task %s has an unparseable date and was not scheduled", t.ID))
			continue
		}
		start := dateutil.TruncateToDay(t.StartDate)
		end := dateutil.TruncateToDay(t.EndDate)
		if start.After(window.End) || end.Before(window.Start) {
			continue
		}
		visible = append(visible, entry{task: t, start: start, end: end, index: i})
	}

	sort.SliceStable(visible, func(i, j int) bool {
		a, b := visible[i], visible[j]
		if !a.start.Equal(b.start) {
			return a.start.Before(b.start)
		}
		ka, kb := sortField(a.task, key), sortField(b.task, key)
		if ka != kb {
			return ka < kb
		}
		return a.index < b.index
	})

	// laneEnds[i] is the end date of the last task placed in lane i.
	var laneEnds []time.Time
	for _, e := range visible {
		lane := -1
		for i, end := range laneEnds {
			if end.Before(e.start) {
				lane = i
				break
			}
		}
		if lane == -1 {
			lane = len(laneEnds)
			laneEnds = append(laneEnds, e.end)
		} else {
			laneEnds[lane] = e.end
		}
		assignment[e.task.ID] = lane
	}

	return assignment, warnings
}

func sortField(t *schedule.Task, key SortKey) string {
	if key == SortByShow {
		return t.Show
	}
	return t.Editor
}

// LaneCount returns the number of lanes used by an assignment.
func LaneCount(assignment map[string]int) int {
	max := -1
	for _, lane := range assignment {
		if lane > max {
			max = lane
		}
	}
	return max + 1
}
