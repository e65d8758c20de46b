package schedule

import (
	"sort"
	"strings"
	"time"

	"github.com/editflowhq/editflow/internal/dateutil"
)

// Count is one bar of a breakdown: a name and how many tasks carry it.
type Count struct {
	Name  string
	Tasks int
}

// Stats aggregates the task collection for the dashboard: all-time and
// current-month totals, broken down per show and per editor.
type Stats struct {
	TotalTasks int
	MonthTasks int
	Month      time.Month
	Year       int

	ShowCounts        []Count
	EditorCounts      []Count
	MonthShowCounts   []Count
	MonthEditorCounts []Count
}

// Editors returns the number of distinct editors seen across all tasks.
func (s Stats) Editors() int {
	return len(s.EditorCounts)
}

// Max returns the largest count in the slice, at least 1 so callers can
// scale bars without dividing by zero.
func Max(counts []Count) int {
	max := 1
	for _, c := range counts {
		if c.Tasks > max {
			max = c.Tasks
		}
	}
	return max
}

// Aggregate computes Stats for the given reference time. A task belongs
// to the current month when its StartDate falls inside it.
func Aggregate(tasks []*Task, now time.Time) Stats {
	monthStart, monthEnd := dateutil.MonthBounds(now)

	s := Stats{
		TotalTasks: len(tasks),
		Month:      now.Month(),
		Year:       now.Year(),
	}

	shows := map[string]int{}
	editors := map[string]int{}
	monthShows := map[string]int{}
	monthEditors := map[string]int{}

	for _, t := range tasks {
		shows[trimKey(t.Show)]++
		editors[trimKey(t.Editor)]++

		start := dateutil.TruncateToDay(t.StartDate)
		if !start.Before(monthStart) && !start.After(monthEnd) {
			s.MonthTasks++
			monthShows[trimKey(t.Show)]++
			monthEditors[trimKey(t.Editor)]++
		}
	}

	s.ShowCounts = sortedCounts(shows)
	s.EditorCounts = sortedCounts(editors)
	s.MonthShowCounts = sortedCounts(monthShows)
	s.MonthEditorCounts = sortedCounts(monthEditors)
	return s
}

func trimKey(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(none)"
	}
	return s
}

// sortedCounts flattens a count map, highest first, name as tiebreak so
// the dashboard ordering is stable.
func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for name, n := range m {
		out = append(out, Count{Name: name, Tasks: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tasks != out[j].Tasks {
			return out[i].Tasks > out[j].Tasks
		}
		return out[i].Name < out[j].Name
	})
	return out
}
