package layout

import (
	"sort"
	"time"

	"github.com/editflowhq/editflow/internal/dateutil"
	"github.com/editflowhq/editflow/internal/schedule"
)

// Shape classifies one week-row segment of a task bar. The shape decides
// the rounding treatment so adjacent-day cells fuse into one continuous
// bar: a self-contained segment renders as a pill, an open edge means
// the task continues past that side of the row.
type Shape int

const (
	// ShapeIsolated has both the true start and true end inside the row.
	ShapeIsolated Shape = iota
	// ShapeOpenLeft continues from before this row; no rounded start.
	ShapeOpenLeft
	// ShapeOpenRight continues past this row; no rounded end.
	ShapeOpenRight
	// ShapeThrough spans the whole row with neither edge visible.
	ShapeThrough
)

// Segment is one contiguous run of a task bar within a single week row
// of the grid. A task crossing a week boundary produces one segment per
// row it spans, each re-anchoring its label at the segment's first cell.
type Segment struct {
	Task *schedule.Task
	Lane int

	Row      int // week row index within the window, 0-based
	StartCol int // 0=Monday ... 6=Sunday, inclusive
	EndCol   int

	Shape Shape

	// Clipped flags mark that the task's true interval extends beyond
	// the rendered window itself (the "continues from another month"
	// markers), as opposed to merely continuing on an adjacent row.
	// Only the segment holding the clipped visible edge carries the
	// flag; continuation rows of the same task keep it false.
	ClippedLeft  bool
	ClippedRight bool

	Status schedule.Status
}

// Day is one calendar cell: its date and the tasks occupying each lane
// that day. Lanes is dense up to the highest occupied lane; empty slots
// are nil and render as spacers so bars keep their vertical position
// across adjacent days.
type Day struct {
	Date  time.Time
	Lanes []*schedule.Task
}

// Grid is the full render projection of one visible window: the ordered
// day cells and the per-row segments, both derived from a lane
// assignment. It is a pure value; recomputing it has no side effects.
type Grid struct {
	Window   dateutil.Window
	Days     []Day
	Rows     int
	Lanes    int
	Segments []Segment
}

// SegmentsInRow returns the segments of one week row ordered by lane
// then start column.
func (g Grid) SegmentsInRow(row int) []Segment {
	var out []Segment
	for _, s := range g.Segments {
		if s.Row == row {
			out = append(out, s)
		}
	}
	return out
}

// Project maps tasks and their lane assignment onto the window's day
// grid. Tasks absent from the assignment (outside the window or
// unschedulable) produce no output. now drives status derivation.
func Project(tasks []*schedule.Task, assignment map[string]int, window dateutil.Window, now time.Time) Grid {
	days := window.Days()
	grid := Grid{
		Window: window,
		Rows:   len(days) / 7,
		Lanes:  LaneCount(assignment),
	}

	grid.Days = make([]Day, len(days))
	for i, d := range days {
		grid.Days[i] = Day{Date: d}
	}

	for _, t := range tasks {
		lane, ok := assignment[t.ID]
		if !ok {
			continue
		}

		start := dateutil.TruncateToDay(t.StartDate)
		end := dateutil.TruncateToDay(t.EndDate)

		// Clip to the window; an inverted range yields no visible days.
		visStart := maxDay(start, window.Start)
		visEnd := minDay(end, window.End)
		if visEnd.Before(visStart) {
			continue
		}

		fillDayLanes(grid.Days, window, visStart, visEnd, lane, t)

		status := t.StatusAt(now)
		for row := 0; row < grid.Rows; row++ {
			rowFirst := window.Start.AddDate(0, 0, row*7)
			rowLast := rowFirst.AddDate(0, 0, 6)

			segStart := maxDay(visStart, rowFirst)
			segEnd := minDay(visEnd, rowLast)
			if segEnd.Before(segStart) {
				continue
			}

			seg := Segment{
				Task:         t,
				Lane:         lane,
				Row:          row,
				StartCol:     dayOffset(rowFirst, segStart),
				EndCol:       dayOffset(rowFirst, segEnd),
				ClippedLeft:  start.Before(window.Start) && segStart.Equal(visStart),
				ClippedRight: end.After(window.End) && segEnd.Equal(visEnd),
				Status:       status,
			}
			seg.Shape = classify(segStart.Equal(start), segEnd.Equal(end))
			grid.Segments = append(grid.Segments, seg)
		}
	}

	sort.SliceStable(grid.Segments, func(i, j int) bool {
		a, b := grid.Segments[i], grid.Segments[j]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		if a.Lane != b.Lane {
			return a.Lane < b.Lane
		}
		return a.StartCol < b.StartCol
	})

	return grid
}

// classify picks the segment shape from edge visibility within the row.
func classify(startVisible, endVisible bool) Shape {
	switch {
	case startVisible && endVisible:
		return ShapeIsolated
	case endVisible:
		return ShapeOpenLeft
	case startVisible:
		return ShapeOpenRight
	default:
		return ShapeThrough
	}
}

// fillDayLanes records the task in its lane slot for every visible day,
// growing each day's lane slice just enough to hold it.
func fillDayLanes(days []Day, window dateutil.Window, visStart, visEnd time.Time, lane int, t *schedule.Task) {
	from := dayOffset(window.Start, visStart)
	to := dayOffset(window.Start, visEnd)
	for i := from; i <= to && i < len(days); i++ {
		for len(days[i].Lanes) <= lane {
			days[i].Lanes = append(days[i].Lanes, nil)
		}
		days[i].Lanes[lane] = t
	}
}

// dayOffset counts calendar days from one midnight to another. Rounding
// absorbs the off-by-one-hour days a DST transition produces.
func dayOffset(from, to time.Time) int {
	return int(to.Sub(from).Hours()/24 + 0.5)
}

func maxDay(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDay(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
