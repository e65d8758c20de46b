package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/editflowhq/editflow/internal/dateutil"
	"github.com/editflowhq/editflow/internal/layout"
	"github.com/editflowhq/editflow/internal/schedule"
)

func (a *App) monthCmd() *cobra.Command {
	var (
		month   string
		byShow  bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Print the month calendar",
		Long: `Print the month grid with task bars packed into lanes, the same
layout the interactive calendar uses.

Example:
  editflow month --month=2024-02 --by-show`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureStore(); err != nil {
				return err
			}

			ref := time.Now()
			if month != "" {
				parsed, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("month must be in YYYY-MM format, got %q", month)
				}
				ref = parsed
			}

			tasks, err := a.store.ListTasks(context.Background())
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			key := layout.SortByEditor
			if byShow {
				key = layout.SortByShow
			}

			window := dateutil.MonthWindow(ref)
			assignment, warnings := layout.AssignLanes(tasks, window, key)
			for _, w := range warnings {
				fmt.Fprintf(os.Stderr, "warning: %s\n", w)
			}
			grid := layout.Project(tasks, assignment, window, time.Now())

			fmt.Printf("\n  %s\n", formatHeader(ref.Format("January 2006")))
			fmt.Print(renderMonth(grid, key, termWidth()))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to print (YYYY-MM, default: current)")
	cmd.Flags().BoolVar(&byShow, "by-show", false, "Group lanes by show instead of editor")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")

	return cmd
}

// renderMonth draws the grid as text: one block per week row with the
// day numbers on top and one line per lane below, bars spanning their
// visible columns. Bars keep their lane across rows so multi-week tasks
// line up vertically.
func renderMonth(grid layout.Grid, key layout.SortKey, width int) string {
	cellW := (width - 4) / 7
	if cellW < 6 {
		cellW = 6
	}
	if cellW > 16 {
		cellW = 16
	}

	var b strings.Builder

	b.WriteString("  ")
	for _, name := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		b.WriteString(formatMuted(padCell(name, cellW)))
	}
	b.WriteString("\n")

	for row := 0; row < grid.Rows; row++ {
		b.WriteString("  ")
		for col := 0; col < 7; col++ {
			day := grid.Days[row*7+col].Date
			b.WriteString(padCell(fmt.Sprintf("%2d", day.Day()), cellW))
		}
		b.WriteString("\n")

		segs := grid.SegmentsInRow(row)
		for lane := 0; lane < grid.Lanes; lane++ {
			line, used := renderLaneLine(segs, lane, key, cellW)
			if !used {
				continue
			}
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderLaneLine builds one lane's text for a week row. The second
// return value is false when the lane is empty in this row.
func renderLaneLine(segs []layout.Segment, lane int, key layout.SortKey, cellW int) (string, bool) {
	var (
		b    strings.Builder
		col  int
		used bool
	)

	for _, s := range segs {
		if s.Lane != lane {
			continue
		}
		used = true

		for col < s.StartCol {
			b.WriteString(strings.Repeat(" ", cellW))
			col++
		}

		span := (s.EndCol - s.StartCol + 1) * cellW
		b.WriteString(formatStatus(s.Status, barText(s, key, span)))
		col = s.EndCol + 1
	}

	for col < 7 {
		b.WriteString(strings.Repeat(" ", cellW))
		col++
	}

	return b.String(), used
}

// barText renders one segment: edge markers per shape, the label
// re-anchored at the segment's first cell.
func barText(s layout.Segment, key layout.SortKey, span int) string {
	left, right := "├", "┤"
	switch s.Shape {
	case layout.ShapeIsolated:
		left, right = "▐", "▌"
	case layout.ShapeOpenLeft:
		left = "├"
		right = "▌"
	case layout.ShapeOpenRight:
		left = "▐"
		right = "┤"
	}
	if s.ClippedLeft && s.StartCol == 0 {
		left = "◀"
	}
	if s.ClippedRight && s.EndCol == 6 {
		right = "▶"
	}

	label := segmentLabel(s.Task, key)
	inner := span - 2
	if inner < 0 {
		inner = 0
	}
	label = truncate(label, inner)
	fill := inner - len([]rune(label))
	if fill < 0 {
		fill = 0
	}

	return left + label + strings.Repeat("─", fill) + right
}

// segmentLabel pairs the bar with the identity it is NOT grouped by, so
// an editor-grouped calendar labels bars with the show and vice versa.
func segmentLabel(t *schedule.Task, key layout.SortKey) string {
	if key == layout.SortByShow {
		return strings.TrimSpace(t.Editor + " " + t.Episode)
	}
	return strings.TrimSpace(t.Show + " " + t.Episode)
}

func padCell(s string, w int) string {
	r := []rune(s)
	if len(r) >= w {
		return string(r[:w])
	}
	return s + strings.Repeat(" ", w-len(r))
}
