package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/editflowhq/editflow/internal/dateutil"
	"github.com/editflowhq/editflow/internal/layout"
	"github.com/editflowhq/editflow/internal/schedule"
)

var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// View renders the TUI.
func (m Model) View() string {
	var body string
	switch m.view {
	case ViewTimeline:
		body = m.renderTimeline()
	case ViewStats:
		body = m.renderStats()
	default:
		body = m.renderCalendar()
	}

	sections := []string{m.renderHeader(), body, m.renderFooter()}
	content := m.styles.AppStyle.Render(strings.Join(sections, "\n\n"))

	if m.mode == ModeModal && m.modalType != ModalNone {
		return m.overlayModal(content)
	}
	return content
}

// renderHeader shows the app title, focused month, connection state,
// grouping mode, and the active filter.
func (m Model) renderHeader() string {
	title := m.styles.TitleStyle.Render("EditFlow")
	month := m.styles.DayNumStyle.Render(m.month.Format("January 2006"))

	conn := m.styles.ConnectedStyle.Render("● live")
	if !m.connected {
		conn = m.styles.DisconnectedStyle.Render("○ offline")
	}

	group := m.styles.HelpStyle.Render("by " + string(m.groupBy))

	parts := []string{title, month, conn, group}
	if m.filter.Search != "" {
		parts = append(parts, m.styles.StatusStyle.Render("filter: "+m.filter.Search))
	}
	return strings.Join(parts, "  ")
}

// cellWidth computes the calendar cell width from the terminal size.
func (m Model) cellWidth() int {
	w := m.width
	if w == 0 {
		w = 90
	}
	cell := (w - 6) / 7
	if cell < 8 {
		cell = 8
	}
	if cell > 20 {
		cell = 20
	}
	return cell
}

// renderCalendar draws the month grid: a weekday header, then per week
// row the day numbers followed by one line per occupied lane.
func (m Model) renderCalendar() string {
	m.ensureGrid()
	cellW := m.cellWidth()
	today := dateutil.TruncateToDay(m.nowFunc())

	var b strings.Builder

	for i, name := range weekdayNames {
		style := m.styles.DayHeaderStyle
		if m.window().Contains(today) && int(today.Weekday()+6)%7 == i {
			style = m.styles.DayHeaderTodayStyle
		}
		b.WriteString(style.Width(cellW).Render(name))
	}
	b.WriteString("\n")

	for row := 0; row < m.grid.Rows; row++ {
		for col := 0; col < 7; col++ {
			day := m.grid.Days[row*7+col]
			label := fmt.Sprintf("%2d", day.Date.Day())

			style := m.styles.DayNumStyle
			switch {
			case dateutil.SameDay(day.Date, m.cursor):
				style = m.styles.DayNumCursorStyle
			case dateutil.SameDay(day.Date, today):
				style = m.styles.DayNumTodayStyle
			case day.Date.Month() != m.month.Month():
				style = m.styles.DayNumOtherStyle
			}
			b.WriteString(style.Width(cellW).Render(label))
		}
		b.WriteString("\n")

		segs := m.grid.SegmentsInRow(row)
		for lane := 0; lane < m.grid.Lanes; lane++ {
			line, used := m.renderLaneLine(segs, lane, cellW)
			if used {
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderLaneLine draws one lane of one week row. Returns false when the
// lane has no segment in this row so empty lanes collapse.
func (m Model) renderLaneLine(segs []layout.Segment, lane, cellW int) (string, bool) {
	var b strings.Builder
	col := 0
	used := false

	for _, s := range segs {
		if s.Lane != lane {
			continue
		}
		used = true

		for col < s.StartCol {
			b.WriteString(m.styles.EmptyLaneStyle.Render(strings.Repeat(" ", cellW)))
			col++
		}

		span := (s.EndCol - s.StartCol + 1) * cellW
		text := m.barText(s, span)
		b.WriteString(m.styles.BarStyle(m.local.EditorColor(s.Task.Editor), s.Status).Render(text))
		col = s.EndCol + 1
	}

	for col < 7 {
		b.WriteString(m.styles.EmptyLaneStyle.Render(strings.Repeat(" ", cellW)))
		col++
	}

	return b.String(), used
}

// barText lays the segment label into its span, with window-clip
// markers at the outer columns.
func (m Model) barText(s layout.Segment, span int) string {
	label := m.segmentLabel(s.Task)

	prefix := " "
	if s.ClippedLeft && s.StartCol == 0 {
		prefix = "◀"
	}
	suffix := " "
	if s.ClippedRight && s.EndCol == 6 {
		suffix = "▶"
	}

	inner := span - 2
	if inner < 1 {
		inner = 1
	}
	label = truncateRunes(label, inner)
	return prefix + label + strings.Repeat(" ", inner-len([]rune(label))) + suffix
}

// segmentLabel labels the identity the row is NOT grouped by, since the
// grouping is already visible from the bar ordering and color.
func (m Model) segmentLabel(t *schedule.Task) string {
	if m.groupBy == layout.SortByShow {
		return strings.TrimSpace(t.Editor + " " + t.Episode)
	}
	return strings.TrimSpace(t.Show + " " + t.Episode)
}

// renderTimeline lists the focused month's tasks grouped by start date.
func (m Model) renderTimeline() string {
	window := m.window()
	now := m.nowFunc()

	var visible []*schedule.Task
	for _, t := range m.visibleTasks() {
		if t.StartDate.IsZero() {
			continue
		}
		if t.StartDate.After(window.End) || t.EndDate.Before(window.Start) {
			continue
		}
		visible = append(visible, t)
	}

	if len(visible) == 0 {
		return m.styles.HelpStyle.Render("No tasks this month.")
	}

	var b strings.Builder
	var lastDate string
	for _, t := range visible {
		date := dateutil.Format(t.StartDate)
		if date != lastDate {
			if lastDate != "" {
				b.WriteString("\n")
			}
			b.WriteString(m.styles.TitleStyle.Render(date))
			b.WriteString("\n")
			lastDate = date
		}

		status := t.StatusAt(now)
		b.WriteString("  ")
		b.WriteString(m.styles.StatusStyleFor(status).Render(statusGlyph(status)))
		b.WriteString(" ")
		b.WriteString(m.styles.DayNumStyle.Render(t.Show + " " + t.Episode))
		b.WriteString("  ")
		b.WriteString(m.editorStyle(t.Editor).Render(t.Editor))
		b.WriteString(m.styles.HelpStyle.Render(fmt.Sprintf("  %s → %s (%dd)",
			dateutil.Format(t.StartDate), dateutil.Format(t.EndDate), t.Days())))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderStats draws the aggregate dashboard.
func (m Model) renderStats() string {
	stats := schedule.Aggregate(m.visibleTasks(), m.nowFunc())

	var b strings.Builder
	b.WriteString(m.styles.TitleStyle.Render(fmt.Sprintf("%d tasks, %d editors, %d this month",
		stats.TotalTasks, stats.Editors(), stats.MonthTasks)))
	b.WriteString("\n\n")

	b.WriteString(m.renderBreakdown("By show", stats.ShowCounts))
	b.WriteString("\n")
	b.WriteString(m.renderBreakdown("By editor", stats.EditorCounts))
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderBreakdown(title string, counts []schedule.Count) string {
	var b strings.Builder
	b.WriteString(m.styles.TitleStyle.Render(title))
	b.WriteString("\n")

	max := schedule.Max(counts)
	for _, c := range counts {
		barLen := c.Tasks * 20 / max
		if barLen < 1 {
			barLen = 1
		}
		b.WriteString(fmt.Sprintf("  %-22s ", truncateRunes(c.Name, 22)))
		b.WriteString(m.styles.StatusProgressStyle.Render(strings.Repeat("█", barLen)))
		b.WriteString(m.styles.HelpStyle.Render(fmt.Sprintf(" %d", c.Tasks)))
		b.WriteString("\n")
	}
	return b.String()
}

// renderFooter shows the filter prompt, status message, and key help.
func (m Model) renderFooter() string {
	var parts []string

	if m.mode == ModePrompt {
		parts = append(parts, m.styles.PromptFocusedStyle.Render(m.prompt.View()))
	}
	if m.statusMsg != "" {
		parts = append(parts, m.styles.StatusStyle.Render(m.statusMsg))
	}
	parts = append(parts, m.styles.HelpStyle.Render(m.helpLine()))
	return strings.Join(parts, "\n")
}

func (m Model) helpLine() string {
	switch m.view {
	case ViewStats, ViewTimeline:
		return "tab: view  v: group  H/L: month  /: filter  q: quit"
	default:
		return "hjkl: move  H/L: month  t: today  tab: view  v: group  enter: open  a: add  x: delete  /: filter  q: quit"
	}
}

// editorStyle colors an editor name with their roster color.
func (m Model) editorStyle(name string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.local.EditorColor(name))).
		Background(m.styles.colorBg).
		Bold(true)
}

func statusGlyph(s schedule.Status) string {
	switch s {
	case schedule.StatusInProgress:
		return "◐"
	case schedule.StatusInReview:
		return "◑"
	case schedule.StatusDelivered:
		return "●"
	default:
		return "○"
	}
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
