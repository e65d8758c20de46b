package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/editflowhq/editflow/internal/dateutil"
	"github.com/editflowhq/editflow/internal/layout"
	"github.com/editflowhq/editflow/internal/schedule"
	"github.com/editflowhq/editflow/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg)

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()

	// Day navigation
	case "h", "left":
		return m.moveCursor(-1), nil
	case "l", "right":
		return m.moveCursor(1), nil
	case "j", "down":
		return m.moveCursor(7), nil
	case "k", "up":
		return m.moveCursor(-7), nil

	// Month navigation
	case "H", "shift+left", "pgup":
		return m.shiftMonth(-1), nil
	case "L", "shift+right", "pgdown":
		return m.shiftMonth(1), nil
	case "t":
		now := m.nowFunc()
		m.month = startOfMonth(now)
		m.cursor = dateutil.TruncateToDay(now)
		m.gridDirty = true
		return m, nil

	// View switches
	case "tab":
		m.view = (m.view + 1) % 3
		return m, nil
	case "v":
		if m.groupBy == layout.SortByEditor {
			m.groupBy = layout.SortByShow
		} else {
			m.groupBy = layout.SortByEditor
		}
		m.gridDirty = true
		return m, nil

	// Filter
	case "/":
		m.mode = ModePrompt
		m.prompt.SetValue(m.filter.Search)
		m.prompt.Focus()
		return m, textinput.Blink
	case "esc":
		if m.filter.Search != "" {
			m.filter.Search = ""
			m.gridDirty = true
		}
		return m, nil

	// Task actions
	case "enter":
		if t := m.taskAtCursor(); t != nil {
			return m.openDetail(t), nil
		}
		return m.openForm(nil)
	case "a", "n":
		return m.openForm(nil)
	case "e":
		if t := m.taskAtCursor(); t != nil {
			return m.openForm(t)
		}
		return m, nil
	case "x", "d":
		if t := m.taskAtCursor(); t != nil {
			return m.openConfirmDelete(t), nil
		}
		return m, nil
	}

	return m, nil
}

// handlePromptKeys handles keys while the filter prompt is focused.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filter.Search = strings.TrimSpace(m.prompt.Value())
		m.prompt.Blur()
		m.mode = ModeNormal
		m.gridDirty = true
		return m, nil
	case "esc":
		m.prompt.SetValue("")
		m.prompt.Blur()
		m.mode = ModeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handleModalKeys dispatches to the active modal.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modalType {
	case ModalTaskForm:
		return m.handleFormKeys(msg)
	case ModalTaskDetail:
		return m.handleDetailKeys(msg)
	case ModalConfirmDelete:
		return m.handleConfirmKeys(msg)
	}
	return m.closeModal(), nil
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeModal(), nil
	case "tab", "down":
		return m.focusField((m.formFocus + 1) % fieldCount), nil
	case "shift+tab", "up":
		return m.focusField((m.formFocus + fieldCount - 1) % fieldCount), nil
	case "enter":
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.form[m.formFocus], cmd = m.form[m.formFocus].Update(msg)
	return m, cmd
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "e":
		return m.openForm(m.modalTask)
	case "x", "d":
		return m.openConfirmDelete(m.modalTask), nil
	case "esc", "q", "enter":
		return m.closeModal(), nil
	}
	return m, nil
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		id := m.modalTask.ID
		m = m.closeModal()
		return m, commands.DeleteTask(m.store, id)
	case "n", "esc", "q":
		return m.closeModal(), nil
	}
	return m, nil
}

// moveCursor shifts the selected day, refocusing the month when the
// cursor crosses into a different one.
func (m Model) moveCursor(days int) Model {
	m.cursor = m.cursor.AddDate(0, 0, days)
	if m.cursor.Month() != m.month.Month() || m.cursor.Year() != m.month.Year() {
		m.month = startOfMonth(m.cursor)
		m.gridDirty = true
	}
	return m
}

// shiftMonth moves whole months, clamping the cursor's day-of-month to
// the target month's length.
func (m Model) shiftMonth(months int) Model {
	m.month = m.month.AddDate(0, months, 0)
	_, last := dateutil.MonthBounds(m.month)
	day := m.cursor.Day()
	if day > last.Day() {
		day = last.Day()
	}
	m.cursor = time.Date(m.month.Year(), m.month.Month(), day, 0, 0, 0, 0, m.month.Location())
	m.gridDirty = true
	return m
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.sub != nil {
		m.sub.Cancel()
	}
	return m, tea.Quit
}

func (m Model) openDetail(t *schedule.Task) Model {
	m.mode = ModeModal
	m.modalType = ModalTaskDetail
	m.modalTask = t
	LogModeChange(ModeNormal, ModeModal, "detail")
	return m
}

// openForm opens the task modal, prefilled from an existing task or
// seeded with the cursor date for a new one.
func (m Model) openForm(t *schedule.Task) (tea.Model, tea.Cmd) {
	m.mode = ModeModal
	m.modalType = ModalTaskForm
	m.modalTask = t

	if t != nil {
		m.form[fieldShow].SetValue(t.Show)
		m.form[fieldEpisode].SetValue(t.Episode)
		m.form[fieldEditor].SetValue(t.Editor)
		m.form[fieldStart].SetValue(dateutil.Format(t.StartDate))
		m.form[fieldEnd].SetValue(dateutil.Format(t.EndDate))
		m.form[fieldNotes].SetValue(t.Notes)
	} else {
		for i := range m.form {
			m.form[i].SetValue("")
		}
		m.form[fieldStart].SetValue(dateutil.Format(m.cursor))
		m.form[fieldEnd].SetValue(dateutil.Format(m.cursor))
	}

	LogModeChange(ModeNormal, ModeModal, "form")
	model, cmd := m.focusField(fieldShow), textinput.Blink
	return model, cmd
}

func (m Model) openConfirmDelete(t *schedule.Task) Model {
	m.mode = ModeModal
	m.modalType = ModalConfirmDelete
	m.modalTask = t
	m.confirmMessage = "Delete " + t.Show + " " + t.Episode + "?"
	return m
}

func (m Model) closeModal() Model {
	LogModeChange(ModeModal, ModeNormal, "close")
	m.mode = ModeNormal
	m.modalType = ModalNone
	m.modalTask = nil
	for i := range m.form {
		m.form[i].Blur()
	}
	return m
}

func (m Model) focusField(i int) Model {
	m.form[m.formFocus].Blur()
	m.formFocus = i
	m.form[i].Focus()
	return m
}

// submitForm validates the form and issues the save. The model keeps
// showing the current snapshot; the new state arrives via subscription.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	show := m.form[fieldShow].Value()
	episode := m.form[fieldEpisode].Value()
	editor := m.form[fieldEditor].Value()
	start := m.form[fieldStart].Value()
	end := m.form[fieldEnd].Value()
	notes := strings.TrimSpace(m.form[fieldNotes].Value())

	var t *schedule.Task
	if m.modalTask == nil {
		created, err := schedule.New(show, episode, editor, start, end)
		if err != nil {
			m.statusMsg = err.Error()
			m.statusTime = time.Now().Add(5 * time.Second)
			return m, commands.ClearStatusAfter(5 * time.Second)
		}
		created.Notes = notes
		t = created
	} else {
		startDate, err := dateutil.ParseDate(start)
		if err != nil {
			m.statusMsg = err.Error()
			m.statusTime = time.Now().Add(5 * time.Second)
			return m, commands.ClearStatusAfter(5 * time.Second)
		}
		endDate, err := dateutil.ParseDate(end)
		if err != nil {
			m.statusMsg = err.Error()
			m.statusTime = time.Now().Add(5 * time.Second)
			return m, commands.ClearStatusAfter(5 * time.Second)
		}
		if strings.TrimSpace(show) == "" || strings.TrimSpace(editor) == "" {
			m.statusMsg = "show and editor are required"
			m.statusTime = time.Now().Add(5 * time.Second)
			return m, commands.ClearStatusAfter(5 * time.Second)
		}

		updated := *m.modalTask
		updated.Show = strings.TrimSpace(show)
		updated.Episode = strings.TrimSpace(episode)
		updated.Editor = strings.TrimSpace(editor)
		updated.StartDate = startDate
		updated.EndDate = endDate
		updated.Notes = notes
		updated.Touch(m.nowFunc())
		t = &updated
	}

	m = m.closeModal()
	return m, commands.SaveTask(m.store, t)
}
