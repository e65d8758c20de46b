package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/editflowhq/editflow/internal/dateutil"
)

var formLabels = [fieldCount]string{"Show", "Episode", "Editor", "Start", "End", "Notes"}

// overlayModal centers the active modal over the base content.
func (m Model) overlayModal(base string) string {
	modal := m.renderModal()
	if m.width <= 0 || m.height <= 0 {
		return modal
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceBackground(m.styles.colorBg))
}

func (m Model) renderModal() string {
	switch m.modalType {
	case ModalTaskForm:
		return m.renderTaskForm()
	case ModalTaskDetail:
		return m.renderTaskDetail()
	case ModalConfirmDelete:
		return m.renderConfirmDelete()
	}
	return ""
}

func (m Model) renderTaskForm() string {
	title := "New Task"
	if m.modalTask != nil {
		title = "Edit Task"
	}

	var b strings.Builder
	b.WriteString(m.styles.ModalTitleStyle.Render(title))
	b.WriteString("\n\n")

	for i := 0; i < fieldCount; i++ {
		b.WriteString(m.styles.ModalLabelStyle.Render(formLabels[i]))
		b.WriteString(m.form[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.ModalHintStyle.Render("tab: next field  enter: save  esc: cancel"))
	return m.styles.ModalStyle.Render(b.String())
}

func (m Model) renderTaskDetail() string {
	t := m.modalTask
	if t == nil {
		return ""
	}

	status := t.StatusAt(m.nowFunc())

	var b strings.Builder
	b.WriteString(m.styles.ModalTitleStyle.Render(t.Show + " " + t.Episode))
	b.WriteString("\n\n")

	rows := []struct{ label, value string }{
		{"Editor", t.Editor},
		{"Dates", fmt.Sprintf("%s → %s (%d days)",
			dateutil.Format(t.StartDate), dateutil.Format(t.EndDate), t.Days())},
		{"Status", statusGlyph(status) + " " + status.Label()},
	}
	if t.Notes != "" {
		rows = append(rows, struct{ label, value string }{"Notes", t.Notes})
	}
	rows = append(rows, struct{ label, value string }{"Edited", t.LastEditedAt.Format("2006-01-02 15:04")})

	for _, r := range rows {
		b.WriteString(m.styles.ModalLabelStyle.Render(r.label))
		b.WriteString(m.styles.ModalBodyStyle.Render(r.value))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.ModalHintStyle.Render("e: edit  x: delete  esc: close"))
	return m.styles.ModalStyle.Render(b.String())
}

func (m Model) renderConfirmDelete() string {
	var b strings.Builder
	b.WriteString(m.styles.ModalTitleStyle.Render("Confirm"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.ModalBodyStyle.Render(m.confirmMessage))
	b.WriteString("\n\n")
	b.WriteString(m.styles.ModalButtonActiveStyle.Render("y: delete"))
	b.WriteString(" ")
	b.WriteString(m.styles.ModalButtonStyle.Render("n: cancel"))
	return m.styles.ModalStyle.Render(b.String())
}
