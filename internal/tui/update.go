package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/editflowhq/editflow/internal/store"
	"github.com/editflowhq/editflow/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case commands.SubscribedMsg:
		m.sub = msg.Sub
		return m, commands.WaitForSnapshot(m.sub)

	case commands.SnapshotMsg:
		m.tasks = msg.Tasks
		m.connected = true
		m.gridDirty = true
		return m, commands.WaitForSnapshot(m.sub)

	case commands.StoreErrMsg:
		LogError("subscription", msg.Err)
		m.connected = false
		m.statusMsg = fmt.Sprintf("Connection lost: %v", msg.Err)
		m.statusTime = time.Now().Add(5 * time.Second)
		// A closed feed does not self-heal; don't spin on it.
		if m.sub == nil || errors.Is(msg.Err, store.ErrClosed) {
			return m, commands.ClearStatusAfter(5 * time.Second)
		}
		return m, tea.Batch(
			commands.WaitForSnapshot(m.sub),
			commands.ClearStatusAfter(5*time.Second),
		)

	case commands.SavedMsg:
		m.statusMsg = "Saved"
		m.statusTime = time.Now().Add(3 * time.Second)
		return m, commands.ClearStatusAfter(3 * time.Second)

	case commands.DeletedMsg:
		m.statusMsg = "Deleted"
		m.statusTime = time.Now().Add(3 * time.Second)
		return m, commands.ClearStatusAfter(3 * time.Second)

	case commands.ErrMsg:
		LogError("operation", msg.Err)
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusTime = time.Now().Add(5 * time.Second)
		return m, commands.ClearStatusAfter(5 * time.Second)

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	// Feed everything else to the focused input.
	var cmd tea.Cmd
	switch m.mode {
	case ModePrompt:
		m.prompt, cmd = m.prompt.Update(msg)
	case ModeModal:
		if m.modalType == ModalTaskForm {
			m.form[m.formFocus], cmd = m.form[m.formFocus].Update(msg)
		}
	}
	return m, cmd
}
