// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/editflowhq/editflow/internal/schedule"
	"github.com/editflowhq/editflow/internal/store"
)

// SubscribedMsg is sent once the store subscription is established.
type SubscribedMsg struct {
	Sub *store.Subscription
}

// SnapshotMsg carries the full task collection after any change.
type SnapshotMsg struct {
	Tasks []*schedule.Task
}

// StoreErrMsg reports a subscription problem. The feed self-heals, so
// this flips the connection indicator rather than terminating the UI.
type StoreErrMsg struct {
	Err error
}

// SavedMsg is sent when a task write is accepted. The new state arrives
// separately through the subscription.
type SavedMsg struct{}

// DeletedMsg is sent when a task delete is accepted.
type DeletedMsg struct{}

// ErrMsg is sent when an operation fails.
type ErrMsg struct {
	Err error
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// Subscribe opens the live task feed.
func Subscribe(s store.Store) tea.Cmd {
	return func() tea.Msg {
		sub, err := s.Subscribe(context.Background())
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("subscribing to task store: %w", err)}
		}
		return SubscribedMsg{Sub: sub}
	}
}

// WaitForSnapshot blocks on the subscription until the next delivery.
// The caller re-issues it after every message to keep the feed drained.
func WaitForSnapshot(sub *store.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case tasks, ok := <-sub.Snapshots:
			if !ok {
				return StoreErrMsg{Err: store.ErrClosed}
			}
			return SnapshotMsg{Tasks: tasks}
		case err, ok := <-sub.Errs:
			if !ok {
				return StoreErrMsg{Err: store.ErrClosed}
			}
			return StoreErrMsg{Err: err}
		}
	}
}

// SaveTask writes one task. The working copy is not updated on success;
// the subscription redelivers the collection instead.
func SaveTask(s store.Store, t *schedule.Task) tea.Cmd {
	return func() tea.Msg {
		if err := s.SaveTask(context.Background(), t); err != nil {
			return ErrMsg{Err: err}
		}
		return SavedMsg{}
	}
}

// DeleteTask removes one task by id.
func DeleteTask(s store.Store, id string) tea.Cmd {
	return func() tea.Msg {
		if err := s.DeleteTask(context.Background(), id); err != nil {
			return ErrMsg{Err: err}
		}
		return DeletedMsg{}
	}
}

// ClearStatusAfter schedules a status-message wipe.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
