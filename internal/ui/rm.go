package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/editflowhq/editflow/internal/schedule"
)

func (a *App) rmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm [task-id]",
		Short: "Delete a task",
		Long: `Delete a task by id. A unique id prefix is accepted, as printed by
"editflow list".`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			ctx := context.Background()
			t, err := a.findTask(ctx, args[0])
			if err != nil {
				return err
			}

			if err := a.store.DeleteTask(ctx, t.ID); err != nil {
				return fmt.Errorf("deleting task: %w", err)
			}

			fmt.Printf("Deleted %s %s (%s)\n", t.Show, t.Episode, t.Editor)
			return nil
		},
	}

	return cmd
}

// findTask resolves an id or unique id prefix to a task.
func (a *App) findTask(ctx context.Context, idOrPrefix string) (*schedule.Task, error) {
	tasks, err := a.store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	var matches []*schedule.Task
	for _, t := range tasks {
		if t.ID == idOrPrefix {
			return t, nil
		}
		if strings.HasPrefix(t.ID, idOrPrefix) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return nil, schedule.ErrTaskNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("id prefix %q matches %d tasks", idOrPrefix, len(matches))
	}
}
