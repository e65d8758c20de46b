package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/editflowhq/editflow/internal/dateutil"
	"github.com/editflowhq/editflow/internal/schedule"
)

func (a *App) addCmd() *cobra.Command {
	var (
		editor string
		start  string
		end    string
		notes  string
	)

	cmd := &cobra.Command{
		Use:   "add [show] [episode]",
		Short: "Add a new task",
		Long: `Add a scheduled edit job: an episode of a show assigned to an editor
over an inclusive date range.

Example:
  editflow add "DC Insiders" EP12 --editor=James --start=2024-02-05 --end=2024-02-08`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			t, err := schedule.New(args[0], args[1], editor, start, end)
			if err != nil {
				return err
			}
			t.Notes = notes

			if err := a.store.SaveTask(context.Background(), t); err != nil {
				return fmt.Errorf("creating task: %w", err)
			}

			fmt.Printf("Created %s %s (%s) %s to %s\n",
				t.Show,
				t.Episode,
				t.Editor,
				dateutil.Format(t.StartDate),
				dateutil.Format(t.EndDate),
			)

			return nil
		},
	}

	cmd.Flags().StringVar(&editor, "editor", "", "Assigned editor (required)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD, default: start date)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")

	_ = cmd.MarkFlagRequired("editor")

	return cmd
}
