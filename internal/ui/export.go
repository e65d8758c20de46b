package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/editflowhq/editflow/internal/icsexport"
)

func (a *App) exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the schedule as an iCalendar file",
		Long: `Export every task as an all-day iCalendar event, suitable for
subscribing from Google Calendar or Outlook.

Example:
  editflow export --out=schedule.ics`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			tasks, err := a.store.ListTasks(context.Background())
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			payload, err := icsexport.Export(tasks, time.Now())
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Print(payload)
				return nil
			}

			if err := os.WriteFile(output, []byte(payload), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Printf("Exported %d tasks to %s\n", len(tasks), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "out", "", "Output file (default: stdout)")

	return cmd
}
