package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/editflowhq/editflow/internal/csvimport"
	"github.com/editflowhq/editflow/internal/store"
)

func (a *App) importCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Bulk-import tasks from a CSV file",
		Long: `Import tasks from a comma-separated file with columns
show, episode, editor, startDate[, endDate].

Quoted fields may contain commas. Header rows are skipped; malformed
rows are reported and skipped. Dates accept /, . or - separators.

Example:
  editflow import february.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading import file: %w", err)
			}

			tasks, warnings, err := csvimport.Parse(string(data), time.Now())
			for _, w := range warnings {
				fmt.Fprintf(os.Stderr, "warning: %s\n", w)
			}
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Printf("Would import %d tasks (%d rows skipped)\n", len(tasks), len(warnings))
				return nil
			}

			writes := make([]store.Write, 0, len(tasks))
			for _, t := range tasks {
				writes = append(writes, store.Upsert(t))
			}
			if err := a.store.BatchWrite(context.Background(), writes); err != nil {
				return fmt.Errorf("writing imported tasks: %w", err)
			}

			fmt.Printf("Imported %d tasks (%d rows skipped)\n", len(tasks), len(warnings))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and report without writing")

	return cmd
}
