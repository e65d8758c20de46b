package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/editflowhq/editflow/internal/dateutil"
	"github.com/editflowhq/editflow/internal/schedule"
)

func (a *App) listCmd() *cobra.Command {
	var (
		editors []string
		shows   []string
		search  string
		month   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks, optionally filtered by editor, show, free-text search,
or calendar month.`,
		Example: `  editflow list
  editflow list --editor=James --editor=Eason
  editflow list --month=2024-02
  editflow list --search="EP5"`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			tasks, err := a.store.ListTasks(context.Background())
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			filter := schedule.Filter{Shows: shows, Editors: editors, Search: search}
			tasks = filter.Apply(tasks)

			if month != "" {
				ref, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("month must be in YYYY-MM format, got %q", month)
				}
				first, last := dateutil.MonthBounds(ref)
				var kept []*schedule.Task
				for _, t := range tasks {
					start := dateutil.TruncateToDay(t.StartDate)
					if !start.Before(first) && !start.After(last) {
						kept = append(kept, t)
					}
				}
				tasks = kept
			}

			if len(tasks) == 0 {
				fmt.Println("No tasks found.")
				return nil
			}

			now := time.Now()
			var currentDate string
			for _, t := range tasks {
				date := dateutil.Format(t.StartDate)
				if date != currentDate {
					if currentDate != "" {
						fmt.Println()
					}
					fmt.Printf("=== %s ===\n", formatHeader(date))
					currentDate = date
				}

				status := t.StatusAt(now)
				fmt.Printf("  %s %s %s %s %s %s\n",
					statusSymbol(status),
					formatMuted(shortID(t.ID)),
					t.Show,
					t.Episode,
					formatStatus(status, t.Editor),
					formatMuted(fmt.Sprintf("%s..%s", dateutil.Format(t.StartDate), dateutil.Format(t.EndDate))),
				)
			}

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&editors, "editor", nil, "Filter by editor name (repeatable)")
	cmd.Flags().StringArrayVar(&shows, "show", nil, "Filter by show name (repeatable)")
	cmd.Flags().StringVar(&search, "search", "", "Free-text search over show, episode, editor")
	cmd.Flags().StringVar(&month, "month", "", "Only tasks starting in this month (YYYY-MM)")

	return cmd
}

// shortID abbreviates a document id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
