package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/editflowhq/editflow/internal/schedule"
)

func (a *App) statsCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show workload statistics",
		Long: `Show how many tasks each show and editor carries, all-time and for
the current month.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureStore(); err != nil {
				return err
			}

			tasks, err := a.store.ListTasks(context.Background())
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			now := time.Now()
			stats := schedule.Aggregate(tasks, now)

			fmt.Printf("\n  %s\n", formatHeader("EDITFLOW STATS"))
			fmt.Println(strings.Repeat("─", 50))
			fmt.Printf("  Total tasks:   %s\n", formatStats(fmt.Sprintf("%d", stats.TotalTasks)))
			fmt.Printf("  This month:    %s  (%s %d)\n",
				formatStats(fmt.Sprintf("%d", stats.MonthTasks)), stats.Month, stats.Year)
			fmt.Printf("  Editors:       %s\n", formatStats(fmt.Sprintf("%d", stats.Editors())))

			printBreakdown("BY EDITOR", stats.EditorCounts, stats.MonthEditorCounts)
			printBreakdown("BY SHOW", stats.ShowCounts, stats.MonthShowCounts)

			fmt.Println()
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func printBreakdown(title string, all, month []schedule.Count) {
	if len(all) == 0 {
		return
	}

	monthByName := make(map[string]int, len(month))
	for _, c := range month {
		monthByName[c.Name] = c.Tasks
	}

	fmt.Printf("\n  %s\n", formatHeader(title))
	max := schedule.Max(all)
	for _, c := range all {
		bar := strings.Repeat("█", scaleBar(c.Tasks, max, 24))
		fmt.Printf("  %-22s %s %d", truncate(c.Name, 22), formatStats(bar), c.Tasks)
		if m := monthByName[c.Name]; m > 0 {
			fmt.Printf(" %s", formatMuted(fmt.Sprintf("(%d this month)", m)))
		}
		fmt.Println()
	}
}

func scaleBar(n, max, width int) int {
	if n <= 0 {
		return 0
	}
	w := n * width / max
	if w < 1 {
		w = 1
	}
	return w
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
