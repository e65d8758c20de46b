package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/editflowhq/editflow/internal/schedule"
)

// Color definitions for consistent styling across the CLI.
var (
	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for positive metrics
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	// Status colors follow the calendar legend.
	colorPending    = color.New(color.FgWhite, color.Faint)
	colorInProgress = color.New(color.FgCyan, color.Bold)
	colorInReview   = color.New(color.FgYellow)
	colorDelivered  = color.New(color.FgGreen)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// formatStatus colors text by task status.
func formatStatus(status schedule.Status, s string) string {
	switch status {
	case schedule.StatusPending:
		return colorPending.Sprint(s)
	case schedule.StatusInProgress:
		return colorInProgress.Sprint(s)
	case schedule.StatusInReview:
		return colorInReview.Sprint(s)
	case schedule.StatusDelivered:
		return colorDelivered.Sprint(s)
	default:
		return s
	}
}

// statusSymbol is the one-rune legend used in list output.
func statusSymbol(s schedule.Status) string {
	switch s {
	case schedule.StatusPending:
		return "○"
	case schedule.StatusInProgress:
		return "◐"
	case schedule.StatusInReview:
		return "◑"
	case schedule.StatusDelivered:
		return "●"
	default:
		return "?"
	}
}
