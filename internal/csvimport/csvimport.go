// Package csvimport parses the team's bulk schedule format: plain-text
// rows of "show, episode, editor, startDate[, endDate]". The format is
// forgiving — quoted fields may contain commas, header rows are
// skipped, and malformed rows are dropped with a warning instead of
// failing the import.
package csvimport

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/editflowhq/editflow/internal/dateutil"
	"github.com/editflowhq/editflow/internal/schedule"
)

// ErrNoRows means no line parsed into a usable task; only then is the
// whole import a failure.
var ErrNoRows = errors.New("no valid rows found in import data")

// DefaultShow fills the show column when a row leaves it blank.
const DefaultShow = "Uncategorized"

// headerTokens mark a line as a column-header row. Matching is
// case-sensitive, so a show named "Morning Show" is not mistaken for a
// header.
var headerTokens = []string{"節目", "show", "Start Date"}

// Parse converts import text into tasks. Dates are normalized to
// YYYY-MM-DD; a missing end date defaults to the start date. Rows with
// fewer than four fields are skipped and reported in warnings.
func Parse(text string, now time.Time) ([]*schedule.Task, []string, error) {
	var (
		tasks    []*schedule.Task
		warnings []string
	)

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if isHeader(line) {
			continue
		}

		cols := splitFields(line)
		if len(cols) < 4 {
			warnings = append(warnings, fmt.Sprintf("line %d: expected at least 4 columns, got %d", i+1, len(cols)))
			continue
		}

		show := cols[0]
		if show == "" {
			show = DefaultShow
		}

		start := dateutil.Normalize(cols[3])
		end := start
		if len(cols) > 4 && cols[4] != "" {
			end = dateutil.Normalize(cols[4])
		}

		startDate, err := dateutil.ParseDate(start)
		if err != nil {
			// Best-effort fallback: an unrecognizable date becomes today
			// rather than losing the row.
			warnings = append(warnings, fmt.Sprintf("line %d: unrecognized date %q, using today", i+1, cols[3]))
			startDate = dateutil.TruncateToDay(now)
		}
		endDate, err := dateutil.ParseDate(end)
		if err != nil {
			endDate = startDate
		}

		tasks = append(tasks, &schedule.Task{
			ID:           uuid.New().String(),
			Show:         show,
			Episode:      cols[1],
			Editor:       cols[2],
			StartDate:    startDate,
			EndDate:      endDate,
			LastEditedAt: now,
			Version:      1,
		})
	}

	if len(tasks) == 0 {
		return nil, warnings, ErrNoRows
	}
	return tasks, warnings, nil
}

func isHeader(line string) bool {
	for _, token := range headerTokens {
		if strings.Contains(line, token) {
			return true
		}
	}
	return false
}

// splitFields splits a comma-separated line, honoring double quotes so
// a quoted field keeps its literal commas. Quotes are stripped and each
// field is trimmed. Empty unquoted runs between commas are dropped,
// matching the lenient splitter the web client used.
func splitFields(line string) []string {
	var (
		fields  []string
		current strings.Builder
		quoted  bool
		hasAny  bool
	)

	flush := func() {
		field := strings.TrimSpace(current.String())
		current.Reset()
		if field != "" || hasAny {
			fields = append(fields, field)
		}
		hasAny = false
	}

	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			hasAny = true
		case r == ',' && !quoted:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return fields
}
