// Package dateutil provides date parsing, normalization, and calendar
// window utilities.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
)

// ISO is the canonical date layout used throughout editflow.
const ISO = "2006-01-02"

// ParseDate parses a date string in YYYY-MM-DD format.
// If the string is empty, returns today's date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return TruncateToDay(time.Now()), nil
	}
	t, err := time.Parse(ISO, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// Format renders t in the canonical YYYY-MM-DD form.
func Format(t time.Time) string {
	return t.Format(ISO)
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Normalize converts loosely formatted import dates to YYYY-MM-DD.
// It accepts "/", "." or "-" as separators, swaps a trailing 4-digit
// year into first position (e.g. "05/02/2024"), and zero-pads month and
// day. Empty input returns today. Input that does not split into three
// parts is returned as-is; callers decide whether to tolerate it.
func Normalize(raw string) string {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return Format(TruncateToDay(time.Now()))
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '/' || r == '.' || r == '-'
	})
	if len(parts) != 3 {
		return clean
	}

	y, m, d := parts[0], parts[1], parts[2]
	if len(y) <= 2 && len(d) == 4 {
		y, d = d, y
	}

	return fmt.Sprintf("%s-%s-%s", y, pad2(m), pad2(d))
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// Window is a closed, whole-week-aligned range of days, the visible
// extent of one rendered month.
type Window struct {
	Start time.Time // always a Monday
	End   time.Time // always a Sunday
}

// MonthWindow computes the visible window for the month containing t:
// the Monday on or before the 1st through the Sunday on or after the
// last day, so the month grid is rectangular.
func MonthWindow(t time.Time) Window {
	first, last := MonthBounds(t)
	return Window{
		Start: StartOfWeek(first),
		End:   StartOfWeek(last).AddDate(0, 0, 6),
	}
}

// MonthBounds returns the first and last day of the month containing t.
func MonthBounds(t time.Time) (first, last time.Time) {
	t = TruncateToDay(t)
	first = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last = first.AddDate(0, 1, -1)
	return first, last
}

// StartOfWeek returns the Monday of the ISO week containing t.
func StartOfWeek(t time.Time) time.Time {
	t = TruncateToDay(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday becomes day 7 in ISO week
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

// Days returns the ordered day sequence of the window.
func (w Window) Days() []time.Time {
	var days []time.Time
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether day falls inside the window.
func (w Window) Contains(day time.Time) bool {
	day = TruncateToDay(day)
	return !day.Before(w.Start) && !day.After(w.End)
}

// Weeks returns the number of whole week rows in the window.
func (w Window) Weeks() int {
	return len(w.Days()) / 7
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return TruncateToDay(a).Equal(TruncateToDay(b))
}
