// Package schedule defines the core domain types for editflow.
package schedule

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/editflowhq/editflow/internal/dateutil"
)

// Validation errors.
var (
	ErrEmptyShow   = errors.New("show cannot be empty")
	ErrEmptyEditor = errors.New("editor cannot be empty")
	ErrTaskNotFound = errors.New("task not found")
)

// Status is the lifecycle state of a task, derived from its dates.
// It is never stored; it is recomputed from "today" on every read.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusInReview   Status = "in_review"
	StatusDelivered  Status = "delivered"
)

// Label returns the human-readable name for the status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusInReview:
		return "In Review"
	case StatusDelivered:
		return "Delivered"
	default:
		return string(s)
	}
}

// Task represents one scheduled edit job: an episode of a show assigned
// to an editor over an inclusive date range. Show and Editor are
// denormalized display names, not ids; renaming a Program or Editor
// requires a cascading rewrite of referencing tasks (see RenameCascade).
type Task struct {
	ID           string
	Show         string
	Episode      string
	Editor       string
	StartDate    time.Time
	EndDate      time.Time
	Notes        string
	LastEditedAt time.Time
	Version      int
}

// New creates a Task with validation. startDate and endDate are
// YYYY-MM-DD strings; an empty endDate defaults to startDate.
// A start after the end is tolerated downstream, not rejected here,
// because imported data contains such rows.
func New(show, episode, editor, startDate, endDate string) (*Task, error) {
	if strings.TrimSpace(show) == "" {
		return nil, ErrEmptyShow
	}
	if strings.TrimSpace(editor) == "" {
		return nil, ErrEmptyEditor
	}

	start, err := dateutil.ParseDate(startDate)
	if err != nil {
		return nil, err
	}

	end := start
	if endDate != "" {
		end, err = dateutil.ParseDate(endDate)
		if err != nil {
			return nil, err
		}
	}

	return &Task{
		ID:           uuid.New().String(),
		Show:         strings.TrimSpace(show),
		Episode:      strings.TrimSpace(episode),
		Editor:       strings.TrimSpace(editor),
		StartDate:    start,
		EndDate:      end,
		LastEditedAt: time.Now(),
		Version:      1,
	}, nil
}

// StatusAt derives the lifecycle status by comparing today to the task's
// date range: before start is pending, after end is delivered, the end
// day itself is in review, anything strictly inside is in progress.
func (t *Task) StatusAt(now time.Time) Status {
	today := dateutil.TruncateToDay(now)
	start := dateutil.TruncateToDay(t.StartDate)
	end := dateutil.TruncateToDay(t.EndDate)

	switch {
	case today.Before(start):
		return StatusPending
	case today.After(end):
		return StatusDelivered
	case today.Equal(end):
		return StatusInReview
	default:
		return StatusInProgress
	}
}

// Overlaps reports whether the two tasks' inclusive date ranges share at
// least one day.
func (t *Task) Overlaps(other *Task) bool {
	if other == nil {
		return false
	}
	return !t.StartDate.After(other.EndDate) && !t.EndDate.Before(other.StartDate)
}

// Days returns the number of calendar days the task spans, inclusive.
// A single-day task returns 1. Returns 0 for an inverted range.
func (t *Task) Days() int {
	start := dateutil.TruncateToDay(t.StartDate)
	end := dateutil.TruncateToDay(t.EndDate)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24+0.5) + 1
}

// Touch updates the bookkeeping fields before a save: bumps the version
// and stamps the edit time.
func (t *Task) Touch(now time.Time) {
	t.Version++
	t.LastEditedAt = now
}

// Filter restricts a task list by show names, editor names, and a
// free-text search over "show episode editor". Empty slices and empty
// search match everything.
type Filter struct {
	Shows   []string
	Editors []string
	Search  string
}

// Match reports whether the task passes the filter.
func (f Filter) Match(t *Task) bool {
	if len(f.Shows) > 0 && !containsFold(f.Shows, t.Show) {
		return false
	}
	if len(f.Editors) > 0 && !containsFold(f.Editors, t.Editor) {
		return false
	}
	if f.Search != "" {
		haystack := strings.ToLower(t.Show + " " + t.Episode + " " + t.Editor)
		if !strings.Contains(haystack, strings.ToLower(f.Search)) {
			return false
		}
	}
	return true
}

// Apply returns the tasks passing the filter, preserving input order.
func (f Filter) Apply(tasks []*Task) []*Task {
	if len(f.Shows) == 0 && len(f.Editors) == 0 && f.Search == "" {
		return tasks
	}
	var out []*Task
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
