package schedule

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Roster errors.
var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrDuplicateName   = errors.New("name already in use")
	ErrEditorNotFound  = errors.New("editor not found")
	ErrProgramNotFound = errors.New("program not found")
)

// Priority of a program's schedule.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Valid returns true if the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Program is a show in the catalog. Name is the display key that tasks
// reference through Task.Show.
type Program struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Priority    Priority `json:"priority"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Free-text schedule hints, not validated as dates.
	ProductionDate string `json:"productionDate,omitempty"`
	DeliveryDate   string `json:"deliveryDate,omitempty"`
	PremiereDate   string `json:"premiereDate,omitempty"`
}

// NewProgram creates a Program with a generated id.
func NewProgram(name string) (*Program, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Program{
		ID:        uuid.New().String(),
		Name:      name,
		Priority:  PriorityMedium,
		Duration:  "24:00",
		UpdatedAt: time.Now(),
	}, nil
}

// Editor is a team member. Name is the display key that tasks reference
// through Task.Editor; Color is the visual identity in calendar views.
type Editor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Color     string    `json:"color"`
	Notes     string    `json:"notes"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewEditor creates an Editor with a generated id.
func NewEditor(name, role, color string) (*Editor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if color == "" {
		color = FallbackColor
	}
	return &Editor{
		ID:        uuid.New().String(),
		Name:      name,
		Role:      role,
		Color:     color,
		UpdatedAt: time.Now(),
	}, nil
}

// FallbackColor is used for tasks whose editor is not in the roster,
// such as soft-orphaned tasks after an editor is deleted.
const FallbackColor = "#cbd5e1"

// RenameCascade returns copies of every task whose field selected by
// byShow (Show when true, Editor otherwise) equals oldName, rewritten to
// newName. The returned tasks carry bumped versions so the rewrite is a
// normal save. Tasks referencing other names are not touched.
func RenameCascade(tasks []*Task, oldName, newName string, byShow bool, now time.Time) []*Task {
	var changed []*Task
	for _, t := range tasks {
		field := t.Editor
		if byShow {
			field = t.Show
		}
		if field != oldName {
			continue
		}
		c := *t
		if byShow {
			c.Show = newName
		} else {
			c.Editor = newName
		}
		c.Touch(now)
		changed = append(changed, &c)
	}
	return changed
}
