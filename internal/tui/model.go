package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/editflowhq/editflow/internal/config"
	"github.com/editflowhq/editflow/internal/dateutil"
	"github.com/editflowhq/editflow/internal/layout"
	"github.com/editflowhq/editflow/internal/roster"
	"github.com/editflowhq/editflow/internal/schedule"
	"github.com/editflowhq/editflow/internal/store"
	"github.com/editflowhq/editflow/internal/tui/commands"
	"github.com/editflowhq/editflow/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt      // Filter prompt at the bottom
	ModeModal
)

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalTaskForm
	ModalTaskDetail
	ModalConfirmDelete
)

// ViewKind selects which of the three screens is showing.
type ViewKind int

const (
	ViewCalendar ViewKind = iota
	ViewTimeline
	ViewStats
)

// Form field order for the task modal.
const (
	fieldShow = iota
	fieldEpisode
	fieldEditor
	fieldStart
	fieldEnd
	fieldNotes
	fieldCount
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	store  store.Store
	local  *roster.Local
	config *config.Config

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Live feed
	sub       *store.Subscription
	connected bool

	// State
	month   time.Time // first day of the focused month
	cursor  time.Time // selected day
	mode    Mode
	view    ViewKind
	groupBy layout.SortKey
	filter  schedule.Filter

	// Snapshot and its layout projection. The grid is recomputed lazily
	// whenever tasks, month, groupBy, or filter change.
	tasks     []*schedule.Task
	grid      layout.Grid
	gridDirty bool

	// Modal state
	modalType      ModalType
	modalTask      *schedule.Task // task being viewed/edited, nil for new
	form           [fieldCount]textinput.Model
	formFocus      int
	confirmMessage string

	// Components
	prompt textinput.Model

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string
	statusTime time.Time

	// Clock, swappable in tests
	nowFunc func() time.Time
}

// New creates a new TUI model.
func New(s store.Store, local *roster.Local, cfg *config.Config) *Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	prompt := textinput.New()
	prompt.Placeholder = "filter..."
	prompt.CharLimit = 64

	groupBy := layout.SortByEditor
	if cfg.UI.DefaultView == "show" {
		groupBy = layout.SortByShow
	}

	now := time.Now()
	m := &Model{
		store:     s,
		local:     local,
		config:    cfg,
		theme:     t,
		styles:    styles,
		month:     startOfMonth(now),
		cursor:    dateutil.TruncateToDay(now),
		mode:      ModeNormal,
		view:      ViewCalendar,
		groupBy:   groupBy,
		gridDirty: true,
		prompt:    prompt,
		nowFunc:   time.Now,
	}

	placeholders := [fieldCount]string{
		"Show name", "EP12", "Editor", "YYYY-MM-DD", "YYYY-MM-DD", "Notes",
	}
	for i := range m.form {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 128
		ti.Width = 38
		ti.PlaceholderStyle = styles.ModalPlaceholderStyle
		ti.TextStyle = styles.ModalInputTextStyle
		ti.PromptStyle = styles.ModalInputTextStyle
		ti.Cursor.Style = styles.ModalInputCursorStyle
		ti.Cursor.TextStyle = styles.ModalInputTextStyle
		m.form[i] = ti
	}

	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return commands.Subscribe(m.store)
}

// window returns the visible month window.
func (m Model) window() dateutil.Window {
	return dateutil.MonthWindow(m.month)
}

// visibleTasks applies the active filter to the latest snapshot.
func (m Model) visibleTasks() []*schedule.Task {
	return m.filter.Apply(m.tasks)
}

// ensureGrid recomputes the layout projection when stale. Lane warnings
// are dropped here; the affected tasks simply do not render.
func (m *Model) ensureGrid() {
	if !m.gridDirty {
		return
	}
	window := m.window()
	tasks := m.visibleTasks()
	assignment, _ := layout.AssignLanes(tasks, window, m.groupBy)
	m.grid = layout.Project(tasks, assignment, window, m.nowFunc())
	m.gridDirty = false
}

// taskAtCursor returns the topmost task occupying the selected day.
func (m *Model) taskAtCursor() *schedule.Task {
	m.ensureGrid()
	for _, d := range m.grid.Days {
		if dateutil.SameDay(d.Date, m.cursor) {
			for _, t := range d.Lanes {
				if t != nil {
					return t
				}
			}
			return nil
		}
	}
	return nil
}

func startOfMonth(t time.Time) time.Time {
	first, _ := dateutil.MonthBounds(t)
	return first
}

// Run starts the TUI.
func Run(s store.Store, local *roster.Local, cfg *config.Config) error {
	return RunWithDebug(s, local, cfg, false)
}

// RunWithDebug starts the TUI with optional debug logging.
func RunWithDebug(s store.Store, local *roster.Local, cfg *config.Config, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	model := New(s, local, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if m, ok := finalModel.(Model); ok && m.sub != nil {
		m.sub.Cancel()
	}
	return err
}
