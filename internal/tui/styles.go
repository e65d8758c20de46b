// Package tui provides the terminal user interface for editflow.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/editflowhq/editflow/internal/schedule"
	"github.com/editflowhq/editflow/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	theme *theme.Theme

	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorWarning     lipgloss.Color

	// Title and header
	TitleStyle          lipgloss.Style
	DayHeaderStyle      lipgloss.Style
	DayHeaderTodayStyle lipgloss.Style

	// Day number cells
	DayNumStyle       lipgloss.Style
	DayNumOtherStyle  lipgloss.Style // days outside the focused month
	DayNumTodayStyle  lipgloss.Style
	DayNumCursorStyle lipgloss.Style

	// Connection indicator
	ConnectedStyle    lipgloss.Style
	DisconnectedStyle lipgloss.Style

	// Empty lane filler
	EmptyLaneStyle lipgloss.Style

	// Status colors by lifecycle state (timeline and stats views)
	StatusPendingStyle   lipgloss.Style
	StatusProgressStyle  lipgloss.Style
	StatusReviewStyle    lipgloss.Style
	StatusDeliveredStyle lipgloss.Style

	// Prompt box
	PromptStyle        lipgloss.Style
	PromptFocusedStyle lipgloss.Style

	// Status message and help
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style

	// Modal styles
	ModalStyle             lipgloss.Style
	ModalTitleStyle        lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalMetaStyle         lipgloss.Style
	ModalLabelStyle        lipgloss.Style
	ModalHintStyle         lipgloss.Style
	ModalInputTextStyle    lipgloss.Style
	ModalInputCursorStyle  lipgloss.Style
	ModalPlaceholderStyle  lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style

	// App container
	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{theme: t}

	s.colorBg = theme.Color(t.Bg)
	s.colorBgHighlight = theme.Color(t.BgHighlight)
	s.colorBgSelection = theme.Color(t.BgSelection)
	s.colorFg = theme.Color(t.Fg)
	s.colorFgMuted = theme.Color(t.FgMuted)
	s.colorAccent = theme.Color(t.Accent)
	s.colorWarning = theme.Color(t.Warning)

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.DayHeaderTodayStyle = s.DayHeaderStyle.
		Foreground(s.colorAccent)

	s.DayNumStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)

	s.DayNumOtherStyle = s.DayNumStyle.
		Foreground(s.colorFgMuted)

	s.DayNumTodayStyle = s.DayNumStyle.
		Foreground(s.colorAccent).
		Bold(true)

	s.DayNumCursorStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBgSelection).
		Bold(true)

	s.ConnectedStyle = lipgloss.NewStyle().
		Foreground(theme.Color(t.Delivered)).
		Background(s.colorBg)

	s.DisconnectedStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(s.colorBg).
		Bold(true)

	s.EmptyLaneStyle = lipgloss.NewStyle().
		Background(s.colorBg)

	s.StatusPendingStyle = lipgloss.NewStyle().
		Foreground(theme.Color(t.Pending)).
		Background(s.colorBg)
	s.StatusProgressStyle = lipgloss.NewStyle().
		Foreground(theme.Color(t.Progress)).
		Background(s.colorBg)
	s.StatusReviewStyle = lipgloss.NewStyle().
		Foreground(theme.Color(t.Review)).
		Background(s.colorBg)
	s.StatusDeliveredStyle = lipgloss.NewStyle().
		Foreground(theme.Color(t.Delivered)).
		Background(s.colorBg)

	s.PromptStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorFgMuted).
		Background(s.colorBgHighlight).
		Foreground(s.colorFg).
		Padding(0, 1)

	s.PromptFocusedStyle = s.PromptStyle.
		BorderForeground(s.colorAccent).
		Background(s.colorBgSelection).
		Bold(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(s.colorBg).
		Bold(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	modal := t.Modal()
	modalBg := theme.Color(modal.BaseBg)
	modalBorder := theme.Color(modal.ModalBorder)
	modalText := theme.Color(modal.TextPrimary)
	modalMuted := theme.Color(modal.TextMuted)
	modalHighlight := theme.Color(modal.Highlight)

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modalBorder).
		Background(modalBg).
		Foreground(modalText).
		Padding(1, 2).
		Width(58)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modalText).
		Background(modalBg)

	s.ModalBodyStyle = lipgloss.NewStyle().
		Foreground(modalText).
		Background(modalBg)

	s.ModalMetaStyle = lipgloss.NewStyle().
		Foreground(modalMuted).
		Background(modalBg)

	s.ModalLabelStyle = lipgloss.NewStyle().
		Foreground(modalText).
		Bold(true).
		Width(9).
		Background(modalBg)

	s.ModalHintStyle = lipgloss.NewStyle().
		Foreground(modalMuted).
		Background(modalBg)

	s.ModalInputTextStyle = lipgloss.NewStyle().
		Foreground(modalText).
		Background(modalBg)

	s.ModalInputCursorStyle = lipgloss.NewStyle().
		Foreground(modalBg).
		Background(modalHighlight)

	s.ModalPlaceholderStyle = lipgloss.NewStyle().
		Foreground(modalMuted).
		Background(modalBg)

	s.ModalButtonStyle = lipgloss.NewStyle().
		Background(modalBg).
		Foreground(modalMuted).
		Padding(0, 3)

	s.ModalButtonActiveStyle = lipgloss.NewStyle().
		Background(modalHighlight).
		Foreground(modalBg).
		Padding(0, 3).
		Underline(true)

	s.AppStyle = lipgloss.NewStyle().
		Background(s.colorBg).
		PaddingTop(1).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingBottom(1)

	return s
}

// BarStyle builds the style for one task bar segment. The background is
// derived from the editor's roster color; delivered tasks get the
// heavier-muted shade so past work visibly recedes.
func (s *Styles) BarStyle(editorColor string, status schedule.Status) lipgloss.Style {
	bg := theme.BarBg(editorColor, s.theme.Bg)
	if status == schedule.StatusDelivered {
		bg = theme.BarBgMuted(editorColor, s.theme.Bg)
	}
	fg := theme.TextOn(bg, s.theme.Fg, s.theme.Bg)

	st := lipgloss.NewStyle().
		Background(theme.Color(bg)).
		Foreground(theme.Color(fg))
	if status == schedule.StatusInProgress || status == schedule.StatusInReview {
		st = st.Bold(true)
	}
	return st
}

// StatusStyleFor maps a lifecycle status to its foreground style.
func (s *Styles) StatusStyleFor(status schedule.Status) lipgloss.Style {
	switch status {
	case schedule.StatusInProgress:
		return s.StatusProgressStyle
	case schedule.StatusInReview:
		return s.StatusReviewStyle
	case schedule.StatusDelivered:
		return s.StatusDeliveredStyle
	default:
		return s.StatusPendingStyle
	}
}
