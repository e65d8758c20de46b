// Package theme provides color themes for the TUI.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds all colors for a TUI theme. The four status colors map to
// the task lifecycle: pending, in progress, in review, delivered.
type Theme struct {
	Name        string
	Bg          string // Base background
	BgHighlight string // Day cells, subtle highlight
	BgSelection string // Cursor, selection
	Fg          string // Primary foreground
	FgMuted     string // Other-month days, muted elements
	Accent      string // Title, primary accent, borders
	Pending     string
	Progress    string
	Review      string
	Delivered   string
	Warning     string // Warnings, disconnected indicator

	// Modal palette (can override base theme values)
	BaseBg      string
	ModalBorder string
	TextPrimary string
	TextMuted   string
	Highlight   string
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// builtin holds the Catppuccin-flavored themes plus a plain light one.
var builtin = map[string]Theme{
	"mocha": {
		Name: "mocha",
		Bg:   "#1e1e2e", BgHighlight: "#313244", BgSelection: "#45475a",
		Fg: "#cdd6f4", FgMuted: "#6c7086", Accent: "#cba6f7",
		Pending: "#6c7086", Progress: "#89b4fa", Review: "#f9e2af",
		Delivered: "#a6e3a1", Warning: "#f38ba8",
	},
	"macchiato": {
		Name: "macchiato",
		Bg:   "#24273a", BgHighlight: "#363a4f", BgSelection: "#494d64",
		Fg: "#cad3f5", FgMuted: "#6e738d", Accent: "#c6a0f6",
		Pending: "#6e738d", Progress: "#8aadf4", Review: "#eed49f",
		Delivered: "#a6da95", Warning: "#ed8796",
	},
	"frappe": {
		Name: "frappe",
		Bg:   "#303446", BgHighlight: "#414559", BgSelection: "#51576d",
		Fg: "#c6d0f5", FgMuted: "#737994", Accent: "#ca9ee6",
		Pending: "#737994", Progress: "#8caaee", Review: "#e5c890",
		Delivered: "#a6d189", Warning: "#e78284",
	},
	"latte": {
		Name: "latte",
		Bg:   "#eff1f5", BgHighlight: "#e6e9ef", BgSelection: "#ccd0da",
		Fg: "#4c4f69", FgMuted: "#9ca0b0", Accent: "#8839ef",
		Pending: "#9ca0b0", Progress: "#1e66f5", Review: "#df8e1d",
		Delivered: "#40a02b", Warning: "#d20f39",
	},
	"light": {
		Name: "light",
		Bg:   "#fafafa", BgHighlight: "#eeeeee", BgSelection: "#d0d7de",
		Fg: "#24292f", FgMuted: "#8c959f", Accent: "#0969da",
		Pending: "#8c959f", Progress: "#0969da", Review: "#9a6700",
		Delivered: "#1a7f37", Warning: "#cf222e",
	},
}

// Load returns a theme by name, falling back to mocha when unknown.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(name)
	t, ok := builtin[name]
	if !ok {
		t = builtin["mocha"]
	}
	t.applyDefaults()
	return &t, nil
}

// ModalPalette provides the modal-specific colors derived from the theme.
type ModalPalette struct {
	BaseBg      string
	ModalBorder string
	TextPrimary string
	TextMuted   string
	Highlight   string
}

// Modal returns the modal palette, falling back to base theme colors when needed.
func (t *Theme) Modal() ModalPalette {
	return ModalPalette{
		BaseBg:      coalesce(t.BaseBg, t.BgHighlight, t.Bg),
		ModalBorder: coalesce(t.ModalBorder, t.Accent),
		TextPrimary: coalesce(t.TextPrimary, t.Fg),
		TextMuted:   coalesce(t.TextMuted, t.FgMuted),
		Highlight:   coalesce(t.Highlight, t.BgSelection, t.Accent),
	}
}

func (t *Theme) applyDefaults() {
	if t.BaseBg == "" {
		t.BaseBg = coalesce(t.BgHighlight, t.Bg)
	}
	if t.ModalBorder == "" {
		t.ModalBorder = t.Accent
	}
	if t.TextPrimary == "" {
		t.TextPrimary = t.Fg
	}
	if t.TextMuted == "" {
		t.TextMuted = t.FgMuted
	}
	if t.Highlight == "" {
		t.Highlight = coalesce(t.BgSelection, t.Accent)
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"mocha", "macchiato", "frappe", "latte", "light"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	name = strings.ToLower(name)
	for _, themeName := range Available() {
		if themeName == name {
			return true
		}
	}
	return false
}
