package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Names accepted by Apply.
const (
	Default = "default"
	Plain   = "plain"
)

var (
	// HeaderStyle is used for the application title bar.
	HeaderStyle lipgloss.Style

	// StatusBarStyle is used for the bottom status bar.
	StatusBarStyle lipgloss.Style

	// DetailPanelStyle wraps overlay panels (help, command palette).
	DetailPanelStyle lipgloss.Style

	// ListItemStyle is the base style for items in a list.
	ListItemStyle lipgloss.Style

	// SelectedItemStyle highlights the currently focused list item.
	SelectedItemStyle lipgloss.Style

	// HelpStyle is used for keyboard shortcut hints and help text.
	HelpStyle lipgloss.Style

	// BorderStyle provides a standard rounded border for panels.
	BorderStyle lipgloss.Style

	// DimmedStyle renders secondary text such as snippets and timestamps.
	DimmedStyle lipgloss.Style

	// TitleStyle renders section titles inside a pane.
	TitleStyle lipgloss.Style

	// ErrorStyle renders inline error text.
	ErrorStyle lipgloss.Style

	// SuccessStyle renders confirmations and links.
	SuccessStyle lipgloss.Style

	// AccentStyle marks the sender and AI section labels.
	AccentStyle lipgloss.Style
)

func init() {
	applyDefault()
}

// Apply switches the palette. "plain" drops colors for terminals that
// render them poorly.
func Apply(name string) error {
	switch name {
	case "", Default:
		applyDefault()
	case Plain:
		applyPlain()
	default:
		return fmt.Errorf("unknown theme %q", name)
	}
	return nil
}

func applyDefault() {
	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorWhite).
		Background(ColorBlue).
		Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorWhite).
		Background(ColorSubtle).
		Padding(0, 1)

	DetailPanelStyle = lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	ListItemStyle = lipgloss.NewStyle().
		PaddingLeft(2)

	SelectedItemStyle = lipgloss.NewStyle().
		PaddingLeft(1).
		Bold(true).
		Foreground(ColorBlue).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(ColorBlue)

	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	DimmedStyle = lipgloss.NewStyle().Foreground(ColorGray)
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite)
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	AccentStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorMagenta)
}

func applyPlain() {
	HeaderStyle = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	StatusBarStyle = lipgloss.NewStyle().Reverse(true).Padding(0, 1)
	DetailPanelStyle = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.NormalBorder())
	ListItemStyle = lipgloss.NewStyle().PaddingLeft(2)
	SelectedItemStyle = lipgloss.NewStyle().
		PaddingLeft(1).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, false, true)
	HelpStyle = lipgloss.NewStyle().Italic(true)
	BorderStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder())
	DimmedStyle = lipgloss.NewStyle().Faint(true)
	TitleStyle = lipgloss.NewStyle().Bold(true)
	ErrorStyle = lipgloss.NewStyle().Bold(true)
	SuccessStyle = lipgloss.NewStyle()
	AccentStyle = lipgloss.NewStyle().Bold(true)
}

// NotificationStyle returns the banner style for a notification kind.
func NotificationStyle(kind string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch kind {
	case "success":
		return base.Inherit(SuccessStyle)
	case "error":
		return base.Inherit(ErrorStyle)
	default:
		return base.Inherit(DimmedStyle)
	}
}
