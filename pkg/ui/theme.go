package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme holds the pre-computed styles of the article TUI.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary lipgloss.AdaptiveColor
	Subtext lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor
	Hit     lipgloss.AdaptiveColor

	Header     lipgloss.Style
	Tab        lipgloss.Style
	ActiveTab  lipgloss.Style
	Caption    lipgloss.Style
	MutedText  lipgloss.Style
	StatText   lipgloss.Style
	Selected   lipgloss.Style
	HitRow     lipgloss.Style
	Status     lipgloss.Style
	ErrorText  lipgloss.Style
	ChapterOn  lipgloss.Style
	ChapterOff lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary: lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Subtext: lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},
		Muted:   lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Hit:     lipgloss.AdaptiveColor{Light: "#FFF1C9", Dark: "#4A3F1A"},
	}

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Tab = r.NewStyle().Foreground(t.Subtext).Padding(0, 1)
	t.ActiveTab = r.NewStyle().
		Foreground(t.Primary).
		Bold(true).
		Underline(true).
		Padding(0, 1)

	t.Caption = r.NewStyle().Foreground(t.Subtext).Italic(true)
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.StatText = r.NewStyle().Foreground(ColorInfo).Bold(true)
	t.Selected = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.HitRow = r.NewStyle().Background(t.Hit).Bold(true)
	t.Status = r.NewStyle().Foreground(t.Muted)
	t.ErrorText = r.NewStyle().Foreground(ColorDanger)

	t.ChapterOn = r.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1)
	t.ChapterOff = r.NewStyle().
		Border(lipgloss.HiddenBorder(), false, false, false, true).
		PaddingLeft(1)

	return t
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
