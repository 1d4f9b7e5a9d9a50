package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Adaptive colors for light and dark terminals.
var (
	ColorInfo   = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorDanger = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
)

// RenderSwatch returns a colored block for a legend entry; inactive entries
// are drawn hollow.
func RenderSwatch(r *lipgloss.Renderer, hex string, active bool) string {
	glyph := "■"
	if !active {
		glyph = "□"
	}
	return r.NewStyle().Foreground(ThemeFg(hex)).Render(glyph)
}
