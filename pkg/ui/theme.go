package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Theme holds the colors the views draw with
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor

	// MarkdownStyle is the glamour standard style for note content
	MarkdownStyle string
}

// DefaultTheme returns the light/dark adaptive theme for r
func DefaultTheme(r *lipgloss.Renderer) Theme {
	style := "light"
	if r.HasDarkBackground() {
		style = "dark"
	}
	return Theme{
		Renderer:      r,
		Primary:       lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"},
		Secondary:     lipgloss.AdaptiveColor{Light: "#4b5563", Dark: "#9ca3af"},
		Highlight:     lipgloss.AdaptiveColor{Light: "#dbeafe", Dark: "#1e3a8a"},
		Muted:         lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#6b7280"},
		Error:         lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"},
		MarkdownStyle: style,
	}
}

// truncate shortens s to width display cells, ending with tail when cut
func truncate(s string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, tail)
}
