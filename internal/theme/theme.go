// Package theme provides color palettes for the TUI.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines all colors used in the application UI.
type Theme struct {
	Accent    lipgloss.Color // selection bar
	AccentFg  lipgloss.Color // text on the selection bar
	Border    lipgloss.Color
	MutedFg   lipgloss.Color
	TextFg    lipgloss.Color
	HeaderFg  lipgloss.Color // category section titles
	IndexFg   lipgloss.Color // staged entries
	WorkFg    lipgloss.Color // workspace entries
	NewFg     lipgloss.Color // untracked entries
	VisualBg  lipgloss.Color // visual-mark highlight background
	VisualFg  lipgloss.Color
	ErrorFg   lipgloss.Color
	SuccessFg lipgloss.Color
}

// Theme names.
const (
	DraculaName    = "dracula"
	CleanLightName = "clean-light"
)

// Dracula returns the default dark theme.
func Dracula() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#BD93F9"),
		AccentFg:  lipgloss.Color("#282A36"),
		Border:    lipgloss.Color("#6272A4"),
		MutedFg:   lipgloss.Color("#6272A4"),
		TextFg:    lipgloss.Color("#F8F8F2"),
		HeaderFg:  lipgloss.Color("#8BE9FD"),
		IndexFg:   lipgloss.Color("#50FA7B"),
		WorkFg:    lipgloss.Color("#F1FA8C"),
		NewFg:     lipgloss.Color("#FF5555"),
		VisualBg:  lipgloss.Color("#44475A"),
		VisualFg:  lipgloss.Color("#8BE9FD"),
		ErrorFg:   lipgloss.Color("#FF5555"),
		SuccessFg: lipgloss.Color("#50FA7B"),
	}
}

// CleanLight returns a light theme for bright terminals.
func CleanLight() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#6C71C4"),
		AccentFg:  lipgloss.Color("#FDF6E3"),
		Border:    lipgloss.Color("#93A1A1"),
		MutedFg:   lipgloss.Color("#93A1A1"),
		TextFg:    lipgloss.Color("#073642"),
		HeaderFg:  lipgloss.Color("#268BD2"),
		IndexFg:   lipgloss.Color("#859900"),
		WorkFg:    lipgloss.Color("#B58900"),
		NewFg:     lipgloss.Color("#DC322F"),
		VisualBg:  lipgloss.Color("#EEE8D5"),
		VisualFg:  lipgloss.Color("#268BD2"),
		ErrorFg:   lipgloss.Color("#DC322F"),
		SuccessFg: lipgloss.Color("#859900"),
	}
}

// ByName returns the theme for a normalized name, defaulting to Dracula.
func ByName(name string) *Theme {
	switch NormalizeThemeName(name) {
	case CleanLightName:
		return CleanLight()
	default:
		return Dracula()
	}
}

// AvailableThemes lists the theme names accepted by NormalizeThemeName.
func AvailableThemes() []string {
	return []string{DraculaName, CleanLightName}
}

// NormalizeThemeName maps user input to a canonical theme name, returning
// "" for unknown names.
func NormalizeThemeName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case DraculaName, "dark", "":
		return DraculaName
	case CleanLightName, "light":
		return CleanLightName
	}
	return ""
}
