package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	keyword   = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Render
	paragraph = lipgloss.NewStyle().Width(78).Padding(0, 0, 0, 2).Render
	faint     = lipgloss.NewStyle().Foreground(lipgloss.Color("#767676")).Render
	errorText = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Render

	okMark   = keyword("✓")
	failMark = errorText("✗")
)

// setColorProfile applies the --color flag to every lipgloss style.
func setColorProfile(mode string) error {
	switch mode {
	case "", "auto":
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	default:
		return fmt.Errorf("invalid color mode %q: use auto, always or never", mode)
	}
	return nil
}
