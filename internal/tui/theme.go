package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds,
// so every color is an AdaptiveColor pair.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted    lipgloss.TerminalColor = ac("240", "243")
	colorAccent   lipgloss.TerminalColor = ac("27", "62") // blue
	colorToday    lipgloss.TerminalColor = ac("28", "40") // green
	colorDanger   lipgloss.TerminalColor = ac("124", "203")
	colorSelBg    lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelFg    lipgloss.TerminalColor = ac("235", "255")
	colorOutMonth lipgloss.TerminalColor = ac("250", "238")
)

var (
	styleHeader    = lipgloss.NewStyle().Bold(true)
	styleFooter    = lipgloss.NewStyle().Foreground(colorMuted)
	styleNotice    = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	styleToday     = lipgloss.NewStyle().Foreground(colorToday).Bold(true)
	styleOutMonth  = lipgloss.NewStyle().Foreground(colorOutMonth)
	styleSelected  = lipgloss.NewStyle().Background(colorSelBg).Foreground(colorSelFg).Bold(true)
	styleDot       = lipgloss.NewStyle().Foreground(colorAccent)
	styleCompleted = lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true)
	stylePastDue   = lipgloss.NewStyle().Foreground(colorDanger)
	stylePaneTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
)

// applyColorProfilePreference sets Lip Gloss's color profile for the
// interactive TUI. We only honor NO_COLOR here; CLICOLOR handling belongs to
// the non-interactive CLI output, not the full-screen program.
func hasDarkBackground() bool {
	return lipgloss.HasDarkBackground()
}

func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	}
	lipgloss.SetColorProfile(profile)
}
