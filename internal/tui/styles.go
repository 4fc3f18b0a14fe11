package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/janekbaraniewski/tokencost/internal/core"
)

// ─── Color Palette (Catppuccin Mocha) ───────────────────────────────────────

var (
	colorMantle   = lipgloss.Color("#181825") // deeper bg
	colorSurface0 = lipgloss.Color("#313244") // card bg
	colorSurface1 = lipgloss.Color("#45475A") // lighter surface
	colorText     = lipgloss.Color("#CDD6F4") // primary text
	colorSubtext  = lipgloss.Color("#A6ADC8") // secondary text
	colorDim      = lipgloss.Color("#585B70") // muted, borders

	colorAccent   = lipgloss.Color("#CBA6F7") // mauve – primary accent
	colorBlue     = lipgloss.Color("#89B4FA") // section headers
	colorSapphire = lipgloss.Color("#74C7EC") // keys
	colorGreen    = lipgloss.Color("#A6E3A1") // cost
	colorYellow   = lipgloss.Color("#F9E2AF") // unpriced
	colorRed      = lipgloss.Color("#F38BA8") // error
	colorPeach    = lipgloss.Color("#FAB387") // claude
	colorTeal     = lipgloss.Color("#94E2D5") // codex
	colorLavender = lipgloss.Color("#B4BEFE") // titles
)

// ─── Reusable Styles ────────────────────────────────────────────────────────

var (
	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent)

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorSapphire).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	costStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	unpricedStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	barTrackStyle = lipgloss.NewStyle().
			Foreground(colorSurface1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	cardSelectedStyle = cardStyle.
				BorderForeground(colorAccent)

	screenTabActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorMantle).
				Background(colorAccent).
				Padding(0, 1)

	screenTabInactiveStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				Background(colorSurface0).
				Padding(0, 1)

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorLavender)
)

var sourceColorMap = map[core.Source]lipgloss.Color{
	core.SourceCodex:      colorTeal,
	core.SourceClaudeCode: colorPeach,
}

// SourceColor returns the accent used for a source's name and bars.
func SourceColor(src core.Source) lipgloss.Color {
	if c, ok := sourceColorMap[src]; ok {
		return c
	}
	return colorBlue
}

var sourceLabels = map[core.Source]string{
	core.SourceCodex:      "Codex",
	core.SourceClaudeCode: "Claude Code",
}

// SourceLabel is the short display name for src.
func SourceLabel(src core.Source) string {
	if l, ok := sourceLabels[src]; ok {
		return l
	}
	return string(src)
}
