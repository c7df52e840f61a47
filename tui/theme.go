package tui

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Palette (slate / indigo, matching the web app shell)
// ---------------------------------------------------------------------------

const (
	colorIndigo lipgloss.Color = "#818cf8"
	colorText   lipgloss.Color = "#e2e8f0"
	colorMuted  lipgloss.Color = "#64748b"
	colorBorder lipgloss.Color = "#334155"
	colorGreen  lipgloss.Color = "#4ade80"
	colorRose   lipgloss.Color = "#fb7185"
	colorAmber  lipgloss.Color = "#fbbf24"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorIndigo)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(22)

	focusedColumnStyle = columnStyle.BorderForeground(colorIndigo)

	entryStyle    = lipgloss.NewStyle().Foreground(colorText)
	selectedStyle = lipgloss.NewStyle().Foreground(colorIndigo).Bold(true)
	emptyStyle    = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	totalStyle    = lipgloss.NewStyle().Foreground(colorText).Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	labelStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	positiveStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	adjustStyle   = lipgloss.NewStyle().Foreground(colorAmber).Bold(true)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorIndigo).
			Padding(0, 2).
			Width(30)

	displayStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true).Align(lipgloss.Right).Width(26)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRose).Bold(true).Align(lipgloss.Right).Width(26)
	helpStyle    = lipgloss.NewStyle().Foreground(colorMuted)
)
