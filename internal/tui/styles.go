package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the prompts. Adaptive colors pick a variant for light
// and dark terminals.
var (
	accent   = lipgloss.AdaptiveColor{Light: "#2F71F2", Dark: "#4A90FF"}
	positive = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	negative = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#FF4672"}
	muted    = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"}
)

var (
	styleCursor   = lipgloss.NewStyle().Foreground(accent).Bold(true)
	styleDetail   = lipgloss.NewStyle().Foreground(muted)
	styleHeading  = lipgloss.NewStyle().Foreground(accent).Bold(true).MarginBottom(1)
	styleProblem  = lipgloss.NewStyle().Foreground(negative)
	styleKeysHelp = lipgloss.NewStyle().Foreground(muted)

	// StyleNotice marks a completed side effect such as a clipboard copy.
	StyleNotice = lipgloss.NewStyle().Foreground(positive)
)
