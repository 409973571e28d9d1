// Package tui implements the Bubble Tea status screen for fauxplay.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/fauxplay/internal/styles"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.ColorBlue).
			PaddingLeft(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(styles.ColorBlue).
			Bold(true)

	normalStyle = lipgloss.NewStyle()

	runningStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGreen)

	mutedStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.ColorGray).
			Padding(0, 1)
)
