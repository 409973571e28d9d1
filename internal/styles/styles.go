// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Tokyo Night color palette.
var (
	ColorGreen  = lipgloss.Color("#9ece6a")
	ColorYellow = lipgloss.Color("#e0af68")
	ColorRed    = lipgloss.Color("#d75f6b")
	ColorBlue   = lipgloss.Color("#7aa2f7")
	ColorGray   = lipgloss.Color("#565f89")
	ColorWhite  = lipgloss.Color("#c0caf5")
)

// Banner ASCII art for the header.
const Banner = `
 ╔═╗╔═╗╦ ╦═╗ ╦╔═╗╦  ╔═╗╦ ╦
 ╠╣ ╠═╣║ ║╔╩╦╝╠═╝║  ╠═╣╚╦╝
 ╚  ╩ ╩╚═╝╩ ╚═╩  ╩═╝╩ ╩ ╩ `

// BannerStyle styles the ASCII art banner.
var BannerStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// HeaderStyle styles section headers.
var HeaderStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// ValueStyle styles primary values.
var ValueStyle = lipgloss.NewStyle().
	Foreground(ColorWhite)

// DividerStyle styles horizontal dividers and secondary text.
var DividerStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// Presence state badges.
var (
	IdleStyle       = lipgloss.NewStyle().Foreground(ColorGray).Bold(true)
	ConnectingStyle = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	ConnectedStyle  = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	ErrorStyle      = lipgloss.NewStyle().Foreground(ColorRed)
)

// FormTheme returns the huh theme used by interactive pickers.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()
	t.Focused.Title = t.Focused.Title.Foreground(ColorBlue).Bold(true)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorGreen)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorGreen)
	t.Focused.Option = t.Focused.Option.Foreground(ColorWhite)
	return t
}
