package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/hay-kot/fauxplay/internal/core/install"
	"github.com/hay-kot/fauxplay/internal/fauxplay"
	"github.com/hay-kot/fauxplay/internal/styles"
)

var (
	idleBadge       = styles.IdleStyle
	connectingBadge = styles.ConnectingStyle
	connectedBadge  = styles.ConnectedStyle
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("fauxplay"))
	b.WriteString("\n\n")
	b.WriteString(boxStyle.Render(m.presenceView()))
	b.WriteString("\n\n")
	b.WriteString(m.installsView())
	b.WriteString("\n")
	b.WriteString(m.logView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) presenceView() string {
	switch m.presence.State() {
	case fauxplay.StateConnecting:
		return m.spinner.View() + " " + connectingBadge.Render("connecting")
	case fauxplay.StateConnected:
		line := connectedBadge.Render("● connected")
		if sess, ok := m.presence.Session(); ok {
			line += fmt.Sprintf("  app %d", sess.AppID)
			if name := sess.User.DisplayName(); name != "" {
				line += "  as " + styles.ValueStyle.Render(name)
			}
		}
		return line
	default:
		return idleBadge.Render("○ idle")
	}
}

func (m Model) installsView() string {
	if m.err != nil {
		return styles.ErrorStyle.Render("failed to load installations: " + m.err.Error())
	}
	if len(m.items) == 0 {
		return mutedStyle.Render("  no installations, run 'fauxplay install' to add one")
	}

	lines := make([]string, 0, len(m.items)+1)
	lines = append(lines, styles.HeaderStyle.Render("Installations"))
	for i, inst := range m.items {
		lines = append(lines, m.installRow(i == m.cursor, inst))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) installRow(selected bool, inst install.Installation) string {
	cursor := "  "
	style := normalStyle
	if selected {
		cursor = "> "
		style = selectedStyle
	}

	state := mutedStyle.Render(string(inst.State))
	if inst.State == install.StateRunning {
		state = runningStyle.Render(string(inst.State))
	}

	row := fmt.Sprintf("%s%s  %s  %s",
		cursor,
		style.Render(inst.DisplayName()),
		mutedStyle.Render(fmt.Sprintf("%d/%s", inst.AppID, inst.Executable)),
		state,
	)
	if !inst.UpdatedAt.IsZero() {
		row += "  " + mutedStyle.Render(humanize.RelTime(inst.UpdatedAt, m.now(), "ago", "from now"))
	}
	return row
}

func (m Model) logView() string {
	if len(m.log) == 0 {
		return ""
	}

	lines := make([]string, 0, len(m.log)+1)
	lines = append(lines, styles.HeaderStyle.Render("Events"))
	for _, l := range m.log {
		text := l.text
		if l.err {
			text = styles.ErrorStyle.Render(text)
		}
		lines = append(lines, mutedStyle.Render(l.at.Format("15:04:05"))+" "+text)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}
