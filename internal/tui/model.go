package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/fauxplay/internal/core/events"
	"github.com/hay-kot/fauxplay/internal/core/install"
	"github.com/hay-kot/fauxplay/internal/core/presence"
	"github.com/hay-kot/fauxplay/internal/fauxplay"
)

const maxLogLines = 8

// Installs is the part of the service the TUI drives for games.
type Installs interface {
	ListInstallations(ctx context.Context) ([]install.Installation, error)
	StartInstallation(ctx context.Context, id, title string) (install.Installation, error)
	Stop(ctx context.Context, exeName string) error
}

// Presence is the part of the lifecycle manager the TUI drives.
type Presence interface {
	Connect(activityText string) error
	Disconnect()
	State() fauxplay.State
	Session() (presence.Session, bool)
}

// logLine is one rendered entry in the event log.
type logLine struct {
	at   time.Time
	text string
	err  bool
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	installs Installs
	presence Presence
	events   <-chan events.Event
	keys     keyMap
	help     help.Model
	spinner  spinner.Model

	items  []install.Installation
	cursor int
	log    []logLine
	err    error
	width  int
	now    func() time.Time
}

// eventMsg carries one bus event into the update loop.
type eventMsg events.Event

// installsLoadedMsg is sent when the registry has been read.
type installsLoadedMsg struct {
	items []install.Installation
	err   error
}

// actionDoneMsg is sent when a start/stop finishes.
type actionDoneMsg struct {
	text string
	err  error
}

// New creates a Model. evs is a bus subscription owned by the caller.
func New(installs Installs, p Presence, evs <-chan events.Event) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = connectingBadge

	return Model{
		installs: installs,
		presence: p,
		events:   evs,
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  s,
		now:      time.Now,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadInstalls(), m.waitForEvent(), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case installsLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.items = msg.items
			if m.cursor >= len(m.items) {
				m.cursor = max(len(m.items)-1, 0)
			}
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.appendLog(msg.err.Error(), true)
		} else {
			m.appendLog(msg.text, false)
		}
		return m, m.loadInstalls()

	case eventMsg:
		m.appendEvent(events.Event(msg))
		return m, m.waitForEvent()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadInstalls()
	case key.Matches(msg, m.keys.Disconnect):
		m.presence.Disconnect()
	case key.Matches(msg, m.keys.Connect):
		inst, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.presence.Connect(activityFor(inst, m.now())); err != nil {
			m.appendLog(err.Error(), true)
		}
	case key.Matches(msg, m.keys.Start):
		if inst, ok := m.selected(); ok {
			return m, m.start(inst)
		}
	case key.Matches(msg, m.keys.Stop):
		if inst, ok := m.selected(); ok {
			return m, m.stop(inst)
		}
	}
	return m, nil
}

func (m Model) selected() (install.Installation, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return install.Installation{}, false
	}
	return m.items[m.cursor], true
}

func (m *Model) appendLog(text string, isErr bool) {
	m.log = append(m.log, logLine{at: m.now(), text: text, err: isErr})
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

func (m *Model) appendEvent(ev events.Event) {
	switch p := ev.Payload.(type) {
	case events.ConnectedPayload:
		m.appendLog(fmt.Sprintf("connected as %s (app %d)", p.User, p.ApplicationID), false)
	case events.FailedPayload:
		m.appendLog(fmt.Sprintf("connect failed: %s", p.Error), true)
	case events.GamePayload:
		m.appendLog(fmt.Sprintf("%s %s", ev.Name, p.ExecutableName), false)
	case events.AppPayload:
		m.appendLog(fmt.Sprintf("%s (app %d)", ev.Name, p.ApplicationID), false)
	default:
		m.appendLog(ev.Name, false)
	}
}

func (m Model) waitForEvent() tea.Cmd {
	ch := m.events
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func (m Model) loadInstalls() tea.Cmd {
	svc := m.installs
	return func() tea.Msg {
		items, err := svc.ListInstallations(context.Background())
		return installsLoadedMsg{items: items, err: err}
	}
}

func (m Model) start(inst install.Installation) tea.Cmd {
	svc := m.installs
	return func() tea.Msg {
		_, err := svc.StartInstallation(context.Background(), inst.ID, "")
		return actionDoneMsg{text: "started " + inst.DisplayName(), err: err}
	}
}

func (m Model) stop(inst install.Installation) tea.Cmd {
	svc := m.installs
	return func() tea.Msg {
		err := svc.Stop(context.Background(), inst.Executable)
		return actionDoneMsg{text: "stopped " + inst.Executable, err: err}
	}
}

// activityFor builds the activity payload published for an installation.
func activityFor(inst install.Installation, now time.Time) string {
	payload := map[string]any{
		"app_id":    strconv.FormatUint(inst.AppID, 10),
		"details":   inst.DisplayName(),
		"state":     "Playing",
		"timestamp": now.Unix(),
	}
	data, _ := json.Marshal(payload)
	return string(data)
}
