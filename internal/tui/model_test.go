package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/fauxplay/internal/core/activity"
	"github.com/hay-kot/fauxplay/internal/core/events"
	"github.com/hay-kot/fauxplay/internal/core/install"
	"github.com/hay-kot/fauxplay/internal/core/presence"
	"github.com/hay-kot/fauxplay/internal/fauxplay"
)

type fakeInstalls struct {
	mu      sync.Mutex
	items   []install.Installation
	started []string
	stopped []string
	err     error
}

func (f *fakeInstalls) ListInstallations(context.Context) ([]install.Installation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items, f.err
}

func (f *fakeInstalls) StartInstallation(_ context.Context, id, _ string) (install.Installation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, id)
	return install.Installation{ID: id}, f.err
}

func (f *fakeInstalls) Stop(_ context.Context, exe string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, exe)
	return f.err
}

type fakePresence struct {
	connects    []string
	disconnects int
	state       fauxplay.State
	sess        presence.Session
	err         error
}

func (f *fakePresence) Connect(text string) error {
	f.connects = append(f.connects, text)
	return f.err
}

func (f *fakePresence) Disconnect()           { f.disconnects++ }
func (f *fakePresence) State() fauxplay.State { return f.state }

func (f *fakePresence) Session() (presence.Session, bool) {
	return f.sess, f.state == fauxplay.StateConnected
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testItems() []install.Installation {
	return []install.Installation{
		{ID: "aaa", AppID: 1, Name: "Alpha", Executable: "alpha.exe", State: install.StateInstalled},
		{ID: "bbb", AppID: 2, Executable: "beta.exe", State: install.StateRunning},
	}
}

func newTestModel(t *testing.T) (Model, *fakeInstalls, *fakePresence) {
	t.Helper()
	inst := &fakeInstalls{items: testItems()}
	pres := &fakePresence{}
	m := New(inst, pres, make(chan events.Event))
	m.now = func() time.Time { return time.Unix(1700000000, 0) }

	updated, _ := m.Update(installsLoadedMsg{items: inst.items})
	return updated.(Model), inst, pres
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestModel_CursorMovement(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = update(t, m, keyPress("k"))
	assert.Equal(t, 0, m.cursor, "cursor stays at top")

	m, _ = update(t, m, keyPress("j"))
	assert.Equal(t, 1, m.cursor)

	m, _ = update(t, m, keyPress("j"))
	assert.Equal(t, 1, m.cursor, "cursor stays at bottom")
}

func TestModel_ReloadClampsCursor(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = update(t, m, keyPress("j"))

	m, _ = update(t, m, installsLoadedMsg{items: testItems()[:1]})
	assert.Equal(t, 0, m.cursor)

	m, _ = update(t, m, installsLoadedMsg{})
	assert.Equal(t, 0, m.cursor)
	_, ok := m.selected()
	assert.False(t, ok)
}

func TestModel_ConnectSelected(t *testing.T) {
	m, _, pres := newTestModel(t)

	m, _ = update(t, m, keyPress("j"))
	_, _ = update(t, m, keyPress("c"))

	require.Len(t, pres.connects, 1)
	d, err := activity.Decode(pres.connects[0])
	require.NoError(t, err)
	assert.Equal(t, uint64(2), d.AppID)
	assert.Equal(t, "beta.exe", d.Details)
}

func TestModel_ConnectErrorIsLogged(t *testing.T) {
	m, _, pres := newTestModel(t)
	pres.err = errors.New("bad activity")

	m, _ = update(t, m, keyPress("c"))

	require.Len(t, m.log, 1)
	assert.True(t, m.log[0].err)
	assert.Equal(t, "bad activity", m.log[0].text)
}

func TestModel_Disconnect(t *testing.T) {
	m, _, pres := newTestModel(t)

	_, _ = update(t, m, keyPress("d"))
	assert.Equal(t, 1, pres.disconnects)
}

func TestModel_StartAndStop(t *testing.T) {
	m, inst, _ := newTestModel(t)

	_, cmd := update(t, m, keyPress("s"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, actionDoneMsg{text: "started Alpha"}, msg)
	assert.Equal(t, []string{"aaa"}, inst.started)

	_, cmd = update(t, m, keyPress("x"))
	require.NotNil(t, cmd)
	assert.Equal(t, actionDoneMsg{text: "stopped alpha.exe"}, cmd())
	assert.Equal(t, []string{"alpha.exe"}, inst.stopped)
}

func TestModel_QuitKey(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := update(t, m, keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_EventLogIsBounded(t *testing.T) {
	m, _, _ := newTestModel(t)

	for i := 0; i < maxLogLines+3; i++ {
		m, _ = update(t, m, eventMsg(events.Event{
			Name:    events.ClientDisconnected,
			Payload: events.AppPayload{ApplicationID: uint64(i)},
		}))
	}

	require.Len(t, m.log, maxLogLines)
	assert.Equal(t, "client_disconnected (app 10)", m.log[len(m.log)-1].text)
}

func TestModel_EventRendering(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = update(t, m, eventMsg(events.Event{
		Name:    events.ClientConnectFailed,
		Payload: events.FailedPayload{ApplicationID: 1, Error: "no pipe"},
	}))
	m, _ = update(t, m, eventMsg(events.Event{
		Name:    events.ClientConnected,
		Payload: events.ConnectedPayload{ApplicationID: 1, User: "someone"},
	}))

	require.Len(t, m.log, 2)
	assert.Equal(t, logLine{at: m.now(), text: "connect failed: no pipe", err: true}, m.log[0])
	assert.Equal(t, "connected as someone (app 1)", m.log[1].text)
}

func TestModel_ViewShowsPresenceState(t *testing.T) {
	m, _, pres := newTestModel(t)

	assert.Contains(t, m.View(), "idle")
	assert.Contains(t, m.View(), "Alpha")

	pres.state = fauxplay.StateConnected
	pres.sess = presence.Session{AppID: 1, User: presence.User{Username: "someone"}}
	view := m.View()
	assert.Contains(t, view, "connected")
	assert.Contains(t, view, "someone")
}

func TestModel_WaitForEventStopsOnClose(t *testing.T) {
	ch := make(chan events.Event, 1)
	m := New(&fakeInstalls{}, &fakePresence{}, ch)

	ch <- events.Event{Name: events.GameStopped}
	assert.Equal(t, eventMsg(events.Event{Name: events.GameStopped}), m.waitForEvent()())

	close(ch)
	assert.Nil(t, m.waitForEvent()())
}
