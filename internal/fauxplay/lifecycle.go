package fauxplay

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/fauxplay/internal/core/activity"
	"github.com/hay-kot/fauxplay/internal/core/events"
	"github.com/hay-kot/fauxplay/internal/core/presence"
)

// ActionDisconnect is the Handle action that tears down the session.
const ActionDisconnect = "disconnect"

// clearTimeout bounds the best-effort activity clear sent before closing a
// session.
const clearTimeout = 2 * time.Second

// ErrSuperseded is the cancellation cause for a connect replaced by a newer one.
var ErrSuperseded = errors.New("superseded by a newer connect")

// Connector opens a presence session publishing d.
type Connector interface {
	Connect(ctx context.Context, d activity.Descriptor) (*presence.Session, error)
}

// State is the observable lifecycle state.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "idle"
	}
}

// connectTask is one asynchronous connect attempt. mu orders installation
// against the disconnect listener.
type connectTask struct {
	appID    uint64
	cancel   context.CancelCauseFunc
	unlisten func()

	mu        sync.Mutex
	stopped   bool
	installed *presence.Session
}

// stop marks the task as no longer allowed to install and returns the session
// it installed, if any.
func (t *connectTask) stop(cause error) *presence.Session {
	t.mu.Lock()
	t.stopped = true
	sess := t.installed
	t.mu.Unlock()

	t.cancel(cause)
	t.unlisten()
	return sess
}

// Manager drives the single presence session through connect and disconnect.
type Manager struct {
	log       zerolog.Logger
	bus       *events.Bus
	slot      *presence.Slot
	connector Connector
	timeout   time.Duration

	mu       sync.Mutex
	current  *connectTask
	inflight atomic.Int32
	wg       sync.WaitGroup
	watchers sync.WaitGroup
}

// NewManager creates a Manager. timeout bounds each connect attempt; zero
// means no limit.
func NewManager(log zerolog.Logger, bus *events.Bus, slot *presence.Slot, connector Connector, timeout time.Duration) *Manager {
	return &Manager{
		log:       log,
		bus:       bus,
		slot:      slot,
		connector: connector,
		timeout:   timeout,
	}
}

// Handle routes a UI command: ActionDisconnect disconnects, anything else
// connects with activityText.
func (m *Manager) Handle(activityText, action string) error {
	if action == ActionDisconnect {
		m.Disconnect()
		return nil
	}
	return m.Connect(activityText)
}

// Connect decodes activityText and starts a connect task in the background.
// Decode errors are returned without emitting anything. Any live session is
// closed by the task before it dials.
func (m *Manager) Connect(activityText string) error {
	d, err := activity.Decode(activityText)
	if err != nil {
		return err
	}

	m.inflight.Add(1)
	m.wg.Add(1)

	ctx, cancel := context.WithCancelCause(context.Background())
	t := &connectTask{appID: d.AppID, cancel: cancel}

	// Registered before the task runs so no disconnect can slip past it.
	t.unlisten = m.bus.Listen(events.Disconnect, func(events.Event) {
		m.onDisconnect(t)
	})

	m.mu.Lock()
	prevTask := m.current
	m.current = t
	m.mu.Unlock()

	// A stopped task can no longer install, so whatever the slot holds after
	// this point is taken here and closed by the new task.
	if prevTask != nil {
		prevTask.stop(ErrSuperseded)
	}
	prevSess := m.slot.Take()

	m.bus.Emit(events.ClientConnecting, events.AppPayload{ApplicationID: d.AppID})

	go func() {
		defer m.wg.Done()
		defer m.inflight.Add(-1)
		m.run(ctx, t, d, prevSess)
	}()

	return nil
}

// Disconnect emits the disconnect signal. The listener of the current connect
// task does the teardown.
func (m *Manager) Disconnect() {
	m.bus.Emit(events.Disconnect, nil)
}

// State reports the current lifecycle state.
func (m *Manager) State() State {
	if m.inflight.Load() > 0 {
		return StateConnecting
	}
	if _, ok := m.slot.Peek(); ok {
		return StateConnected
	}
	return StateIdle
}

// Session returns a snapshot of the live session.
func (m *Manager) Session() (presence.Session, bool) {
	return m.slot.Peek()
}

// Wait blocks until every started connect task has settled or ctx is done.
// Remote-drop watchers of connected sessions keep running; see Shutdown.
func (m *Manager) Wait(ctx context.Context) error {
	return waitGroup(ctx, &m.wg)
}

// Shutdown disconnects and waits for in-flight tasks and session watchers.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.Disconnect()
	if err := m.Wait(ctx); err != nil {
		return err
	}
	return waitGroup(ctx, &m.watchers)
}

func waitGroup(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) run(ctx context.Context, t *connectTask, d activity.Descriptor, prev *presence.Session) {
	log := m.log.With().Uint64("app_id", d.AppID).Logger()

	if prev != nil {
		m.closeSession(prev)
		m.reportDisconnected(prev.AppID, errors.New("replaced"))
	}

	dialCtx := ctx
	if m.timeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	var (
		sess *presence.Session
		err  error
	)
	if ctx.Err() == nil {
		sess, err = m.connector.Connect(dialCtx, d)
	} else {
		err = ctx.Err()
	}

	if err != nil {
		cancelled, cause := ctx.Err() != nil, context.Cause(ctx)
		m.retire(t)
		if cancelled {
			log.Debug().Err(cause).Msg("connect cancelled before install")
			m.reportDisconnected(d.AppID, cause)
			return
		}
		m.reportFailed(d.AppID, &ConnectionError{AppID: d.AppID, Err: err})
		return
	}

	t.mu.Lock()
	displaced, ok := m.slot.ReplaceIf(func() bool {
		return ctx.Err() == nil && !t.stopped
	}, sess)
	if ok {
		t.installed = sess
	}
	t.mu.Unlock()

	if !ok {
		cause := context.Cause(ctx)
		m.retire(t)
		m.closeSession(sess)
		log.Debug().Err(cause).Msg("connect cancelled before install")
		m.reportDisconnected(d.AppID, cause)
		return
	}

	if displaced != nil {
		log.Warn().Uint64("prev_app_id", displaced.AppID).Msg("closing session displaced by install")
		m.closeSession(displaced)
		m.reportDisconnected(displaced.AppID, errors.New("replaced"))
	}

	m.reportConnected(sess)

	if w, ok := sess.Conn.(interface{ Done() <-chan struct{} }); ok {
		m.watchers.Add(1)
		go func() {
			defer m.watchers.Done()
			m.watch(ctx, t, sess, w.Done())
		}()
	}
}

// watch tears the session down when the remote side drops it.
func (m *Manager) watch(ctx context.Context, t *connectTask, sess *presence.Session, done <-chan struct{}) {
	select {
	case <-ctx.Done():
		return
	case <-done:
	}

	if !m.slot.TakeIf(sess) {
		return
	}
	t.stop(errors.New("remote closed"))
	m.clearCurrent(t)

	var cause error = errors.New("remote closed the connection")
	if e, ok := sess.Conn.(interface{ Err() error }); ok && e.Err() != nil {
		cause = e.Err()
	}
	_ = sess.Close()
	m.reportDisconnected(sess.AppID, &ConnectionError{AppID: sess.AppID, Err: cause})
}

func (m *Manager) onDisconnect(t *connectTask) {
	installed := t.stop(errors.New("disconnect requested"))
	m.clearCurrent(t)

	if installed == nil {
		// the task reports its own cancellation
		return
	}

	if sess := m.slot.Take(); sess != nil {
		m.closeSession(sess)
		m.reportDisconnected(sess.AppID, nil)
	}
}

// closeSession clears the published activity when the connection supports it
// and then closes it. A failed clear is logged and does not block the close.
func (m *Manager) closeSession(sess *presence.Session) {
	if c, ok := sess.Conn.(interface{ ClearActivity(context.Context) error }); ok {
		ctx, cancel := context.WithTimeout(context.Background(), clearTimeout)
		if err := c.ClearActivity(ctx); err != nil {
			m.log.Debug().Err(err).Uint64("app_id", sess.AppID).Msg("clear activity")
		}
		cancel()
	}

	if err := sess.Close(); err != nil {
		m.log.Warn().Err(err).Uint64("app_id", sess.AppID).Msg("close session")
	}
}

// retire drops a task that ended without a session.
func (m *Manager) retire(t *connectTask) {
	t.stop(nil)
	m.clearCurrent(t)
}

func (m *Manager) clearCurrent(t *connectTask) {
	m.mu.Lock()
	if m.current == t {
		m.current = nil
	}
	m.mu.Unlock()
}

func (m *Manager) reportConnected(sess *presence.Session) {
	m.report(events.ClientConnected, sess.AppID, sess, nil)
}

func (m *Manager) reportFailed(appID uint64, err error) {
	m.report(events.ClientConnectFailed, appID, nil, err)
}

func (m *Manager) reportDisconnected(appID uint64, cause error) {
	m.report(events.ClientDisconnected, appID, nil, cause)
}

// report logs a terminal outcome and emits its event.
func (m *Manager) report(name string, appID uint64, sess *presence.Session, err error) {
	switch name {
	case events.ClientConnected:
		m.log.Info().
			Uint64("app_id", appID).
			Str("user", sess.User.DisplayName()).
			Msg("presence connected")
		m.bus.Emit(name, events.ConnectedPayload{ApplicationID: appID, User: sess.User.DisplayName()})
	case events.ClientConnectFailed:
		m.log.Error().Err(err).Uint64("app_id", appID).Msg("presence connect failed")
		m.bus.Emit(name, events.FailedPayload{ApplicationID: appID, Error: err.Error()})
	default:
		m.log.Info().Err(err).Uint64("app_id", appID).Msg("presence disconnected")
		m.bus.Emit(name, events.AppPayload{ApplicationID: appID})
	}
}
