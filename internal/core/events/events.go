// Package events provides the named publish/subscribe bus that connects the
// core to whatever UI is hosting it.
package events

import (
	"sync"
	"time"
)

// Event names emitted or consumed by the core.
const (
	ClientConnecting    = "client_connecting"
	ClientConnected     = "client_connected"
	ClientConnectFailed = "client_connect_failed"
	ClientDisconnected  = "client_disconnected"

	// Disconnect is the inbound signal that tears down presence sessions.
	Disconnect = "event_disconnect"

	GameInstalled = "game_installed"
	GameStarted   = "game_started"
	GameStopped   = "game_stopped"
)

// Event is a single emitted occurrence.
type Event struct {
	Name    string
	Payload any
	At      time.Time
}

// AppPayload identifies the application an event refers to.
type AppPayload struct {
	ApplicationID uint64 `json:"application_id"`
}

// ConnectedPayload accompanies ClientConnected.
type ConnectedPayload struct {
	ApplicationID uint64 `json:"application_id"`
	User          string `json:"user,omitempty"`
}

// FailedPayload accompanies ClientConnectFailed.
type FailedPayload struct {
	ApplicationID uint64 `json:"application_id"`
	Error         string `json:"error"`
}

// GamePayload accompanies the game_* events.
type GamePayload struct {
	ApplicationID  uint64 `json:"application_id,omitempty"`
	ExecutableName string `json:"executable_name"`
	Path           string `json:"path,omitempty"`
}

// Listener reacts to an event. Listeners run on the emitter's goroutine.
type Listener func(Event)

type listener struct {
	id   uint64
	name string // empty matches every event
	fn   Listener
}

// Bus dispatches named events to registered listeners. The zero value is not
// usable; construct with New.
type Bus struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listener
	now       func() time.Time
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{now: time.Now}
}

// Listen registers fn for events named name and returns a function that
// removes it. The returned function is idempotent.
func (b *Bus) Listen(name string, fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, listener{id: id, name: name, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

// ListenAll registers fn for every event.
func (b *Bus) ListenAll(fn Listener) (unsubscribe func()) {
	return b.Listen("", fn)
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, l := range b.listeners {
		if l.id == id {
			b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
			return
		}
	}
}

// Emit delivers an event to every listener registered at the time of the
// call, in registration order. Listeners may register or unregister during
// dispatch; those changes apply to the next Emit.
func (b *Bus) Emit(name string, payload any) {
	b.mu.Lock()
	snapshot := make([]listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		if l.name == "" || l.name == name {
			snapshot = append(snapshot, l)
		}
	}
	now := b.now
	b.mu.Unlock()

	ev := Event{Name: name, Payload: payload, At: now()}
	for _, l := range snapshot {
		l.fn(ev)
	}
}

// Subscribe returns a channel that receives every event. Events are dropped
// when the channel buffer is full so a slow consumer never blocks emitters.
// cancel stops delivery and closes the channel.
func (b *Bus) Subscribe(buffer int) (ch <-chan Event, cancel func()) {
	out := make(chan Event, buffer)

	var (
		mu     sync.Mutex
		closed bool
	)

	unsubscribe := b.ListenAll(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case out <- ev:
		default:
		}
	})

	return out, func() {
		unsubscribe()
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			closed = true
			close(out)
		}
	}
}
