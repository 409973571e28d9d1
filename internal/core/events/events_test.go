package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_ListenReceivesNamedEvents(t *testing.T) {
	b := New()

	var got []Event
	b.Listen(ClientConnected, func(ev Event) { got = append(got, ev) })

	b.Emit(ClientConnecting, AppPayload{ApplicationID: 1})
	b.Emit(ClientConnected, ConnectedPayload{ApplicationID: 1, User: "me"})

	require.Len(t, got, 1)
	assert.Equal(t, ClientConnected, got[0].Name)
	assert.Equal(t, ConnectedPayload{ApplicationID: 1, User: "me"}, got[0].Payload)
	assert.False(t, got[0].At.IsZero())
}

func TestBus_RegistrationOrder(t *testing.T) {
	b := New()

	var order []int
	b.Listen(Disconnect, func(Event) { order = append(order, 1) })
	b.Listen(Disconnect, func(Event) { order = append(order, 2) })
	b.ListenAll(func(Event) { order = append(order, 3) })

	b.Emit(Disconnect, nil)

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := New()

	calls := 0
	unsub := b.Listen(Disconnect, func(Event) { calls++ })

	b.Emit(Disconnect, nil)
	unsub()
	unsub()
	b.Emit(Disconnect, nil)

	assert.Equal(t, 1, calls)
}

func TestBus_UnsubscribeDuringDispatch(t *testing.T) {
	b := New()

	calls := 0
	var unsub func()
	unsub = b.Listen(Disconnect, func(Event) {
		calls++
		unsub()
	})

	second := 0
	b.Listen(Disconnect, func(Event) { second++ })

	b.Emit(Disconnect, nil)
	b.Emit(Disconnect, nil)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, second)
}

func TestBus_ListenDuringDispatchAppliesToNextEmit(t *testing.T) {
	b := New()

	late := 0
	b.Listen(Disconnect, func(Event) {
		b.Listen(Disconnect, func(Event) { late++ })
	})

	b.Emit(Disconnect, nil)
	assert.Equal(t, 0, late)

	b.Emit(Disconnect, nil)
	assert.Equal(t, 1, late)
}

func TestBus_Subscribe(t *testing.T) {
	b := New()
	ch, cancel := b.Subscribe(4)

	b.Emit(GameStarted, GamePayload{ExecutableName: "game.exe"})

	select {
	case ev := <-ch:
		assert.Equal(t, GameStarted, ev.Name)
	case <-time.After(time.Second):
		t.Fatal("expected event on subscription channel")
	}

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open, "channel should be closed after cancel")

	// Emitting after cancel must not panic.
	b.Emit(GameStopped, nil)
}

func TestBus_SubscribeDropsWhenFull(t *testing.T) {
	b := New()
	ch, cancel := b.Subscribe(1)
	defer cancel()

	b.Emit(GameStarted, nil)
	b.Emit(GameStopped, nil)

	ev := <-ch
	assert.Equal(t, GameStarted, ev.Name)

	select {
	case ev := <-ch:
		t.Fatalf("unexpected buffered event %q", ev.Name)
	default:
	}
}
