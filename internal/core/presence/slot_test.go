package presence

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	closed atomic.Int32
}

func (c *fakeConn) Close() error {
	c.closed.Add(1)
	return nil
}

func TestSlot_TakeEmpty(t *testing.T) {
	s := NewSlot()
	assert.Nil(t, s.Take())

	_, ok := s.Peek()
	assert.False(t, ok)
}

func TestSlot_ReplaceThenTake(t *testing.T) {
	s := NewSlot()
	sess := &Session{AppID: 123}

	prev := s.Replace(sess)
	assert.Nil(t, prev)

	peeked, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, uint64(123), peeked.AppID)

	got := s.Take()
	assert.Same(t, sess, got)
	assert.Nil(t, s.Take(), "slot should be empty after take")
}

func TestSlot_ReplaceReturnsDisplacedWithoutClosing(t *testing.T) {
	s := NewSlot()
	conn := &fakeConn{}
	first := &Session{AppID: 1, Conn: conn}
	second := &Session{AppID: 2}

	s.Replace(first)
	prev := s.Replace(second)

	assert.Same(t, first, prev)
	assert.Equal(t, int32(0), conn.closed.Load())
}

func TestSlot_ReplaceIf(t *testing.T) {
	s := NewSlot()

	_, installed := s.ReplaceIf(func() bool { return false }, &Session{AppID: 1})
	assert.False(t, installed)
	assert.Nil(t, s.Take())

	_, installed = s.ReplaceIf(func() bool { return true }, &Session{AppID: 2})
	assert.True(t, installed)

	got := s.Take()
	require.NotNil(t, got)
	assert.Equal(t, uint64(2), got.AppID)
}

func TestSlot_TakeIf(t *testing.T) {
	slot := NewSlot()
	a := &Session{AppID: 1}
	b := &Session{AppID: 2}

	assert.False(t, slot.TakeIf(a), "empty slot")

	slot.Replace(a)
	assert.False(t, slot.TakeIf(b), "different session")
	assert.False(t, slot.TakeIf(nil))

	assert.True(t, slot.TakeIf(a))
	_, ok := slot.Peek()
	assert.False(t, ok)
}

func TestSlot_ConcurrentTakeNeverDuplicates(t *testing.T) {
	const (
		installs = 200
		takers   = 8
	)

	s := NewSlot()
	sessions := make([]*Session, installs)
	for i := range sessions {
		sessions[i] = &Session{AppID: uint64(i + 1)}
	}

	var (
		mu   sync.Mutex
		seen = make(map[*Session]int)
		wg   sync.WaitGroup
		done atomic.Bool
	)

	for range takers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if sess := s.Take(); sess != nil {
					mu.Lock()
					seen[sess]++
					mu.Unlock()
					continue
				}
				if done.Load() {
					return
				}
			}
		}()
	}

	var displaced []*Session
	for _, sess := range sessions {
		if prev := s.Replace(sess); prev != nil {
			displaced = append(displaced, prev)
		}
	}
	done.Store(true)
	wg.Wait()

	if last := s.Take(); last != nil {
		seen[last]++
	}

	for sess, n := range seen {
		assert.Equal(t, 1, n, "session %d observed by %d takers", sess.AppID, n)
	}
	for _, sess := range displaced {
		assert.NotContains(t, seen, sess, "displaced session %d was also taken", sess.AppID)
	}
	assert.Equal(t, installs, len(seen)+len(displaced))
}

func TestSession_CloseNil(t *testing.T) {
	var s *Session
	assert.NoError(t, s.Close())
	assert.NoError(t, (&Session{}).Close())
}

func TestParseSubscriptions(t *testing.T) {
	subs, ok := ParseSubscriptions([]string{"activity", " User "})
	assert.True(t, ok)
	assert.True(t, subs.Has(SubActivity))
	assert.True(t, subs.Has(SubUser))
	assert.Equal(t, "activity,user", subs.String())

	_, ok = ParseSubscriptions([]string{"voice"})
	assert.False(t, ok)

	none, ok := ParseSubscriptions(nil)
	assert.True(t, ok)
	assert.Equal(t, "none", none.String())
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Global", User{Username: "u", GlobalName: "Global"}.DisplayName())
	assert.Equal(t, "u", User{Username: "u"}.DisplayName())
}
