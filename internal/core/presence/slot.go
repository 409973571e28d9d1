package presence

import "sync"

// Slot holds at most one live Session. All access goes through its methods,
// which are linearizable with respect to each other.
type Slot struct {
	mu      sync.Mutex
	session *Session
}

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	return &Slot{}
}

// Take removes and returns the current session, leaving the slot empty.
// Returns nil when the slot is already empty. The caller owns the returned
// session and is responsible for closing it.
func (s *Slot) Take() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session
	s.session = nil
	return sess
}

// TakeIf removes sess only if it is still the installed session. Reports
// whether it was removed.
func (s *Slot) TakeIf(sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess == nil || s.session != sess {
		return false
	}
	s.session = nil
	return true
}

// Replace installs sess and returns the value it displaced without closing it.
func (s *Slot) Replace(sess *Session) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.session
	s.session = sess
	return prev
}

// ReplaceIf installs sess only when ok returns true. ok runs while the slot lock
// is held, so it must not call back into the slot.
func (s *Slot) ReplaceIf(ok func() bool, sess *Session) (prev *Session, installed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !ok() {
		return nil, false
	}

	prev = s.session
	s.session = sess
	return prev, true
}

// Peek returns a copy of the current session for read-only inspection.
func (s *Slot) Peek() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}
