// Package presence defines the live presence session and the slot that owns it.
package presence

import (
	"strings"
	"time"
)

// Conn is a live connection to the presence service.
type Conn interface {
	Close() error
}

// Subscriptions is the set of remote event groups requested for a session.
type Subscriptions uint8

const (
	SubActivity Subscriptions = 1 << iota
	SubUser
)

// Has reports whether all bits in other are set.
func (s Subscriptions) Has(other Subscriptions) bool {
	return s&other == other
}

func (s Subscriptions) String() string {
	var parts []string
	if s.Has(SubActivity) {
		parts = append(parts, "activity")
	}
	if s.Has(SubUser) {
		parts = append(parts, "user")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// ParseSubscriptions converts config names into a Subscriptions set. Unknown
// names are reported via ok=false.
func ParseSubscriptions(names []string) (subs Subscriptions, ok bool) {
	ok = true
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "activity":
			subs |= SubActivity
		case "user":
			subs |= SubUser
		default:
			ok = false
		}
	}
	return subs, ok
}

// User is the remote identity resolved during the handshake.
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name,omitempty"`
}

// DisplayName prefers the global name when one is set.
func (u User) DisplayName() string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// Session is one live presence connection plus its metadata.
type Session struct {
	AppID         uint64
	Conn          Conn
	Subscriptions Subscriptions
	User          User
	ConnectedAt   time.Time
}

// Close closes the underlying connection. Safe on a nil session.
func (s *Session) Close() error {
	if s == nil || s.Conn == nil {
		return nil
	}
	return s.Conn.Close()
}
