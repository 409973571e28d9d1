package discord

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hay-kot/fauxplay/internal/core/activity"
	"github.com/hay-kot/fauxplay/internal/core/presence"
)

const rpcVersion = 1

// ErrClosed is returned once the remote end has closed the connection.
var ErrClosed = errors.New("discord: connection closed")

// ErrUnavailable is returned when no IPC endpoint accepts a connection.
var ErrUnavailable = errors.New("discord: ipc endpoint unavailable")

// Error is an error reported by the Discord client.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("discord error %d: %s", e.Code, e.Message)
}

type handshake struct {
	V        int    `json:"v"`
	ClientID string `json:"client_id"`
}

type request struct {
	Cmd   string `json:"cmd"`
	Args  any    `json:"args,omitempty"`
	Evt   string `json:"evt,omitempty"`
	Nonce string `json:"nonce"`
}

type response struct {
	Cmd   string          `json:"cmd"`
	Evt   string          `json:"evt"`
	Nonce string          `json:"nonce"`
	Data  json.RawMessage `json:"data"`
}

// asError returns the embedded error when the response reports one.
func (r response) asError() error {
	if r.Evt != "ERROR" {
		return nil
	}
	var e Error
	if err := json.Unmarshal(r.Data, &e); err != nil {
		return &Error{Message: string(r.Data)}
	}
	return &e
}

type readyData struct {
	V    int           `json:"v"`
	User presence.User `json:"user"`
}

type setActivityArgs struct {
	PID      int           `json:"pid"`
	Activity *wireActivity `json:"activity"`
}

type wireActivity struct {
	Type       int             `json:"type"`
	State      string          `json:"state,omitempty"`
	Details    string          `json:"details,omitempty"`
	Timestamps *wireTimestamps `json:"timestamps,omitempty"`
	Assets     *wireAssets     `json:"assets,omitempty"`
}

type wireTimestamps struct {
	Start int64 `json:"start,omitempty"`
}

type wireAssets struct {
	LargeImage string `json:"large_image,omitempty"`
	LargeText  string `json:"large_text,omitempty"`
}

func toWireActivity(d activity.Descriptor) *wireActivity {
	a := &wireActivity{
		Type:    int(d.Kind),
		State:   d.State,
		Details: d.Details,
	}
	if d.StartTimestamp != 0 {
		a.Timestamps = &wireTimestamps{Start: d.StartTimestamp}
	}
	if d.HasAssets() {
		a.Assets = &wireAssets{LargeImage: d.LargeImageKey, LargeText: d.LargeImageText}
	}
	return a
}

// subscriptionEvents lists the RPC events requested for each subscription.
func subscriptionEvents(subs presence.Subscriptions) []string {
	var evts []string
	if subs.Has(presence.SubActivity) {
		evts = append(evts, "ACTIVITY_JOIN", "ACTIVITY_SPECTATE", "ACTIVITY_JOIN_REQUEST")
	}
	if subs.Has(presence.SubUser) {
		evts = append(evts, "CURRENT_USER_UPDATE")
	}
	return evts
}
