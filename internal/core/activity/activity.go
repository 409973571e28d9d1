// Package activity decodes presence activity payloads into typed descriptors.
package activity

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind is the activity type shown next to the user's name.
type Kind int

const (
	KindPlaying   Kind = 0
	KindListening Kind = 2
	KindWatching  Kind = 3
	KindCompeting Kind = 5
)

// KindFromInt maps the wire value to a Kind. Values without a defined mapping
// (including 1 and 4) fall back to KindPlaying.
func KindFromInt(v int) Kind {
	switch Kind(v) {
	case KindPlaying, KindListening, KindWatching, KindCompeting:
		return Kind(v)
	default:
		return KindPlaying
	}
}

func (k Kind) String() string {
	switch k {
	case KindListening:
		return "listening"
	case KindWatching:
		return "watching"
	case KindCompeting:
		return "competing"
	default:
		return "playing"
	}
}

// Descriptor is the decoded form of an activity payload. It is a value type and
// is never mutated after Decode returns.
type Descriptor struct {
	AppID          uint64
	Details        string
	State          string
	LargeImageKey  string
	LargeImageText string
	// StartTimestamp is epoch seconds; zero means unset.
	StartTimestamp int64
	Kind           Kind
}

// HasAssets reports whether a large image was requested.
func (d Descriptor) HasAssets() bool {
	return d.LargeImageKey != ""
}

// DecodeError is returned when a payload cannot be turned into a Descriptor.
type DecodeError struct {
	Field string // empty when the payload itself is malformed
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("failed to parse activity JSON: %v", e.Err)
	}
	return fmt.Sprintf("invalid activity field %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// payload mirrors the JSON sent by the UI layer.
type payload struct {
	AppID          *string `json:"app_id"`
	Details        *string `json:"details"`
	State          *string `json:"state"`
	LargeImageKey  *string `json:"largeImageKey"`
	LargeImageText *string `json:"largeImageText"`
	Timestamp      *int64  `json:"timestamp"`
	ActivityKind   *int    `json:"activity_kind"`
}

// Decode parses raw into a Descriptor. app_id is required and must be the
// decimal string form of an unsigned integer; every other field is optional.
func Decode(raw string) (Descriptor, error) {
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Descriptor{}, &DecodeError{Err: err}
	}

	if p.AppID == nil {
		return Descriptor{}, &DecodeError{Field: "app_id", Err: fmt.Errorf("missing")}
	}

	appID, err := strconv.ParseUint(*p.AppID, 10, 64)
	if err != nil {
		return Descriptor{}, &DecodeError{Field: "app_id", Err: err}
	}

	d := Descriptor{
		AppID:          appID,
		Details:        deref(p.Details),
		State:          deref(p.State),
		LargeImageKey:  deref(p.LargeImageKey),
		LargeImageText: deref(p.LargeImageText),
		Kind:           KindPlaying,
	}
	if p.Timestamp != nil {
		d.StartTimestamp = *p.Timestamp
	}
	if p.ActivityKind != nil {
		d.Kind = KindFromInt(*p.ActivityKind)
	}

	return d, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
