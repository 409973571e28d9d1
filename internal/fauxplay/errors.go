package fauxplay

import (
	"fmt"
	"strings"
)

// ConnectionError reports a failed presence handshake or a dropped session.
type ConnectionError struct {
	AppID uint64
	Err   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("presence connection for %d: %v", e.AppID, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// IOError reports a failed directory or file operation.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ProcessError reports a failed spawn or kill. Output carries whatever the
// external tool printed.
type ProcessError struct {
	Op     string
	Name   string
	Output string
	Err    error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }
