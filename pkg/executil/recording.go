package executil

import (
	"context"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Dir  string
	Cmd  string
	Args []string
}

// RecordingExecutor captures commands for testing.
// Configure Outputs and Errors maps to control return values.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	// Outputs maps command names to their output.
	// Key is the command name (e.g., "taskkill").
	Outputs map[string][]byte

	// Errors maps command names to their error.
	Errors map[string]error
}

// Run records the command and returns configured output/error.
func (e *RecordingExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return e.record("", cmd, args...)
}

func (e *RecordingExecutor) record(dir, cmd string, args ...string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Commands = append(e.Commands, RecordedCommand{
		Dir:  dir,
		Cmd:  cmd,
		Args: args,
	})

	var out []byte
	var err error

	if e.Outputs != nil {
		out = e.Outputs[cmd]
	}
	if e.Errors != nil {
		err = e.Errors[cmd]
	}

	return out, err
}

// StartDir records the command with directory and returns the configured error.
func (e *RecordingExecutor) StartDir(ctx context.Context, dir, cmd string, args ...string) error {
	_, err := e.record(dir, cmd, args...)
	return err
}

// Last returns the most recently recorded command.
func (e *RecordingExecutor) Last() (RecordedCommand, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Commands) == 0 {
		return RecordedCommand{}, false
	}
	return e.Commands[len(e.Commands)-1], true
}
