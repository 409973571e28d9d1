// Package executil provides process execution utilities.
package executil

import (
	"context"
	"fmt"
	"os/exec"
)

// Executor runs external commands.
type Executor interface {
	// Run executes a command and returns its combined output.
	Run(ctx context.Context, cmd string, args ...string) ([]byte, error)
	// StartDir launches a command in dir without waiting for it to exit. The
	// child is detached from the caller's process group and outlives ctx.
	StartDir(ctx context.Context, dir, cmd string, args ...string) error
}

// RealExecutor calls actual commands.
type RealExecutor struct{}

// Run executes a command and returns its combined output.
func (e *RealExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, cmd, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("exec %s: %w", cmd, err)
	}
	return out, nil
}

// StartDir launches a detached command in dir. The process is reaped in the
// background; no handle is returned.
func (e *RealExecutor) StartDir(ctx context.Context, dir, cmd string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Not CommandContext: the child must survive the caller's context.
	c := exec.Command(cmd, args...)
	c.Dir = dir
	c.SysProcAttr = detachedAttr()

	if err := c.Start(); err != nil {
		return fmt.Errorf("start %s in %s: %w", cmd, dir, err)
	}

	go func() { _ = c.Wait() }()

	return nil
}
