//go:build windows

package discord

import (
	"context"
	"fmt"
	"io"
	"os"
)

func candidatePaths() []string {
	paths := make([]string, 0, 10)
	for i := range 10 {
		paths = append(paths, fmt.Sprintf(`\\.\pipe\discord-ipc-%d`, i))
	}
	return paths
}

// dialIPC opens the first available named pipe. Pipes opened this way are
// synchronous; Handshake interrupts blocked reads by closing the handle.
func dialIPC(ctx context.Context, path string) (io.ReadWriteCloser, error) {
	paths := candidatePaths()
	if path != "" {
		paths = []string{path}
	}

	var lastErr error
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(p, os.O_RDWR, 0)
		if err == nil {
			return f, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %w", ErrUnavailable, lastErr)
}
