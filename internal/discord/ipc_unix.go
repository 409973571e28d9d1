//go:build !windows

package discord

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
)

// runtimeDirs lists the directories Discord (and common sandboxed builds)
// create their IPC sockets in.
func runtimeDirs() []string {
	base := "/tmp"
	for _, env := range []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"} {
		if v := os.Getenv(env); v != "" {
			base = v
			break
		}
	}
	return []string{
		base,
		filepath.Join(base, "app", "com.discordapp.Discord"),
		filepath.Join(base, "snap.discord"),
		filepath.Join(base, ".flatpak", "dev.vencord.Vesktop", "xdg-run"),
	}
}

// candidatePaths returns socket paths in the order Discord assigns them.
func candidatePaths() []string {
	var paths []string
	for i := range 10 {
		for _, dir := range runtimeDirs() {
			paths = append(paths, filepath.Join(dir, fmt.Sprintf("discord-ipc-%d", i)))
		}
	}
	return paths
}

func dialIPC(ctx context.Context, path string) (io.ReadWriteCloser, error) {
	paths := candidatePaths()
	if path != "" {
		paths = []string{path}
	}

	var (
		d       net.Dialer
		lastErr error
	)
	for _, p := range paths {
		conn, err := d.DialContext(ctx, "unix", p)
		if err == nil {
			return conn, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %w", ErrUnavailable, lastErr)
}
