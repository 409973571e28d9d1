package discord

import "context"

// Probe reports whether a Discord IPC endpoint accepts connections. No
// handshake is performed.
func Probe(ctx context.Context, path string) error {
	conn, err := dialIPC(ctx, path)
	if err != nil {
		return err
	}
	return conn.Close()
}
