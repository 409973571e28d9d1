// Package discord implements a minimal Discord rich presence client over the
// local IPC socket (unix domain socket or Windows named pipe).
package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hay-kot/fauxplay/internal/core/activity"
	"github.com/hay-kot/fauxplay/internal/core/presence"
)

// Client is a handshaken IPC connection bound to one application id.
type Client struct {
	conn  io.ReadWriteCloser
	log   zerolog.Logger
	appID uint64
	user  presence.User

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan response
	err     error

	done      chan struct{}
	closeOnce sync.Once
}

// Options configures Dial.
type Options struct {
	// Path overrides IPC endpoint discovery when set.
	Path   string
	Logger zerolog.Logger
}

// Dial connects to the local Discord client and performs the handshake. It
// blocks until Discord reports READY, reports an error, closes the
// connection, or ctx is done.
func Dial(ctx context.Context, appID uint64, opts Options) (*Client, error) {
	conn, err := dialIPC(ctx, opts.Path)
	if err != nil {
		return nil, err
	}
	return Handshake(ctx, conn, appID, opts.Logger)
}

// Handshake performs the IPC handshake over an established transport and
// starts the read loop. conn is closed on failure.
func Handshake(ctx context.Context, conn io.ReadWriteCloser, appID uint64, log zerolog.Logger) (*Client, error) {
	// Closing the transport is the only portable way to interrupt a blocked
	// read on both sockets and named pipes.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })

	user, err := handshakeExchange(conn, appID, log)
	if !stop() || ctx.Err() != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("handshake: %w", ctx.Err())
	}
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("handshake: %w", err)
	}

	c := &Client{
		conn:    conn,
		log:     log,
		appID:   appID,
		user:    user,
		pending: make(map[string]chan response),
		done:    make(chan struct{}),
	}
	go c.readLoop()

	log.Debug().Uint64("app_id", appID).Str("user", user.Username).Msg("discord handshake complete")
	return c, nil
}

func handshakeExchange(conn io.ReadWriter, appID uint64, log zerolog.Logger) (presence.User, error) {
	hs := handshake{V: rpcVersion, ClientID: strconv.FormatUint(appID, 10)}
	if err := writeFrame(conn, OpHandshake, hs); err != nil {
		return presence.User{}, err
	}

	for {
		op, body, err := readFrame(conn)
		if err != nil {
			return presence.User{}, fmt.Errorf("%w: %w", ErrClosed, err)
		}

		switch op {
		case OpFrame:
			var resp response
			if err := json.Unmarshal(body, &resp); err != nil {
				return presence.User{}, fmt.Errorf("decode frame: %w", err)
			}
			if err := resp.asError(); err != nil {
				return presence.User{}, err
			}
			if resp.Evt != "READY" {
				log.Debug().Str("evt", resp.Evt).Msg("ignoring frame before READY")
				continue
			}
			var ready readyData
			if err := json.Unmarshal(resp.Data, &ready); err != nil {
				return presence.User{}, fmt.Errorf("decode READY: %w", err)
			}
			return ready.User, nil
		case OpClose:
			return presence.User{}, closeError(body)
		case OpPing:
			if err := writeRaw(conn, OpPong, body); err != nil {
				return presence.User{}, err
			}
		default:
			log.Debug().Stringer("op", op).Msg("ignoring frame before READY")
		}
	}
}

func closeError(body []byte) error {
	var e Error
	if err := json.Unmarshal(body, &e); err != nil || (e.Code == 0 && e.Message == "") {
		return ErrClosed
	}
	return fmt.Errorf("%w: %w", ErrClosed, &e)
}

// User returns the identity reported in READY.
func (c *Client) User() presence.User { return c.user }

// AppID returns the application id the connection was opened for.
func (c *Client) AppID() uint64 { return c.appID }

// Done is closed once the connection has terminated.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err returns the reason the connection terminated, or nil while it is live.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// SetActivity publishes d as the current rich presence.
func (c *Client) SetActivity(ctx context.Context, d activity.Descriptor) error {
	args := setActivityArgs{PID: os.Getpid(), Activity: toWireActivity(d)}
	_, err := c.call(ctx, "SET_ACTIVITY", args, "")
	return err
}

// ClearActivity removes the current rich presence.
func (c *Client) ClearActivity(ctx context.Context) error {
	args := setActivityArgs{PID: os.Getpid()}
	_, err := c.call(ctx, "SET_ACTIVITY", args, "")
	return err
}

// Subscribe asks Discord to deliver evt dispatches on this connection.
func (c *Client) Subscribe(ctx context.Context, evt string) error {
	_, err := c.call(ctx, "SUBSCRIBE", nil, evt)
	return err
}

func (c *Client) call(ctx context.Context, cmd string, args any, evt string) (response, error) {
	nonce := uuid.NewString()
	ch := make(chan response, 1)

	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return response{}, err
	}
	c.pending[nonce] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, nonce)
		c.mu.Unlock()
	}()

	c.writeMu.Lock()
	err := writeFrame(c.conn, OpFrame, request{Cmd: cmd, Args: args, Evt: evt, Nonce: nonce})
	c.writeMu.Unlock()
	if err != nil {
		return response{}, fmt.Errorf("%s: %w", cmd, err)
	}

	select {
	case resp := <-ch:
		if err := resp.asError(); err != nil {
			return resp, fmt.Errorf("%s: %w", cmd, err)
		}
		return resp, nil
	case <-c.done:
		return response{}, fmt.Errorf("%s: %w", cmd, c.Err())
	case <-ctx.Done():
		return response{}, fmt.Errorf("%s: %w", cmd, ctx.Err())
	}
}

func (c *Client) readLoop() {
	for {
		op, body, err := readFrame(c.conn)
		if err != nil {
			c.fail(fmt.Errorf("%w: %w", ErrClosed, err))
			return
		}

		switch op {
		case OpFrame:
			var resp response
			if err := json.Unmarshal(body, &resp); err != nil {
				c.log.Warn().Err(err).Msg("dropping undecodable frame")
				continue
			}
			c.dispatch(resp)
		case OpPing:
			c.writeMu.Lock()
			err := writeRaw(c.conn, OpPong, body)
			c.writeMu.Unlock()
			if err != nil {
				c.fail(err)
				return
			}
		case OpClose:
			c.fail(closeError(body))
			return
		default:
			c.log.Debug().Stringer("op", op).Msg("ignoring frame")
		}
	}
}

func (c *Client) dispatch(resp response) {
	if resp.Nonce == "" {
		c.log.Debug().Str("evt", resp.Evt).RawJSON("data", nonEmptyJSON(resp.Data)).Msg("discord event")
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[resp.Nonce]
	c.mu.Unlock()
	if !ok {
		c.log.Debug().Str("nonce", resp.Nonce).Msg("response for unknown nonce")
		return
	}

	select {
	case ch <- resp:
	default:
	}
}

// fail records the terminal error once and releases waiters.
func (c *Client) fail(err error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		_ = c.conn.Close()
		close(c.done)
	})
}

// Close terminates the connection. Discord clears the presence published by
// this connection once the transport is gone. Close is idempotent.
func (c *Client) Close() error {
	c.fail(ErrClosed)
	return nil
}

func nonEmptyJSON(b json.RawMessage) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	return b
}
