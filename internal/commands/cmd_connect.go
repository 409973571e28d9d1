package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/fauxplay/internal/core/events"
	"github.com/hay-kot/fauxplay/internal/printer"
)

type ConnectCmd struct {
	flags    *Flags
	file     string
	duration time.Duration
	json     bool
}

// NewConnectCmd creates a new connect command
func NewConnectCmd(flags *Flags) *ConnectCmd {
	return &ConnectCmd{flags: flags}
}

// Register adds the connect command to the application
func (cmd *ConnectCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "connect",
		Usage:     "Publish a rich presence activity until interrupted",
		UsageText: "fauxplay connect [options] [activity-json | -]",
		Description: `Connects to the local Discord client and publishes the given activity.

The activity is a JSON object with a required "app_id" (string) and optional
"details", "state", "largeImageKey", "largeImageText", "timestamp" and
"activity_kind" fields. Pass it as an argument, with --file, or as '-' to read
stdin.

The session stays up until Ctrl-C, until --for elapses, or until Discord drops it.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "read the activity JSON from a file",
				Destination: &cmd.file,
			},
			&cli.DurationFlag{
				Name:        "for",
				Usage:       "disconnect after this long (0 keeps the session until interrupted)",
				Destination: &cmd.duration,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print lifecycle events as JSON lines",
				Destination: &cmd.json,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ConnectCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	text, err := cmd.readActivity(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.duration)
		defer cancel()
	}

	svc := cmd.flags.Service
	lifecycle := svc.Lifecycle()

	evs, cancelSub := svc.Events().Subscribe(16)
	defer cancelSub()

	if err := lifecycle.Connect(text); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	out := c.Root().Writer
	var connectedAt time.Time

	for {
		select {
		case <-ctx.Done():
			waitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := lifecycle.Shutdown(waitCtx); err != nil {
				return fmt.Errorf("shut down presence: %w", err)
			}

			if !connectedAt.IsZero() && !cmd.json {
				p.Infof("disconnected after %s", humanize.RelTime(connectedAt, time.Now(), "", ""))
			}
			return nil

		case ev, ok := <-evs:
			if !ok {
				return nil
			}

			cmd.printEvent(p, out, ev)

			switch ev.Name {
			case events.ClientConnected:
				connectedAt = ev.At
			case events.ClientConnectFailed:
				return cli.Exit("", 1)
			case events.ClientDisconnected:
				if !connectedAt.IsZero() {
					// dropped by the remote side
					return errors.New("presence session ended")
				}
			}
		}
	}
}

func (cmd *ConnectCmd) printEvent(p *printer.Printer, out io.Writer, ev events.Event) {
	if cmd.json {
		line := struct {
			Name    string    `json:"name"`
			Payload any       `json:"payload,omitempty"`
			At      time.Time `json:"at"`
		}{ev.Name, ev.Payload, ev.At}
		_ = json.NewEncoder(out).Encode(line)
		return
	}

	switch payload := ev.Payload.(type) {
	case events.ConnectedPayload:
		p.Successf("connected as %s (app %d)", payload.User, payload.ApplicationID)
	case events.FailedPayload:
		p.Errorf("connect failed: %s", payload.Error)
	case events.AppPayload:
		switch ev.Name {
		case events.ClientConnecting:
			p.Infof("connecting (app %d)", payload.ApplicationID)
		case events.ClientDisconnected:
			p.Warnf("disconnected (app %d)", payload.ApplicationID)
		}
	}
}

func (cmd *ConnectCmd) readActivity(c *cli.Command) (string, error) {
	arg := c.Args().First()

	switch {
	case cmd.file != "" && arg != "":
		return "", errors.New("pass the activity as an argument or with --file, not both")
	case cmd.file != "":
		data, err := os.ReadFile(cmd.file)
		if err != nil {
			return "", fmt.Errorf("read activity file: %w", err)
		}
		return string(data), nil
	case arg == "-":
		data, err := io.ReadAll(c.Root().Reader)
		if err != nil {
			return "", fmt.Errorf("read activity from stdin: %w", err)
		}
		return string(data), nil
	case strings.TrimSpace(arg) == "":
		return "", errors.New("activity JSON is required")
	default:
		return arg, nil
	}
}
