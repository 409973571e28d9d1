package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/fauxplay/internal/fauxplay"
	"github.com/hay-kot/fauxplay/internal/printer"
)

type StartCmd struct {
	flags   *Flags
	title   string
	appID   string
	exe     string
	relPath string
}

// NewStartCmd creates a new start command
func NewStartCmd(flags *Flags) *StartCmd {
	return &StartCmd{flags: flags}
}

// Register adds the start command to the application
func (cmd *StartCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "start",
		Usage:     "Start an installed fake game",
		UsageText: "fauxplay start [--title TITLE] <install-id> | --app-id ID --exe NAME [--path DIR]",
		Description: `Launches the placeholder from its installation directory as a detached
background process. Use 'fauxplay ls' to find installation IDs.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Usage:       "window title passed to the game (defaults to the game name)",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "app-id",
				Usage:       "Discord application ID",
				Destination: &cmd.appID,
			},
			&cli.StringFlag{
				Name:        "exe",
				Usage:       "executable file name",
				Destination: &cmd.exe,
			},
			&cli.StringFlag{
				Name:        "path",
				Usage:       "directory below the application folder",
				Destination: &cmd.relPath,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *StartCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if id := c.Args().First(); id != "" {
		inst, err := cmd.flags.Service.StartInstallation(ctx, id, cmd.title)
		if err != nil {
			return fmt.Errorf("start %s: %w", id, err)
		}
		p.Successf("Started %s", inst.DisplayName())
		return nil
	}

	if cmd.appID == "" || cmd.exe == "" {
		return errors.New("an installation ID or --app-id and --exe are required")
	}

	appID, err := parseAppID(cmd.appID)
	if err != nil {
		return err
	}

	title := cmd.title
	if title == "" {
		title = cmd.exe
	}

	err = cmd.flags.Service.Start(ctx, fauxplay.StartOptions{
		Title:      title,
		AppID:      appID,
		RelPath:    cmd.relPath,
		Executable: cmd.exe,
	})
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}

	p.Successf("Started %s", cmd.exe)
	return nil
}
