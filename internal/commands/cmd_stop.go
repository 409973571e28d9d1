package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/fauxplay/internal/printer"
)

type StopCmd struct {
	flags *Flags
}

// NewStopCmd creates a new stop command
func NewStopCmd(flags *Flags) *StopCmd {
	return &StopCmd{flags: flags}
}

// Register adds the stop command to the application
func (cmd *StopCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "stop",
		Usage:     "Kill every process with the given executable name",
		UsageText: "fauxplay stop <exe-name>",
		Description: `Runs the configured stop_command for the executable name. This kills every
process with that image name on the system, not only ones fauxplay started.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *StopCmd) run(ctx context.Context, c *cli.Command) error {
	name := c.Args().First()
	if name == "" {
		return errors.New("executable name is required")
	}

	if err := cmd.flags.Service.Stop(ctx, name); err != nil {
		return fmt.Errorf("stop: %w", err)
	}

	printer.Ctx(ctx).Successf("Stopped %s", name)
	return nil
}
