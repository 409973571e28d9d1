package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/fauxplay/internal/printer"
)

type UninstallCmd struct {
	flags *Flags
	all   bool
}

// NewUninstallCmd creates a new uninstall command
func NewUninstallCmd(flags *Flags) *UninstallCmd {
	return &UninstallCmd{flags: flags}
}

// Register adds the uninstall command to the application
func (cmd *UninstallCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "uninstall",
		Usage:     "Remove fake game installations",
		UsageText: "fauxplay uninstall [--all] [id...]",
		Description: `Removes the placeholder executable of each installation and deletes its
registry record. Directories left empty below the games directory are removed.

Use --all to remove every installation.

Running games are not stopped; use 'fauxplay stop' first.`,
		Action: cmd.run,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"a"},
				Usage:       "remove all installations",
				Destination: &cmd.all,
			},
		},
	})

	return app
}

func (cmd *UninstallCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	svc := cmd.flags.Service

	ids := c.Args().Slice()
	if cmd.all {
		insts, err := svc.ListInstallations(ctx)
		if err != nil {
			return fmt.Errorf("list installations: %w", err)
		}
		ids = ids[:0]
		for _, inst := range insts {
			ids = append(ids, inst.ID)
		}
	}

	if len(ids) == 0 {
		if cmd.all {
			p.Infof("No installations to remove")
			return nil
		}
		return fmt.Errorf("installation id required (or use --all)")
	}

	removed := 0
	for _, id := range ids {
		inst, err := svc.Uninstall(ctx, id)
		if err != nil {
			p.Errorf("%s: %v", id, err)
			continue
		}
		p.Printf("%s %s", p.StatusOK("removed"), inst.ExePath())
		removed++
	}

	if removed < len(ids) {
		return cli.Exit("", 1)
	}

	p.Successf("Removed %d installation(s)", removed)
	return nil
}
