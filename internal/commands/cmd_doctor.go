package commands

import (
	"context"
	"encoding/json"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/fauxplay/internal/commands/doctor"
	"github.com/hay-kot/fauxplay/internal/discord"
	"github.com/hay-kot/fauxplay/internal/printer"
)

type DoctorCmd struct {
	flags  *Flags
	format string
	fix    bool
}

func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your fauxplay setup",
		UsageText:   "fauxplay doctor [options]",
		Description: "Checks the configuration, the Discord IPC endpoint and the installation registry.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "fix",
				Usage:       "remove registry records whose executable is missing",
				Destination: &cmd.fix,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	checks := []doctor.Check{
		doctor.NewConfigCheck(cmd.flags.Config, cmd.flags.ConfigPath),
		doctor.NewDiscordCheck(discord.Probe, cmd.flags.Config.Discord.IPCPath),
		doctor.NewInstallsCheck(cmd.flags.Service.Installs(), cmd.fix),
	}

	results := doctor.RunAll(ctx, checks)

	if cmd.format == "json" {
		return cmd.outputJSON(c, results)
	}

	return cmd.outputText(ctx, results)
}

func (cmd *DoctorCmd) outputJSON(c *cli.Command, results []doctor.Result) error {
	counts := doctor.Summarize(results)

	out := struct {
		Healthy bool            `json:"healthy"`
		Summary doctor.Counts   `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{
		Healthy: counts.Healthy(),
		Summary: counts,
		Checks:  results,
	}

	enc := json.NewEncoder(c.Root().Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (cmd *DoctorCmd) outputText(ctx context.Context, results []doctor.Result) error {
	p := printer.Ctx(ctx)

	for _, result := range results {
		p.Section(result.Name)

		for _, item := range result.Items {
			switch item.Status {
			case doctor.StatusPass:
				p.CheckItem(item.Label, item.Detail)
			case doctor.StatusWarn:
				p.WarnItem(item.Label, item.Detail)
			case doctor.StatusFail:
				p.FailItem(item.Label, item.Detail)
			}
		}

		p.Printf("")
	}

	counts := doctor.Summarize(results)
	p.Printf("Summary: %d passed, %d warnings, %d failed", counts.Passed, counts.Warned, counts.Failed)
	if counts.Fixable > 0 && !cmd.fix {
		p.Infof("Run 'fauxplay doctor --fix' to repair %d issue(s)", counts.Fixable)
	}

	if !counts.Healthy() {
		return cli.Exit("", 1)
	}

	return nil
}
