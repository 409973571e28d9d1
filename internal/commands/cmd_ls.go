package commands

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/fauxplay/internal/core/install"
	"github.com/hay-kot/fauxplay/internal/printer"
)

type LsCmd struct {
	flags *Flags
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "ls",
		Usage:       "List fake game installations",
		UsageText:   "fauxplay ls",
		Description: "Displays a table of installations with their application, executable, last known state, and age.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	insts, err := cmd.flags.Service.ListInstallations(ctx)
	if err != nil {
		return fmt.Errorf("list installations: %w", err)
	}

	if len(insts) == 0 {
		p.Infof("No installations found")
		return nil
	}

	slices.SortFunc(insts, func(a, b install.Installation) int {
		return strings.Compare(strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName()))
	})

	renderInstallations(c.Root().Writer, insts, time.Now())
	return nil
}

func renderInstallations(out io.Writer, insts []install.Installation, now time.Time) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tAPP ID\tNAME\tEXECUTABLE\tSTATE\tINSTALLED\tPATH")

	for _, i := range insts {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			i.ID, i.AppID, i.DisplayName(), i.Executable, i.State,
			humanize.RelTime(i.CreatedAt, now, "ago", "from now"), i.ExePath())
	}

	_ = w.Flush()
}
