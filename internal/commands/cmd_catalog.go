package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/fauxplay/internal/core/catalog"
	"github.com/hay-kot/fauxplay/internal/printer"
)

type CatalogCmd struct {
	flags  *Flags
	source string
	out    string
	os     string
	limit  int
}

// NewCatalogCmd creates a new catalog command
func NewCatalogCmd(flags *Flags) *CatalogCmd {
	return &CatalogCmd{flags: flags}
}

// Register adds the catalog commands to the application
func (cmd *CatalogCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "catalog",
		Usage: "Detectable game catalog commands",
		Commands: []*cli.Command{
			{
				Name:        "fetch",
				Usage:       "Download the raw catalog",
				UsageText:   "fauxplay catalog fetch [--source primary|mirror] [--out FILE]",
				Description: "Issues one GET to the chosen endpoint and writes the body unchanged.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "source",
						Usage:       "catalog endpoint (primary, mirror)",
						Value:       string(catalog.SourceMirror),
						Destination: &cmd.source,
					},
					&cli.StringFlag{
						Name:        "out",
						Aliases:     []string{"o"},
						Usage:       "write to a file instead of stdout",
						Destination: &cmd.out,
					},
				},
				Action: cmd.runFetch,
			},
			{
				Name:      "search",
				Usage:     "Search catalog games by name or alias",
				UsageText: "fauxplay catalog search [--os win32] <pattern>",
				Description: `Loads the catalog (mirror first, then primary) and lists games whose name or
alias matches the glob pattern. Plain words match as substrings.`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "os",
						Usage:       "only show executables for this platform",
						Value:       catalog.OSWindows,
						Destination: &cmd.os,
					},
					&cli.IntFlag{
						Name:        "limit",
						Usage:       "maximum number of games to show (0 for all)",
						Value:       25,
						Destination: &cmd.limit,
					},
				},
				Action: cmd.runSearch,
			},
		},
	})

	return app
}

func (cmd *CatalogCmd) runFetch(ctx context.Context, c *cli.Command) error {
	src, err := catalog.ParseSource(cmd.source)
	if err != nil {
		return err
	}

	body, err := cmd.flags.Service.FetchCatalog(ctx, src)
	if err != nil {
		return err
	}

	if cmd.out == "" {
		_, err := c.Root().Writer.Write(body)
		return err
	}

	if err := os.WriteFile(cmd.out, body, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}

	printer.Ctx(ctx).Successf("Wrote %s from the %s catalog to %s", humanize.Bytes(uint64(len(body))), src, cmd.out)
	return nil
}

func (cmd *CatalogCmd) runSearch(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	pattern := strings.Join(c.Args().Slice(), " ")
	if pattern == "" {
		return fmt.Errorf("a search pattern is required")
	}

	games, src, err := cmd.flags.Service.LoadCatalog(ctx)
	if err != nil {
		return err
	}

	matches := catalog.Search(games, pattern)
	p.Infof("%s of %s games in the %s catalog match", humanize.Comma(int64(len(matches))), humanize.Comma(int64(len(games))), src)
	if len(matches) == 0 {
		return nil
	}

	if cmd.limit > 0 && len(matches) > cmd.limit {
		matches = matches[:cmd.limit]
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "APP ID\tNAME\tPATH\tEXECUTABLE")
	for _, g := range matches {
		exes := g.ForOS(cmd.os)
		if len(exes) == 0 {
			_, _ = fmt.Fprintf(w, "%s\t%s\t-\t-\n", g.ID, g.Name)
			continue
		}
		for _, exe := range exes {
			rel, file := exe.Split()
			if rel == "" {
				rel = "."
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", g.ID, g.Name, rel, file)
		}
	}
	return w.Flush()
}
