package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/fauxplay/internal/core/catalog"
	"github.com/hay-kot/fauxplay/internal/fauxplay"
	"github.com/hay-kot/fauxplay/internal/printer"
	"github.com/hay-kot/fauxplay/internal/styles"
)

type InstallCmd struct {
	flags   *Flags
	appID   string
	exe     string
	relPath string
	name    string
	search  string
	start   bool
	title   string
}

// NewInstallCmd creates a new install command
func NewInstallCmd(flags *Flags) *InstallCmd {
	return &InstallCmd{flags: flags}
}

// Register adds the install command to the application
func (cmd *InstallCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "install",
		Usage:     "Create a fake game installation",
		UsageText: "fauxplay install --app-id ID --exe NAME [--path DIR] | --search PATTERN",
		Description: `Copies the placeholder executable to games/<app-id>/<path>/<exe>.

With --search, the detectable game catalog is loaded and the matching Windows
executables are offered in a picker. Installing the same layout twice
overwrites the executable and keeps one registry entry.`,
		Flags: []cli.Flag{
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
			&cli.StringFlag{
				Name:        "name",
				Usage:       "display name recorded for the installation",
				Destination: &cmd.name,
			},
			&cli.StringFlag{
				Name:        "search",
				Aliases:     []string{"s"},
				Usage:       "pick from catalog games matching a glob pattern",
				Destination: &cmd.search,
			},
			&cli.BoolFlag{
				Name:        "start",
				Usage:       "start the game after installing",
				Destination: &cmd.start,
			},
			&cli.StringFlag{
				Name:        "title",
				Usage:       "window title passed to the game when --start is set",
				Destination: &cmd.title,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *InstallCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	opts, err := cmd.resolve(ctx, p)
	if err != nil {
		return err
	}

	inst, err := cmd.flags.Service.Install(ctx, opts)
	if err != nil {
		return fmt.Errorf("install: %w", err)
	}

	p.Success(fmt.Sprintf("Installed %s (id %s)", inst.DisplayName(), inst.ID), inst.ExePath())

	if !cmd.start {
		return nil
	}

	if _, err := cmd.flags.Service.StartInstallation(ctx, inst.ID, cmd.title); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	p.Successf("Started %s", inst.Executable)
	return nil
}

func (cmd *InstallCmd) resolve(ctx context.Context, p *printer.Printer) (fauxplay.InstallOptions, error) {
	if cmd.search == "" {
		if cmd.appID == "" || cmd.exe == "" {
			return fauxplay.InstallOptions{}, errors.New("--app-id and --exe are required unless --search is used")
		}
		appID, err := parseAppID(cmd.appID)
		if err != nil {
			return fauxplay.InstallOptions{}, err
		}
		return fauxplay.InstallOptions{
			AppID:      appID,
			Name:       cmd.name,
			RelPath:    cmd.relPath,
			Executable: cmd.exe,
		}, nil
	}

	games, src, err := cmd.flags.Service.LoadCatalog(ctx)
	if err != nil {
		return fauxplay.InstallOptions{}, err
	}
	p.Infof("loaded %d games from the %s catalog", len(games), src)

	candidates := installCandidates(catalog.Search(games, cmd.search))
	if len(candidates) == 0 {
		return fauxplay.InstallOptions{}, fmt.Errorf("no Windows executables match %q", cmd.search)
	}

	choice := 0
	if len(candidates) > 1 {
		options := make([]huh.Option[int], len(candidates))
		for i, cand := range candidates {
			options[i] = huh.NewOption(cand.label, i)
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[int]().
					Title("Select an executable").
					Options(options...).
					Value(&choice),
			),
		).WithTheme(styles.FormTheme())

		if err := form.RunWithContext(ctx); err != nil {
			return fauxplay.InstallOptions{}, fmt.Errorf("pick executable: %w", err)
		}
	}

	return candidates[choice].opts, nil
}

type installCandidate struct {
	label string
	opts  fauxplay.InstallOptions
}

// installCandidates flattens games into one entry per installable executable.
// Games with an unparsable id are skipped.
func installCandidates(games []catalog.Game) []installCandidate {
	var out []installCandidate
	for _, g := range games {
		appID, err := strconv.ParseUint(g.ID, 10, 64)
		if err != nil {
			continue
		}
		for _, exe := range g.ForOS(catalog.OSWindows) {
			rel, file := exe.Split()
			if file == "" {
				continue
			}
			out = append(out, installCandidate{
				label: fmt.Sprintf("%s  %s", g.Name, exe.Name),
				opts: fauxplay.InstallOptions{
					AppID:      appID,
					Name:       g.Name,
					RelPath:    rel,
					Executable: file,
				},
			})
		}
	}
	return out
}

func parseAppID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid application id %q: must be numeric", s)
	}
	return id, nil
}
