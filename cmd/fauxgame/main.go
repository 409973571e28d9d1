// Command fauxgame is the placeholder executable copied into every fake game
// directory. It does nothing but stay alive until it is killed, so the
// Discord client's process scanner sees a running game.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var title string

	app := &cli.Command{
		Name:      "fauxgame",
		Usage:     "Idle placeholder for a fake game install",
		UsageText: "fauxgame [--title name]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Usage:       "name shown in the log",
				Destination: &title,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			exe, _ := os.Executable()
			if title == "" {
				title = filepath.Base(exe)
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info().Str("title", title).Str("exe", exe).Int("pid", os.Getpid()).Msg("running")
			<-ctx.Done()
			log.Info().Str("title", title).Msg("exiting")
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
