package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/fauxplay/internal/tui"
)

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{
		flags: flags,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return nil
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(_ context.Context, _ *cli.Command) error {
	svc := cmd.flags.Service

	evs, unsubscribe := svc.Events().Subscribe(32)
	defer unsubscribe()

	m := tui.New(svc, svc.Lifecycle(), evs)
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, runErr := p.Run()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := svc.Lifecycle().Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("presence shutdown timed out")
	}

	if runErr != nil {
		return fmt.Errorf("run tui: %w", runErr)
	}
	return nil
}
