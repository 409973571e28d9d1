// Package fauxplay provides the service layer that ties the presence lifecycle,
// the process controller and the catalog together.
package fauxplay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/fauxplay/internal/core/catalog"
	"github.com/hay-kot/fauxplay/internal/core/config"
	"github.com/hay-kot/fauxplay/internal/core/events"
	"github.com/hay-kot/fauxplay/internal/core/install"
	"github.com/hay-kot/fauxplay/internal/core/presence"
	"github.com/hay-kot/fauxplay/pkg/executil"
	"github.com/hay-kot/fauxplay/pkg/randid"
)

// InstallOptions describes a game layout to materialize.
type InstallOptions struct {
	AppID      uint64
	Name       string // display name, optional
	RelPath    string // directory below games/<app_id>, may be empty
	Executable string // file name of the executable
}

// StartOptions describes a materialized game to launch.
type StartOptions struct {
	Title      string
	AppID      uint64
	RelPath    string
	Executable string
}

// Service orchestrates fauxplay operations.
type Service struct {
	config     *config.Config
	installs   install.Store
	bus        *events.Bus
	lifecycle  *Manager
	controller *Controller
	fetcher    *catalog.Fetcher
	log        zerolog.Logger
	now        func() time.Time
}

// New creates a new Service. The service owns the event bus and the presence
// slot.
func New(
	cfg *config.Config,
	installs install.Store,
	connector Connector,
	exec executil.Executor,
	log zerolog.Logger,
) *Service {
	bus := events.New()
	return &Service{
		config:   cfg,
		installs: installs,
		bus:      bus,
		lifecycle: NewManager(
			log.With().Str("component", "lifecycle").Logger(),
			bus,
			presence.NewSlot(),
			connector,
			cfg.Discord.ConnectTimeout,
		),
		controller: NewController(log.With().Str("component", "controller").Logger(), exec, cfg),
		fetcher:    catalog.NewFetcher(cfg.Catalog.PrimaryURL, cfg.Catalog.MirrorURL, cfg.Catalog.Timeout),
		log:        log,
		now:        time.Now,
	}
}

// Events returns the bus lifecycle and process events are published on.
func (s *Service) Events() *events.Bus {
	return s.bus
}

// Lifecycle returns the presence session manager.
func (s *Service) Lifecycle() *Manager {
	return s.lifecycle
}

// Installs returns the installation registry.
func (s *Service) Installs() install.Store {
	return s.installs
}

// Install materializes a game and records it in the registry.
func (s *Service) Install(ctx context.Context, opts InstallOptions) (install.Installation, error) {
	s.log.Info().
		Uint64("app_id", opts.AppID).
		Str("rel_path", opts.RelPath).
		Str("exe", opts.Executable).
		Msg("installing game")

	dir, err := s.controller.Materialize(opts.RelPath, opts.Executable, opts.AppID)
	if err != nil {
		return install.Installation{}, err
	}

	now := s.now()
	inst, err := s.installs.Find(ctx, opts.AppID, opts.RelPath, opts.Executable)
	switch {
	case errors.Is(err, install.ErrNotFound):
		inst = install.Installation{
			ID:         randid.Generate(6),
			AppID:      opts.AppID,
			RelPath:    opts.RelPath,
			Executable: opts.Executable,
			State:      install.StateInstalled,
			CreatedAt:  now,
		}
	case err != nil:
		return install.Installation{}, fmt.Errorf("lookup installation: %w", err)
	}

	if opts.Name != "" {
		inst.Name = opts.Name
	}
	inst.Dir = dir
	inst.UpdatedAt = now

	if err := s.installs.Save(ctx, inst); err != nil {
		return install.Installation{}, fmt.Errorf("save installation: %w", err)
	}

	s.bus.Emit(events.GameInstalled, events.GamePayload{
		ApplicationID:  opts.AppID,
		ExecutableName: opts.Executable,
		Path:           inst.ExePath(),
	})

	return inst, nil
}

// Start launches a materialized game.
func (s *Service) Start(ctx context.Context, opts StartOptions) error {
	if err := s.controller.Spawn(ctx, opts.Title, opts.RelPath, opts.Executable, opts.AppID); err != nil {
		return err
	}

	inst, err := s.installs.Find(ctx, opts.AppID, opts.RelPath, opts.Executable)
	if err == nil {
		inst.MarkRunning(s.now())
		if err := s.installs.Save(ctx, inst); err != nil {
			s.log.Warn().Err(err).Str("id", inst.ID).Msg("failed to record running state")
		}
	} else if !errors.Is(err, install.ErrNotFound) {
		s.log.Warn().Err(err).Msg("failed to look up installation")
	}

	dir, _ := s.controller.Target(opts.RelPath, opts.AppID)
	s.bus.Emit(events.GameStarted, events.GamePayload{
		ApplicationID:  opts.AppID,
		ExecutableName: opts.Executable,
		Path:           dir,
	})

	return nil
}

// StartInstallation launches a registered installation by ID.
func (s *Service) StartInstallation(ctx context.Context, id, title string) (install.Installation, error) {
	inst, err := s.installs.Get(ctx, id)
	if err != nil {
		return install.Installation{}, err
	}

	if title == "" {
		title = inst.DisplayName()
	}

	err = s.Start(ctx, StartOptions{
		Title:      title,
		AppID:      inst.AppID,
		RelPath:    inst.RelPath,
		Executable: inst.Executable,
	})
	return inst, err
}

// Stop kills every process named exeName and marks matching installations as
// stopped.
func (s *Service) Stop(ctx context.Context, exeName string) error {
	if err := s.controller.Stop(ctx, exeName); err != nil {
		return err
	}

	insts, err := s.installs.List(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to list installations")
	}
	now := s.now()
	for _, inst := range insts {
		if inst.Executable != exeName || inst.State != install.StateRunning {
			continue
		}
		inst.MarkStopped(now)
		if err := s.installs.Save(ctx, inst); err != nil {
			s.log.Warn().Err(err).Str("id", inst.ID).Msg("failed to record stopped state")
		}
	}

	s.bus.Emit(events.GameStopped, events.GamePayload{ExecutableName: exeName})
	return nil
}

// Uninstall removes an installation's executable and its registry record.
func (s *Service) Uninstall(ctx context.Context, id string) (install.Installation, error) {
	inst, err := s.installs.Get(ctx, id)
	if err != nil {
		return install.Installation{}, err
	}

	if err := s.controller.Remove(inst.RelPath, inst.Executable, inst.AppID); err != nil {
		return install.Installation{}, err
	}

	if err := s.installs.Delete(ctx, inst.ID); err != nil {
		return install.Installation{}, fmt.Errorf("delete installation: %w", err)
	}

	return inst, nil
}

// ListInstallations returns the registry contents.
func (s *Service) ListInstallations(ctx context.Context) ([]install.Installation, error) {
	return s.installs.List(ctx)
}

// FetchCatalog returns the raw catalog body from src.
func (s *Service) FetchCatalog(ctx context.Context, src catalog.Source) ([]byte, error) {
	return s.fetcher.Fetch(ctx, src)
}

// LoadCatalog fetches and parses the catalog, trying the mirror first and
// falling back to the primary endpoint. It reports which source was used.
func (s *Service) LoadCatalog(ctx context.Context) ([]catalog.Game, catalog.Source, error) {
	var errs []error
	for _, src := range []catalog.Source{catalog.SourceMirror, catalog.SourcePrimary} {
		body, err := s.fetcher.Fetch(ctx, src)
		if err == nil {
			var games []catalog.Game
			games, err = catalog.Parse(body)
			if err == nil {
				s.log.Debug().Str("source", string(src)).Int("games", len(games)).Msg("catalog loaded")
				return games, src, nil
			}
		}

		s.log.Warn().Err(err).Str("source", string(src)).Msg("catalog source failed")
		errs = append(errs, fmt.Errorf("%s: %w", src, err))

		if ctx.Err() != nil {
			break
		}
	}

	return nil, "", fmt.Errorf("load catalog: %w", errors.Join(errs...))
}
