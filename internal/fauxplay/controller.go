package fauxplay

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hay-kot/fauxplay/internal/core/config"
	"github.com/hay-kot/fauxplay/pkg/executil"
	"github.com/hay-kot/fauxplay/pkg/tmpl"
)

// Controller lays out fake installations and starts and kills their
// placeholder processes.
type Controller struct {
	log         zerolog.Logger
	executor    executil.Executor
	gamesDir    string
	placeholder string
	spawnArgs   []string
	stopCommand []string
}

// NewController creates a Controller from the configured paths and templates.
func NewController(log zerolog.Logger, exec executil.Executor, cfg *config.Config) *Controller {
	return &Controller{
		log:         log,
		executor:    exec,
		gamesDir:    cfg.GamesDir,
		placeholder: cfg.Placeholder,
		spawnArgs:   cfg.SpawnArgs,
		stopCommand: cfg.StopCommand,
	}
}

// Target returns <games_dir>/<app_id>/<relPath>, rejecting paths that would
// land outside the application's directory.
func (c *Controller) Target(relPath string, appID uint64) (string, error) {
	if relPath != "" && isPathTraversal(relPath) {
		return "", &IOError{Op: "resolve", Path: relPath, Err: errors.New("path escapes the games directory")}
	}
	return filepath.Join(c.gamesDir, strconv.FormatUint(appID, 10), filepath.FromSlash(relPath)), nil
}

// Materialize creates the installation directory and copies the placeholder
// executable into it as exeName. It returns the directory. Repeated calls
// overwrite the same file.
func (c *Controller) Materialize(relPath, exeName string, appID uint64) (string, error) {
	if err := validExeName(exeName); err != nil {
		return "", &IOError{Op: "materialize", Err: err}
	}

	target, err := c.Target(relPath, appID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(target, fs.ModePerm); err != nil {
		return "", &IOError{Op: "create directory", Path: target, Err: err}
	}

	dst := filepath.Join(target, exeName)
	if err := copyFile(c.log, c.placeholder, dst); err != nil {
		return "", &IOError{Op: "copy placeholder", Path: dst, Err: err}
	}

	c.log.Info().
		Uint64("app_id", appID).
		Str("path", dst).
		Msg("materialized game")

	return target, nil
}

// Spawn starts the materialized executable detached, with its installation
// directory as the working directory. No process handle is kept.
func (c *Controller) Spawn(ctx context.Context, title, relPath, exeName string, appID uint64) error {
	if err := validExeName(exeName); err != nil {
		return &ProcessError{Op: "spawn", Name: exeName, Err: err}
	}

	target, err := c.Target(relPath, appID)
	if err != nil {
		return &ProcessError{Op: "spawn", Name: exeName, Err: err}
	}

	args, err := tmpl.RenderArgs(c.spawnArgs, config.SpawnTemplateData{
		Title: title,
		Name:  exeName,
		Dir:   target,
		AppID: strconv.FormatUint(appID, 10),
	})
	if err != nil {
		return &ProcessError{Op: "spawn", Name: exeName, Err: fmt.Errorf("render spawn_args: %w", err)}
	}

	exe := filepath.Join(target, exeName)
	c.log.Debug().Str("exe", exe).Strs("args", args).Msg("spawning game")

	if err := c.executor.StartDir(ctx, target, exe, args...); err != nil {
		return &ProcessError{Op: "spawn", Name: exeName, Err: err}
	}

	c.log.Info().Uint64("app_id", appID).Str("exe", exe).Msg("game started")
	return nil
}

// Stop kills every process whose image name is exeName, system-wide. It is not
// limited to processes started by Spawn.
func (c *Controller) Stop(ctx context.Context, exeName string) error {
	if err := validExeName(exeName); err != nil {
		return &ProcessError{Op: "stop", Name: exeName, Err: err}
	}

	argv, err := tmpl.RenderArgs(c.stopCommand, config.StopTemplateData{Name: exeName})
	if err != nil {
		return &ProcessError{Op: "stop", Name: exeName, Err: fmt.Errorf("render stop_command: %w", err)}
	}
	if len(argv) == 0 {
		return &ProcessError{Op: "stop", Name: exeName, Err: errors.New("stop_command is empty")}
	}

	c.log.Debug().Strs("argv", argv).Msg("stopping game")

	out, err := c.executor.Run(ctx, argv[0], argv[1:]...)
	if err != nil {
		return &ProcessError{Op: "stop", Name: exeName, Output: string(out), Err: err}
	}

	c.log.Info().Str("name", exeName).Msg("game stopped")
	return nil
}

// Remove deletes an installed executable and then any directories left empty
// between it and the games directory.
func (c *Controller) Remove(relPath, exeName string, appID uint64) error {
	target, err := c.Target(relPath, appID)
	if err != nil {
		return err
	}

	exe := filepath.Join(target, exeName)
	if err := os.Remove(exe); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &IOError{Op: "remove", Path: exe, Err: err}
	}

	root := filepath.Clean(c.gamesDir)
	for dir := target; dir != root && strings.HasPrefix(dir, root+string(filepath.Separator)); dir = filepath.Dir(dir) {
		// os.Remove only succeeds on empty directories.
		if err := os.Remove(dir); err != nil {
			break
		}
	}

	c.log.Info().Uint64("app_id", appID).Str("path", exe).Msg("removed game")
	return nil
}
