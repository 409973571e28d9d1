// Package config handles configuration loading and validation for fauxplay.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/fauxplay/internal/core/presence"
)

// Default catalog endpoints.
const (
	DefaultPrimaryCatalogURL = "https://discord.com/api/applications/detectable"
	DefaultMirrorCatalogURL  = "https://markterence.github.io/discord-quest-completer/detectable.json"
)

// Config holds the application configuration.
type Config struct {
	// GamesDir is the root fake installations are created under.
	GamesDir string `yaml:"games_dir"`
	// Placeholder is the executable copied into every fake installation.
	Placeholder string `yaml:"placeholder"`
	// SpawnArgs are argument templates passed to a started game.
	SpawnArgs []string `yaml:"spawn_args"`
	// StopCommand is the argv template used to kill a game by image name.
	StopCommand []string      `yaml:"stop_command"`
	Discord     DiscordConfig `yaml:"discord"`
	Catalog     CatalogConfig `yaml:"catalog"`
	DataDir     string        `yaml:"-"` // set by caller, not from config file
}

// DiscordConfig holds presence connection settings.
type DiscordConfig struct {
	// IPCPath overrides socket/pipe discovery when set.
	IPCPath string `yaml:"ipc_path"`
	// ConnectTimeout bounds each connect attempt; 0 means no limit.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	Subscriptions  []string      `yaml:"subscriptions"`
}

// CatalogConfig holds the detectable game catalog endpoints.
type CatalogConfig struct {
	PrimaryURL string        `yaml:"primary_url"`
	MirrorURL  string        `yaml:"mirror_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

// SpawnTemplateData defines available fields for spawn_args templates.
type SpawnTemplateData struct {
	Title string // display title passed by the caller
	Name  string // executable file name
	Dir   string // installation directory
	AppID string
}

// StopTemplateData defines available fields for stop_command templates.
type StopTemplateData struct {
	Name string // executable image name
}

// PlaceholderName is the file name of the bundled placeholder executable.
func PlaceholderName() string {
	if runtime.GOOS == "windows" {
		return "fauxgame.exe"
	}
	return "fauxgame"
}

// DefaultStopCommand returns the platform's kill-by-image-name command.
func DefaultStopCommand() []string {
	if runtime.GOOS == "windows" {
		return []string{"taskkill", "/F", "/IM", "{{ .Name }}"}
	}
	return []string{"pkill", "-KILL", "-x", "{{ .Name }}"}
}

// DefaultConfig returns a Config with defaults rooted at exeDir, the directory
// containing the running executable.
func DefaultConfig(exeDir string) Config {
	return Config{
		GamesDir:    filepath.Join(exeDir, "games"),
		Placeholder: filepath.Join(exeDir, PlaceholderName()),
		SpawnArgs:   []string{"--title", "{{ .Title }}"},
		StopCommand: DefaultStopCommand(),
		Discord: DiscordConfig{
			ConnectTimeout: 30 * time.Second,
			Subscriptions:  []string{"activity"},
		},
		Catalog: CatalogConfig{
			PrimaryURL: DefaultPrimaryCatalogURL,
			MirrorURL:  DefaultMirrorCatalogURL,
			Timeout:    20 * time.Second,
		},
	}
}

// ExecutableDir returns the directory of the running executable, falling back
// to the working directory.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir, exeDir string) (*Config, error) {
	cfg := DefaultConfig(exeDir)
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults(exeDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
// discord.connect_timeout is not filled here: Load starts from DefaultConfig,
// so an absent key keeps the default and an explicit 0 disables the limit.
func (c *Config) applyDefaults(exeDir string) {
	defaults := DefaultConfig(exeDir)
	if c.GamesDir == "" {
		c.GamesDir = defaults.GamesDir
	}
	if c.Placeholder == "" {
		c.Placeholder = defaults.Placeholder
	}
	if len(c.SpawnArgs) == 0 {
		c.SpawnArgs = defaults.SpawnArgs
	}
	if len(c.StopCommand) == 0 {
		c.StopCommand = defaults.StopCommand
	}
	if c.Catalog.PrimaryURL == "" {
		c.Catalog.PrimaryURL = defaults.Catalog.PrimaryURL
	}
	if c.Catalog.MirrorURL == "" {
		c.Catalog.MirrorURL = defaults.Catalog.MirrorURL
	}
	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = defaults.Catalog.Timeout
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.GamesDir == "" {
		return fmt.Errorf("games_dir cannot be empty")
	}

	if len(c.StopCommand) == 0 || c.StopCommand[0] == "" {
		return fmt.Errorf("stop_command must name a program")
	}

	if c.Discord.ConnectTimeout < 0 {
		return fmt.Errorf("discord.connect_timeout cannot be negative")
	}

	if c.Catalog.Timeout < 0 {
		return fmt.Errorf("catalog.timeout cannot be negative")
	}

	if _, ok := presence.ParseSubscriptions(c.Discord.Subscriptions); !ok {
		return fmt.Errorf("discord.subscriptions contains an unknown name (valid: activity, user)")
	}

	return nil
}

// Subscriptions returns the parsed subscription set.
func (c *Config) Subscriptions() presence.Subscriptions {
	subs, _ := presence.ParseSubscriptions(c.Discord.Subscriptions)
	return subs
}

// InstallsFile returns the path to the installation registry.
func (c *Config) InstallsFile() string {
	return filepath.Join(c.DataDir, "installs.json")
}
