package config

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/fauxplay/pkg/tmpl"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration.
// Unlike Validate(), this checks template syntax, URLs, and file access.
// Problems are returned as criterio.FieldErrors.
func (c *Config) ValidateDeep(configPath string) error {
	var errs criterio.FieldErrors

	add := func(field string, err error) {
		errs = append(errs, criterio.FieldError{Field: field, Err: err})
	}

	if configPath != "" {
		if info, err := os.Stat(configPath); err == nil && info.IsDir() {
			add("config", fmt.Errorf("%s is a directory, not a file", configPath))
		} else if err != nil && !os.IsNotExist(err) {
			add("config", fmt.Errorf("cannot access %s: %w", configPath, err))
		}
	}

	if info, err := os.Stat(c.Placeholder); err != nil {
		add("placeholder", fmt.Errorf("placeholder executable not found: %w", err))
	} else if info.IsDir() {
		add("placeholder", fmt.Errorf("%s is a directory", c.Placeholder))
	}

	if info, err := os.Stat(c.GamesDir); err == nil && !info.IsDir() {
		add("games_dir", fmt.Errorf("%s exists but is not a directory", c.GamesDir))
	}

	if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
		add("data_dir", fmt.Errorf("%s exists but is not a directory", c.DataDir))
	}

	for i, a := range c.SpawnArgs {
		if err := validateTemplate(a, SpawnTemplateData{}); err != nil {
			add(fmt.Sprintf("spawn_args[%d]", i), fmt.Errorf("template error: %w", err))
		}
	}

	if len(c.StopCommand) == 0 {
		add("stop_command", fmt.Errorf("must name a program"))
	} else {
		for i, a := range c.StopCommand {
			if err := validateTemplate(a, StopTemplateData{}); err != nil {
				add(fmt.Sprintf("stop_command[%d]", i), fmt.Errorf("template error: %w", err))
			}
		}
		if _, err := exec.LookPath(c.StopCommand[0]); err != nil {
			add("stop_command[0]", fmt.Errorf("program not found: %s", c.StopCommand[0]))
		}
	}

	if err := validateURL(c.Catalog.PrimaryURL); err != nil {
		add("catalog.primary_url", err)
	}
	if err := validateURL(c.Catalog.MirrorURL); err != nil {
		add("catalog.mirror_url", err)
	}

	if err := c.Validate(); err != nil {
		add("config", err)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Warnings returns non-fatal issues worth surfacing to the user.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Discord.ConnectTimeout == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Discord",
			Item:     "connect_timeout",
			Message:  "no connect timeout; a connect attempt can wait forever",
		})
	}

	if len(c.Discord.Subscriptions) == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Discord",
			Item:     "subscriptions",
			Message:  "no subscriptions requested; join and spectate events will not arrive",
		})
	}

	return warnings
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must be http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("url has no host: %q", raw)
	}
	return nil
}

// validateTemplate checks that a template parses and executes against the
// zero value of its data type, so unknown fields are caught.
func validateTemplate(s string, data any) error {
	t, err := tmpl.Parse(s)
	if err != nil {
		return err
	}
	return t.Execute(io.Discard, data)
}
