package doctor

import (
	"context"
	"errors"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/fauxplay/internal/core/config"
)

// ConfigCheck validates the configuration file and the programs it names.
type ConfigCheck struct {
	config     *config.Config
	configPath string
}

// NewConfigCheck creates a new configuration check.
func NewConfigCheck(cfg *config.Config, configPath string) *ConfigCheck {
	return &ConfigCheck{
		config:     cfg,
		configPath: configPath,
	}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

// fieldLabel maps a validation field to the label shown by doctor.
func fieldLabel(field string) string {
	switch {
	case field == "" || field == "config":
		return "Config file"
	case field == "placeholder":
		return "Placeholder executable"
	case field == "stop_command" || field == "stop_command[0]":
		return "Stop program"
	case strings.HasPrefix(field, "stop_command"):
		return "Stop command template " + strings.TrimPrefix(field, "stop_command")
	case strings.HasPrefix(field, "spawn_args"):
		return "Spawn argument template " + strings.TrimPrefix(field, "spawn_args")
	case field == "games_dir":
		return "Games directory"
	case field == "data_dir":
		return "Data directory"
	case strings.HasPrefix(field, "catalog."):
		return "Catalog " + strings.TrimSuffix(strings.TrimPrefix(field, "catalog."), "_url") + " URL"
	default:
		return field
	}
}

func (c *ConfigCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.config == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Config loaded",
			Status: StatusFail,
			Detail: "configuration not loaded",
		})
		return result
	}

	err := c.config.ValidateDeep(c.configPath)

	failed := map[string]bool{}
	if err != nil {
		var fieldErrs criterio.FieldErrors
		if !errors.As(err, &fieldErrs) {
			fieldErrs = criterio.FieldErrors{{Err: err}}
		}
		for _, fe := range fieldErrs {
			label := fieldLabel(fe.Field)
			failed[label] = true
			result.Items = append(result.Items, CheckItem{
				Label:  label,
				Status: StatusFail,
				Detail: fe.Err.Error(),
			})
		}
	}

	// The programs fauxplay runs are reported even when they are fine.
	passes := []CheckItem{
		{Label: fieldLabel("placeholder"), Detail: c.config.Placeholder},
		{Label: fieldLabel("stop_command[0]"), Detail: firstOr(c.config.StopCommand, "")},
		{Label: fieldLabel("games_dir"), Detail: c.config.GamesDir},
	}
	for _, item := range passes {
		if failed[item.Label] {
			continue
		}
		item.Status = StatusPass
		result.Items = append(result.Items, item)
	}

	for _, w := range c.config.Warnings() {
		label := w.Category
		if w.Item != "" {
			label += " (" + w.Item + ")"
		}
		result.Items = append(result.Items, CheckItem{
			Label:  label,
			Status: StatusWarn,
			Detail: w.Message,
		})
	}

	return result
}

func firstOr(s []string, def string) string {
	if len(s) == 0 {
		return def
	}
	return s[0]
}
