package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()

	placeholder := filepath.Join(dir, "fauxgame")
	require.NoError(t, os.WriteFile(placeholder, []byte("#!/bin/sh\n"), 0o755))

	cfg := DefaultConfig(dir)
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.Placeholder = placeholder
	cfg.StopCommand = []string{placeholder, "{{ .Name }}"}
	return &cfg
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	cfg.SpawnArgs = []string{"--title", "{{ .Title }}", "--dir={{ .Dir }}", "{{ .AppID }}"}

	err := cfg.ValidateDeep("")
	assert.NoError(t, err, "expected valid config")
}

func TestValidateDeep_InvalidSpawnTemplate(t *testing.T) {
	cfg := validConfig(t)
	cfg.SpawnArgs = []string{"{{ .Title }", "{{ .Invalid }}"}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 2)
	assert.Contains(t, fieldErrs[0].Field, "spawn_args[0]")
	assert.Contains(t, fieldErrs[0].Err.Error(), "template error")
	assert.Contains(t, fieldErrs[1].Field, "spawn_args[1]")
}

func TestValidateDeep_StopTemplateRejectsSpawnFields(t *testing.T) {
	cfg := validConfig(t)
	cfg.StopCommand = append(cfg.StopCommand, "{{ .Title }}")

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "stop_command[2]", fieldErrs[0].Field)
}

func TestValidateDeep_StopProgramNotFound(t *testing.T) {
	cfg := validConfig(t)
	cfg.StopCommand = []string{"definitely-not-a-real-program-xyz", "{{ .Name }}"}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "stop_command[0]", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "program not found")
}

func TestValidateDeep_PlaceholderMissing(t *testing.T) {
	cfg := validConfig(t)
	cfg.Placeholder = filepath.Join(t.TempDir(), "missing")

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "placeholder", fieldErrs[0].Field)
}

func TestValidateDeep_PlaceholderIsDirectory(t *testing.T) {
	cfg := validConfig(t)
	cfg.Placeholder = t.TempDir()

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Err.Error(), "is a directory")
}

func TestValidateDeep_CatalogURLs(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{name: "https", url: "https://example.com/detectable.json"},
		{name: "http", url: "http://localhost:8080/x"},
		{name: "ftp scheme", url: "ftp://example.com/x", wantErr: "must be http or https"},
		{name: "no host", url: "https:///x", wantErr: "no host"},
		{name: "garbage", url: "://", wantErr: "invalid url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			cfg.Catalog.MirrorURL = tt.url

			err := cfg.ValidateDeep("")
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, "catalog.mirror_url", fieldErrs[0].Field)
			assert.Contains(t, fieldErrs[0].Err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDeep_GamesDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(t.TempDir(), "games")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	cfg.GamesDir = file

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "games_dir", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "not a directory")
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(t.TempDir())

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "config", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "is a directory")
}

func TestWarnings(t *testing.T) {
	cfg := validConfig(t)
	assert.Empty(t, cfg.Warnings())

	cfg.Discord.ConnectTimeout = 0
	cfg.Discord.Subscriptions = nil

	warnings := cfg.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, "connect_timeout", warnings[0].Item)
	assert.Equal(t, "subscriptions", warnings[1].Item)
}

func TestValidate_NegativeTimeout(t *testing.T) {
	cfg := validConfig(t)
	cfg.Discord.ConnectTimeout = -time.Second

	assert.ErrorContains(t, cfg.Validate(), "connect_timeout")
}
