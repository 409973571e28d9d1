// Package install defines the record kept for each fake game installation.
package install

import (
	"path/filepath"
	"time"
)

// State is the last known process state of an installation. It is recorded
// when fauxplay starts or stops the game, not observed from the OS.
type State string

const (
	StateInstalled State = "installed"
	StateRunning   State = "running"
)

// Installation is one materialized fake game.
type Installation struct {
	ID         string    `json:"id"`
	AppID      uint64    `json:"app_id"`
	Name       string    `json:"name,omitempty"`
	RelPath    string    `json:"rel_path,omitempty"`
	Executable string    `json:"executable"`
	Dir        string    `json:"dir"`
	State      State     `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ExePath returns the full path of the installed executable.
func (i *Installation) ExePath() string {
	return filepath.Join(i.Dir, i.Executable)
}

// Matches reports whether i describes the given layout.
func (i *Installation) Matches(appID uint64, relPath, exe string) bool {
	return i.AppID == appID && i.RelPath == relPath && i.Executable == exe
}

// DisplayName returns the game name, falling back to the executable.
func (i *Installation) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Executable
}

// MarkRunning records that the game was started.
func (i *Installation) MarkRunning(now time.Time) {
	i.State = StateRunning
	i.UpdatedAt = now
}

// MarkStopped records that the game was stopped.
func (i *Installation) MarkStopped(now time.Time) {
	i.State = StateInstalled
	i.UpdatedAt = now
}
