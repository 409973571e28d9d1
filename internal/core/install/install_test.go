package install

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInstallation_MarkRunningAndStopped(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	inst := Installation{ID: "abc", State: StateInstalled}

	inst.MarkRunning(now)
	assert.Equal(t, StateRunning, inst.State)
	assert.Equal(t, now, inst.UpdatedAt)

	later := now.Add(time.Minute)
	inst.MarkStopped(later)
	assert.Equal(t, StateInstalled, inst.State)
	assert.Equal(t, later, inst.UpdatedAt)
}

func TestInstallation_Matches(t *testing.T) {
	inst := Installation{AppID: 42, RelPath: "bin", Executable: "game.exe"}

	tests := []struct {
		name    string
		appID   uint64
		relPath string
		exe     string
		want    bool
	}{
		{name: "exact", appID: 42, relPath: "bin", exe: "game.exe", want: true},
		{name: "other app", appID: 43, relPath: "bin", exe: "game.exe"},
		{name: "other dir", appID: 42, relPath: "", exe: "game.exe"},
		{name: "other exe", appID: 42, relPath: "bin", exe: "other.exe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inst.Matches(tt.appID, tt.relPath, tt.exe))
		})
	}
}

func TestInstallation_Paths(t *testing.T) {
	inst := Installation{Dir: filepath.Join("games", "42", "bin"), Executable: "game.exe"}
	assert.Equal(t, filepath.Join("games", "42", "bin", "game.exe"), inst.ExePath())
	assert.Equal(t, "game.exe", inst.DisplayName())

	inst.Name = "Game"
	assert.Equal(t, "Game", inst.DisplayName())
}
