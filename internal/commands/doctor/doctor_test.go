package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/fauxplay/internal/core/install"
)

type mockStore struct {
	insts   []install.Installation
	deleted []string
}

func (m *mockStore) List(_ context.Context) ([]install.Installation, error) {
	return m.insts, nil
}

func (m *mockStore) Get(_ context.Context, _ string) (install.Installation, error) {
	return install.Installation{}, install.ErrNotFound
}

func (m *mockStore) Find(_ context.Context, _ uint64, _, _ string) (install.Installation, error) {
	return install.Installation{}, install.ErrNotFound
}

func (m *mockStore) Save(_ context.Context, _ install.Installation) error {
	return nil
}

func (m *mockStore) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func presentInstall(t *testing.T, id string) install.Installation {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game.exe"), []byte("x"), 0o755))
	return install.Installation{ID: id, Dir: dir, Executable: "game.exe"}
}

func TestInstallsCheck_AllPresent(t *testing.T) {
	store := &mockStore{insts: []install.Installation{presentInstall(t, "aaa")}}

	result := NewInstallsCheck(store, false).Run(context.Background())

	assert.Equal(t, "Installations", result.Name)
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)
}

func TestInstallsCheck_ReportsStale(t *testing.T) {
	stale := install.Installation{ID: "bbb", Dir: filepath.Join(t.TempDir(), "gone"), Executable: "gone.exe"}
	store := &mockStore{insts: []install.Installation{presentInstall(t, "aaa"), stale}}

	result := NewInstallsCheck(store, false).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusWarn, result.Items[0].Status)
	assert.True(t, result.Items[0].Fixable)
	assert.Equal(t, "gone.exe (bbb)", result.Items[0].Label)
	assert.Empty(t, store.deleted)
}

func TestInstallsCheck_FixRemovesStale(t *testing.T) {
	stale := install.Installation{ID: "bbb", Dir: filepath.Join(t.TempDir(), "gone"), Executable: "gone.exe"}
	store := &mockStore{insts: []install.Installation{stale}}

	result := NewInstallsCheck(store, true).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, []string{"bbb"}, store.deleted)
}

func TestDiscordCheck(t *testing.T) {
	up := NewDiscordCheck(func(context.Context, string) error { return nil }, "")
	result := up.Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)

	down := NewDiscordCheck(func(context.Context, string) error { return errors.New("no socket") }, "/tmp/x")
	result = down.Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusWarn, result.Items[0].Status)
	assert.Equal(t, "IPC endpoint /tmp/x", result.Items[0].Label)
	assert.Equal(t, "no socket", result.Items[0].Detail)
}

func TestRunAllAndSummary(t *testing.T) {
	stale := install.Installation{ID: "bbb", Dir: filepath.Join(t.TempDir(), "gone"), Executable: "gone.exe"}
	checks := []Check{
		NewInstallsCheck(&mockStore{insts: []install.Installation{stale}}, false),
		NewDiscordCheck(func(context.Context, string) error { return nil }, ""),
	}

	results := RunAll(context.Background(), checks)
	require.Len(t, results, 2)
	assert.Equal(t, "warn", results[0].Items[0].StatusStr)

	counts := Summarize(results)
	assert.Equal(t, Counts{Passed: 1, Warned: 1, Fixable: 1}, counts)
	assert.True(t, counts.Healthy())
}
