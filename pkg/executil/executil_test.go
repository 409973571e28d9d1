package executil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingExecutor(t *testing.T) {
	e := &RecordingExecutor{
		Outputs: map[string][]byte{"pkill": []byte("no process found")},
		Errors:  map[string]error{"pkill": errors.New("exit status 1")},
	}

	_, ok := e.Last()
	assert.False(t, ok)

	out, err := e.Run(context.Background(), "pkill", "-x", "game.exe")
	require.Error(t, err)
	assert.Equal(t, "no process found", string(out))

	require.NoError(t, e.StartDir(context.Background(), "/games/1", "/games/1/game.exe", "--title", "Game"))

	require.Len(t, e.Commands, 2)
	assert.Equal(t, RecordedCommand{Cmd: "pkill", Args: []string{"-x", "game.exe"}}, e.Commands[0])

	last, ok := e.Last()
	require.True(t, ok)
	assert.Equal(t, RecordedCommand{
		Dir:  "/games/1",
		Cmd:  "/games/1/game.exe",
		Args: []string{"--title", "Game"},
	}, last)
}

func TestRealExecutor_RunMissingProgram(t *testing.T) {
	e := &RealExecutor{}

	_, err := e.Run(context.Background(), "fauxplay-no-such-program")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exec fauxplay-no-such-program")
}

func TestRealExecutor_StartDir(t *testing.T) {
	e := &RealExecutor{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := e.StartDir(ctx, t.TempDir(), "fauxplay-no-such-program")
	assert.ErrorIs(t, err, context.Canceled)

	err = e.StartDir(context.Background(), t.TempDir(), "fauxplay-no-such-program")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start fauxplay-no-such-program")
}
