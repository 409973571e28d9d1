package tmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		data    any
		want    string
		wantErr bool
	}{
		{
			name: "simple substitution",
			tmpl: "{{ .Title }}",
			data: map[string]string{"Title": "Cool Game"},
			want: "Cool Game",
		},
		{
			name: "struct data",
			tmpl: "{{ .Name }} in {{ .Dir }}",
			data: struct {
				Name string
				Dir  string
			}{Name: "game.exe", Dir: "/games/1"},
			want: "game.exe in /games/1",
		},
		{
			name: "no variables",
			tmpl: "--title",
			data: nil,
			want: "--title",
		},
		{
			name:    "missing key errors",
			tmpl:    "{{ .Missing }}",
			data:    map[string]string{"Title": "x"},
			wantErr: true,
		},
		{
			name:    "invalid template syntax",
			tmpl:    "{{ .Title }",
			data:    map[string]string{"Title": "x"},
			wantErr: true,
		},
		{
			name: "base function",
			tmpl: "{{ .Path | base }}",
			data: map[string]string{"Path": "sub/dir/game.exe"},
			want: "game.exe",
		},
		{
			name: "lower function",
			tmpl: "{{ .Name | lower }}",
			data: map[string]string{"Name": "Game.EXE"},
			want: "game.exe",
		},
		{
			name: "trim function",
			tmpl: "{{ .Title | trim }}",
			data: map[string]string{"Title": "  padded  "},
			want: "padded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderArgs(t *testing.T) {
	data := map[string]string{"Title": "Some Game With Spaces"}

	got, err := RenderArgs([]string{"--title", "{{ .Title }}"}, data)
	require.NoError(t, err)
	assert.Equal(t, []string{"--title", "Some Game With Spaces"}, got)
}

func TestRenderArgs_ReportsFailingIndex(t *testing.T) {
	_, err := RenderArgs([]string{"ok", "{{ .Nope }}"}, map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arg 1")
}
