// Package catalog models the detectable game list and fetches it over HTTP.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
)

// OSWindows is the catalog os value for Windows executables.
const OSWindows = "win32"

// ErrInvalidList is returned by Parse when the body is not a game list.
var ErrInvalidList = errors.New("not a detectable game list")

// Executable is one executable a game is detected by.
type Executable struct {
	Name       string `json:"name"`
	OS         string `json:"os"`
	IsLauncher bool   `json:"is_launcher"`
}

// Split separates the executable name into the relative install directory and
// the file name. Discord prefixes some names with '>' to mean an exact path
// match; the marker is dropped.
func (e Executable) Split() (relPath, file string) {
	name := strings.TrimPrefix(e.Name, ">")
	name = strings.ReplaceAll(name, "\\", "/")
	dir, file := path.Split(name)
	return strings.Trim(dir, "/"), file
}

// Game is one detectable application.
type Game struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Aliases     []string     `json:"aliases"`
	Executables []Executable `json:"executables"`
}

// ForOS returns the executables that target os, skipping launchers.
func (g Game) ForOS(os string) []Executable {
	var out []Executable
	for _, e := range g.Executables {
		if e.OS == os && !e.IsLauncher {
			out = append(out, e)
		}
	}
	return out
}

// Parse decodes a catalog body and checks that it looks like a game list.
func Parse(data []byte) ([]Game, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidList, err)
	}

	if !IsValid(raw) {
		return nil, ErrInvalidList
	}

	var games []Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidList, err)
	}
	return games, nil
}

// IsValid reports whether the first entry carries the name, aliases and
// executables keys. Empty lists are invalid.
func IsValid(entries []map[string]json.RawMessage) bool {
	if len(entries) == 0 {
		return false
	}
	for _, key := range []string{"name", "aliases", "executables"} {
		if _, ok := entries[0][key]; !ok {
			return false
		}
	}
	return true
}

// Find returns the game with the given application id.
func Find(games []Game, id string) (Game, bool) {
	for _, g := range games {
		if g.ID == id {
			return g, true
		}
	}
	return Game{}, false
}
