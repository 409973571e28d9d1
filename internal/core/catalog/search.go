package catalog

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Search returns games whose name or any alias matches pattern. Matching is
// case-insensitive. A pattern with no glob metacharacters matches as a
// substring. Invalid patterns match nothing.
func Search(games []Game, pattern string) []Game {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		return games
	}
	if !strings.ContainsAny(pattern, "*?[{") {
		pattern = "*" + pattern + "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil
	}

	var out []Game
	for _, g := range games {
		if matches(pattern, g.Name) {
			out = append(out, g)
			continue
		}
		for _, a := range g.Aliases {
			if matches(pattern, a) {
				out = append(out, g)
				break
			}
		}
	}
	return out
}

func matches(pattern, s string) bool {
	ok, err := doublestar.Match(pattern, strings.ToLower(s))
	return err == nil && ok
}
