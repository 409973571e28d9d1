// Package tmpl renders Go text templates used to build process argument lists.
package tmpl

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"base":  filepath.Base,
	"lower": strings.ToLower,
	"trim":  strings.TrimSpace,
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - base: final element of a path
//   - lower: lower-case a string
//   - trim: strip surrounding whitespace
func Render(tmpl string, data any) (string, error) {
	t, err := Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

// Parse compiles tmpl with the package functions and strict missing-key handling.
func Parse(tmpl string) (*template.Template, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return t, nil
}

// RenderArgs renders each element of an argv template independently. Arguments
// are never split or joined, so values containing spaces stay a single argument.
func RenderArgs(args []string, data any) ([]string, error) {
	out := make([]string, 0, len(args))
	for i, a := range args {
		rendered, err := Render(a, data)
		if err != nil {
			return nil, fmt.Errorf("arg %d %q: %w", i, a, err)
		}
		out = append(out, rendered)
	}
	return out, nil
}
