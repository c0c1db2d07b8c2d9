// Package tmpl provides template rendering utilities for Markdown documents.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// mdCell makes s safe to place inside a Markdown table cell: pipes are
// escaped and line breaks collapse to spaces.
func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

func percent(v int) string {
	return fmt.Sprintf("%d%%", v)
}

func stringOrDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}

var funcs = template.FuncMap{
	"md":      mdCell,
	"pct":     percent,
	"join":    strings.Join,
	"default": func(def, s string) string { return stringOrDefault(s, def) },
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - md: Escape a string for use inside a Markdown table cell
//   - pct: Format an integer as a percentage (e.g., 75 -> "75%")
//   - join: Join string slice with separator (e.g., join .Args ", ")
//   - default: Substitute a fallback for empty strings (e.g., .Org | default "-")
func Render(tmpl string, data any) (string, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
