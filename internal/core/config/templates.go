package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/assess/internal/core/assessment"
)

// loadTemplateFiles reads YAML template lists in declaration order.
func loadTemplateFiles(configDir string, files []string) ([]assessment.Template, error) {
	var out []assessment.Template

	for _, file := range files {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(configDir, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read template file %q: %w", file, err)
		}

		var templates []assessment.Template
		if err := yaml.Unmarshal(data, &templates); err != nil {
			return nil, fmt.Errorf("parse template file %q: %w", file, err)
		}

		out = append(out, templates...)
	}

	return out, nil
}
