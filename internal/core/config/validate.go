package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/internal/core/catalog"
	"github.com/colonyops/assess/internal/core/styles"
	"github.com/colonyops/assess/internal/core/validate"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("backend.kind", c.Backend.Kind, isBackendKind),
		criterio.Run("backend.remote_url", c.Backend.RemoteURL, validate.HTTPURL),
		criterio.Run("backend.timeout", c.Backend.Timeout, nonNegativeDuration),
		criterio.Run("database.max_open_conns", c.Database.MaxOpenConns, atLeastOne),
		criterio.Run("database.max_idle_conns", c.Database.MaxIdleConns, nonNegative),
		criterio.Run("database.busy_timeout_ms", c.Database.BusyTimeout, nonNegative),
		criterio.Run("server.addr", c.Server.Addr, validate.Required),
		criterio.Run("theme", c.Theme, isTheme),
		c.validateDataDir(),
		c.validateTemplates(),
	)
}

// ValidateDeep performs Validate plus file system checks on the config file,
// data directory, and template files. An empty configPath skips the config
// file check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		c.validateTemplateFiles(configPath),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.IsRemote() && c.Backend.Kind == BackendMemory {
		warnings = append(warnings, ValidationWarning{
			Category: "Backend",
			Item:     "kind",
			Message:  "backend.kind is ignored when backend.remote_url is set",
		})
	}

	for i, t := range c.Templates {
		if t.Items == 0 {
			warnings = append(warnings, ValidationWarning{
				Category: "Templates",
				Item:     fmt.Sprintf("templates[%d]", i),
				Message:  fmt.Sprintf("template %q has no items; tasks created from it will have an empty checklist", t.ID),
			})
		}
	}

	return warnings
}

func (c *Config) validateDataDir() error {
	if c.IsRemote() || c.Backend.Kind == BackendMemory {
		return nil
	}
	return criterio.Run("data_dir", c.DataDir, validate.Required)
}

func (c *Config) validateTemplates() error {
	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]bool, len(c.Templates))

	for i, t := range c.Templates {
		field := fmt.Sprintf("templates[%d]", i)

		if err := validate.Required(t.ID); err != nil {
			errs = errs.Append(field+".id", err)
		} else if seen[t.ID] {
			errs = errs.Append(field+".id", fmt.Errorf("duplicate template id %q", t.ID))
		}
		seen[t.ID] = true

		if err := validate.Required(t.Name); err != nil {
			errs = errs.Append(field+".name", err)
		}
		if t.Dimensions < 0 {
			errs = errs.Append(field+".dimensions", fmt.Errorf("must not be negative"))
		} else if layout := catalog.Layout(t); len(layout) != t.Dimensions {
			errs = errs.Append(field+".dimensions", dimensionMismatch(t, len(layout)))
		}
		if t.Items < 0 {
			errs = errs.Append(field+".items", fmt.Errorf("must not be negative"))
		}
	}

	return errs.ToError()
}

func dimensionMismatch(t assessment.Template, layout int) error {
	if len(t.DimensionNames) > 0 {
		return fmt.Errorf("is %d but %d dimension_names are listed", t.Dimensions, layout)
	}
	return fmt.Errorf("is %d but template %q lays out %d dimensions; list dimension_names", t.Dimensions, t.ID, layout)
}

func (c *Config) validateTemplateFiles(configPath string) error {
	configDir := filepath.Dir(configPath)
	var errs criterio.FieldErrorsBuilder

	for i, file := range c.TemplateFiles {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(configDir, path)
		}

		if _, err := os.Stat(path); err != nil {
			errs = errs.Append(fmt.Sprintf("template_files[%d]", i), fmt.Errorf("file not found: %s", file))
		}
	}

	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func isBackendKind(kind string) error {
	switch kind {
	case BackendSQLite, BackendMemory:
		return nil
	}
	return fmt.Errorf("must be %q or %q, got %q", BackendSQLite, BackendMemory, kind)
}

func isTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q, available: %s", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

func nonNegativeDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func nonNegative(n int) error {
	if n < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func atLeastOne(n int) error {
	if n < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}
