// Package config handles configuration loading and validation for assess.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/assess/internal/core/assessment"
	"github.com/colonyops/assess/internal/core/styles"
)

// Backend kinds for local storage. A configured remote URL takes precedence
// over either.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds the application configuration.
type Config struct {
	Backend       BackendConfig         `yaml:"backend"`
	Database      DatabaseConfig        `yaml:"database"`
	Server        ServerConfig          `yaml:"server"`
	Theme         string                `yaml:"theme"          env:"ASSESS_THEME"`
	Templates     []assessment.Template `yaml:"templates"`      // extra templates merged into the built-in catalog
	TemplateFiles []string              `yaml:"template_files"` // YAML files of extra templates, relative to the config file
	DataDir       string                `yaml:"-"`              // set by caller, not from config file
}

// BackendConfig selects the persistence backend.
type BackendConfig struct {
	Kind      string        `yaml:"kind"       env:"ASSESS_BACKEND"`
	RemoteURL string        `yaml:"remote_url" env:"ASSESS_REMOTE_URL"`
	Timeout   time.Duration `yaml:"timeout"    env:"ASSESS_REMOTE_TIMEOUT"` // zero means no timeout
}

// DatabaseConfig tunes the SQLite connection pool.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"  env:"ASSESS_DB_MAX_OPEN_CONNS"`
	MaxIdleConns int `yaml:"max_idle_conns"  env:"ASSESS_DB_MAX_IDLE_CONNS"`
	BusyTimeout  int `yaml:"busy_timeout_ms" env:"ASSESS_DB_BUSY_TIMEOUT_MS"`
}

// ServerConfig configures `assess serve`.
type ServerConfig struct {
	Addr        string   `yaml:"addr"         env:"ASSESS_SERVER_ADDR"`
	Prefix      string   `yaml:"prefix"       env:"ASSESS_SERVER_PREFIX"`
	CORSOrigins []string `yaml:"cors_origins" env:"ASSESS_CORS_ORIGINS" envSeparator:","`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			Kind: BackendSQLite,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"*"},
		},
		Theme: styles.DefaultTheme,
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, defaults are used. A .env file next
// to the config file or in the working directory is loaded before ASSESS_*
// environment overrides are applied.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// defaults only
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := loadDotEnv(configPath); err != nil {
		return nil, err
	}

	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}

	if len(cfg.TemplateFiles) > 0 {
		extra, err := loadTemplateFiles(filepath.Dir(configPath), cfg.TemplateFiles)
		if err != nil {
			return nil, err
		}
		cfg.Templates = append(cfg.Templates, extra...)
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Backend.Kind == "" {
		c.Backend.Kind = defaults.Backend.Kind
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = defaults.Server.CORSOrigins
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
}

// IsRemote reports whether the remote HTTP backend is configured.
func (c *Config) IsRemote() bool {
	return c.Backend.RemoteURL != ""
}
