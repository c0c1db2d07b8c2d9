package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/assess/internal/core/assessment"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "unknown backend kind",
			mutate:  func(c *Config) { c.Backend.Kind = "postgres" },
			wantErr: "backend.kind",
		},
		{
			name:    "remote url without scheme",
			mutate:  func(c *Config) { c.Backend.RemoteURL = "localhost:8080" },
			wantErr: "backend.remote_url",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Backend.Timeout = -time.Second },
			wantErr: "backend.timeout",
		},
		{
			name:    "zero open conns",
			mutate:  func(c *Config) { c.Database.MaxOpenConns = 0 },
			wantErr: "database.max_open_conns",
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.Theme = "solarized" },
			wantErr: "theme",
		},
		{
			name:    "empty server addr",
			mutate:  func(c *Config) { c.Server.Addr = "" },
			wantErr: "server.addr",
		},
		{
			name:    "sqlite requires data dir",
			mutate:  func(c *Config) { c.DataDir = "" },
			wantErr: "data_dir",
		},
		{
			name: "memory backend needs no data dir",
			mutate: func(c *Config) {
				c.Backend.Kind = BackendMemory
				c.DataDir = ""
			},
		},
		{
			name: "remote backend needs no data dir",
			mutate: func(c *Config) {
				c.Backend.RemoteURL = "https://assess.example.com"
				c.DataDir = ""
			},
		},
		{
			name: "template missing id",
			mutate: func(c *Config) {
				c.Templates = []assessment.Template{{Name: "No id", Dimensions: 2, Items: 1}}
			},
			wantErr: "templates[0].id",
		},
		{
			name: "duplicate template ids",
			mutate: func(c *Config) {
				c.Templates = []assessment.Template{
					{ID: "a", Name: "A", Dimensions: 2, Items: 1},
					{ID: "a", Name: "A again", Dimensions: 2, Items: 1},
				}
			},
			wantErr: "duplicate template id",
		},
		{
			name: "template with its own dimension names",
			mutate: func(c *Config) {
				c.Templates = []assessment.Template{
					{ID: "nist", Name: "NIST CSF", Dimensions: 3, Items: 9, DimensionNames: []string{"Govern", "Protect", "Respond"}},
				}
			},
		},
		{
			name: "override of a built-in keeps its layout",
			mutate: func(c *Config) {
				c.Templates = []assessment.Template{{ID: "djcp", Name: "DJCP", Dimensions: 2, Items: 4}}
			},
		},
		{
			name: "custom template without names must use the generic layout",
			mutate: func(c *Config) {
				c.Templates = []assessment.Template{{ID: "custom", Name: "Custom", Dimensions: 3, Items: 9}}
			},
			wantErr: "templates[0].dimensions",
		},
		{
			name: "dimension names disagree with dimensions",
			mutate: func(c *Config) {
				c.Templates = []assessment.Template{
					{ID: "custom", Name: "Custom", Dimensions: 1, Items: 4, DimensionNames: []string{"A", "B"}},
				}
			},
			wantErr: "2 dimension_names are listed",
		},
		{
			name: "negative items",
			mutate: func(c *Config) {
				c.Templates = []assessment.Template{{ID: "a", Name: "A", Dimensions: 2, Items: -1}}
			},
			wantErr: "templates[0].items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	require.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	cfg.DataDir = file

	err := cfg.ValidateDeep("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestValidateDeep_TemplateFileMissing(t *testing.T) {
	cfg := validConfig(t)
	cfg.TemplateFiles = []string{"missing.yaml"}

	err := cfg.ValidateDeep(filepath.Join(t.TempDir(), "config.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template_files[0]")
}

func TestWarnings(t *testing.T) {
	cfg := validConfig(t)
	assert.Empty(t, cfg.Warnings())

	cfg.Backend.Kind = BackendMemory
	cfg.Backend.RemoteURL = "https://assess.example.com"
	cfg.Templates = []assessment.Template{{ID: "empty", Name: "Empty"}}

	warnings := cfg.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, "Backend", warnings[0].Category)
	assert.Equal(t, "Templates", warnings[1].Category)
	assert.Contains(t, warnings[1].Message, "empty")
}
