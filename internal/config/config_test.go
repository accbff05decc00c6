package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.Sheet.Name)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 32, cfg.History.Limit)
	assert.False(t, cfg.Metrics.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigDefaultsWhenNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridcalc.yaml")
	content := `
logging:
  level: debug
  format: json
sheet:
  name: Budget
output:
  format: yaml
history:
  limit: 5
metrics:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "Budget", cfg.Sheet.Name)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.False(t, cfg.Output.Pretty)
	assert.Equal(t, 5, cfg.History.Limit)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridcalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o644))
	t.Setenv("GRIDCALC_LOGGING_LEVEL", "error")
	t.Setenv("GRIDCALC_HISTORY_LIMIT", "3")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.History.Limit)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"output format", func(c *Config) { c.Output.Format = "csv" }, "output.format"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"history limit", func(c *Config) { c.History.Limit = 0 }, "history.limit"},
		{"sheet name", func(c *Config) { c.Sheet.Name = strings.Repeat("x", 32) }, "sheet.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Contains(t, cfgErr.Error(), tt.field)
		})
	}
}

func TestLoadConfigRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridcalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history:\n  limit: 0\n"), 0o644))

	_, err := LoadConfig(path)
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "history.limit", cfgErr.Field)
}
