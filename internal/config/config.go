// Package config loads CLI configuration from a gridcalc.yaml file and
// GRIDCALC_* environment variables.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the full CLI configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Sheet   SheetConfig   `mapstructure:"sheet" yaml:"sheet"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
}

// SheetConfig names the sheet exchanged with workbook files. An empty name
// imports the first sheet and exports to "Sheet1".
type SheetConfig struct {
	Name string `mapstructure:"name" yaml:"name" validate:"max=31"`
}

// OutputConfig configures rendered output.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json yaml"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

// HistoryConfig configures snapshot retention.
type HistoryConfig struct {
	Limit int `mapstructure:"limit" yaml:"limit" validate:"min=1"`
}

// MetricsConfig configures the metrics dump.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Output: OutputConfig{
			Format: "json",
		},
		History: HistoryConfig{
			Limit: 32,
		},
	}
}

// LoadConfig loads configuration. An explicit path must exist; otherwise
// gridcalc.yaml is searched in the working directory and
// $HOME/.config/gridcalc, and defaults apply when none is found.
// Environment variables such as GRIDCALC_LOGGING_LEVEL override the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gridcalc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "gridcalc"))
		}
	}

	v.SetEnvPrefix("GRIDCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("sheet.name", d.Sheet.Name)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.pretty", d.Output.Pretty)
	v.SetDefault("history.limit", d.History.Limit)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
}

var configValidate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		return name
	})
	return v
}

// Validate checks the configuration and reports the first bad field.
func (c *Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		_, field, _ := strings.Cut(fe.Namespace(), ".")
		return &ConfigError{Field: field, Message: describe(fe)}
	}
	return &ConfigError{Field: "", Message: err.Error()}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "required":
		return "is required"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
