// Package config provides configuration management for tradelog.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

const (
	defaultTimezone       = "America/New_York"
	defaultPort           = 8080
	defaultRequestTimeout = 30 * time.Second
	defaultMaxBatch       = 500
)

// Output formats understood by the report package.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// Config represents the complete application configuration.
type Config struct {
	Environment EnvironmentConfig `yaml:"environment"`
	Parser      ParserConfig      `yaml:"parser"`
	Server      ServerConfig      `yaml:"server"`
	Output      OutputConfig      `yaml:"output"`
}

// EnvironmentConfig defines logging settings.
type EnvironmentConfig struct {
	LogLevel  string `yaml:"log_level"`  // debug | info | warn | error
	LogFormat string `yaml:"log_format"` // text | json
}

// ParserConfig defines trade parser settings.
type ParserConfig struct {
	// Timezone decides which calendar day undated legs expire on
	Timezone string `yaml:"timezone"`
	Workers  int    `yaml:"workers"`
}

// ServerConfig defines HTTP API settings.
type ServerConfig struct {
	Port           int    `yaml:"port"`
	AuthToken      string `yaml:"auth_token"`
	RequestTimeout string `yaml:"request_timeout"`
	MaxBatch       int    `yaml:"max_batch"`
}

// OutputConfig defines how the CLI renders results.
type OutputConfig struct {
	Format string `yaml:"format"` // table | csv | json
}

// Default returns a configuration usable without a config file.
func Default() *Config {
	return &Config{
		Environment: EnvironmentConfig{LogLevel: "info", LogFormat: "text"},
		Parser:      ParserConfig{Timezone: defaultTimezone, Workers: 4},
		Server: ServerConfig{
			Port:           defaultPort,
			RequestTimeout: defaultRequestTimeout.String(),
			MaxBatch:       defaultMaxBatch,
		},
		Output: OutputConfig{Format: FormatTable},
	}
}

// Load reads and parses the configuration file from the specified path.
// A .env file next to the config file is loaded into the environment first.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envPath, err)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- configPath is a user-provided config file path
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	config := Default()
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Validate checks that all configuration values are valid and consistent.
func (c *Config) Validate() error {
	switch c.Environment.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("environment.log_level must be one of debug, info, warn, error")
	}
	if c.Environment.LogFormat != "text" && c.Environment.LogFormat != "json" {
		return fmt.Errorf("environment.log_format must be 'text' or 'json'")
	}

	if c.Parser.Workers < 0 {
		return fmt.Errorf("parser.workers must be >= 0")
	}
	if c.Parser.Timezone != "" {
		if _, err := time.LoadLocation(c.Parser.Timezone); err != nil && c.Parser.Timezone != defaultTimezone {
			return fmt.Errorf("parser.timezone invalid: %w", err)
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.RequestTimeout != "" {
		d, err := time.ParseDuration(c.Server.RequestTimeout)
		if err != nil {
			return fmt.Errorf("server.request_timeout invalid: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("server.request_timeout must be > 0")
		}
	}
	if c.Server.MaxBatch <= 0 {
		return fmt.Errorf("server.max_batch must be > 0")
	}

	switch c.Output.Format {
	case FormatTable, FormatCSV, FormatJSON:
	default:
		return fmt.Errorf("output.format must be one of table, csv, json")
	}

	return nil
}

// Location returns the parser timezone. When the zone database is missing it
// falls back to America/New_York and then to a fixed ET offset.
func (c *Config) Location() *time.Location {
	tz := c.Parser.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		// Try fallback to America/New_York
		if fallbackLoc, err2 := time.LoadLocation(defaultTimezone); err2 == nil {
			loc = fallbackLoc
		} else {
			// Final fallback to DST-agnostic FixedZone
			loc = time.FixedZone("ET", -5*60*60)
		}
	}
	return loc
}

// RequestTimeout returns the configured API request timeout duration.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.RequestTimeout)
	if err != nil || d <= 0 {
		return defaultRequestTimeout // default
	}
	return d
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
