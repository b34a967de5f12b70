package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides. Nested keys are separated
// by a double underscore, e.g. APICORE_CLIENT__TIMEOUT.
const EnvPrefix = "APICORE_"

type Config struct {
	Client   ClientConfig   `koanf:"client"`
	Log      LogConfig      `koanf:"log"`
	Tracing  TracingConfig  `koanf:"tracing"`
	Recorder RecorderConfig `koanf:"recorder"`
}

type ClientConfig struct {
	BaseURL   string `koanf:"base_url"`
	Timeout   string `koanf:"timeout"` // Duration string like "30s"
	UserAgent string `koanf:"user_agent"`
	Token     string `koanf:"token"` // Supports ${VAR} substitution

	// RequestIDHeader forwards the per-call request ID when set
	RequestIDHeader string `koanf:"request_id_header"`

	// PublicOnly refuses connections to loopback and private addresses
	PublicOnly bool `koanf:"public_only"`
}

type LogConfig struct {
	Level     string   `koanf:"level"`  // debug, info, warn, error
	Format    string   `koanf:"format"` // json, text
	File      string   `koanf:"file"`   // Empty logs to stdout
	MaxSizeMB int      `koanf:"max_size_mb"`
	Policy    []string `koanf:"policy"` // Log option names, see apiclient.ParseLogPolicy
}

type TracingConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
}

type RecorderConfig struct {
	Type   string       `koanf:"type"` // memory, sqlite, none
	SQLite SQLiteConfig `koanf:"sqlite"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

var defaults = map[string]any{
	"client.base_url":      "https://api.github.com",
	"client.timeout":       "60s",
	"client.user_agent":    "apicore",
	"log.level":            "info",
	"log.format":           "json",
	"log.max_size_mb":      100,
	"tracing.service_name": "apicore",
	"recorder.type":        "none",
	"recorder.sqlite.path": "apicore.db",
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads configuration from the YAML file at path, if it exists, then
// applies environment overrides and defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			// File not found is OK, we'll use env vars
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Client.Token = substituteEnvVars(cfg.Client.Token)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values and durations.
func (c *Config) Validate() error {
	if _, err := c.Client.TimeoutDuration(); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("invalid log.format %q", c.Log.Format)
	}

	if c.Log.MaxSizeMB < 0 {
		return fmt.Errorf("invalid log.max_size_mb %d", c.Log.MaxSizeMB)
	}

	switch c.Recorder.Type {
	case "", "none", "memory":
	case "sqlite":
		if c.Recorder.SQLite.Path == "" {
			return fmt.Errorf("recorder.sqlite.path is required for the sqlite recorder")
		}
	default:
		return fmt.Errorf("invalid recorder.type %q", c.Recorder.Type)
	}

	return nil
}

// TimeoutDuration parses the client timeout. An empty value yields zero,
// which leaves the transport default in place.
func (c ClientConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid client.timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid client.timeout %q: negative", c.Timeout)
	}
	return d, nil
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
