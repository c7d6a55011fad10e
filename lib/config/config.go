// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable read by [Load].
const EnvVar = "PORTAL_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Session backends understood by lib/session.
var sessionBackends = []string{"file", "sealed", "sqlite"}

var logLevels = []string{"debug", "info", "warn", "error"}

// Config is the master configuration struct.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment"`

	// API configures the account API client.
	API APIConfig `yaml:"api"`

	// Session configures durable session storage.
	Session SessionConfig `yaml:"session"`

	// Log configures command logging.
	Log LogConfig `yaml:"log"`

	// UI configures the terminal interface.
	UI UIConfig `yaml:"ui"`

	// Environment-specific overrides.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains environment-specific configuration overrides.
type ConfigOverrides struct {
	API     *APIConfig     `yaml:"api,omitempty"`
	Session *SessionConfig `yaml:"session,omitempty"`
	Log     *LogConfig     `yaml:"log,omitempty"`
}

// APIConfig locates the account API.
type APIConfig struct {
	// BaseURL is the API root. Default: http://127.0.0.1:8000
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each request, in time.ParseDuration syntax.
	// Default: 15s
	Timeout string `yaml:"timeout"`
}

// SessionConfig selects where the signed-in session is kept.
type SessionConfig struct {
	// Backend is "file", "sealed" or "sqlite". Default: file
	Backend string `yaml:"backend"`

	// Path is the session file or database. Empty means the backend's
	// default location under ${XDG_CONFIG_HOME}/portal.
	Path string `yaml:"path"`

	// IdentityFile holds the age key for the sealed backend. Empty
	// means Path with ".key" appended.
	IdentityFile string `yaml:"identity_file"`
}

// LogConfig controls command logging.
type LogConfig struct {
	// Level is debug, info, warn or error. Default: warn
	Level string `yaml:"level"`
}

// UIConfig controls terminal rendering.
type UIConfig struct {
	// NoColor disables colour output, as does the NO_COLOR variable.
	NoColor bool `yaml:"no_color"`
}

// Default returns a configuration with development defaults.
func Default() *Config {
	return &Config{
		Environment: Development,
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: "15s",
		},
		Session: SessionConfig{
			Backend: "file",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load loads configuration from the PORTAL_CONFIG environment variable.
// It fails when the variable is not set.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your portal.yaml config file, or use --config flag", EnvVar)
	}

	return LoadFile(configPath)
}

// Resolve loads the file named by flagPath, else the one named by
// PORTAL_CONFIG, else returns [Default]. The result is validated.
func Resolve(flagPath string) (*Config, error) {
	var cfg *Config
	var err error
	switch {
	case flagPath != "":
		cfg, err = LoadFile(flagPath)
	case os.Getenv(EnvVar) != "":
		cfg, err = Load()
	default:
		cfg = Default()
		cfg.expandVariables()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables
// do not override config values; only ${VAR} references in path fields
// are expanded.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the section matching Environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.API != nil {
		if overrides.API.BaseURL != "" {
			c.API.BaseURL = overrides.API.BaseURL
		}
		if overrides.API.Timeout != "" {
			c.API.Timeout = overrides.API.Timeout
		}
	}

	if overrides.Session != nil {
		if overrides.Session.Backend != "" {
			c.Session.Backend = overrides.Session.Backend
		}
		if overrides.Session.Path != "" {
			c.Session.Path = overrides.Session.Path
		}
		if overrides.Session.IdentityFile != "" {
			c.Session.IdentityFile = overrides.Session.IdentityFile
		}
	}

	if overrides.Log != nil && overrides.Log.Level != "" {
		c.Log.Level = overrides.Log.Level
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME":            os.Getenv("HOME"),
		"XDG_CONFIG_HOME": os.Getenv("XDG_CONFIG_HOME"),
	}

	c.API.BaseURL = expandVars(c.API.BaseURL, vars)
	c.Session.Path = expandVars(c.Session.Path, vars)
	c.Session.IdentityFile = expandVars(c.Session.IdentityFile, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, checking
// vars before the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// RequestTimeout parses API.Timeout. An empty value means no timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	if c.API.Timeout == "" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0, fmt.Errorf("api.timeout: %w", err)
	}
	if timeout < 0 {
		return 0, fmt.Errorf("api.timeout must not be negative, got %s", c.API.Timeout)
	}
	return timeout, nil
}

// LogLevel maps Log.Level to a slog level. Unknown values map to warn;
// Validate rejects them.
func (c *Config) LogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("api.base_url is required"))
	} else if parsed, err := url.Parse(c.API.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("api.base_url: %w", err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errs = append(errs, fmt.Errorf("api.base_url must use http or https, got %q", c.API.BaseURL))
	}

	if _, err := c.RequestTimeout(); err != nil {
		errs = append(errs, err)
	}

	if !slices.Contains(sessionBackends, c.Session.Backend) {
		errs = append(errs, fmt.Errorf("session.backend must be one of: %v", sessionBackends))
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", logLevels))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
