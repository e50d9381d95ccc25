// Package config provides reading and writing of imgtag configuration.
// Supports both global (~/.imgtag/config.yaml) and local (.imgtag/config.yaml).
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use --local for local.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrUnknownKey is returned when getting/setting an unknown config key.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is user-wide config in ~/.imgtag/config.yaml (default)
	ScopeGlobal Scope = iota
	// ScopeLocal is repository-specific config in .imgtag/config.yaml
	ScopeLocal
)

// Author represents the author metadata recorded in the audit log.
type Author struct {
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// Ingest holds directory-walk options.
type Ingest struct {
	MaxDepth   *int  `yaml:"max_depth,omitempty"`
	SkipHidden *bool `yaml:"skip_hidden,omitempty"`
}

// Watch holds watch-mode options.
type Watch struct {
	Debounce string `yaml:"debounce,omitempty"` // time.ParseDuration syntax
}

// History holds history display options.
type History struct {
	TimeFormat string `yaml:"time_format,omitempty"` // Go reference-time layout
}

// Defaults applied when a value is not configured.
const (
	DefaultMaxDepth   = 100
	DefaultDebounce   = 300 * time.Millisecond
	DefaultTimeFormat = "2006-01-02T15:04:05"
)

// Validation bounds for configuration values.
const (
	MinMaxDepth = 1
	MaxMaxDepth = 10000
	MinDebounce = 10 * time.Millisecond
	MaxDebounce = time.Minute
)

// Config contains configuration for imgtag.
type Config struct {
	Author  Author  `yaml:"author,omitempty"`
	Ingest  Ingest  `yaml:"ingest,omitempty"`
	Watch   Watch   `yaml:"watch,omitempty"`
	History History `yaml:"history,omitempty"`

	// path is the file this config was loaded from (for Save)
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	if c.Ingest.MaxDepth != nil {
		v := *c.Ingest.MaxDepth
		if v < MinMaxDepth || v > MaxMaxDepth {
			return fmt.Errorf("%w: ingest.max_depth must be between %d and %d, got %d",
				ErrInvalidValue, MinMaxDepth, MaxMaxDepth, v)
		}
	}
	if c.Watch.Debounce != "" {
		if _, err := parseDebounce(c.Watch.Debounce); err != nil {
			return err
		}
	}
	if c.History.TimeFormat != "" && strings.TrimSpace(c.History.TimeFormat) == "" {
		return fmt.Errorf("%w: history.time_format must not be blank", ErrInvalidValue)
	}
	return nil
}

// MaxDepth returns the ingest recursion limit (defaults to 100).
func (c *Config) MaxDepth() int {
	if c.Ingest.MaxDepth == nil {
		return DefaultMaxDepth
	}
	return *c.Ingest.MaxDepth
}

// SkipHidden returns whether ingest skips dot-files (defaults to false).
func (c *Config) SkipHidden() bool {
	if c.Ingest.SkipHidden == nil {
		return false
	}
	return *c.Ingest.SkipHidden
}

// Debounce returns the watcher debounce interval (defaults to 300ms).
func (c *Config) Debounce() time.Duration {
	if c.Watch.Debounce == "" {
		return DefaultDebounce
	}
	d, err := parseDebounce(c.Watch.Debounce)
	if err != nil {
		return DefaultDebounce
	}
	return d
}

// TimeFormat returns the layout used for history lines.
func (c *Config) TimeFormat() string {
	if c.History.TimeFormat == "" {
		return DefaultTimeFormat
	}
	return c.History.TimeFormat
}

func parseDebounce(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: watch.debounce: %w", ErrInvalidValue, err)
	}
	if d < MinDebounce || d > MaxDebounce {
		return 0, fmt.Errorf("%w: watch.debounce must be between %s and %s, got %s",
			ErrInvalidValue, MinDebounce, MaxDebounce, d)
	}
	return d, nil
}

// LocalPath returns the path to the local (repository) config file.
func LocalPath() string {
	return filepath.Join(".imgtag", "config.yaml")
}

// GlobalPath returns the path to the global (user) config file: ~/.imgtag/config.yaml
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".imgtag", "config.yaml")
}

// Path returns the local config path (for backwards compatibility).
func Path() string {
	return LocalPath()
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	// Check if local config exists
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	// Fall back to global
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
