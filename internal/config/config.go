// Package config loads interact's YAML configuration, applies environment
// overrides, validates it and converts each section into the option struct
// of the engine component it configures.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// CurrentSchemaVersion is written by Save and `config init`.
const CurrentSchemaVersion = "1.0.0"

// supportedSchema is the constraint every loaded schema_version must meet.
const supportedSchema = "^1"

// Environment variables consulted by Load.
const (
	EnvConfig     = "INTERACT_CONFIG"
	EnvHome       = "INTERACT_HOME"
	EnvLogLevel   = "INTERACT_LOG_LEVEL"
	EnvLogFormat  = "INTERACT_LOG_FORMAT"
	EnvProjectDir = "INTERACT_PROJECT_DIR"
)

// Validation errors.
var (
	ErrInvalidSchemaVersion     = errors.New("invalid schema_version")
	ErrUnsupportedSchemaVersion = errors.New("unsupported schema_version")
	ErrInvalidLogLevel          = errors.New("invalid log level")
	ErrInvalidLogFormat         = errors.New("invalid log format")
	ErrInvalidThreshold         = errors.New("threshold must be positive")
	ErrInvalidPullDistance      = errors.New("pull distance must be at least the threshold")
	ErrInvalidItemHeight        = errors.New("item height must be positive")
	ErrInvalidRatio             = errors.New("visibility threshold must be within [0, 1]")
	ErrNegativeValue            = errors.New("value must not be negative")
)

// Config is the full configuration file.
type Config struct {
	SchemaVersion string           `yaml:"schema_version"`
	Logging       LoggingConfig    `yaml:"logging"`
	Gesture       GestureConfig    `yaml:"gesture"`
	Pull          PullConfig       `yaml:"pull"`
	Virtual       VirtualConfig    `yaml:"virtual"`
	Visibility    VisibilityConfig `yaml:"visibility"`
	Perf          PerfConfig       `yaml:"perf"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// GestureConfig configures swipe recognition.
type GestureConfig struct {
	Threshold float64 `yaml:"threshold"`
	Haptics   bool    `yaml:"haptics"`
}

// PullConfig configures pull to refresh.
type PullConfig struct {
	Threshold          float64       `yaml:"threshold"`
	PullDistance       float64       `yaml:"pull_distance"`
	MinRefreshDuration time.Duration `yaml:"min_refresh_duration"`
}

// VirtualConfig configures list virtualization.
type VirtualConfig struct {
	ItemHeight   float64 `yaml:"item_height"`
	Overscan     *int    `yaml:"overscan,omitempty"`
	DisableBelow int     `yaml:"disable_below"`
}

// VisibilityConfig configures visibility-driven behaviour.
type VisibilityConfig struct {
	Threshold    float64       `yaml:"threshold"`
	RootMargin   float64       `yaml:"root_margin"`
	StaggerDelay time.Duration `yaml:"stagger_delay"`
	PageSize     int           `yaml:"page_size"`
}

// PerfConfig configures the performance sampler.
type PerfConfig struct {
	Enabled         bool   `yaml:"enabled"`
	TrackFPS        bool   `yaml:"track_fps"`
	TrackMemory     bool   `yaml:"track_memory"`
	TrackRenderTime bool   `yaml:"track_render_time"`
	MemoryLimitMB   uint64 `yaml:"memory_limit_mb,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SchemaVersion: CurrentSchemaVersion,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Gesture: GestureConfig{
			Threshold: 80,
			Haptics:   true,
		},
		Pull: PullConfig{
			Threshold:          80,
			PullDistance:       120,
			MinRefreshDuration: 500 * time.Millisecond,
		},
		Virtual: VirtualConfig{
			ItemHeight:   1,
			DisableBelow: 100,
		},
		Visibility: VisibilityConfig{
			Threshold:    0,
			RootMargin:   0,
			StaggerDelay: 100 * time.Millisecond,
			PageSize:     50,
		},
		Perf: PerfConfig{
			Enabled:         true,
			TrackFPS:        true,
			TrackMemory:     true,
			TrackRenderTime: true,
		},
	}
}

// New loads the configuration from ConfigPath, falling back to defaults when
// the file is missing or unreadable.
func New() *Config {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.applyEnvOverrides()
		return cfg
	}
	cfg, err := Load(path)
	if err != nil {
		cfg = Default()
		cfg.applyEnvOverrides()
	}
	return cfg
}

// Load reads path on top of the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
}

// Validate checks every section, returning the first problem found wrapped
// around one of the package's sentinel errors.
func (c *Config) Validate() error {
	if err := validateSchemaVersion(c.SchemaVersion); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if c.Gesture.Threshold <= 0 {
		return fmt.Errorf("gesture: %w (got %v)", ErrInvalidThreshold, c.Gesture.Threshold)
	}
	if c.Pull.Threshold <= 0 {
		return fmt.Errorf("pull: %w (got %v)", ErrInvalidThreshold, c.Pull.Threshold)
	}
	if c.Pull.PullDistance < c.Pull.Threshold {
		return fmt.Errorf("pull: %w (distance %v, threshold %v)",
			ErrInvalidPullDistance, c.Pull.PullDistance, c.Pull.Threshold)
	}
	if c.Pull.MinRefreshDuration < 0 {
		return fmt.Errorf("pull.min_refresh_duration: %w", ErrNegativeValue)
	}
	if c.Virtual.ItemHeight <= 0 {
		return fmt.Errorf("virtual: %w (got %v)", ErrInvalidItemHeight, c.Virtual.ItemHeight)
	}
	if c.Virtual.Overscan != nil && *c.Virtual.Overscan < 0 {
		return fmt.Errorf("virtual.overscan: %w", ErrNegativeValue)
	}
	if c.Visibility.Threshold < 0 || c.Visibility.Threshold > 1 {
		return fmt.Errorf("visibility: %w (got %v)", ErrInvalidRatio, c.Visibility.Threshold)
	}
	if c.Visibility.StaggerDelay < 0 {
		return fmt.Errorf("visibility.stagger_delay: %w", ErrNegativeValue)
	}
	if c.Visibility.PageSize < 0 {
		return fmt.Errorf("visibility.page_size: %w", ErrNegativeValue)
	}
	return nil
}

// Validate checks the level and format names.
func (lc LoggingConfig) Validate() error {
	switch lc.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, lc.Level)
	}
	switch lc.Format {
	case "console", "json", "text":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, lc.Format)
	}
	return nil
}

func validateSchemaVersion(v string) error {
	if v == "" {
		return nil
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidSchemaVersion, v, err)
	}
	constraint, err := semver.NewConstraint(supportedSchema)
	if err != nil {
		return fmt.Errorf("parsing schema constraint: %w", err)
	}
	if !constraint.Check(ver) {
		return fmt.Errorf("%w %s (supported: %s)", ErrUnsupportedSchemaVersion, ver, supportedSchema)
	}
	return nil
}
