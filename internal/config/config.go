// Package config holds the host-facing configuration for the guru error
// core: log and crash report locations, presenter choice, and cascade
// tuning. Cascade limits only apply to systems constructed after a load;
// a live detector is never retuned, and a declared cascade is permanent.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Presenter kinds accepted in config files and CLI flags.
const (
	PresenterTTY     = "tty"
	PresenterConsole = "console"
)

// Config is the full configuration.
type Config struct {
	// LogFile is the system log path. Empty selects the default filename.
	LogFile string `yaml:"log_file"`

	// CrashDir is where crash report files are written. Empty disables
	// crash reports.
	CrashDir string `yaml:"crash_dir"`

	// Presenter selects how the halt notice is rendered: tty or console.
	Presenter string `yaml:"presenter"`

	Cascade CascadeConfig `yaml:"cascade"`
}

// CascadeConfig tunes the cascade detector.
type CascadeConfig struct {
	// Threshold is the pressure that must be exceeded to declare a
	// cascade. Zero selects the default.
	Threshold uint `yaml:"threshold"`

	// Window is the idle timeout as a duration string, e.g. "30s".
	Window string `yaml:"window"`
}

// WindowDuration parses the window, falling back to zero (which the
// detector maps to its default) on empty or malformed values.
func (c CascadeConfig) WindowDuration() time.Duration {
	if c.Window == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Window)
	if err != nil {
		return 0
	}
	return d
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LogFile:   "guru.log",
		CrashDir:  ".",
		Presenter: PresenterTTY,
		Cascade: CascadeConfig{
			Threshold: 20,
			Window:    "30s",
		},
	}
}

// Load reads a YAML config file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
