// Package config handles emitline configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration structure for emitline.
type Config struct {
	// Global settings
	Global GlobalConfig `yaml:"global" mapstructure:"global"`

	// Database settings
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// Timeline view settings
	Timeline TimelineConfig `yaml:"timeline" mapstructure:"timeline"`

	// TUI settings
	TUI TUIConfig `yaml:"tui" mapstructure:"tui"`
}

// GlobalConfig contains global emitline settings.
type GlobalConfig struct {
	// DataDir is where emitline stores its data (default: ~/.local/share/emitline).
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	// ConfigDir is where config files are stored (default: ~/.config/emitline).
	ConfigDir string `yaml:"config_dir" mapstructure:"config_dir"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	// Path is the SQLite database file path.
	Path string `yaml:"path" mapstructure:"path"`

	// BusyTimeout is how long to wait for a locked database (milliseconds).
	BusyTimeoutMs int `yaml:"busy_timeout_ms" mapstructure:"busy_timeout_ms"`

	// MaxRetries bounds retries of a save that hits a locked database.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`

	// File is an optional log file path. The editor always logs to a file
	// so the terminal stays clean.
	File string `yaml:"file" mapstructure:"file"`

	// EnableCaller adds caller information to logs.
	EnableCaller bool `yaml:"enable_caller" mapstructure:"enable_caller"`
}

// TimelineConfig controls the zoom behaviour shared by every timeline view.
type TimelineConfig struct {
	// InitialScale is pixels per second at startup.
	InitialScale float64 `yaml:"initial_scale" mapstructure:"initial_scale"`

	// MinScale is the zoom floor.
	MinScale float64 `yaml:"min_scale" mapstructure:"min_scale"`

	// WheelFactor converts wheel delta into scale change.
	WheelFactor float64 `yaml:"wheel_factor" mapstructure:"wheel_factor"`
}

// TUIConfig contains TUI settings.
type TUIConfig struct {
	// Theme is the colour theme (default, high-contrast, ocean).
	Theme string `yaml:"theme" mapstructure:"theme"`

	// CellWidthPx is how many timeline pixels one terminal column covers.
	CellWidthPx float64 `yaml:"cell_width_px" mapstructure:"cell_width_px"`

	// CellHeightPx is how many timeline pixels one terminal row covers.
	CellHeightPx float64 `yaml:"cell_height_px" mapstructure:"cell_height_px"`

	// FrameInterval is how often animations advance while playing.
	FrameInterval time.Duration `yaml:"frame_interval" mapstructure:"frame_interval"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Global: GlobalConfig{
			DataDir:   filepath.Join(homeDir, ".local", "share", "emitline"),
			ConfigDir: filepath.Join(homeDir, ".config", "emitline"),
		},
		Database: DatabaseConfig{
			Path:          "", // Will be set to DataDir/emitline.db
			BusyTimeoutMs: 5000,
			MaxRetries:    5,
		},
		Logging: LoggingConfig{
			Level:        "info",
			Format:       "console",
			EnableCaller: false,
		},
		Timeline: TimelineConfig{
			InitialScale: 100,
			MinScale:     30,
			WheelFactor:  0.05,
		},
		TUI: TUIConfig{
			Theme:         "default",
			CellWidthPx:   5,
			CellHeightPx:  20,
			FrameInterval: 33 * time.Millisecond,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Database.BusyTimeoutMs < 0 {
		return fmt.Errorf("database.busy_timeout_ms must not be negative")
	}
	if c.Database.MaxRetries < 0 {
		return fmt.Errorf("database.max_retries must not be negative")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be one of console, json")
	}

	if c.Timeline.MinScale <= 0 {
		return fmt.Errorf("timeline.min_scale must be positive")
	}
	if c.Timeline.InitialScale < c.Timeline.MinScale {
		return fmt.Errorf("timeline.initial_scale must be at least timeline.min_scale (%v)", c.Timeline.MinScale)
	}
	if c.Timeline.WheelFactor <= 0 {
		return fmt.Errorf("timeline.wheel_factor must be positive")
	}

	switch c.TUI.Theme {
	case "default", "high-contrast", "ocean":
	default:
		return fmt.Errorf("tui.theme must be one of default, high-contrast, ocean")
	}
	if c.TUI.CellWidthPx <= 0 || c.TUI.CellHeightPx <= 0 {
		return fmt.Errorf("tui.cell_width_px and tui.cell_height_px must be positive")
	}
	if c.TUI.FrameInterval < 10*time.Millisecond {
		return fmt.Errorf("tui.frame_interval must be at least 10ms")
	}

	return nil
}

// EnsureDirectories creates required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Global.DataDir,
		c.Global.ConfigDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// DatabasePath returns the full database path.
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(c.Global.DataDir, "emitline.db")
}

// LogFilePath returns the editor log file path.
func (c *Config) LogFilePath() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(c.Global.DataDir, "emitline.log")
}
