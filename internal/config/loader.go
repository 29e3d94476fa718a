package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "EMITLINE"

// Loader handles configuration loading with Viper.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// SetConfigFile sets an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// Load loads configuration with proper precedence:
// defaults < config file < env vars < CLI flags
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	l.setupViper(cfg)

	if err := l.loadConfigFile(); err != nil {
		// Config file is optional, only error if explicitly specified
		if l.configFile != "" {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Viper's Unmarshal doesn't merge env vars for nested structs when a
	// config file is present.
	l.applyEnvOverrides(cfg)

	expandPaths(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// expandTilde expands ~ to the user's home directory.
func expandTilde(path string) string {
	if path == "" {
		return path
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// expandPaths expands ~ in all path-related config fields.
func expandPaths(cfg *Config) {
	cfg.Global.DataDir = expandTilde(cfg.Global.DataDir)
	cfg.Global.ConfigDir = expandTilde(cfg.Global.ConfigDir)
	cfg.Database.Path = expandTilde(cfg.Database.Path)
	cfg.Logging.File = expandTilde(cfg.Logging.File)
}

// setupViper configures Viper with defaults and environment bindings.
func (l *Loader) setupViper(cfg *Config) {
	v := l.v

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		v.AddConfigPath(filepath.Join(xdgConfig, "emitline"))
	}

	homeDir, _ := os.UserHomeDir()
	if homeDir != "" {
		v.AddConfigPath(filepath.Join(homeDir, ".config", "emitline"))
	}

	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.setDefaults(cfg)

	bindEnvVars(v)

	v.AutomaticEnv()
}

// setDefaults sets all default values in Viper.
func (l *Loader) setDefaults(cfg *Config) {
	v := l.v

	// Global
	v.SetDefault("global.data_dir", cfg.Global.DataDir)
	v.SetDefault("global.config_dir", cfg.Global.ConfigDir)

	// Database
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("database.busy_timeout_ms", cfg.Database.BusyTimeoutMs)
	v.SetDefault("database.max_retries", cfg.Database.MaxRetries)

	// Logging
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.enable_caller", cfg.Logging.EnableCaller)

	// Timeline
	v.SetDefault("timeline.initial_scale", cfg.Timeline.InitialScale)
	v.SetDefault("timeline.min_scale", cfg.Timeline.MinScale)
	v.SetDefault("timeline.wheel_factor", cfg.Timeline.WheelFactor)

	// TUI
	v.SetDefault("tui.theme", cfg.TUI.Theme)
	v.SetDefault("tui.cell_width_px", cfg.TUI.CellWidthPx)
	v.SetDefault("tui.cell_height_px", cfg.TUI.CellHeightPx)
	v.SetDefault("tui.frame_interval", cfg.TUI.FrameInterval)
}

// loadConfigFile attempts to load the configuration file.
func (l *Loader) loadConfigFile() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}

// ConfigFileUsed returns the config file that was loaded.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Set sets a Viper value by key. Flag overrides go through here.
func (l *Loader) Set(key string, value interface{}) {
	l.v.Set(key, value)
}

// LoadFromFile loads configuration from a specific file.
func LoadFromFile(path string) (*Config, error) {
	loader := NewLoader()
	loader.SetConfigFile(path)
	return loader.Load()
}

// LoadDefault loads configuration with default search paths.
func LoadDefault() (*Config, error) {
	loader := NewLoader()
	return loader.Load()
}

// configKeys lists every key that can be overridden from the environment.
var configKeys = []string{
	"global.data_dir",
	"global.config_dir",
	"database.path",
	"database.busy_timeout_ms",
	"database.max_retries",
	"logging.level",
	"logging.format",
	"logging.file",
	"logging.enable_caller",
	"timeline.initial_scale",
	"timeline.min_scale",
	"timeline.wheel_factor",
	"tui.theme",
	"tui.cell_width_px",
	"tui.cell_height_px",
	"tui.frame_interval",
}

// envVarName converts database.path to EMITLINE_DATABASE_PATH.
func envVarName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// bindEnvVars binds environment variables for config keys.
// Viper's Unmarshal has issues with env vars on nested structs unless explicitly bound.
func bindEnvVars(v *viper.Viper) {
	for _, key := range configKeys {
		_ = v.BindEnv(key, envVarName(key))
	}
}

// applyEnvOverrides applies values that are explicitly present in the
// environment on top of whatever Unmarshal produced.
func (l *Loader) applyEnvOverrides(cfg *Config) {
	v := l.v
	set := func(key string) bool {
		_, ok := os.LookupEnv(envVarName(key))
		return ok
	}

	if set("database.path") {
		cfg.Database.Path = v.GetString("database.path")
	}
	if set("database.busy_timeout_ms") {
		cfg.Database.BusyTimeoutMs = v.GetInt("database.busy_timeout_ms")
	}
	if set("global.data_dir") {
		cfg.Global.DataDir = v.GetString("global.data_dir")
	}
	if set("global.config_dir") {
		cfg.Global.ConfigDir = v.GetString("global.config_dir")
	}
	if set("logging.level") {
		cfg.Logging.Level = v.GetString("logging.level")
	}
	if set("logging.format") {
		cfg.Logging.Format = v.GetString("logging.format")
	}
	if set("logging.file") {
		cfg.Logging.File = v.GetString("logging.file")
	}
	if set("timeline.initial_scale") {
		cfg.Timeline.InitialScale = v.GetFloat64("timeline.initial_scale")
	}
	if set("timeline.min_scale") {
		cfg.Timeline.MinScale = v.GetFloat64("timeline.min_scale")
	}
	if set("tui.theme") {
		cfg.TUI.Theme = v.GetString("tui.theme")
	}
}
