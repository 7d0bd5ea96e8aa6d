// Package config handles application configuration
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed config.sample.yaml
var sampleConfig string

const (
	appName = "todolist"

	defaultExitAnimation = 300 * time.Millisecond
	defaultShakeDuration = 500 * time.Millisecond
	defaultDateFormat    = "Monday, January 2, 2006"
)

// ValidBackends lists the storage backends the configuration may select.
var ValidBackends = []string{"file", "sqlite"}

// Config represents the application configuration
type Config struct {
	Backend string        `yaml:"backend" toml:"backend"`
	DataDir string        `yaml:"data_dir" toml:"data_dir"`
	SQLite  SQLiteConfig  `yaml:"sqlite" toml:"sqlite"`
	UI      UIConfig      `yaml:"ui" toml:"ui"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// SQLiteConfig holds SQLite backend configuration
type SQLiteConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// UIConfig holds user interface settings
type UIConfig struct {
	ExitAnimation string `yaml:"exit_animation" toml:"exit_animation"` // e.g. "300ms", "0s" disables
	ShakeDuration string `yaml:"shake_duration" toml:"shake_duration"`
	DateFormat    string `yaml:"date_format" toml:"date_format"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Verbose bool   `yaml:"verbose" toml:"verbose"`
	File    string `yaml:"file" toml:"file"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Backend: "file",
		DataDir: GetDataDir(),
		UI: UIConfig{
			ExitAnimation: defaultExitAnimation.String(),
			ShakeDuration: defaultShakeDuration.String(),
			DateFormat:    defaultDateFormat,
		},
	}
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// Load loads configuration from the specified path, or the default XDG path if empty.
// If a YAML config file doesn't exist, it creates one from the sample.
// Files ending in .toml are parsed as TOML.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath()
	}
	isTOML := strings.EqualFold(filepath.Ext(configPath), ".toml")

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if isTOML {
			return cfg, nil
		}
		if err := cfg.save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	// Read existing config
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if isTOML {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("invalid TOML in config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML in config file: %w", err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills unset fields and expands paths
func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = "file"
	}
	c.Backend = strings.ToLower(c.Backend)
	if c.DataDir == "" {
		c.DataDir = GetDataDir()
	}
	c.DataDir = ExpandPath(c.DataDir)
	c.SQLite.Path = ExpandPath(c.SQLite.Path)
	c.Logging.File = ExpandPath(c.Logging.File)
	if c.UI.ExitAnimation == "" {
		c.UI.ExitAnimation = defaultExitAnimation.String()
	}
	if c.UI.ShakeDuration == "" {
		c.UI.ShakeDuration = defaultShakeDuration.String()
	}
	if c.UI.DateFormat == "" {
		c.UI.DateFormat = defaultDateFormat
	}
}

// save writes the configuration to the specified path
func (c *Config) save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Use the embedded sample config which includes all documentation and comments
	content := sampleConfig

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	valid := false
	for _, b := range ValidBackends {
		if c.Backend == b {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown backend: %q (must be one of %s)", c.Backend, strings.Join(ValidBackends, ", "))
	}

	for name, value := range map[string]string{
		"ui.exit_animation": c.UI.ExitAnimation,
		"ui.shake_duration": c.UI.ShakeDuration,
	} {
		if value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %q", name, value)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %q", name, value)
		}
	}

	return nil
}

// ApplyFlags applies CLI flag overrides to the configuration
func (c *Config) ApplyFlags(backendName, dataDir string, verbose bool) {
	if backendName != "" {
		c.Backend = strings.ToLower(backendName)
	}
	if dataDir != "" {
		c.DataDir = ExpandPath(dataDir)
	}
	if verbose {
		c.Logging.Verbose = true
	}
}

// StoragePath returns the path handed to the selected backend:
// the data directory for "file", the database file for "sqlite".
func (c *Config) StoragePath() string {
	if c.Backend == "sqlite" {
		if c.SQLite.Path != "" {
			return c.SQLite.Path
		}
		return filepath.Join(c.DataDir, appName+".db")
	}
	return c.DataDir
}

// GetExitAnimation returns the delete exit animation duration.
// Returns 300ms if not configured or unparsable; 0 disables the animation.
func (c *Config) GetExitAnimation() time.Duration {
	return parseDurationOr(c.UI.ExitAnimation, defaultExitAnimation)
}

// GetShakeDuration returns how long the empty-input cue is shown.
// Returns 500ms if not configured or unparsable.
func (c *Config) GetShakeDuration() time.Duration {
	return parseDurationOr(c.UI.ShakeDuration, defaultShakeDuration)
}

// GetDateFormat returns the Go time layout for the header date.
func (c *Config) GetDateFormat() string {
	if c.UI.DateFormat == "" {
		return defaultDateFormat
	}
	return c.UI.DateFormat
}

// GetLogFile returns the log file used while the TUI runs.
func (c *Config) GetLogFile() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(GetCacheDir(), appName+".log")
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// getXDGDir returns the XDG directory for the given environment variable,
// falling back to the specified path relative to the home directory.
func getXDGDir(envVar, fallbackPath string) string {
	if xdgDir := os.Getenv(envVar); xdgDir != "" {
		return filepath.Join(xdgDir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", fallbackPath, appName)
	}
	return filepath.Join(home, fallbackPath, appName)
}

// GetConfigDir returns the configuration directory following XDG spec
func GetConfigDir() string {
	return getXDGDir("XDG_CONFIG_HOME", ".config")
}

// GetDataDir returns the data directory following XDG spec
func GetDataDir() string {
	return getXDGDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// GetCacheDir returns the cache directory following XDG spec
func GetCacheDir() string {
	return getXDGDir("XDG_CACHE_HOME", ".cache")
}

// ExpandPath expands ~ and environment variables in a path
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	// Expand environment variables
	path = os.ExpandEnv(path)

	return path
}
