package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL          = "https://api.scryfall.com/bulk-data"
	DefaultUserAgent       = "MagicGatherer/0.1"
	DefaultBulkType        = "unique_artwork"
	DefaultRequestInterval = 100 * time.Millisecond

	// WorkDirEnv overrides work_dir from the config file.
	WorkDirEnv = "GATHERER_WORK_DIR"
)

// Config represents the application configuration
type Config struct {
	WorkDir         string `toml:"work_dir"`
	APIURL          string `toml:"api_url"`
	UserAgent       string `toml:"user_agent"`
	BulkType        string `toml:"bulk_type"`
	RequestInterval string `toml:"request_interval"`
	LogLevel        string `toml:"log_level"`
}

// Interval parses request_interval, falling back to the default when unset.
func (c *Config) Interval() (time.Duration, error) {
	if strings.TrimSpace(c.RequestInterval) == "" {
		return DefaultRequestInterval, nil
	}
	d, err := time.ParseDuration(c.RequestInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid request_interval %q: %v", c.RequestInterval, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("request_interval must not be negative: %s", d)
	}
	return d, nil
}

// Paths returns the mirror layout under the effective work dir.
func (c *Config) Paths() Paths {
	return NewPaths(c.ResolveWorkDir())
}

// ResolveWorkDir applies the environment override and the default.
func (c *Config) ResolveWorkDir() string {
	if dir := os.Getenv(WorkDirEnv); dir != "" {
		return dir
	}
	if c.WorkDir != "" {
		return c.WorkDir
	}
	return GetDefaultWorkDir()
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetCacheDir returns the directory for derived files that can be rebuilt at any time
func GetCacheDir() string {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, "gatherer")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "gatherer")
	}
	return filepath.Join(homeDir, ".cache", "gatherer")
}

// GetDefaultWorkDir returns the work dir used when nothing else is configured
func GetDefaultWorkDir() string {
	return filepath.Join(GetXDGDataHome(), "gatherer")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "gatherer", "config.toml")
}

// LoadConfig loads the config file
func LoadConfig() (*Config, error) {
	configPath := GetConfigFilePath()

	// Create default config if it doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig()
	}

	var config Config
	_, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return nil, fmt.Errorf("error decoding config file: %v", err)
	}

	config.applyDefaults()
	return &config, nil
}

// Default returns the built-in configuration
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.BulkType == "" {
		c.BulkType = DefaultBulkType
	}
	if c.RequestInterval == "" {
		c.RequestInterval = DefaultRequestInterval.String()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// createDefaultConfig creates a default config file
func createDefaultConfig() (*Config, error) {
	configPath := GetConfigFilePath()
	configDir := filepath.Dir(configPath)

	// Ensure the config directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %v", err)
	}

	config := Default()
	config.WorkDir = GetDefaultWorkDir()

	// Create the file
	file, err := os.Create(configPath)
	if err != nil {
		return nil, fmt.Errorf("error creating config file: %v", err)
	}
	defer file.Close()

	// Encode the config to TOML
	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return nil, fmt.Errorf("error encoding config: %v", err)
	}

	return config, nil
}
