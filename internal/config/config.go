// Package config handles the configuration directory, file paths and settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "taskflow"

	// ConfigFile is the optional settings file inside the config directory.
	ConfigFile = "config.toml"

	// UserFile is the saved user record.
	UserFile = "user.json"

	// TokenFile is the saved bearer token.
	TokenFile = "token"

	// DefaultBaseURL is where the API is expected when nothing is configured.
	DefaultBaseURL = "http://localhost:8080/api"

	// DefaultTimeout bounds each API request.
	DefaultTimeout = 10 * time.Second

	envPrefix = "TASKFLOW"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the API root, e.g. http://localhost:8080/api.
	BaseURL string

	// Timeout bounds each API request. Zero disables it.
	Timeout time.Duration

	// LogFile, when set, receives JSON logs with rotation.
	LogFile string

	// Debug enables debug logging to stderr.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a Config for configDir, or the default directory if empty.
// Settings come from config.toml in that directory, overridden by
// TASKFLOW_BASE_URL, TASKFLOW_TIMEOUT and TASKFLOW_LOG_FILE.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("timeout", DefaultTimeout.String())
	v.SetDefault("log_file", "")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	path := filepath.Join(dir, ConfigFile)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	}

	timeout, err := cast.ToDurationE(v.Get("timeout"))
	if err != nil || timeout < 0 {
		return nil, fmt.Errorf("invalid %s: timeout: %q is not a duration", ConfigFile, v.GetString("timeout"))
	}

	return &Config{
		Dir:     dir,
		BaseURL: v.GetString("base_url"),
		Timeout: timeout,
		LogFile: v.GetString("log_file"),
	}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// UserPath returns the path of the saved user record.
func (c *Config) UserPath() string {
	return filepath.Join(c.Dir, UserFile)
}

// TokenPath returns the path of the saved bearer token.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory with mode 0700 if missing.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// APIBaseURL returns BaseURL, falling back to DefaultBaseURL.
func (c *Config) APIBaseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}
