package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ErrNotFound indicates the configuration file doesn't exist.
var ErrNotFound = errors.New("config file not found")

// EnvConfigPath is the environment variable that overrides the
// configuration file path.
const EnvConfigPath = "KEYSCOPE_CONFIG"

// ConfigPath returns the configuration file path.
// KEYSCOPE_CONFIG wins, then XDG_CONFIG_HOME, then ~/.config.
func ConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "keyscope", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "keyscope.toml")
	}
	return filepath.Join(home, ".config", "keyscope", "config.toml")
}

// DefaultSocketPath returns the default control socket path.
func DefaultSocketPath() string {
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "keyscope.sock")
	}
	return fmt.Sprintf("/tmp/keyscope-%d.sock", os.Getuid())
}

// Load reads configuration from the specified path.
// An empty path selects ConfigPath. A missing file returns defaults
// rather than an error so the daemon can start unconfigured.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadStrict is Load but a missing file is an error.
// Used by reload, where losing the file should not silently drop
// every binding.
func LoadStrict(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return Load(path)
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("KEYSCOPE_LOG_LEVEL"); v != "" {
		c.Daemon.LogLevel = v
	}
	if v := os.Getenv("KEYSCOPE_SOCKET"); v != "" {
		c.Daemon.Socket = v
	}
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
