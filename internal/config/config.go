package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/keyscope/internal/hotkey/pattern"
	"github.com/dshills/keyscope/internal/hotkey/scope"
)

// Source types accepted by the [source] section.
const (
	SourceTerminal = "terminal"
	SourceEvdev    = "evdev"
	SourceReplay   = "replay"
	SourceNone     = "none"
)

// Config holds the complete daemon configuration.
type Config struct {
	// Daemon holds process-level settings.
	Daemon DaemonConfig `toml:"daemon"`

	// Engine holds dispatcher settings.
	Engine EngineConfig `toml:"engine"`

	// Source selects the key event source.
	Source SourceConfig `toml:"source"`

	// Bindings are the shortcut bindings to register at startup.
	Bindings []BindingConfig `toml:"binding"`
}

// DaemonConfig holds process-level settings.
type DaemonConfig struct {
	// LogLevel is one of debug, info, warn, error, off.
	LogLevel string `toml:"log_level"`

	// Socket is the control socket path. Empty selects the
	// platform default under XDG_RUNTIME_DIR.
	Socket string `toml:"socket"`

	// UI enables the terminal status view.
	UI bool `toml:"ui"`
}

// EngineConfig holds dispatcher settings.
type EngineConfig struct {
	// IdleTimeoutMs is the sequence idle timeout in milliseconds.
	// Zero selects the built-in default.
	IdleTimeoutMs int `toml:"idle_timeout_ms"`

	// InitialScope is the scope active at startup.
	InitialScope string `toml:"initial_scope"`
}

// SourceConfig selects and configures the key event source.
type SourceConfig struct {
	// Type is one of terminal, evdev, replay, none.
	Type string `toml:"type"`

	// Device is the evdev device path. Empty autodetects.
	Device string `toml:"device"`
}

// BindingConfig describes one shortcut binding.
type BindingConfig struct {
	// Pattern is the shortcut pattern, e.g. "ctrl+k d".
	Pattern string `toml:"pattern"`

	// Scope is the scope the binding belongs to. Empty means the
	// default scope.
	Scope string `toml:"scope"`

	// Action is the action string, e.g. "emit:docs" or "scope:editor".
	Action string `toml:"action"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Daemon: DaemonConfig{
			LogLevel: "info",
			Socket:   "",
			UI:       false,
		},
		Engine: EngineConfig{
			IdleTimeoutMs: 1500,
			InitialScope:  scope.DefaultScope,
		},
		Source: SourceConfig{
			Type: SourceTerminal,
		},
	}
}

// IdleTimeout returns the engine idle timeout as a duration.
// Zero means the dispatcher default applies.
func (c *Config) IdleTimeout() time.Duration {
	if c.Engine.IdleTimeoutMs <= 0 {
		return 0
	}
	return time.Duration(c.Engine.IdleTimeoutMs) * time.Millisecond
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for errors.
// All problems are collected and reported together.
func (c *Config) Validate() error {
	var errs ValidationErrors

	switch c.Daemon.LogLevel {
	case "", "debug", "info", "warn", "error", "off":
	default:
		errs = append(errs, ValidationError{
			Field:   "daemon.log_level",
			Message: fmt.Sprintf("unknown level %q", c.Daemon.LogLevel),
		})
	}

	if c.Engine.IdleTimeoutMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "engine.idle_timeout_ms",
			Message: fmt.Sprintf("must not be negative, got %d", c.Engine.IdleTimeoutMs),
		})
	}

	switch c.Source.Type {
	case "", SourceTerminal, SourceEvdev, SourceReplay, SourceNone:
	default:
		errs = append(errs, ValidationError{
			Field:   "source.type",
			Message: fmt.Sprintf("unknown type %q", c.Source.Type),
		})
	}

	for i, b := range c.Bindings {
		field := fmt.Sprintf("binding[%d]", i)
		if _, err := pattern.Compile(b.Pattern); err != nil {
			errs = append(errs, ValidationError{
				Field:   field + ".pattern",
				Message: err.Error(),
			})
		}
		if strings.TrimSpace(b.Action) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".action",
				Message: "action is required",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
