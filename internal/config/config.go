// Package config loads the rippled server configuration from ripple.yaml.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "ripple.yaml"

	// DefaultAddr is the default listen address.
	DefaultAddr = ":8090"

	// DefaultReadTimeout bounds reading a request.
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout bounds writing a response. WebSocket connections
	// are hijacked and not subject to it.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultLoopQueueSize is the event loop dispatch queue capacity.
	DefaultLoopQueueSize = 256
)

// Config is the complete ripple.yaml configuration.
type Config struct {
	// Addr is the listen address, host:port.
	Addr string `yaml:"addr,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	// ReadTimeout bounds reading a request.
	ReadTimeout Duration `yaml:"read_timeout,omitempty"`

	// WriteTimeout bounds writing a response.
	WriteTimeout Duration `yaml:"write_timeout,omitempty"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout Duration `yaml:"shutdown_timeout,omitempty"`

	// Loop configures the event loop.
	Loop LoopConfig `yaml:"loop,omitempty"`

	// Store configures the property store.
	Store StoreConfig `yaml:"store,omitempty"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
}

// LoopConfig configures the event loop.
type LoopConfig struct {
	// QueueSize is the dispatch queue capacity.
	QueueSize int `yaml:"queue_size,omitempty"`
}

// StoreConfig configures the property store.
type StoreConfig struct {
	// MaxNotifyDepth enables the reentrant-notification guard when > 0.
	// Zero keeps the default unguarded semantics.
	MaxNotifyDepth int `yaml:"max_notify_depth,omitempty"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled exposes /metrics when true. Defaults to true.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Namespace is the metrics namespace (default: "ripple").
	Namespace string `yaml:"namespace,omitempty"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "10s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns a configuration with every field at its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from path. An empty path means ConfigFileName in
// the working directory; a missing file at that implicit path yields the
// defaults, while a missing explicitly-given file is an error.
func Load(path string) (*Config, error) {
	implicit := path == ""
	if implicit {
		path = ConfigFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && implicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = Duration(DefaultReadTimeout)
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = Duration(DefaultWriteTimeout)
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = Duration(DefaultShutdownTimeout)
	}
	if c.Loop.QueueSize == 0 {
		c.Loop.QueueSize = DefaultLoopQueueSize
	}
	if c.Metrics.Enabled == nil {
		enabled := true
		c.Metrics.Enabled = &enabled
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "ripple"
	}
}

// SlogLevel maps LogLevel to its slog equivalent. Unknown levels report
// false and fall back to info.
func (c *Config) SlogLevel() (slog.Level, bool) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
