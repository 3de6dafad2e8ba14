package server

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address, host:port.
	Addr string

	// ReadTimeout bounds reading a request.
	ReadTimeout time.Duration

	// WriteTimeout bounds writing a response. WebSocket connections are
	// hijacked and not subject to it.
	WriteTimeout time.Duration

	// LoopQueueSize is the event loop dispatch queue capacity.
	LoopQueueSize int

	// MaxNotifyDepth enables the store's reentrant-notification guard
	// when > 0.
	MaxNotifyDepth int

	// MetricsDisabled turns off /metrics and store activity recording.
	// Metrics are on by default.
	MetricsDisabled bool

	// MetricsNamespace is the Prometheus namespace (default: "ripple").
	MetricsNamespace string

	// Registry is the Prometheus registry to register metrics with.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// Logger is the structured logger. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:             ":8090",
		ReadTimeout:      10 * time.Second,
		WriteTimeout:     10 * time.Second,
		LoopQueueSize:    256,
		MetricsNamespace: "ripple",
	}
}

// withDefaults fills in defaults for any unset fields.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	defaults := DefaultConfig()
	if c.Addr == "" {
		c.Addr = defaults.Addr
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = defaults.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = defaults.WriteTimeout
	}
	if c.LoopQueueSize == 0 {
		c.LoopQueueSize = defaults.LoopQueueSize
	}
	if c.MetricsNamespace == "" {
		c.MetricsNamespace = defaults.MetricsNamespace
	}
	if c.Registry == nil {
		c.Registry = prometheus.DefaultRegisterer
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
