package config

import (
	"log/slog"
	"strings"
)

// ObservabilityConfig groups configuration that controls logging and metrics.
type ObservabilityConfig struct {
	Logging LoggingConfig
	Metrics ObservabilityMetricsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Logging.Sanitize()
}

// LoggingConfig controls the process-wide slog handler.
type LoggingConfig struct {
	Level slog.Level `env:"LOG_LEVEL"  envDefault:"INFO"`
	// Format is "json" or "text".
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Sanitize normalises the format; anything unknown falls back to JSON.
func (c *LoggingConfig) Sanitize() {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format != "text" {
		c.Format = "json"
	}
}

// ObservabilityMetricsConfig controls the Prometheus endpoint.
type ObservabilityMetricsConfig struct {
	// Enabled serves GET /metrics.
	Enabled bool `env:"OBSERVABILITY_METRICS_ENABLED" envDefault:"true"`
	// RuntimeCollectors adds the Go runtime and process collectors.
	RuntimeCollectors bool `env:"OBSERVABILITY_METRICS_RUNTIME" envDefault:"true"`
}

// IsEnabled returns true when the metrics endpoint should be served.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled
}
