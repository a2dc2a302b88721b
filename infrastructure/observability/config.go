// Package observability provides OpenTelemetry tracing for tool executions.
package observability

import (
	"io"
	"os"
	"time"

	"github.com/felixgeelhaar/time-server/domain/config"
)

// Config configures the observability infrastructure.
type Config struct {
	// ServiceName is the name of the service for telemetry.
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// Tracing configures distributed tracing.
	Tracing TracingConfig

	// Metrics configures metric export.
	Metrics MetricsConfig
}

// MetricsConfig configures periodic metric export.
type MetricsConfig struct {
	// Enabled installs an SDK meter provider. When false the global
	// (no-op) provider is used.
	Enabled bool

	// Interval is the export period (default: 60s).
	Interval time.Duration

	// Writer receives the exported metrics as JSON. Defaults to stderr.
	Writer io.Writer
}

// TracingConfig configures distributed tracing.
type TracingConfig struct {
	// Enabled enables tracing (default: false).
	Enabled bool

	// Exporter specifies the trace exporter type.
	Exporter ExporterType

	// Endpoint is the OTLP endpoint (e.g., "localhost:4317").
	Endpoint string

	// Insecure disables TLS for the exporter connection.
	Insecure bool

	// SampleRate is the sampling rate (0.0-1.0, default: 1.0).
	SampleRate float64

	// BatchTimeout is the batch export timeout.
	BatchTimeout time.Duration

	// Writer receives stdout exporter output. Defaults to stderr, since
	// stdout carries the MCP stdio stream.
	Writer io.Writer
}

// ExporterType specifies the telemetry exporter.
type ExporterType string

const (
	// ExporterOTLP exports to an OTLP gRPC endpoint.
	ExporterOTLP ExporterType = "otlp"

	// ExporterStdout writes spans as JSON (useful for development).
	ExporterStdout ExporterType = "stdout"

	// ExporterNone disables export.
	ExporterNone ExporterType = "none"
)

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "time-server",
		ServiceVersion: "1.0.0",
		Tracing: TracingConfig{
			Exporter:     ExporterNone,
			SampleRate:   1.0,
			BatchTimeout: 5 * time.Second,
			Writer:       os.Stderr,
		},
		Metrics: MetricsConfig{
			Interval: 60 * time.Second,
			Writer:   os.Stderr,
		},
	}
}

// FromServerConfig derives the observability configuration from the server configuration.
func FromServerConfig(cfg *config.ServerConfig) Config {
	out := DefaultConfig()
	out.ServiceName = cfg.Name
	if cfg.Telemetry.ServiceName != "" {
		out.ServiceName = cfg.Telemetry.ServiceName
	}
	out.ServiceVersion = cfg.Version

	tr := cfg.Telemetry.Tracing
	out.Tracing.Enabled = tr.Enabled
	if tr.Exporter != "" {
		out.Tracing.Exporter = ExporterType(tr.Exporter)
	}
	out.Tracing.Endpoint = tr.Endpoint
	out.Tracing.Insecure = tr.Insecure
	if tr.SampleRate > 0 {
		out.Tracing.SampleRate = tr.SampleRate
	}
	out.Metrics.Enabled = cfg.Telemetry.Metrics
	return out
}
