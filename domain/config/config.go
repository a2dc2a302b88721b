// Package config provides domain models for time server configuration.
package config

import "time"

// Transport names.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// ServerConfig represents the complete server configuration.
type ServerConfig struct {
	// Name is the server name advertised to MCP clients.
	Name string `json:"name" yaml:"name"`
	// Version is the server version advertised to MCP clients.
	Version string `json:"version" yaml:"version"`
	// Description describes the server.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Server contains transport settings.
	Server ServerSettings `json:"server,omitempty" yaml:"server,omitempty"`
	// Time contains time engine settings.
	Time TimeSettings `json:"time,omitempty" yaml:"time,omitempty"`
	// Resilience contains execution guard settings.
	Resilience ResilienceConfig `json:"resilience,omitempty" yaml:"resilience,omitempty"`
	// Logging contains logger settings.
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
	// Telemetry contains tracing and metrics settings.
	Telemetry TelemetryConfig `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
}

// ServerSettings configures the MCP transport.
type ServerSettings struct {
	// Transport is stdio or http (default: stdio).
	Transport string `json:"transport,omitempty" yaml:"transport,omitempty"`
	// Address is the listen address for the http transport.
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	// Instructions are sent to clients during initialization.
	Instructions string `json:"instructions,omitempty" yaml:"instructions,omitempty"`
}

// TimeSettings configures the time engine and tool catalog.
type TimeSettings struct {
	// DefaultTimezone stands in for the host default ("local" keeps the host's).
	DefaultTimezone string `json:"default_timezone,omitempty" yaml:"default_timezone,omitempty"`
	// EnabledTools limits the catalog to these tools (empty = all).
	EnabledTools []string `json:"enabled_tools,omitempty" yaml:"enabled_tools,omitempty"`
	// DisabledTools removes tools from the catalog.
	DisabledTools []string `json:"disabled_tools,omitempty" yaml:"disabled_tools,omitempty"`
}

// ResilienceConfig configures the execution guard around tool calls.
type ResilienceConfig struct {
	// MaxConcurrent bounds concurrent tool executions (0 = unbounded).
	MaxConcurrent int `json:"max_concurrent,omitempty" yaml:"max_concurrent,omitempty"`
	// Timeout bounds a single tool execution (0 = none).
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	// Level is trace, debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is json or console.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// TelemetryConfig configures OpenTelemetry.
type TelemetryConfig struct {
	// ServiceName overrides the resource service name.
	ServiceName string `json:"service_name,omitempty" yaml:"service_name,omitempty"`
	// Tracing configures span export.
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`
	// Metrics enables periodic export of tool metrics to stderr.
	Metrics bool `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// TracingConfig configures span export.
type TracingConfig struct {
	// Enabled enables tracing.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// Exporter is otlp, stdout or none.
	Exporter string `json:"exporter,omitempty" yaml:"exporter,omitempty"`
	// Endpoint is the OTLP collector endpoint.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	// Insecure disables TLS for the OTLP exporter.
	Insecure bool `json:"insecure,omitempty" yaml:"insecure,omitempty"`
	// SampleRate is the fraction of traces sampled, 0 to 1.
	SampleRate float64 `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *ServerConfig {
	cfg := &ServerConfig{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields with their defaults.
func (c *ServerConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "time-server"
	}
	if c.Version == "" {
		c.Version = "1.0.0"
	}
	if c.Description == "" {
		c.Description = "Time computation tools: formatting, arithmetic, timezone conversion, business days and next occurrences"
	}
	if c.Server.Transport == "" {
		c.Server.Transport = TransportStdio
	}
	if c.Server.Transport == TransportHTTP && c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Time.DefaultTimezone == "" {
		c.Time.DefaultTimezone = "local"
	}
	if c.Resilience.MaxConcurrent == 0 {
		c.Resilience.MaxConcurrent = 64
	}
	if c.Resilience.Timeout == 0 {
		c.Resilience.Timeout = Duration(5 * time.Second)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Telemetry.Tracing.Enabled {
		if c.Telemetry.Tracing.Exporter == "" {
			c.Telemetry.Tracing.Exporter = "stdout"
		}
		if c.Telemetry.Tracing.SampleRate == 0 {
			c.Telemetry.Tracing.SampleRate = 1
		}
	}
}

// Duration is a time.Duration that supports JSON/YAML string representation.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	// Handle null
	if string(b) == "null" {
		return nil
	}

	// Remove quotes
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
