package config

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/time-server/domain/chrono"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the JSON path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates server configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(config *ServerConfig) ValidationErrors {
	v.errors = nil

	v.validateRequired(config)
	v.validateServer(config)
	v.validateTime(config)
	v.validateResilience(config)
	v.validateLogging(config)
	v.validateTelemetry(config)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateRequired(config *ServerConfig) {
	if config.Name == "" {
		v.addError("name", "name is required")
	}
	if config.Version == "" {
		v.addError("version", "version is required")
	}
}

func (v *Validator) validateServer(config *ServerConfig) {
	switch config.Server.Transport {
	case "", TransportStdio:
	case TransportHTTP:
		if config.Server.Address == "" {
			v.addError("server.address", "address is required for http transport")
		}
	default:
		v.addError("server.transport", fmt.Sprintf("invalid transport: %s", config.Server.Transport))
	}
}

func (v *Validator) validateTime(config *ServerConfig) {
	tz := config.Time.DefaultTimezone
	if !chrono.IsLocal(tz) {
		if _, err := chrono.LoadLocation(tz); err != nil {
			v.addError("time.default_timezone", fmt.Sprintf("invalid timezone: %s", tz))
		}
	}

	enabled := make(map[string]bool, len(config.Time.EnabledTools))
	for i, name := range config.Time.EnabledTools {
		if name == "" {
			v.addError(fmt.Sprintf("time.enabled_tools[%d]", i), "tool name is required")
		}
		enabled[name] = true
	}
	for i, name := range config.Time.DisabledTools {
		path := fmt.Sprintf("time.disabled_tools[%d]", i)
		if name == "" {
			v.addError(path, "tool name is required")
		} else if enabled[name] {
			v.addError(path, fmt.Sprintf("tool %s is both enabled and disabled", name))
		}
	}
}

func (v *Validator) validateResilience(config *ServerConfig) {
	if config.Resilience.MaxConcurrent < 0 {
		v.addError("resilience.max_concurrent", "max_concurrent must be non-negative")
	}
	if config.Resilience.Timeout < 0 {
		v.addError("resilience.timeout", "timeout must be non-negative")
	}
}

func (v *Validator) validateLogging(config *ServerConfig) {
	if config.Logging.Level != "" {
		validLevels := map[string]bool{
			"trace": true, "debug": true, "info": true, "warn": true, "error": true,
		}
		if !validLevels[strings.ToLower(config.Logging.Level)] {
			v.addError("logging.level", fmt.Sprintf("invalid level: %s", config.Logging.Level))
		}
	}
	switch config.Logging.Format {
	case "", "json", "console":
	default:
		v.addError("logging.format", fmt.Sprintf("invalid format: %s", config.Logging.Format))
	}
}

func (v *Validator) validateTelemetry(config *ServerConfig) {
	tr := config.Telemetry.Tracing
	if !tr.Enabled {
		return
	}
	switch tr.Exporter {
	case "", "stdout", "none":
	case "otlp":
		if tr.Endpoint == "" {
			v.addError("telemetry.tracing.endpoint", "endpoint is required for otlp exporter")
		}
	default:
		v.addError("telemetry.tracing.exporter", fmt.Sprintf("invalid exporter: %s", tr.Exporter))
	}
	if tr.SampleRate < 0 || tr.SampleRate > 1 {
		v.addError("telemetry.tracing.sample_rate", "sample_rate must be between 0 and 1")
	}
}
