package config

import (
	"encoding/json"
)

// JSONSchema represents a JSON Schema document.
type JSONSchema struct {
	Schema               string                       `json:"$schema,omitempty"`
	ID                   string                       `json:"$id,omitempty"`
	Title                string                       `json:"title,omitempty"`
	Description          string                       `json:"description,omitempty"`
	Type                 string                       `json:"type,omitempty"`
	Properties           map[string]*JSONSchema       `json:"properties,omitempty"`
	Required             []string                     `json:"required,omitempty"`
	Items                *JSONSchema                  `json:"items,omitempty"`
	AdditionalProperties *JSONSchema                  `json:"additionalProperties,omitempty"`
	Enum                 []string                     `json:"enum,omitempty"`
	Default              any                          `json:"default,omitempty"`
	Minimum              *float64                     `json:"minimum,omitempty"`
	Maximum              *float64                     `json:"maximum,omitempty"`
	MinLength            *int                         `json:"minLength,omitempty"`
	MaxLength            *int                         `json:"maxLength,omitempty"`
	Pattern              string                       `json:"pattern,omitempty"`
	Format               string                       `json:"format,omitempty"`
	Ref                  string                       `json:"$ref,omitempty"`
	Definitions          map[string]*JSONSchema       `json:"$defs,omitempty"`
	OneOf                []*JSONSchema                `json:"oneOf,omitempty"`
	AnyOf                []*JSONSchema                `json:"anyOf,omitempty"`
	AllOf                []*JSONSchema                `json:"allOf,omitempty"`
}

// GenerateSchema generates a JSON Schema for the ServerConfig.
func GenerateSchema() *JSONSchema {
	return &JSONSchema{
		Schema:      "https://json-schema.org/draft/2020-12/schema",
		ID:          "https://github.com/felixgeelhaar/time-server/time-server.schema.json",
		Title:       "Time Server Configuration",
		Description: "Configuration schema for the time MCP server",
		Type:        "object",
		Required:    []string{"name", "version"},
		Properties: map[string]*JSONSchema{
			"name": {
				Type:        "string",
				Description: "Server name advertised to MCP clients",
				Default:     "time-server",
			},
			"version": {
				Type:        "string",
				Description: "Server version advertised to MCP clients",
				Default:     "1.0.0",
			},
			"description": {
				Type:        "string",
				Description: "Describes the server",
			},
			"server":     generateServerSchema(),
			"time":       generateTimeSchema(),
			"resilience": generateResilienceSchema(),
			"logging":    generateLoggingSchema(),
			"telemetry":  generateTelemetrySchema(),
		},
	}
}

func generateServerSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "MCP transport settings",
		Properties: map[string]*JSONSchema{
			"transport": {
				Type:        "string",
				Description: "Transport used to serve MCP",
				Enum:        []string{"stdio", "http"},
				Default:     "stdio",
			},
			"address": {
				Type:        "string",
				Description: "Listen address for the http transport",
				Default:     ":8080",
			},
			"instructions": {
				Type:        "string",
				Description: "Instructions sent to clients during initialization",
			},
		},
	}
}

func generateTimeSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Time engine settings",
		Properties: map[string]*JSONSchema{
			"default_timezone": {
				Type:        "string",
				Description: "IANA zone standing in for the host default, or \"local\"",
				Default:     "local",
			},
			"enabled_tools": {
				Type:        "array",
				Description: "Tools to expose (empty exposes all)",
				Items:       &JSONSchema{Type: "string"},
			},
			"disabled_tools": {
				Type:        "array",
				Description: "Tools to hide",
				Items:       &JSONSchema{Type: "string"},
			},
		},
	}
}

func generateResilienceSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Execution guard around tool calls",
		Properties: map[string]*JSONSchema{
			"max_concurrent": {
				Type:        "integer",
				Description: "Maximum concurrent tool executions",
				Minimum:     floatPtr(0),
				Default:     64,
			},
			"timeout": {
				Type:        "string",
				Description: "Maximum duration of a single tool execution",
				Format:      "duration",
				Default:     "5s",
			},
		},
	}
}

func generateLoggingSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Logger settings",
		Properties: map[string]*JSONSchema{
			"level": {
				Type:    "string",
				Enum:    []string{"trace", "debug", "info", "warn", "error"},
				Default: "info",
			},
			"format": {
				Type:    "string",
				Enum:    []string{"json", "console"},
				Default: "json",
			},
		},
	}
}

func generateTelemetrySchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "OpenTelemetry settings",
		Properties: map[string]*JSONSchema{
			"service_name": {
				Type:        "string",
				Description: "Resource service name",
			},
			"metrics": {
				Type:        "boolean",
				Description: "Export tool metrics to stderr periodically",
			},
			"tracing": {
				Type:        "object",
				Description: "Span export",
				Properties: map[string]*JSONSchema{
					"enabled": {
						Type:    "boolean",
						Default: false,
					},
					"exporter": {
						Type:    "string",
						Enum:    []string{"otlp", "stdout", "none"},
						Default: "stdout",
					},
					"endpoint": {
						Type:        "string",
						Description: "OTLP gRPC collector endpoint",
					},
					"insecure": {
						Type:        "boolean",
						Description: "Disable TLS for the OTLP exporter",
					},
					"sample_rate": {
						Type:    "number",
						Minimum: floatPtr(0),
						Maximum: floatPtr(1),
						Default: 1,
					},
				},
			},
		},
	}
}

func floatPtr(f float64) *float64 {
	return &f
}

// SchemaJSON returns the JSON Schema as a JSON string.
func SchemaJSON() (string, error) {
	schema := GenerateSchema()
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
