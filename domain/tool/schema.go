package tool

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Schema wraps a JSON Schema document.
type Schema struct {
	raw json.RawMessage
}

// NewSchema creates a schema from raw JSON.
func NewSchema(raw json.RawMessage) Schema {
	return Schema{raw: raw}
}

// EmptySchema returns a schema for a tool without arguments.
func EmptySchema() Schema {
	return Schema{raw: json.RawMessage(`{"type":"object","properties":{}}`)}
}

// ObjectSchema returns a schema for an object with the given properties.
func ObjectSchema(properties map[string]json.RawMessage, required []string) Schema {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	raw, _ := json.Marshal(schema)
	return Schema{raw: raw}
}

// Property builds a single property schema.
func Property(typ, description string) json.RawMessage {
	return property(map[string]any{"type": typ, "description": description})
}

// EnumProperty builds a string property restricted to values.
func EnumProperty(description string, values ...string) json.RawMessage {
	return property(map[string]any{"type": "string", "description": description, "enum": values})
}

// ArrayProperty builds an array property whose items have type itemType.
func ArrayProperty(description, itemType string) json.RawMessage {
	return property(map[string]any{
		"type":        "array",
		"description": description,
		"items":       map[string]string{"type": itemType},
	})
}

// NestedProperty builds an object property from child properties.
func NestedProperty(description string, properties map[string]json.RawMessage) json.RawMessage {
	return property(map[string]any{"type": "object", "description": description, "properties": properties})
}

func property(v map[string]any) json.RawMessage {
	raw, _ := json.Marshal(v)
	return raw
}

// Raw returns the underlying JSON schema.
func (s Schema) Raw() json.RawMessage {
	return s.raw
}

// IsEmpty returns true if the schema is empty or nil.
func (s Schema) IsEmpty() bool {
	return len(s.raw) == 0 || string(s.raw) == "{}" || string(s.raw) == "null"
}

// MarshalJSON implements json.Marshaler.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s.raw == nil {
		return []byte("{}"), nil
	}
	return s.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Schema) UnmarshalJSON(data []byte) error {
	s.raw = append(s.raw[:0], data...)
	return nil
}

// DecodeArgs decodes tool arguments into v. Missing or null input decodes
// as an empty object; anything other than a JSON object is rejected.
func DecodeArgs(input json.RawMessage, v any) error {
	trimmed := bytes.TrimSpace(input)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		trimmed = []byte("{}")
	}
	if trimmed[0] != '{' {
		return fmt.Errorf("%w: arguments must be a JSON object", ErrInvalidInput)
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
