// Package tool provides the domain model for MCP tools.
package tool

// Annotations describe tool behavior to clients and operators.
type Annotations struct {
	// ReadOnly indicates the tool has no side effects.
	ReadOnly bool `json:"read_only"`

	// Idempotent indicates repeated calls with the same input yield the same result.
	Idempotent bool `json:"idempotent"`

	// ReadsClock indicates the result may depend on the current time.
	ReadsClock bool `json:"reads_clock"`

	// Tags are arbitrary labels for categorization.
	Tags []string `json:"tags,omitempty"`
}

// DefaultAnnotations returns annotations with safe defaults.
func DefaultAnnotations() Annotations {
	return Annotations{}
}

// HasTag reports whether the annotations carry tag.
func (a Annotations) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
