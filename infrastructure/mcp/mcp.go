// Package mcp exposes the tool catalog over the Model Context Protocol.
// It wraps github.com/felixgeelhaar/mcp-go and routes every call through
// the application dispatcher.
package mcp

import (
	mcpgo "github.com/felixgeelhaar/mcp-go"
)

// Re-export core types from mcp-go for convenience.
type (
	// ServeOption configures request handling for a transport.
	ServeOption = mcpgo.ServeOption

	// HTTPOption configures HTTP transport.
	HTTPOption = mcpgo.HTTPOption

	// Middleware is a function that wraps request handling.
	Middleware = mcpgo.Middleware
)

// Re-export middleware helpers from mcp-go.
var (
	// WithMiddleware adds middleware to serve options.
	WithMiddleware = mcpgo.WithMiddleware

	// Recover converts handler panics into internal errors.
	Recover = mcpgo.Recover

	// RequestID injects a request id into the request context.
	RequestID = mcpgo.RequestID
)

// DefaultMiddleware returns the middleware every time server installs:
// panic recovery followed by request id propagation.
func DefaultMiddleware() []Middleware {
	return []Middleware{
		Recover(),
		RequestID(),
	}
}
