package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpgo "github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/time-server/application"
	"github.com/felixgeelhaar/time-server/domain/tool"
	"github.com/felixgeelhaar/time-server/infrastructure/logging"
)

// TimeServer wraps an MCP server to expose the time tools.
type TimeServer struct {
	srv        *mcpgo.Server
	dispatcher *application.Dispatcher
	info       mcpgo.ServerInfo
	tools      []string
	middleware []Middleware
}

// TimeServerConfig configures a time MCP server.
type TimeServerConfig struct {
	// Name is the server name.
	Name string

	// Version is the server version.
	Version string

	// Description is an optional server description.
	Description string

	// Instructions provides usage instructions for clients.
	Instructions string

	// Dispatcher executes tool calls. Every tool in its registry is exposed.
	Dispatcher *application.Dispatcher
}

// NewTimeServer creates a new MCP server that exposes the dispatcher's tools.
func NewTimeServer(cfg TimeServerConfig) (*TimeServer, error) {
	if cfg.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}

	info := mcpgo.ServerInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Description: cfg.Description,
		Capabilities: mcpgo.Capabilities{
			Tools: true,
		},
	}

	var opts []mcpgo.Option
	if cfg.Instructions != "" {
		opts = append(opts, mcpgo.WithInstructions(cfg.Instructions))
	}

	s := &TimeServer{
		srv:        mcpgo.NewServer(info, opts...),
		dispatcher: cfg.Dispatcher,
		info:       info,
		middleware: DefaultMiddleware(),
	}

	for _, t := range cfg.Dispatcher.Registry().List() {
		s.registerTool(t)
	}

	logging.Debug().
		Add(logging.Component("mcp")).
		Add(logging.Count("tools", len(s.tools))).
		Msg("tools registered")

	return s, nil
}

// registerTool registers a single tool with the MCP server.
func (s *TimeServer) registerTool(t tool.Tool) {
	b := s.srv.Tool(t.Name()).Description(describe(t))
	if a := t.Annotations(); a.ReadOnly {
		b = b.ReadOnly()
		if a.Idempotent {
			b = b.Idempotent()
		}
	}
	b.ClosedWorld().Handler(s.handler(t.Name()))
	s.tools = append(s.tools, t.Name())
}

// handler routes one MCP tool call through the dispatcher. Tool errors are
// returned verbatim so clients see the validation message. The transport's
// request id, when present, becomes the dispatcher's.
func (s *TimeServer) handler(name string) func(ctx context.Context, input json.RawMessage) (string, error) {
	return func(ctx context.Context, input json.RawMessage) (string, error) {
		if id := mcpgo.RequestIDFromContext(ctx); id != "" && application.RequestIDFrom(ctx) == "" {
			ctx = application.WithRequestID(ctx, id)
		}
		result, err := s.dispatcher.Dispatch(ctx, name, input)
		if err != nil {
			return "", err
		}
		return result.OutputString(), nil
	}
}

// describe appends the argument schema to the description so clients that
// only read descriptions still learn the argument names.
func describe(t tool.Tool) string {
	schema := t.InputSchema()
	if schema.IsEmpty() {
		return t.Description()
	}
	return fmt.Sprintf("%s\n\nArguments (JSON Schema): %s", t.Description(), schema.Raw())
}

// Server returns the underlying mcp-go server.
func (s *TimeServer) Server() *mcpgo.Server {
	return s.srv
}

// Info returns the advertised server metadata.
func (s *TimeServer) Info() mcpgo.ServerInfo {
	return s.info
}

// Tools returns the registered tool names in registration order.
func (s *TimeServer) Tools() []string {
	out := make([]string, len(s.tools))
	copy(out, s.tools)
	return out
}

// Use appends middleware to the request chain. It applies to transports
// started afterwards.
func (s *TimeServer) Use(middlewares ...Middleware) {
	s.middleware = append(s.middleware, middlewares...)
}

// Middleware returns the request chain in installation order.
func (s *TimeServer) Middleware() []Middleware {
	out := make([]Middleware, len(s.middleware))
	copy(out, s.middleware)
	return out
}

// serveOptions prepends the middleware chain to caller options.
func (s *TimeServer) serveOptions(opts []ServeOption) []ServeOption {
	return append([]ServeOption{WithMiddleware(s.middleware...)}, opts...)
}

// ServeStdio runs the server over stdin/stdout.
func (s *TimeServer) ServeStdio(ctx context.Context, opts ...ServeOption) error {
	logging.Info().
		Add(logging.Component("mcp")).
		Add(logging.Transport("stdio")).
		Msg("serving")
	return mcpgo.ServeStdio(ctx, s.srv, s.serveOptions(opts)...)
}

// ServeHTTP runs the server over HTTP.
func (s *TimeServer) ServeHTTP(ctx context.Context, addr string, opts ...HTTPOption) error {
	logging.Info().
		Add(logging.Component("mcp")).
		Add(logging.Transport("http")).
		Add(logging.Str("addr", addr)).
		Msg("serving")
	return mcpgo.ServeHTTPWithMiddleware(ctx, s.srv, addr, opts, s.serveOptions(nil)...)
}
