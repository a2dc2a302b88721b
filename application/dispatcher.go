// Package application routes tool calls from the transport layer to the tool catalog.
package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/felixgeelhaar/time-server/domain/chrono"
	"github.com/felixgeelhaar/time-server/domain/tool"
	"github.com/felixgeelhaar/time-server/infrastructure/logging"
	"github.com/felixgeelhaar/time-server/infrastructure/observability"
	"github.com/felixgeelhaar/time-server/infrastructure/resilience"
	"github.com/felixgeelhaar/time-server/infrastructure/telemetry"
	"github.com/felixgeelhaar/time-server/infrastructure/tzdb"
)

// Dispatcher executes registered tools by name.
type Dispatcher struct {
	registry tool.Registry
	executor *resilience.Executor
	metrics  telemetry.Metrics
	tracer   trace.Tracer
}

// DispatcherConfig contains configuration for the dispatcher.
type DispatcherConfig struct {
	Registry tool.Registry
	Executor *resilience.Executor
	Metrics  telemetry.Metrics
	Tracer   trace.Tracer
}

// NewDispatcher creates a new dispatcher with the given configuration.
func NewDispatcher(config DispatcherConfig) (*Dispatcher, error) {
	if config.Registry == nil {
		return nil, errors.New("registry is required")
	}

	d := &Dispatcher{
		registry: config.Registry,
		executor: config.Executor,
		metrics:  config.Metrics,
		tracer:   config.Tracer,
	}

	// Set defaults
	if d.executor == nil {
		d.executor = resilience.NewDefaultExecutor()
	}
	if d.metrics == nil {
		d.metrics = telemetry.NoopMetricsProvider{}
	}
	if d.tracer == nil {
		d.tracer = noop.NewTracerProvider().Tracer("time-server")
	}

	return d, nil
}

// Registry returns the tool registry the dispatcher serves.
func (d *Dispatcher) Registry() tool.Registry {
	return d.registry
}

// Dispatch runs the named tool with args.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args json.RawMessage) (tool.Result, error) {
	requestID := RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = WithRequestID(ctx, requestID)
	}

	t, ok := d.registry.Get(name)
	if !ok {
		logging.Warn().
			Add(logging.RequestID(requestID)).
			Add(logging.ToolName(name)).
			Msg("unknown tool")
		d.metrics.RecordError(ctx, name, "tool_not_found")
		return tool.Result{}, fmt.Errorf("%w: %s", tool.ErrToolNotFound, name)
	}

	ctx, span := observability.StartToolSpan(ctx, d.tracer, name, requestID)

	logging.Debug().
		Add(logging.RequestID(requestID)).
		Add(logging.ToolName(name)).
		Msg("tool call started")

	d.metrics.AddInFlight(ctx, 1)
	start := time.Now()
	result, err := d.executor.Execute(ctx, t, args)
	elapsed := time.Since(start)
	d.metrics.AddInFlight(ctx, -1)

	kind := ErrorKind(err)
	observability.EndToolSpan(span, err, kind)
	d.metrics.RecordToolExecution(ctx, name, err == nil, elapsed)

	if err != nil {
		d.metrics.RecordError(ctx, name, kind)
		event := logging.Warn()
		if IsInternal(err) {
			event = logging.Error()
		}
		event.
			Add(logging.RequestID(requestID)).
			Add(logging.ToolName(name)).
			Add(logging.Duration(elapsed)).
			Add(logging.Str("error_kind", kind)).
			Add(logging.ErrorField(err)).
			Msg("tool call failed")
		return tool.Result{}, err
	}

	logging.Info().
		Add(logging.RequestID(requestID)).
		Add(logging.ToolName(name)).
		Add(logging.Duration(elapsed)).
		Add(logging.Success(true)).
		Msg("tool call completed")

	return result, nil
}

// ErrorKind classifies err for metrics and span attributes.
// It returns the empty string for a nil error.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "internal"
}

// IsInternal reports whether err is a server-side fault rather than a
// rejected request.
func IsInternal(err error) bool {
	switch ErrorKind(err) {
	case "", "internal", "search_exhausted":
		return err != nil
	}
	return false
}

var errorKinds = []struct {
	err  error
	kind string
}{
	{tool.ErrToolNotFound, "tool_not_found"},
	{tool.ErrInvalidInput, "invalid_input"},
	{tool.ErrExecutionTimeout, "timeout"},
	{tool.ErrOverloaded, "overloaded"},
	{context.Canceled, "canceled"},
	{context.DeadlineExceeded, "timeout"},
	{chrono.ErrUnknownUnit, "unknown_unit"},
	{chrono.ErrInvalidTimezone, "invalid_timezone"},
	{chrono.ErrInvalidFormat, "invalid_format"},
	{chrono.ErrInvalidInstant, "invalid_time"},
	{chrono.ErrInvalidCustomFormat, "invalid_custom_format"},
	{chrono.ErrInvalidConstraintRange, "out_of_range"},
	{chrono.ErrMissingConstraint, "missing_constraint"},
	{chrono.ErrInvalidTimeOfDay, "invalid_time_of_day"},
	{chrono.ErrEmptyTimezones, "empty_timezones"},
	{chrono.ErrSearchExhausted, "search_exhausted"},
	{tzdb.ErrUnknownRegion, "unknown_region"},
}

type requestIDKey struct{}

// WithRequestID returns a context carrying a request id for Dispatch to reuse.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request id stored in ctx, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
