package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/felixgeelhaar/time-server/domain/chrono"
	"github.com/felixgeelhaar/time-server/domain/tool"
	"github.com/felixgeelhaar/time-server/infrastructure/resilience"
	"github.com/felixgeelhaar/time-server/infrastructure/storage/memory"
	"github.com/felixgeelhaar/time-server/infrastructure/tzdb"
)

// Test helpers

func newTestTool(name string, handler tool.Handler) tool.Tool {
	return tool.NewBuilder(name).
		WithDescription("Test tool: " + name).
		ReadOnly().
		WithHandler(handler).
		MustBuild()
}

func okHandler(_ context.Context, _ json.RawMessage) (tool.Result, error) {
	return tool.NewResult(json.RawMessage(`{"status":"ok"}`)), nil
}

func newTestRegistry(tools ...tool.Tool) tool.Registry {
	registry := memory.NewToolRegistry()
	for _, t := range tools {
		if err := registry.Register(t); err != nil {
			panic(err)
		}
	}
	return registry
}

type recordedCall struct {
	tool    string
	success bool
}

type recordingMetrics struct {
	mu       sync.Mutex
	calls    []recordedCall
	errors   []string
	inFlight int64
}

func (m *recordingMetrics) RecordToolExecution(_ context.Context, name string, success bool, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, recordedCall{tool: name, success: success})
}

func (m *recordingMetrics) RecordError(_ context.Context, _ string, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, kind)
}

func (m *recordingMetrics) AddInFlight(_ context.Context, delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight += delta
}

// Dispatcher Creation Tests

func TestNewDispatcher_RequiresRegistry(t *testing.T) {
	if _, err := NewDispatcher(DispatcherConfig{}); err == nil {
		t.Error("expected error when registry is nil")
	}
}

func TestNewDispatcher_Defaults(t *testing.T) {
	registry := newTestRegistry()
	d, err := NewDispatcher(DispatcherConfig{Registry: registry})
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	if d.executor == nil || d.metrics == nil || d.tracer == nil {
		t.Error("expected defaults for executor, metrics and tracer")
	}
	if d.Registry() != registry {
		t.Error("Registry() should return the configured registry")
	}
}

// Dispatch Tests

func TestDispatch_Success(t *testing.T) {
	metrics := &recordingMetrics{}
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	d, err := NewDispatcher(DispatcherConfig{
		Registry: newTestRegistry(newTestTool("time_diff", okHandler)),
		Metrics:  metrics,
		Tracer:   tp.Tracer("test"),
	})
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	result, err := d.Dispatch(context.Background(), "time_diff", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if result.OutputString() != `{"status":"ok"}` {
		t.Errorf("Output = %s", result.OutputString())
	}

	if len(metrics.calls) != 1 || !metrics.calls[0].success {
		t.Errorf("recorded calls = %+v", metrics.calls)
	}
	if len(metrics.errors) != 0 {
		t.Errorf("recorded errors = %v", metrics.errors)
	}
	if metrics.inFlight != 0 {
		t.Errorf("inFlight = %d, want 0", metrics.inFlight)
	}

	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Name() != "tool.time_diff" {
		t.Fatalf("spans = %v", spans)
	}
}

func TestDispatch_UnknownTool(t *testing.T) {
	metrics := &recordingMetrics{}
	d, _ := NewDispatcher(DispatcherConfig{Registry: newTestRegistry(), Metrics: metrics})

	_, err := d.Dispatch(context.Background(), "get_weather", nil)
	if !errors.Is(err, tool.ErrToolNotFound) {
		t.Errorf("Dispatch() error = %v, want ErrToolNotFound", err)
	}
	if len(metrics.errors) != 1 || metrics.errors[0] != "tool_not_found" {
		t.Errorf("recorded errors = %v", metrics.errors)
	}
}

func TestDispatch_ToolError(t *testing.T) {
	toolErr := &chrono.Error{Op: chrono.OpAddTime, Field: "unit", Value: "fortnights", Err: chrono.ErrUnknownUnit}
	metrics := &recordingMetrics{}
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	d, _ := NewDispatcher(DispatcherConfig{
		Registry: newTestRegistry(newTestTool("add_time", func(context.Context, json.RawMessage) (tool.Result, error) {
			return tool.Result{}, toolErr
		})),
		Metrics: metrics,
		Tracer:  tp.Tracer("test"),
	})

	_, err := d.Dispatch(context.Background(), "add_time", json.RawMessage(`{"unit":"fortnights"}`))
	if !errors.Is(err, chrono.ErrUnknownUnit) {
		t.Fatalf("Dispatch() error = %v, want ErrUnknownUnit", err)
	}
	if err.Error() != toolErr.Error() {
		t.Errorf("error message = %q, want %q", err.Error(), toolErr.Error())
	}
	if len(metrics.calls) != 1 || metrics.calls[0].success {
		t.Errorf("recorded calls = %+v", metrics.calls)
	}
	if len(metrics.errors) != 1 || metrics.errors[0] != "unknown_unit" {
		t.Errorf("recorded errors = %v", metrics.errors)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("len(spans) = %d, want 1", len(spans))
	}
	if len(spans[0].Events()) == 0 {
		t.Error("error span should record the error event")
	}
}

func TestDispatch_Timeout(t *testing.T) {
	slow := newTestTool("next_occurrence", func(ctx context.Context, _ json.RawMessage) (tool.Result, error) {
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
		}
		return tool.Result{}, nil
	})
	metrics := &recordingMetrics{}
	d, _ := NewDispatcher(DispatcherConfig{
		Registry: newTestRegistry(slow),
		Executor: resilience.NewExecutor(resilience.ExecutorConfig{Timeout: 20 * time.Millisecond}),
		Metrics:  metrics,
	})

	_, err := d.Dispatch(context.Background(), "next_occurrence", nil)
	if !errors.Is(err, tool.ErrExecutionTimeout) {
		t.Errorf("Dispatch() error = %v, want ErrExecutionTimeout", err)
	}
	if len(metrics.errors) != 1 || metrics.errors[0] != "timeout" {
		t.Errorf("recorded errors = %v", metrics.errors)
	}
}

func TestDispatch_ReusesRequestID(t *testing.T) {
	var seen string
	d, _ := NewDispatcher(DispatcherConfig{
		Registry: newTestRegistry(newTestTool("get_timestamp", func(ctx context.Context, _ json.RawMessage) (tool.Result, error) {
			seen = RequestIDFrom(ctx)
			return tool.NewResult(json.RawMessage(`{}`)), nil
		})),
		Executor: resilience.NewExecutor(resilience.ExecutorConfig{}),
	})

	ctx := WithRequestID(context.Background(), "req-42")
	if _, err := d.Dispatch(ctx, "get_timestamp", nil); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if seen != "req-42" {
		t.Errorf("request id = %q, want req-42", seen)
	}

	if _, err := d.Dispatch(context.Background(), "get_timestamp", nil); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(seen) != 36 {
		t.Errorf("generated request id = %q, want a UUID", seen)
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err      error
		want     string
		internal bool
	}{
		{nil, "", false},
		{fmt.Errorf("wrap: %w", tool.ErrInvalidInput), "invalid_input", false},
		{tool.ErrOverloaded, "overloaded", false},
		{context.Canceled, "canceled", false},
		{&chrono.Error{Err: chrono.ErrInvalidTimezone}, "invalid_timezone", false},
		{&chrono.Error{Err: chrono.ErrInvalidInstant}, "invalid_time", false},
		{&chrono.Error{Err: chrono.ErrInvalidConstraintRange}, "out_of_range", false},
		{&chrono.Error{Err: chrono.ErrSearchExhausted}, "search_exhausted", true},
		{fmt.Errorf("%w: Atlantis", tzdb.ErrUnknownRegion), "unknown_region", false},
		{errors.New("boom"), "internal", true},
	}

	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
		if got := IsInternal(tt.err); got != tt.internal {
			t.Errorf("IsInternal(%v) = %v, want %v", tt.err, got, tt.internal)
		}
	}
}
