package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/felixgeelhaar/time-server/domain/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServiceName != "time-server" {
		t.Errorf("ServiceName = %s, want time-server", cfg.ServiceName)
	}
	if cfg.Tracing.Enabled {
		t.Error("tracing should be disabled by default")
	}
	if cfg.Tracing.Exporter != ExporterNone {
		t.Errorf("Exporter = %s, want none", cfg.Tracing.Exporter)
	}
	if cfg.Tracing.Writer == nil {
		t.Error("Writer should default to stderr")
	}
	if cfg.Metrics.Enabled {
		t.Error("metrics should be disabled by default")
	}
}

func TestFromServerConfig(t *testing.T) {
	sc := config.Default()
	sc.Telemetry.ServiceName = "clock-svc"
	sc.Telemetry.Metrics = true
	sc.Telemetry.Tracing = config.TracingConfig{
		Enabled:    true,
		Exporter:   "otlp",
		Endpoint:   "collector:4317",
		Insecure:   true,
		SampleRate: 0.25,
	}

	cfg := FromServerConfig(sc)

	if cfg.ServiceName != "clock-svc" {
		t.Errorf("ServiceName = %s, want clock-svc", cfg.ServiceName)
	}
	if cfg.ServiceVersion != sc.Version {
		t.Errorf("ServiceVersion = %s, want %s", cfg.ServiceVersion, sc.Version)
	}
	tr := cfg.Tracing
	if !tr.Enabled || tr.Exporter != ExporterOTLP || tr.Endpoint != "collector:4317" || !tr.Insecure || tr.SampleRate != 0.25 {
		t.Errorf("Tracing = %+v", tr)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should follow telemetry.metrics")
	}

	plain := FromServerConfig(config.Default())
	if plain.ServiceName != "time-server" || plain.Tracing.Enabled {
		t.Errorf("default derived config = %+v", plain)
	}
}

func TestNew_Disabled(t *testing.T) {
	p, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.Enabled() {
		t.Error("Enabled() should be false")
	}

	_, span := p.Tracer().Start(context.Background(), "noop")
	if span.SpanContext().IsValid() {
		t.Error("disabled provider should produce invalid span contexts")
	}
	span.End()

	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNew_StdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = ExporterStdout
	cfg.Tracing.Writer = &buf

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !p.Enabled() {
		t.Fatal("Enabled() should be true")
	}

	_, span := StartToolSpan(context.Background(), p.Tracer(), "add_time", "req-1")
	EndToolSpan(span, nil, "")

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !strings.Contains(buf.String(), "tool.add_time") {
		t.Errorf("exported spans missing tool.add_time: %s", buf.String())
	}
}

func TestNew_StdoutMetrics(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Writer = &buf

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !p.MetricsEnabled() {
		t.Fatal("MetricsEnabled() should be true")
	}

	counter, err := p.MeterProvider().Meter("test").Int64Counter("time.test.calls")
	if err != nil {
		t.Fatalf("Int64Counter() error = %v", err)
	}
	counter.Add(context.Background(), 3)

	// Shutdown flushes the periodic reader.
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !strings.Contains(buf.String(), "time.test.calls") {
		t.Errorf("exported metrics missing time.test.calls: %s", buf.String())
	}
}

func TestNew_UnknownExporter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = "zipkin"

	if _, err := New(cfg); err == nil {
		t.Error("New() should fail for unknown exporter")
	}
}

func TestNewNoopProvider(t *testing.T) {
	p := NewNoopProvider()
	if p == nil || p.Tracer() == nil {
		t.Fatal("NewNoopProvider() returned unusable provider")
	}
}

func TestToolSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	_, ok := StartToolSpan(context.Background(), tracer, "time_diff", "req-ok")
	EndToolSpan(ok, nil, "")

	_, failed := StartToolSpan(context.Background(), tracer, "convert_timezone", "req-bad")
	EndToolSpan(failed, errors.New("invalid target timezone"), "invalid_timezone")

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(spans))
	}

	if spans[0].Name() != "tool.time_diff" || spans[0].Status().Code != codes.Ok {
		t.Errorf("span[0] = %s %v", spans[0].Name(), spans[0].Status())
	}
	if spans[1].Status().Code != codes.Error {
		t.Errorf("span[1] status = %v, want Error", spans[1].Status())
	}

	attrs := make(map[string]string)
	for _, kv := range spans[1].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs[AttrRequestID] != "req-bad" || attrs[AttrErrorKind] != "invalid_timezone" || attrs[AttrStatus] != "error" {
		t.Errorf("attributes = %v", attrs)
	}
}
