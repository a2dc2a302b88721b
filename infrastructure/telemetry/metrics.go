// Package telemetry provides OpenTelemetry metrics for tool executions.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsProvider provides access to metrics instruments.
type MetricsProvider struct {
	meter metric.Meter

	toolExecutions metric.Int64Counter
	errors         metric.Int64Counter
	toolDuration   metric.Float64Histogram
	inFlight       metric.Int64UpDownCounter

	initErr error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter.
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
	// Provider supplies the meter. Defaults to the global provider.
	Provider metric.MeterProvider
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/time-server",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config.MeterName = DefaultMetricsConfig().MeterName
	}
	provider := config.Provider
	if provider == nil {
		provider = otel.GetMeterProvider()
	}

	mp := &MetricsProvider{
		meter: provider.Meter(
			config.MeterName,
			metric.WithInstrumentationVersion(config.MeterVersion),
		),
	}
	mp.initErr = mp.initInstruments()
	return mp
}

func (mp *MetricsProvider) initInstruments() error {
	var err error

	mp.toolExecutions, err = mp.meter.Int64Counter(
		"time.tool.executions",
		metric.WithDescription("Number of tool executions"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return err
	}

	mp.errors, err = mp.meter.Int64Counter(
		"time.errors",
		metric.WithDescription("Number of failed tool executions by error kind"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	mp.toolDuration, err = mp.meter.Float64Histogram(
		"time.tool.duration",
		metric.WithDescription("Duration of tool executions"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.inFlight, err = mp.meter.Int64UpDownCounter(
		"time.tool.in_flight",
		metric.WithDescription("Tool executions currently running"),
		metric.WithUnit("{execution}"),
	)
	return err
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordToolExecution records a finished tool execution.
func (mp *MetricsProvider) RecordToolExecution(ctx context.Context, toolName string, success bool, duration time.Duration) {
	if mp.initErr != nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("tool.name", toolName),
		attribute.Bool("success", success),
	)
	mp.toolExecutions.Add(ctx, 1, attrs)
	mp.toolDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

// RecordError records a failed execution classified by kind.
func (mp *MetricsProvider) RecordError(ctx context.Context, toolName, kind string) {
	if mp.initErr != nil {
		return
	}
	mp.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool.name", toolName),
		attribute.String("error.kind", kind),
	))
}

// AddInFlight adjusts the number of running executions by delta.
func (mp *MetricsProvider) AddInFlight(ctx context.Context, delta int64) {
	if mp.initErr != nil {
		return
	}
	mp.inFlight.Add(ctx, delta)
}

// NoopMetricsProvider is a no-op metrics provider for when metrics are disabled.
type NoopMetricsProvider struct{}

// RecordToolExecution is a no-op.
func (NoopMetricsProvider) RecordToolExecution(context.Context, string, bool, time.Duration) {}

// RecordError is a no-op.
func (NoopMetricsProvider) RecordError(context.Context, string, string) {}

// AddInFlight is a no-op.
func (NoopMetricsProvider) AddInFlight(context.Context, int64) {}

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordToolExecution(ctx context.Context, toolName string, success bool, duration time.Duration)
	RecordError(ctx context.Context, toolName, kind string)
	AddInFlight(ctx context.Context, delta int64)
}

// Ensure implementations satisfy the interface.
var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = NoopMetricsProvider{}
)
