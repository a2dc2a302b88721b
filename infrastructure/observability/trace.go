package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrToolName  = "tool.name"
	AttrRequestID = "request.id"
	AttrErrorKind = "error.kind"
	AttrStatus    = "tool.status"
)

// StartToolSpan starts a server span for one tool call.
func StartToolSpan(ctx context.Context, tracer trace.Tracer, toolName, requestID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "tool."+toolName,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String(AttrToolName, toolName),
			attribute.String(AttrRequestID, requestID),
		),
	)
}

// EndToolSpan records the outcome of a tool call and ends span.
func EndToolSpan(span trace.Span, err error, errorKind string) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(
			attribute.String(AttrStatus, "error"),
			attribute.String(AttrErrorKind, errorKind),
		)
	} else {
		span.SetStatus(codes.Ok, "")
		span.SetAttributes(attribute.String(AttrStatus, "success"))
	}
	span.End()
}
