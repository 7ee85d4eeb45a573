package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the toolkit tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("toolkit")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartRetrySpan starts a span covering an entire retry sequence.
	// Returns the context with span and the span itself.
	StartRetrySpan(ctx context.Context, component, invocationID string) (context.Context, trace.Span)

	// StartLoadSpan starts a span for a configuration load.
	StartLoadSpan(ctx context.Context, name string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartRetrySpan starts a span covering an entire retry sequence.
func (m *otelSpanManager) StartRetrySpan(ctx context.Context, component, invocationID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "toolkit.retry",
		trace.WithAttributes(
			attribute.String("retry.component", component),
			attribute.String("retry.invocation_id", invocationID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartLoadSpan starts a span for a configuration load.
func (m *otelSpanManager) StartLoadSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "toolkit.config.load",
		trace.WithAttributes(
			attribute.String("config.name", name),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// Convenience functions that operate on the global tracer.
// These are useful for simple cases where you don't need the interface.

// StartRetrySpan starts a span covering an entire retry sequence.
// Uses the global OTel tracer.
func StartRetrySpan(ctx context.Context, component, invocationID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "toolkit.retry",
		trace.WithAttributes(
			attribute.String("retry.component", component),
			attribute.String("retry.invocation_id", invocationID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartLoadSpan starts a span for a configuration load.
// Uses the global OTel tracer.
func StartLoadSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "toolkit.config.load",
		trace.WithAttributes(
			attribute.String("config.name", name),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
