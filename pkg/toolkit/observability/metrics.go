package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records toolkit metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordRetryAttempt records one failed attempt and the delay chosen
	// before the next one.
	RecordRetryAttempt(ctx context.Context, component string, attempt int, delay time.Duration)

	// RecordRetryOutcome records the terminal outcome of a retry sequence.
	RecordRetryOutcome(ctx context.Context, component string, success bool, attempts int)

	// RecordConfigLoad records a configuration load or reload.
	RecordConfigLoad(ctx context.Context, name string, duration time.Duration, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	retryAttempts metric.Int64Counter
	retryDelay    metric.Float64Histogram
	retryOutcomes metric.Int64Counter
	configLoads   metric.Int64Counter
	configLatency metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("toolkit")

	retryAttempts, err := meter.Int64Counter("toolkit.retry.attempts",
		metric.WithDescription("Number of failed attempts that were retried"),
	)
	if err != nil {
		return nil, err
	}

	retryDelay, err := meter.Float64Histogram("toolkit.retry.delay_ms",
		metric.WithDescription("Delay applied before a retry attempt in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	retryOutcomes, err := meter.Int64Counter("toolkit.retry.outcomes",
		metric.WithDescription("Number of completed retry sequences"),
	)
	if err != nil {
		return nil, err
	}

	configLoads, err := meter.Int64Counter("toolkit.config.loads",
		metric.WithDescription("Number of configuration loads"),
	)
	if err != nil {
		return nil, err
	}

	configLatency, err := meter.Float64Histogram("toolkit.config.load_latency_ms",
		metric.WithDescription("Configuration load latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		retryAttempts: retryAttempts,
		retryDelay:    retryDelay,
		retryOutcomes: retryOutcomes,
		configLoads:   configLoads,
		configLatency: configLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Default().Warn("otel metrics init failed, using noop recorder",
			slog.String("error", err.Error()),
		)
		return NoopMetrics{}
	}
	return m
}

// RecordRetryAttempt records one failed attempt.
func (m *otelMetrics) RecordRetryAttempt(ctx context.Context, component string, attempt int, delay time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("component", component),
		attribute.Int("attempt", attempt),
	)
	m.retryAttempts.Add(ctx, 1, attrs)
	m.retryDelay.Record(ctx, float64(delay)/float64(time.Millisecond), attrs)
}

// RecordRetryOutcome records a completed retry sequence.
func (m *otelMetrics) RecordRetryOutcome(ctx context.Context, component string, success bool, attempts int) {
	m.retryOutcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("component", component),
		attribute.Bool("success", success),
		attribute.Int("attempts", attempts),
	))
}

// RecordConfigLoad records a configuration load.
func (m *otelMetrics) RecordConfigLoad(ctx context.Context, name string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("name", name),
		attribute.Bool("success", err == nil),
	)
	m.configLoads.Add(ctx, 1, attrs)
	m.configLatency.Record(ctx, float64(duration)/float64(time.Millisecond), attrs)
}
