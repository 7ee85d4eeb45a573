// Package observability provides opt-in observability hooks for the
// toolkit's configuration loader and retrier: structured logging, metrics,
// and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in. A nil logger disables the logging helpers and
// the Noop implementations disable metrics and tracing.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds toolkit context to a logger.
// Returns a new logger with component and invocation_id fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "retry", invocationID)
//	enriched.Info("attempt failed") // includes component, invocation_id
func EnrichLogger(logger *slog.Logger, component, invocationID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("component", component),
		slog.String("invocation_id", invocationID),
	)
}

// LogRetryAttempt logs a failed attempt that will be retried.
func LogRetryAttempt(logger *slog.Logger, invocationID string, attempt int, delay time.Duration, err error) {
	if logger == nil {
		return
	}
	logger.Warn("attempt failed, retrying",
		slog.String("invocation_id", invocationID),
		slog.Int("attempt", attempt),
		slog.Duration("delay", delay),
		slog.String("error", err.Error()),
	)
}

// LogRetryExhausted logs a retry sequence that ran out of attempts.
func LogRetryExhausted(logger *slog.Logger, invocationID string, attempts int, err error) {
	if logger == nil {
		return
	}
	logger.Error("retry attempts exhausted",
		slog.String("invocation_id", invocationID),
		slog.Int("attempts", attempts),
		slog.String("error", err.Error()),
	)
}

// LogRetryAbandoned logs a retry sequence cut short by a fatal error or
// cancellation.
func LogRetryAbandoned(logger *slog.Logger, invocationID string, attempt int, err error) {
	if logger == nil {
		return
	}
	logger.Error("retry abandoned",
		slog.String("invocation_id", invocationID),
		slog.Int("attempt", attempt),
		slog.String("error", err.Error()),
	)
}

// LogConfigLoad logs a completed configuration load.
func LogConfigLoad(logger *slog.Logger, name, baseFile, userFile string, duration time.Duration) {
	if logger == nil {
		return
	}
	logger.Info("configuration loaded",
		slog.String("name", name),
		slog.String("base_file", baseFile),
		slog.String("user_file", userFile),
		slog.Duration("duration", duration),
	)
}

// LogConfigReload logs a completed configuration reload.
func LogConfigReload(logger *slog.Logger, name, baseFile, userFile string, duration time.Duration) {
	if logger == nil {
		return
	}
	logger.Info("configuration reloaded",
		slog.String("name", name),
		slog.String("base_file", baseFile),
		slog.String("user_file", userFile),
		slog.Duration("duration", duration),
	)
}

// LogConfigLoadError logs a failed configuration load.
func LogConfigLoadError(logger *slog.Logger, name string, err error) {
	if logger == nil {
		return
	}
	logger.Error("configuration load failed",
		slog.String("name", name),
		slog.String("error", err.Error()),
	)
}
