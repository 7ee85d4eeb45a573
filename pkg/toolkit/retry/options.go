package retry

import (
	"log/slog"
	"time"

	"github.com/skycore/toolkit/pkg/toolkit/observability"
)

// OnRetryFunc is called after a failed attempt that will be retried, with
// the sequence's invocation id, the 1-indexed attempt number, the error,
// and the delay chosen before the next attempt.
type OnRetryFunc func(invocationID string, attempt int, err error, delay time.Duration)

// Option configures a Retrier.
type Option func(*Retrier)

// WithMaxAttempts sets the maximum number of attempts, including the
// initial one. Values below 1 are treated as 1.
//
// Default: 3
func WithMaxAttempts(n int) Option {
	return func(r *Retrier) {
		r.maxAttempts = n
	}
}

// WithDelay sets the base delay between attempts.
//
// Default: 1s
func WithDelay(d time.Duration) Option {
	return func(r *Retrier) {
		r.delay = d
	}
}

// WithDelays supplies an explicit per-attempt delay schedule, overriding
// the base-delay/backoff formula. The k-th value is the wait after the
// k-th failed attempt; the last value repeats when the schedule is
// shorter than the attempt count.
func WithDelays(delays ...time.Duration) Option {
	return func(r *Retrier) {
		r.delays = delays
	}
}

// WithoutBackoff makes the delay constant instead of exponential.
func WithoutBackoff() Option {
	return func(r *Retrier) {
		r.backoff = false
	}
}

// WithBackoffBase sets the exponential backoff base.
//
// Default: 2
func WithBackoffBase(base float64) Option {
	return func(r *Retrier) {
		r.backoffBase = base
	}
}

// WithMaxDelay caps the delay produced by exponential backoff.
//
// Default: 32s
func WithMaxDelay(d time.Duration) Option {
	return func(r *Retrier) {
		r.maxDelay = d
	}
}

// WithJitter adds random jitter to each computed delay: the delay is
// perturbed by up to +/- factor of its value. Useful to break
// synchronization between competing clients.
//
// Default: 0 (no jitter)
func WithJitter(factor float64) Option {
	return func(r *Retrier) {
		r.jitter = factor
	}
}

// WithFatalErrors designates errors that are re-returned immediately
// without further attempts. Matching uses errors.Is, so wrapped errors
// match too.
func WithFatalErrors(errs ...error) Option {
	return func(r *Retrier) {
		r.fatal = append(r.fatal, errs...)
	}
}

// WithFatalCheck sets a predicate consulted in addition to
// WithFatalErrors; a true result short-circuits the retry loop.
func WithFatalCheck(fn func(error) bool) Option {
	return func(r *Retrier) {
		r.fatalCheck = fn
	}
}

// WithOnRetry sets a hook invoked before each inter-attempt delay.
func WithOnRetry(fn OnRetryFunc) Option {
	return func(r *Retrier) {
		r.onRetry = fn
	}
}

// WithLogger sets a logger for retry events. A nil logger (the default)
// disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retrier) {
		r.logger = logger
	}
}

// WithMetrics sets a recorder for attempt and outcome metrics.
//
// Default: observability.NoopMetrics
func WithMetrics(recorder observability.MetricsRecorder) Option {
	return func(r *Retrier) {
		r.metrics = recorder
	}
}

// WithComponent sets the component label attached to logs and metrics.
//
// Default: "retry"
func WithComponent(name string) Option {
	return func(r *Retrier) {
		r.component = name
	}
}
