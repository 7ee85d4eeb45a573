/*
Package retry provides a retry decorator for functions that may fail
transiently.

# Overview

A Retrier wraps a function so that failures are re-invoked up to a bounded
attempt count, with a fixed or exponentially backed-off delay between
attempts. Designated fatal errors short-circuit immediately, and when all
attempts are exhausted the final error is returned unchanged, so callers
can keep matching on the original error types.

# Basic Usage

Construct a Retrier once and apply it at call sites:

	r := retry.New(
	    retry.WithMaxAttempts(5),
	    retry.WithDelay(100*time.Millisecond),
	)

	value, err := retry.Do(r, func() (string, error) {
	    return client.Fetch()
	})

Or build a reusable wrapped function:

	fetch := retry.Wrap(r, client.Fetch)
	value, err := fetch()

# Synchronous and Context Variants

Wrap and Do block the calling goroutine during inter-attempt delays.
WrapContext and DoContext take a context: the delay becomes a suspension
point that honors cancellation, and a context error - from the wrapped
call or during the wait - propagates immediately and is never retried,
regardless of the fatal-error configuration.

	value, err := retry.DoContext(ctx, r, func(ctx context.Context) ([]byte, error) {
	    return client.FetchContext(ctx)
	})

# Delay Policy

With backoff enabled (the default), the delay before retrying attempt k
is delay x base^(k-1), capped at the maximum delay. WithoutBackoff makes
the delay constant, and WithDelays supplies an explicit per-attempt
schedule instead (the last value repeats when the schedule is shorter
than the attempt count).

# Fatal Errors

Errors matched by WithFatalErrors (via errors.Is) or WithFatalCheck are
re-returned after the first failing attempt:

	r := retry.New(retry.WithFatalErrors(auth.ErrForbidden))

# Observability

Retries can report to slog, OpenTelemetry metrics, and a caller hook.
Each retry sequence carries a generated invocation id correlating its log
records and hook calls:

	r := retry.New(
	    retry.WithLogger(slog.Default()),
	    retry.WithMetrics(observability.NewMetricsRecorder()),
	    retry.WithOnRetry(func(id string, attempt int, err error, delay time.Duration) {
	        // inspect intermediate failures
	    }),
	)
*/
package retry
