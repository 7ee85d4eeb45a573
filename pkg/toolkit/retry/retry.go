package retry

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/skycore/toolkit/pkg/toolkit/observability"
)

// Retrier re-invokes wrapped functions on failure. Construct with New;
// the zero value is not usable. A Retrier is immutable after construction
// and safe to share across goroutines; all per-call state lives on the
// stack of the wrapped invocation.
type Retrier struct {
	maxAttempts int
	delay       time.Duration
	delays      []time.Duration
	backoff     bool
	backoffBase float64
	maxDelay    time.Duration
	jitter      float64
	fatal       []error
	fatalCheck  func(error) bool
	onRetry     OnRetryFunc
	logger      *slog.Logger
	metrics     observability.MetricsRecorder
	component   string
}

// New creates a Retrier with the given options.
//
// Defaults: 3 attempts, 1s initial delay, exponential backoff with base 2
// capped at 32s, no jitter, no fatal errors, no logging or metrics.
func New(opts ...Option) *Retrier {
	r := &Retrier{
		maxAttempts: 3,
		delay:       time.Second,
		backoff:     true,
		backoffBase: 2,
		maxDelay:    32 * time.Second,
		metrics:     observability.NoopMetrics{},
		component:   "retry",
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.maxAttempts < 1 {
		r.maxAttempts = 1
	}
	return r
}

// delayFor computes the wait before retrying after attempt (1-indexed).
// An explicit schedule overrides the formula, its last value repeating.
func (r *Retrier) delayFor(attempt int) time.Duration {
	if len(r.delays) > 0 {
		idx := attempt - 1
		if idx >= len(r.delays) {
			idx = len(r.delays) - 1
		}
		return r.delays[idx]
	}

	d := r.delay
	if r.backoff {
		// Cap in float space: at high attempt counts the uncapped product
		// overflows int64 and a post-conversion comparison would let the
		// wrapped-around negative escape the cap.
		computed := float64(r.delay) * math.Pow(r.backoffBase, float64(attempt-1))
		d = time.Duration(math.Min(computed, float64(r.maxDelay)))
	}
	if r.jitter > 0 {
		jitterAmount := float64(d) * r.jitter * (rand.Float64()*2 - 1)
		d = time.Duration(float64(d) + jitterAmount)
		if d < 0 {
			d = 0
		}
	}
	return d
}

// isFatal reports whether err short-circuits the retry loop.
func (r *Retrier) isFatal(err error) bool {
	for _, fatal := range r.fatal {
		if errors.Is(err, fatal) {
			return true
		}
	}
	return r.fatalCheck != nil && r.fatalCheck(err)
}

// Do invokes fn under r's retry policy, blocking the calling goroutine
// during inter-attempt delays. Exactly one terminal outcome reaches the
// caller: the first successful result, or the final error unchanged.
func Do[T any](r *Retrier, fn func() (T, error)) (T, error) {
	return run(context.Background(), r, func(context.Context) (T, error) {
		return fn()
	}, false)
}

// Wrap returns fn decorated with r's retry policy. The wrapped function
// has the same signature and blocks between attempts.
func Wrap[T any](r *Retrier, fn func() (T, error)) func() (T, error) {
	return func() (T, error) {
		return Do(r, fn)
	}
}

// DoContext invokes fn under r's retry policy, honoring ctx. The
// inter-attempt delay is a suspension point: cancellation during the wait
// or a context error from fn propagates immediately and is never retried.
func DoContext[T any](ctx context.Context, r *Retrier, fn func(context.Context) (T, error)) (T, error) {
	return run(ctx, r, fn, true)
}

// WrapContext returns fn decorated with r's retry policy in the
// context-aware variant.
func WrapContext[T any](r *Retrier, fn func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		return DoContext(ctx, r, fn)
	}
}

// run is the shared attempt loop. useCtx selects the cooperative variant:
// a select on the delay timer and ctx.Done instead of a plain sleep, and
// context errors treated as cancellation rather than failures.
func run[T any](ctx context.Context, r *Retrier, fn func(context.Context) (T, error), useCtx bool) (T, error) {
	invocationID := uuid.NewString()
	var zero T

	for attempt := 1; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			r.metrics.RecordRetryOutcome(ctx, r.component, true, attempt)
			return result, nil
		}

		if useCtx && isCancellation(ctx, err) {
			observability.LogRetryAbandoned(r.logger, invocationID, attempt, err)
			r.metrics.RecordRetryOutcome(ctx, r.component, false, attempt)
			return zero, err
		}

		if r.isFatal(err) {
			observability.LogRetryAbandoned(r.logger, invocationID, attempt, err)
			r.metrics.RecordRetryOutcome(ctx, r.component, false, attempt)
			return zero, err
		}

		if attempt == r.maxAttempts {
			observability.LogRetryExhausted(r.logger, invocationID, attempt, err)
			r.metrics.RecordRetryOutcome(ctx, r.component, false, attempt)
			return zero, err
		}

		delay := r.delayFor(attempt)
		if r.onRetry != nil {
			r.onRetry(invocationID, attempt, err, delay)
		}
		observability.LogRetryAttempt(r.logger, invocationID, attempt, delay, err)
		r.metrics.RecordRetryAttempt(ctx, r.component, attempt, delay)

		if useCtx {
			select {
			case <-ctx.Done():
				r.metrics.RecordRetryOutcome(ctx, r.component, false, attempt)
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		} else {
			time.Sleep(delay)
		}
	}
}

// isCancellation reports whether err stems from ctx being cancelled or
// timing out.
func isCancellation(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
