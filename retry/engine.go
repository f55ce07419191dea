package retry

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/willonboy/ztapi/errs"
	"github.com/willonboy/ztapi/log"
	"github.com/willonboy/ztapi/metrics"
	"github.com/willonboy/ztapi/request"
	"github.com/willonboy/ztapi/wire"
)

// isRetryableError reports whether the engine should even consult the
// policy. Cancellation and an invalid-URL error are non-retryable
// regardless of what a policy says — the policy only gets the final word
// for every other error.
func isRetryableError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return !errs.IsRequestCode(err, errs.CodeInvalidURL)
}

// Engine drives a single logical send through as many attempts as its
// descriptor's RetryPolicy allows, sleeping between attempts and recording
// attempt-count/latency metrics along the way.
type Engine struct {
	Logger  log.Logger
	Metrics metrics.Metrics
}

// NewEngine builds an Engine. A nil metrics sink falls back to
// metrics.NoopMetrics and a nil logger disables logging, so Engine is always
// safe to construct with only what the caller has on hand.
func NewEngine(logger log.Logger, m metrics.Metrics) Engine {
	if m == nil {
		m = metrics.NoopMetrics{}
	}

	return Engine{Logger: logger, Metrics: m}
}

// Attempt is the single-try callback the engine drives: given the attempt
// number (1-based), perform one send and return its result.
type Attempt func(ctx context.Context, attempt int) ([]byte, *wire.Response, error)

// Run executes attempt repeatedly until it succeeds, the descriptor's retry
// policy declines a further attempt, or ctx is cancelled. Attempt numbers
// passed to attempt and to the policy are 1-based: the first call is
// attempt 1, matching the attempt already having "happened" by the time
// ShouldRetry inspects it.
func (e Engine) Run(ctx context.Context, d *request.Descriptor, attempt Attempt) ([]byte, *wire.Response, error) {
	policy := d.Retry
	if policy == nil {
		policy = Never{}
	}

	attemptsCounter := e.Metrics.Counter("retry_attempts_total", metrics.WithDescription("total attempts made across all sends"))
	retriesCounter := e.Metrics.Counter("retry_retries_total", metrics.WithDescription("attempts that were retried after failing"))
	latency := e.Metrics.Timer("retry_attempt_latency_ms", metrics.WithDefaultDurationBuckets())

	n := 1

	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		var perf *log.PerformanceMonitor
		if e.Logger != nil {
			perf = log.NewPerformanceMonitor(e.Logger, "http_attempt").WithField(log.RetryAttempt(n))
		}

		started := time.Now()
		data, resp, err := attempt(ctx, n)
		latency.Record(time.Since(started))
		attemptsCounter.Inc()

		if err == nil {
			if perf != nil {
				perf.Finish()
			}

			return data, resp, nil
		}

		if perf != nil {
			perf.FinishWithError(err)
		}

		if !isRetryableError(err) || !policy.ShouldRetry(ctx, d, err, n, resp) {
			return nil, nil, err
		}

		delaySecs := policy.Delay(n)

		if math.IsNaN(delaySecs) || math.IsInf(delaySecs, 0) {
			return nil, nil, errs.NewRequestError(errs.CodeInvalidRetryDelay, "retry policy produced a non-finite delay", err)
		}

		if delaySecs < 0 {
			delaySecs = 0
		}

		retriesCounter.Inc()

		if e.Logger != nil {
			e.Logger.Warn("retrying request",
				log.RetryAttempt(n),
				log.Float64("delay_seconds", delaySecs),
				log.Error(err),
			)
		}

		if delaySecs > 0 {
			timer := time.NewTimer(time.Duration(delaySecs * float64(time.Second)))

			select {
			case <-ctx.Done():
				timer.Stop()

				return nil, nil, ctx.Err()
			case <-timer.C:
			}
		}

		n++
	}
}
