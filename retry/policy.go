// Package retry provides the typed retry policies and the engine that
// drives repeated attempts of a single logical send.
package retry

import (
	"context"
	"math"

	"github.com/willonboy/ztapi/errs"
	"github.com/willonboy/ztapi/request"
	"github.com/willonboy/ztapi/wire"
)

// Fixed allows at most MaxAttempts attempts in total (the first attempt plus
// up to MaxAttempts-1 retries) with a constant Wait (seconds) between attempts.
type Fixed struct {
	MaxAttempts int
	Wait        float64
}

// ShouldRetry implements request.RetryPolicy.
func (f Fixed) ShouldRetry(_ context.Context, _ *request.Descriptor, _ error, attempt int, _ *wire.Response) bool {
	return attempt < f.MaxAttempts
}

// Delay implements request.RetryPolicy.
func (f Fixed) Delay(int) float64 {
	return f.Wait
}

// Exponential allows at most MaxAttempts attempts in total, scaling Base by Factor each
// attempt (1-indexed: attempt 1's delay is Base, attempt 2's is
// Base*Factor, attempt 3's is Base*Factor^2, ...) and never exceeding Max
// (seconds; Max <= 0 means uncapped). Factor <= 0 defaults to 2, the
// conventional doubling backoff.
type Exponential struct {
	MaxAttempts int
	Base        float64
	Factor      float64
	Max         float64
}

// ShouldRetry implements request.RetryPolicy.
func (e Exponential) ShouldRetry(_ context.Context, _ *request.Descriptor, _ error, attempt int, _ *wire.Response) bool {
	return attempt < e.MaxAttempts
}

// Delay implements request.RetryPolicy.
func (e Exponential) Delay(attempt int) float64 {
	if attempt < 1 {
		attempt = 1
	}

	factor := e.Factor
	if factor <= 0 {
		factor = 2
	}

	d := e.Base * math.Pow(factor, float64(attempt-1))

	if e.Max > 0 && d > e.Max {
		return e.Max
	}

	return d
}

// ConditionalFunc decides whether an attempt should be retried, given full
// access to the descriptor, error, attempt count, and response.
type ConditionalFunc func(ctx context.Context, d *request.Descriptor, err error, attempt int, resp *wire.Response) bool

// DelayFunc computes the wait (seconds) before the next attempt.
type DelayFunc func(attempt int) float64

// Conditional wraps caller-supplied closures as a request.RetryPolicy, for
// retry rules that don't fit the fixed/exponential shape (e.g. retry only on
// specific status codes, or only for idempotent methods). Wait may return
// NaN or +/-Inf deliberately — the engine is the layer responsible for
// turning that into an error, not the policy.
type Conditional struct {
	Should ConditionalFunc
	Wait   DelayFunc
}

// ShouldRetry implements request.RetryPolicy.
func (c Conditional) ShouldRetry(ctx context.Context, d *request.Descriptor, err error, attempt int, resp *wire.Response) bool {
	if c.Should == nil {
		return false
	}

	return c.Should(ctx, d, err, attempt, resp)
}

// Delay implements request.RetryPolicy.
func (c Conditional) Delay(attempt int) float64 {
	if c.Wait == nil {
		return 0
	}

	return c.Wait(attempt)
}

// RetryableStatus builds a Conditional that retries exactly the status
// codes errs.IsRetryableStatus considers transient (429 and 5xx), on top of
// an Exponential backoff, up to maxAttempts total attempts. Any error that
// doesn't carry a wire response (construction/encoding/invalid-URL errors)
// is never retried by this policy, since errs.StatusCodeOf only recognizes
// HTTP-level failures.
func RetryableStatus(maxAttempts int, base, factor, max float64) Conditional {
	backoff := Exponential{MaxAttempts: maxAttempts, Base: base, Factor: factor, Max: max}

	return Conditional{
		Should: func(_ context.Context, _ *request.Descriptor, err error, attempt int, _ *wire.Response) bool {
			if attempt >= maxAttempts {
				return false
			}

			code, ok := errs.StatusCodeOf(err)

			return ok && errs.IsRetryableStatus(code)
		},
		Wait: backoff.Delay,
	}
}

// Never never retries — the default when a descriptor carries no policy.
type Never struct{}

// ShouldRetry implements request.RetryPolicy.
func (Never) ShouldRetry(context.Context, *request.Descriptor, error, int, *wire.Response) bool {
	return false
}

// Delay implements request.RetryPolicy.
func (Never) Delay(int) float64 {
	return 0
}
