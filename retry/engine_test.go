package retry

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willonboy/ztapi/errs"
	"github.com/willonboy/ztapi/log"
	"github.com/willonboy/ztapi/request"
	"github.com/willonboy/ztapi/wire"
)

func TestEngine_ReturnsImmediatelyOnSuccess(t *testing.T) {
	engine := NewEngine(log.NewTestLogger(), nil)
	d := &request.Descriptor{Retry: Fixed{MaxAttempts: 3, Wait: 0}}

	calls := 0
	data, _, err := engine.Run(context.Background(), d, func(_ context.Context, attempt int) ([]byte, *wire.Response, error) {
		calls++
		return []byte("ok"), nil, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
	assert.Equal(t, 1, calls)
}

func TestEngine_RetriesUntilPolicyDeclines(t *testing.T) {
	engine := NewEngine(log.NewTestLogger(), nil)
	d := &request.Descriptor{Retry: Fixed{MaxAttempts: 3, Wait: 0}}

	boom := errors.New("boom")
	calls := 0
	_, _, err := engine.Run(context.Background(), d, func(_ context.Context, attempt int) ([]byte, *wire.Response, error) {
		calls++
		return nil, nil, boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestEngine_CancellationIsNeverRetried(t *testing.T) {
	engine := NewEngine(log.NewTestLogger(), nil)
	d := &request.Descriptor{Retry: Fixed{MaxAttempts: 10, Wait: 0}}

	calls := 0
	_, _, err := engine.Run(context.Background(), d, func(_ context.Context, attempt int) ([]byte, *wire.Response, error) {
		calls++
		return nil, nil, context.Canceled
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestEngine_InvalidURLIsNeverRetried(t *testing.T) {
	engine := NewEngine(log.NewTestLogger(), nil)
	d := &request.Descriptor{Retry: Fixed{MaxAttempts: 10, Wait: 0}}

	invalidURLErr := errs.NewRequestError(errs.CodeInvalidURL, "bad url", nil)
	calls := 0
	_, _, err := engine.Run(context.Background(), d, func(_ context.Context, attempt int) ([]byte, *wire.Response, error) {
		calls++
		return nil, nil, invalidURLErr
	})

	require.ErrorIs(t, err, invalidURLErr)
	assert.Equal(t, 1, calls)
}

func TestEngine_NonFiniteDelayProducesInvalidRetryDelayError(t *testing.T) {
	engine := NewEngine(log.NewTestLogger(), nil)
	d := &request.Descriptor{Retry: Conditional{
		Should: func(context.Context, *request.Descriptor, error, int, *wire.Response) bool { return true },
		Wait:   func(int) float64 { return math.NaN() },
	}}

	boom := errors.New("boom")
	_, _, err := engine.Run(context.Background(), d, func(_ context.Context, attempt int) ([]byte, *wire.Response, error) {
		return nil, nil, boom
	})

	require.Error(t, err)
	assert.True(t, errs.IsRequestCode(err, errs.CodeInvalidRetryDelay))
}

func TestEngine_NegativeDelayClampsToZero(t *testing.T) {
	engine := NewEngine(log.NewTestLogger(), nil)
	d := &request.Descriptor{Retry: Conditional{
		Should: func(ctx context.Context, d *request.Descriptor, err error, attempt int, resp *wire.Response) bool {
			return attempt < 2
		},
		Wait: func(int) float64 { return -5 },
	}}

	boom := errors.New("boom")
	calls := 0
	start := time.Now()
	_, _, err := engine.Run(context.Background(), d, func(_ context.Context, attempt int) ([]byte, *wire.Response, error) {
		calls++
		return nil, nil, boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestEngine_ContextCancelledBeforeFirstAttemptReturnsImmediately(t *testing.T) {
	engine := NewEngine(log.NewTestLogger(), nil)
	d := &request.Descriptor{Retry: Never{}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, _, err := engine.Run(ctx, d, func(_ context.Context, attempt int) ([]byte, *wire.Response, error) {
		calls++
		return nil, nil, nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestEngine_NilRetryPolicyDefaultsToNever(t *testing.T) {
	engine := NewEngine(log.NewTestLogger(), nil)
	d := &request.Descriptor{}

	boom := errors.New("boom")
	calls := 0
	_, _, err := engine.Run(context.Background(), d, func(_ context.Context, attempt int) ([]byte, *wire.Response, error) {
		calls++
		return nil, nil, boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
