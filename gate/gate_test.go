package gate

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willonboy/ztapi/wire"
)

// blockingProvider tracks how many calls are concurrently inside Do, and
// blocks until release is closed.
type blockingProvider struct {
	mu      sync.Mutex
	current int
	maxSeen int
	release chan struct{}
	invoked int32
}

func newBlockingProvider() *blockingProvider {
	return &blockingProvider{release: make(chan struct{})}
}

func (p *blockingProvider) Do(ctx context.Context, req *wire.Request, onProgress wire.ProgressFunc) ([]byte, *wire.Response, error) {
	atomic.AddInt32(&p.invoked, 1)

	p.mu.Lock()
	p.current++
	if p.current > p.maxSeen {
		p.maxSeen = p.current
	}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.current--
		p.mu.Unlock()
	}()

	select {
	case <-p.release:
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}

	return []byte("ok"), &wire.Response{StatusCode: 200}, nil
}

func TestGate_BoundsConcurrencyToMaxConcurrency(t *testing.T) {
	wrapped := newBlockingProvider()
	g := New(wrapped, 2, nil, nil)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = g.Do(context.Background(), &wire.Request{}, nil)
		}()
	}

	require.Eventually(t, func() bool {
		wrapped.mu.Lock()
		defer wrapped.mu.Unlock()
		return wrapped.current == 2
	}, time.Second, 5*time.Millisecond)

	close(wrapped.release)
	wg.Wait()

	wrapped.mu.Lock()
	defer wrapped.mu.Unlock()
	assert.Equal(t, 2, wrapped.maxSeen)
}

func TestGate_ZeroOrNegativeConcurrencyClampsToOne(t *testing.T) {
	wrapped := newBlockingProvider()
	g := New(wrapped, 0, nil, nil)

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = g.Do(context.Background(), &wire.Request{}, nil)
		}()
	}

	require.Eventually(t, func() bool {
		wrapped.mu.Lock()
		defer wrapped.mu.Unlock()
		return wrapped.current == 1
	}, time.Second, 5*time.Millisecond)

	close(wrapped.release)
	wg.Wait()

	wrapped.mu.Lock()
	defer wrapped.mu.Unlock()
	assert.Equal(t, 1, wrapped.maxSeen)
}

func TestGate_CancellationBeforeAcquiringPermitNeverInvokesWrapped(t *testing.T) {
	wrapped := newBlockingProvider()
	g := New(wrapped, 1, nil, nil)

	// Hold the only permit with one blocked caller.
	go func() { _, _, _ = g.Do(context.Background(), &wire.Request{}, nil) }()
	require.Eventually(t, func() bool {
		wrapped.mu.Lock()
		defer wrapped.mu.Unlock()
		return wrapped.current == 1
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := g.Do(ctx, &wire.Request{}, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), atomic.LoadInt32(&wrapped.invoked))

	close(wrapped.release)
}

func TestGate_SucceedsOnceAPermitIsAvailable(t *testing.T) {
	wrapped := newBlockingProvider()
	close(wrapped.release)

	g := New(wrapped, 1, nil, nil)

	data, resp, err := g.Do(context.Background(), &wire.Request{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
	assert.Equal(t, 200, resp.StatusCode)
}
