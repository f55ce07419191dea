// Package gate implements a bounded-concurrency wrapper around a
// request.Provider: at most N calls into the wrapped provider are in
// flight at once, with FIFO permit acquisition.
package gate

import (
	"context"
	"time"

	"github.com/rs/xid"

	"github.com/willonboy/ztapi/log"
	"github.com/willonboy/ztapi/metrics"
	"github.com/willonboy/ztapi/request"
	"github.com/willonboy/ztapi/wire"
)

// Gate wraps a request.Provider, bounding the number of in-flight calls.
type Gate struct {
	wrapped request.Provider
	permits chan struct{}

	logger   log.Logger
	inFlight metrics.Gauge
	waiting  metrics.Gauge
	waitFor  metrics.Timer
}

// New builds a Gate bounding wrapped to at most maxConcurrency simultaneous
// calls. maxConcurrency <= 0 is clamped to 1, per the design's "at least
// one in-flight call always makes progress" requirement. permits is a
// buffered channel used as a counting semaphore; FIFO ordering among
// waiters falls out of Go's channel-receive fairness under a single
// contended channel rather than an explicit queue data structure.
func New(wrapped request.Provider, maxConcurrency int, logger log.Logger, m metrics.Metrics) *Gate {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	if m == nil {
		m = metrics.NoopMetrics{}
	}

	permits := make(chan struct{}, maxConcurrency)
	for range maxConcurrency {
		permits <- struct{}{}
	}

	return &Gate{
		wrapped:  wrapped,
		permits:  permits,
		logger:   logger,
		inFlight: m.Gauge("gate_in_flight", metrics.WithDescription("requests currently holding a permit")),
		waiting:  m.Gauge("gate_waiting", metrics.WithDescription("requests queued for a permit")),
		waitFor:  m.Timer("gate_wait_ms", metrics.WithDefaultDurationBuckets()),
	}
}

// Do implements request.Provider. If ctx is cancelled before a permit is
// acquired, the wrapped provider is never invoked and ctx.Err() is
// returned. Once a permit is held, cancellation is forwarded to the
// wrapped provider rather than acted on directly — an in-flight call is
// never forcibly aborted by the gate itself.
func (g *Gate) Do(ctx context.Context, req *wire.Request, onProgress wire.ProgressFunc) ([]byte, *wire.Response, error) {
	waiterID := xid.New().String()
	waitStart := time.Now()

	g.waiting.Inc()

	defer g.waiting.Dec()

	select {
	case <-ctx.Done():
		if g.logger != nil {
			g.logger.Debug("gate: waiter cancelled before acquiring permit", log.String("waiter", waiterID))
		}

		return nil, nil, ctx.Err()
	case <-g.permits:
	}

	g.waitFor.Record(time.Since(waitStart))
	g.inFlight.Inc()

	defer func() {
		g.inFlight.Dec()
		g.permits <- struct{}{}
	}()

	return g.wrapped.Do(ctx, req, onProgress)
}
