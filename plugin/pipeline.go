// Package plugin implements the four-phase middleware pipeline around a
// single request attempt, plus the built-in plugins the framework ships.
package plugin

import (
	"context"

	"github.com/willonboy/ztapi/request"
	"github.com/willonboy/ztapi/wire"
)

// Pipeline runs a chain of request.Plugin values through one attempt.
type Pipeline struct {
	plugins []request.Plugin
}

// New builds a Pipeline over plugins, preserving declaration order.
func New(plugins []request.Plugin) Pipeline {
	return Pipeline{plugins: plugins}
}

// Run executes one attempt: all WillSend hooks, then the provider call via
// send, then DidReceive/Process on success or DidCatch on failure.
//
// send is given the post-WillSend descriptor and returns the body bytes and
// response the Provider produced (or an error it threw). Splitting the
// provider call out as a callback keeps Pipeline ignorant of concurrency
// gates, timeouts, and retry bookkeeping — those live in retry.Engine and
// gate.Gate, which wrap send.
func (p Pipeline) Run(ctx context.Context, d *request.Descriptor, send func(context.Context, *request.Descriptor) ([]byte, *wire.Response, error)) ([]byte, *wire.Response, error) {
	current := d

	for i, pl := range p.plugins {
		next, err := pl.WillSend(ctx, current)
		if err != nil {
			p.catchFrom(ctx, i, err, current, nil)

			return nil, nil, err
		}

		current = next
	}

	data, resp, err := send(ctx, current)
	if err != nil {
		p.catchAll(ctx, err, current, resp)

		return nil, nil, err
	}

	for _, pl := range p.plugins {
		if err := pl.DidReceive(ctx, resp, data, current); err != nil {
			p.catchAll(ctx, err, current, resp)

			return nil, nil, err
		}
	}

	for _, pl := range p.plugins {
		processed, err := pl.Process(ctx, data, resp, current)
		if err != nil {
			p.catchAll(ctx, err, current, resp)

			return nil, nil, err
		}

		data = processed
	}

	return data, resp, nil
}

// catchFrom invokes DidCatch on every plugin whose WillSend already ran
// successfully (indices [0, failedAt)) plus the one that failed, in
// declaration order — per spec.md §4.3's "plugins whose willSend already
// ran successfully (declaration order, not LIFO)".
func (p Pipeline) catchFrom(ctx context.Context, failedAt int, err error, d *request.Descriptor, resp *wire.Response) {
	for i := 0; i <= failedAt && i < len(p.plugins); i++ {
		_ = p.plugins[i].DidCatch(ctx, err, d, resp)
	}
}

// catchAll invokes DidCatch on every plugin in declaration order. This
// resolves the open question in the design notes: didCatch observes a
// provider/didReceive/process failure for ALL plugins regardless of
// whether each one's own earlier hook ran, matching the design's stated
// expectation.
func (p Pipeline) catchAll(ctx context.Context, err error, d *request.Descriptor, resp *wire.Response) {
	for _, pl := range p.plugins {
		_ = pl.DidCatch(ctx, err, d, resp)
	}
}
