// Package provider holds request.Provider implementations shipped with the
// framework itself; real transports (net/http, a generated SDK client, a
// mock server) live outside this package and only need to satisfy
// request.Provider.
package provider

import (
	"context"
	"time"

	"github.com/willonboy/ztapi/wire"
)

// StubResponse is one pre-canned (body, response, error, delay) entry a Stub
// returns for one call, in FIFO order.
type StubResponse struct {
	Body     []byte
	Response *wire.Response
	Err      error
	Delay    time.Duration
}

// Stub is a request.Provider returning pre-canned responses, for tests that
// need a provider without standing up real transport. Responses are
// consumed in FIFO order; once exhausted, the last response repeats.
type Stub struct {
	Responses []StubResponse
	Calls     []*wire.Request

	next int
}

// Do implements request.Provider.
func (s *Stub) Do(ctx context.Context, req *wire.Request, onProgress wire.ProgressFunc) ([]byte, *wire.Response, error) {
	s.Calls = append(s.Calls, req)

	if len(s.Responses) == 0 {
		return nil, &wire.Response{StatusCode: 200}, nil
	}

	idx := s.next
	if idx >= len(s.Responses) {
		idx = len(s.Responses) - 1
	} else {
		s.next++
	}

	r := s.Responses[idx]

	if r.Delay > 0 {
		timer := time.NewTimer(r.Delay)

		select {
		case <-ctx.Done():
			timer.Stop()

			return nil, nil, ctx.Err()
		case <-timer.C:
		}
	}

	if onProgress != nil && len(r.Body) > 0 {
		onProgress(int64(len(r.Body)), int64(len(r.Body)))
	}

	if r.Err != nil {
		return nil, r.Response, r.Err
	}

	return r.Body, r.Response, nil
}

// CallCount returns how many times Do was invoked.
func (s *Stub) CallCount() int {
	return len(s.Calls)
}
