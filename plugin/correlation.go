package plugin

import (
	"context"

	"github.com/willonboy/ztapi/request"
	"github.com/willonboy/ztapi/wire"
)

type correlationIDKey struct{}

// WithCorrelationID attaches id to ctx so downstream plugins, the retry
// engine, and log lines for this logical send can all tag themselves with
// it.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFromContext returns the id attached by WithCorrelationID, or
// "" if none was attached.
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)

	return id
}

// CorrelationHeader is the header CorrelationIDPlugin stamps onto every
// outbound request.
const CorrelationHeader = "X-Correlation-Id"

// CorrelationIDPlugin stamps the per-send correlation ID (generated once
// per logical send by the client, not per attempt) onto every attempt's
// headers, so a provider's own request logs can be joined back to a
// logical send across retries.
type CorrelationIDPlugin struct{}

// WillSend implements request.Plugin.
func (CorrelationIDPlugin) WillSend(ctx context.Context, d *request.Descriptor) (*request.Descriptor, error) {
	if _, ok := d.Headers.Get(CorrelationHeader); ok {
		return d, nil
	}

	id := CorrelationIDFromContext(ctx)
	if id == "" {
		return d, nil
	}

	next := *d
	next.Headers = d.Headers.Add(CorrelationHeader, id)

	return &next, nil
}

// DidReceive implements request.Plugin.
func (CorrelationIDPlugin) DidReceive(context.Context, *wire.Response, []byte, *request.Descriptor) error {
	return nil
}

// Process implements request.Plugin.
func (CorrelationIDPlugin) Process(_ context.Context, data []byte, _ *wire.Response, _ *request.Descriptor) ([]byte, error) {
	return data, nil
}

// DidCatch implements request.Plugin.
func (CorrelationIDPlugin) DidCatch(context.Context, error, *request.Descriptor, *wire.Response) error {
	return nil
}
