package plugin

import (
	"context"

	"github.com/willonboy/ztapi/log"
	"github.com/willonboy/ztapi/reqtag"
	"github.com/willonboy/ztapi/request"
	"github.com/willonboy/ztapi/wire"
)

// LoggingPlugin logs each attempt's outcome at Debug/Warn level, redacting
// known-sensitive headers before they reach the log line.
type LoggingPlugin struct {
	Logger log.Logger
}

// NewLoggingPlugin builds a LoggingPlugin writing through logger.
func NewLoggingPlugin(logger log.Logger) LoggingPlugin {
	return LoggingPlugin{Logger: logger}
}

// WillSend implements request.Plugin.
func (p LoggingPlugin) WillSend(ctx context.Context, d *request.Descriptor) (*request.Descriptor, error) {
	if p.Logger == nil {
		return d, nil
	}

	fields := log.RequestGroup(CorrelationIDFromContext(ctx), string(d.Method), d.URL).
		Add(log.Any("headers", reqtag.RedactHeaders(toHeaderPairs(d.Headers)))).
		Fields()

	p.Logger.Debug("sending request", fields...)

	return d, nil
}

// DidReceive implements request.Plugin.
func (p LoggingPlugin) DidReceive(ctx context.Context, resp *wire.Response, _ []byte, d *request.Descriptor) error {
	if p.Logger == nil || resp == nil {
		return nil
	}

	p.Logger.Debug("received response",
		log.CorrelationID(CorrelationIDFromContext(ctx)),
		log.HTTPURL(d.URL),
		log.HTTPStatus(resp.StatusCode),
	)

	return nil
}

// Process implements request.Plugin.
func (LoggingPlugin) Process(_ context.Context, data []byte, _ *wire.Response, _ *request.Descriptor) ([]byte, error) {
	return data, nil
}

// DidCatch implements request.Plugin.
func (p LoggingPlugin) DidCatch(ctx context.Context, err error, d *request.Descriptor, _ *wire.Response) error {
	if p.Logger == nil {
		return nil
	}

	p.Logger.Warn("request attempt failed",
		log.CorrelationID(CorrelationIDFromContext(ctx)),
		log.HTTPURL(d.URL),
		log.Error(err),
	)

	return nil
}

func toHeaderPairs(headers wire.Headers) []reqtag.HeaderPair {
	pairs := make([]reqtag.HeaderPair, len(headers))
	for i, h := range headers {
		pairs[i] = reqtag.HeaderPair{Name: h.Name, Value: h.Value}
	}

	return pairs
}
