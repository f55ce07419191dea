// Package client ties the descriptor, plugin pipeline, retry engine, and
// response parser together into the single entry point callers use to send
// a request and decode its result.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/willonboy/ztapi/errs"
	"github.com/willonboy/ztapi/log"
	"github.com/willonboy/ztapi/metrics"
	"github.com/willonboy/ztapi/plugin"
	"github.com/willonboy/ztapi/request"
	"github.com/willonboy/ztapi/retry"
	"github.com/willonboy/ztapi/wire"
	"github.com/willonboy/ztapi/xpath"
)

// Client sends a request.Descriptor through the retry engine and plugin
// pipeline and decodes the result.
type Client struct {
	Logger  log.Logger
	Metrics metrics.Metrics
}

// New builds a Client. A nil logger disables the engine's logging; a nil
// metrics sink is replaced by metrics.NoopMetrics in retry.NewEngine.
func New(logger log.Logger, m metrics.Metrics) *Client {
	return &Client{Logger: logger, Metrics: m}
}

// Send runs one logical request end to end and returns the raw bytes
// surviving the plugin pipeline's Process stage, along with the final wire
// response. This is what send() exposes in the design notes; response[T],
// ResponseDict, ResponseArray and ParseResponse all build on top of it.
func (c *Client) Send(ctx context.Context, d request.Descriptor) ([]byte, *wire.Response, error) {
	if err := validateURL(d.URL); err != nil {
		return nil, nil, err
	}

	correlationID := uuid.NewString()
	ctx = plugin.WithCorrelationID(ctx, correlationID)

	engine := retry.NewEngine(c.Logger, c.Metrics)
	pipeline := plugin.New(d.Plugins)

	return engine.Run(ctx, &d, func(ctx context.Context, attempt int) ([]byte, *wire.Response, error) {
		return pipeline.Run(ctx, &d, func(ctx context.Context, resolved *request.Descriptor) ([]byte, *wire.Response, error) {
			return c.doOnce(ctx, resolved)
		})
	})
}

// doOnce builds the wire.Request for one attempt and invokes the
// descriptor's provider, surfacing non-2xx responses as typed errors —
// this is the one place a *wire.Response becomes a *errs.RequestError,
// regardless of which provider produced it.
func (c *Client) doOnce(ctx context.Context, d *request.Descriptor) ([]byte, *wire.Response, error) {
	req, err := buildWireRequest(d)
	if err != nil {
		return nil, nil, err
	}

	if d.Provider == nil {
		return nil, nil, errs.NewRequestError(errs.CodeRequestConstruction, "descriptor has no provider", nil)
	}

	data, resp, err := d.Provider.Do(ctx, req, nil)
	if err != nil {
		return nil, resp, err
	}

	if resp != nil && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
		return nil, resp, errs.NewHTTPStatusError(errorMessageFromBody(data, resp.StatusCode), resp)
	}

	return data, resp, nil
}

// errorMessageFromBody decodes a message/error field out of an error
// response body, falling back to a generic status-code message when the
// body is empty or not JSON.
func errorMessageFromBody(data []byte, statusCode int) string {
	if len(data) > 0 {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}

		if err := json.Unmarshal(data, &payload); err == nil {
			switch {
			case payload.Message != "":
				return payload.Message
			case payload.Error != "":
				return payload.Error
			}
		}
	}

	return fmt.Sprintf("request failed with status %d", statusCode)
}

func buildWireRequest(d *request.Descriptor) (*wire.Request, error) {
	req := &wire.Request{
		URL:     d.URL,
		Method:  d.Method,
		Headers: d.Headers,
		Timeout: d.ResolvedTimeout(),
	}

	items, err := d.Params.ToParameters()
	if err != nil {
		return nil, errs.NewRequestError(errs.CodeRequestConstruction, "invalid typed parameters", err)
	}

	switch d.ResolvedEncoding() {
	case request.EncodingURLQuery:
		query, err := request.EncodeQuery(items)
		if err != nil {
			return nil, errs.NewRequestError(errs.CodeEncodingFailure, "failed to encode query parameters", err)
		}

		if query != "" {
			if hasQuery(req.URL) {
				req.URL += "&" + query
			} else {
				req.URL += "?" + query
			}
		}
	case request.EncodingJSONBody:
		body, err := request.EncodeJSONBody(items)
		if err != nil {
			return nil, errs.NewRequestError(errs.CodeEncodingFailure, "failed to encode JSON body", err)
		}

		req.Body = body
	}

	return req, nil
}

func hasQuery(rawURL string) bool {
	for i := 0; i < len(rawURL); i++ {
		if rawURL[i] == '?' {
			return true
		}
	}

	return false
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errs.NewRequestError(errs.CodeInvalidURL, "invalid request URL: "+raw, err)
	}

	return nil
}

// Response decodes the result of Send as JSON into T.
func Response[T any](ctx context.Context, c *Client, d request.Descriptor) (T, error) {
	var zero T

	data, _, err := c.Send(ctx, d)
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, errs.NewRequestError(errs.CodeResponseDecodeFailure, "failed to decode response", err)
	}

	return out, nil
}

// ResponseDict decodes the top-level JSON result of Send as an object.
func (c *Client) ResponseDict(ctx context.Context, d request.Descriptor) (map[string]any, error) {
	data, _, err := c.Send(ctx, d)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errs.NewRequestError(errs.CodeResponseDecodeFailure, "response root is not a JSON object", err)
	}

	return out, nil
}

// ResponseArray decodes the top-level JSON result of Send as an array of
// objects.
func (c *Client) ResponseArray(ctx context.Context, d request.Descriptor) ([]map[string]any, error) {
	data, _, err := c.Send(ctx, d)
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errs.NewRequestError(errs.CodeResponseDecodeFailure, "response root is not a JSON array of objects", err)
	}

	return out, nil
}

// ParseResponse decodes the result of Send into a generic JSON value and
// runs every projection in configs against it.
func (c *Client) ParseResponse(ctx context.Context, d request.Descriptor, configs []xpath.Projection) (map[string]any, error) {
	data, _, err := c.Send(ctx, d)
	if err != nil {
		return nil, err
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errs.NewRequestError(errs.CodeResponseDecodeFailure, "failed to decode response", err)
	}

	return xpath.Project(root, configs)
}
