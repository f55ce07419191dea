package request

import (
	"context"

	"github.com/willonboy/ztapi/wire"
)

// DefaultTimeoutSeconds is the descriptor timeout applied when none is set
// or a non-positive value was supplied.
const DefaultTimeoutSeconds = 30

// Provider is the contract a transport implementation must satisfy: given a
// fully constructed wire request and an optional progress callback,
// asynchronously return the response body and metadata, or an error.
// Providers SHOULD NOT treat 4xx/5xx as success — those still return a
// *wire.Response, letting the caller (the response parser) turn them into a
// typed error with the status code preserved.
type Provider interface {
	Do(ctx context.Context, req *wire.Request, onProgress wire.ProgressFunc) ([]byte, *wire.Response, error)
}

// Plugin is the four-hook middleware contract described in the plugin
// pipeline design. Every hook is fallible; WillSend may mutate the
// descriptor (headers, body) before it reaches the Provider.
type Plugin interface {
	WillSend(ctx context.Context, d *Descriptor) (*Descriptor, error)
	DidReceive(ctx context.Context, resp *wire.Response, data []byte, d *Descriptor) error
	Process(ctx context.Context, data []byte, resp *wire.Response, d *Descriptor) ([]byte, error)
	DidCatch(ctx context.Context, err error, d *Descriptor, resp *wire.Response) error
}

// RetryPolicy decides whether a failed attempt should be retried and how
// long to wait before the next one. Attempt numbers are 1-based: attempt
// passed to ShouldRetry is the attempt that just failed. Delay returns
// seconds as a float64 rather than a time.Duration so a policy built from
// arbitrary arithmetic (exponential blowup, a caller-supplied formula) can
// produce NaN or +/-Inf — the engine must detect and reject those rather
// than silently truncating them into a meaningless Duration.
type RetryPolicy interface {
	ShouldRetry(ctx context.Context, d *Descriptor, err error, attempt int, resp *wire.Response) bool
	Delay(attempt int) float64
}

// Descriptor is the immutable-after-build record produced by Builder and
// consumed by a sender. Every builder operation returns a new Descriptor
// value with the change applied; nothing mutates a Descriptor once send()
// reads it.
type Descriptor struct {
	URL      string
	Method   wire.Method
	Headers  wire.Headers
	Params   ParameterSet
	Encoding Encoding
	// encodingSet distinguishes "caller explicitly chose an encoding" from
	// "use the method's default", since EncodingURLQuery is also the zero
	// value of Encoding.
	encodingSet bool
	TimeoutSecs float64
	Retry       RetryPolicy
	Plugins     []Plugin
	Provider    Provider
}

// ResolvedEncoding returns the descriptor's encoding, falling back to the
// method's default when the caller never called encoding(e).
func (d Descriptor) ResolvedEncoding() Encoding {
	if d.encodingSet {
		return d.Encoding
	}

	return DefaultEncoding(string(d.Method))
}

// ResolvedTimeout returns the descriptor's timeout, clamping non-positive
// values to DefaultTimeoutSeconds.
func (d Descriptor) ResolvedTimeout() float64 {
	if d.TimeoutSecs <= 0 {
		return DefaultTimeoutSeconds
	}

	return d.TimeoutSecs
}

// clone returns a shallow copy of d with its slices re-sliced defensively so
// that appending to the copy's Headers/Plugins never mutates d's backing
// array — the descriptor is deep-immutable after build, per the design's
// sendable-ness requirement.
func (d Descriptor) clone() Descriptor {
	next := d

	if d.Headers != nil {
		next.Headers = append(wire.Headers(nil), d.Headers...)
	}

	if d.Params.Items != nil {
		next.Params.Items = append([]Parameter(nil), d.Params.Items...)
	}

	if d.Params.Typed != nil {
		next.Params.Typed = append([]TypedParameter(nil), d.Params.Typed...)
	}

	if d.Plugins != nil {
		next.Plugins = append([]Plugin(nil), d.Plugins...)
	}

	return next
}
