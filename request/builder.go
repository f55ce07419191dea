package request

import (
	"errors"

	"github.com/willonboy/ztapi/wire"
)

// ErrTypedParametersReplaced is the sticky error Build returns after a
// Params/Param/ParamsFromMap call discarded previously installed typed
// parameters; callers asking for this behavior should build a
// fresh Builder instead of mixing typed and untyped parameter calls.
var ErrTypedParametersReplaced = errors.New("request: appending untyped parameters replaces previously installed typed parameters")

// Builder constructs a Descriptor through a chain of operations, each of
// which returns a new Builder with the change applied — the underlying
// Descriptor is never mutated in place, so two branches of a chain never
// observe each other's changes. err carries the first misuse error raised
// by a builder call (currently only ErrTypedParametersReplaced); it is
// sticky across the rest of the chain and surfaces from Build.
type Builder struct {
	d   Descriptor
	err error
}

// New starts a Builder for url/method, with provider as the transport the
// resulting Descriptor will use.
func New(url string, method wire.Method, provider Provider) Builder {
	return Builder{d: Descriptor{
		URL:         url,
		Method:      method,
		Provider:    provider,
		TimeoutSecs: DefaultTimeoutSeconds,
	}}
}

// Build returns the accumulated Descriptor, and a non-nil error if any
// builder call along the chain was misused (see ErrTypedParametersReplaced).
func (b Builder) Build() (Descriptor, error) {
	return b.d, b.err
}

// Param appends a single scalar parameter.
func (b Builder) Param(name string, value any) Builder {
	return b.Params(Scalar(name, value))
}

// Params appends tagged parameter items in order. If the builder previously
// installed typed parameters (via TypedParams), they are discarded and the
// builder's sticky error is set to ErrTypedParametersReplaced — calling
// Param/Params/ParamsFromMap after TypedParams on the same chain is treated
// as caller misuse rather than a silent downgrade.
func (b Builder) Params(items ...Parameter) Builder {
	next := b.d.clone()

	err := b.err
	if len(next.Params.Typed) > 0 {
		next.Params.Typed = nil
		err = ErrTypedParametersReplaced
	}

	next.Params.Items = append(next.Params.Items, items...)

	return Builder{d: next, err: err}
}

// ParamsFromMap appends parameters from a dict, per spec's `params(dict)`.
func (b Builder) ParamsFromMap(dict map[string]any) Builder {
	return b.Params(ParametersFromMap(dict)...)
}

// TypedParams installs the typed-parameter capability, replacing any
// previously appended untyped items. Unlike Params, this never sets the
// sticky error: a chain is free to move from untyped to typed parameters,
// since nothing of the caller's was silently discarded that they'd need a
// TypedParameter to get back — only the reverse direction loses fidelity.
func (b Builder) TypedParams(items ...TypedParameter) Builder {
	next := b.d.clone()
	next.Params.Items = nil
	next.Params.Typed = append(next.Params.Typed, items...)

	return Builder{d: next, err: b.err}
}

// Header appends a single header entry.
func (b Builder) Header(name, value string) Builder {
	next := b.d.clone()
	next.Headers = next.Headers.Add(name, value)

	return Builder{d: next, err: b.err}
}

// Headers appends header entries in order.
func (b Builder) Headers(pairs ...wire.Header) Builder {
	next := b.d.clone()
	for _, p := range pairs {
		next.Headers = next.Headers.Add(p.Name, p.Value)
	}

	return Builder{d: next, err: b.err}
}

// Encoding overrides the default encoding for this descriptor's method.
func (b Builder) Encoding(e Encoding) Builder {
	next := b.d.clone()
	next.Encoding = e
	next.encodingSet = true

	return Builder{d: next, err: b.err}
}

// Timeout sets the per-attempt timeout in seconds. Values <= 0 are clamped
// to DefaultTimeoutSeconds (applied lazily via ResolvedTimeout, so a
// negative Timeout call and "never calling Timeout" are indistinguishable,
// matching the design's clamp-at-send semantics).
func (b Builder) Timeout(seconds float64) Builder {
	next := b.d.clone()
	next.TimeoutSecs = seconds

	return Builder{d: next, err: b.err}
}

// Retry installs a retry policy, overriding any provider-level default.
func (b Builder) Retry(policy RetryPolicy) Builder {
	next := b.d.clone()
	next.Retry = policy

	return Builder{d: next, err: b.err}
}

// Plugins replaces the plugin chain wholesale, preserving the given order.
func (b Builder) Plugins(plugins ...Plugin) Builder {
	next := b.d.clone()
	next.Plugins = append([]Plugin(nil), plugins...)

	return Builder{d: next, err: b.err}
}
