package client

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/willonboy/ztapi/di"
	"github.com/willonboy/ztapi/errs"
	"github.com/willonboy/ztapi/request"
	"github.com/willonboy/ztapi/wire"
)

// Factory is a named registry of providers, plugins, and retry policies,
// letting callers assemble request.Descriptor values from configuration
// (a service name) instead of Go references. It is backed by a di.Container
// so construction order, singleton caching, and health checks come from
// the same dependency machinery the rest of the toolkit uses.
type Factory struct {
	container di.Container
}

// NewFactory builds an empty Factory.
func NewFactory() *Factory {
	return &Factory{container: di.NewContainer()}
}

// RegisterProvider registers a named request.Provider constructor.
func (f *Factory) RegisterProvider(name string, build func() (request.Provider, error)) error {
	return f.container.Register("provider."+name, func(di.Container) (any, error) {
		return build()
	})
}

// RegisterPlugin registers a named request.Plugin constructor.
func (f *Factory) RegisterPlugin(name string, build func() (request.Plugin, error)) error {
	return f.container.Register("plugin."+name, func(di.Container) (any, error) {
		return build()
	})
}

// RegisterRetryPolicy registers a named request.RetryPolicy constructor.
func (f *Factory) RegisterRetryPolicy(name string, build func() (request.RetryPolicy, error)) error {
	return f.container.Register("retry."+name, func(di.Container) (any, error) {
		return build()
	})
}

// Provider resolves a previously registered provider by name.
func (f *Factory) Provider(name string) (request.Provider, error) {
	v, err := f.container.Resolve("provider." + name)
	if err != nil {
		return nil, errs.NewRequestError(errs.CodeFactoryConstruction, "failed to resolve provider "+name, err)
	}

	p, ok := v.(request.Provider)
	if !ok {
		return nil, errs.NewRequestError(errs.CodeFactoryConstruction, "provider "+name+" does not implement request.Provider", nil)
	}

	return p, nil
}

// Plugin resolves a previously registered plugin by name.
func (f *Factory) Plugin(name string) (request.Plugin, error) {
	v, err := f.container.Resolve("plugin." + name)
	if err != nil {
		return nil, errs.NewRequestError(errs.CodeFactoryConstruction, "failed to resolve plugin "+name, err)
	}

	p, ok := v.(request.Plugin)
	if !ok {
		return nil, errs.NewRequestError(errs.CodeFactoryConstruction, "plugin "+name+" does not implement request.Plugin", nil)
	}

	return p, nil
}

// RetryPolicy resolves a previously registered retry policy by name.
func (f *Factory) RetryPolicy(name string) (request.RetryPolicy, error) {
	v, err := f.container.Resolve("retry." + name)
	if err != nil {
		return nil, errs.NewRequestError(errs.CodeFactoryConstruction, "failed to resolve retry policy "+name, err)
	}

	p, ok := v.(request.RetryPolicy)
	if !ok {
		return nil, errs.NewRequestError(errs.CodeFactoryConstruction, "retry policy "+name+" does not implement request.RetryPolicy", nil)
	}

	return p, nil
}

// Health reports whether every service the Factory has constructed so far
// is still healthy, per di.Container's health-check contract.
func (f *Factory) Health(ctx context.Context) error {
	return f.container.Health(ctx)
}

// ClientDefaults describes a Builder's starting point loaded from YAML: the
// named provider, retry policy, and plugin chain to install before any
// request-specific overrides.
type ClientDefaults struct {
	Provider string   `yaml:"provider"`
	Retry    string   `yaml:"retry,omitempty"`
	Plugins  []string `yaml:"plugins,omitempty"`
	Timeout  float64  `yaml:"timeoutSeconds,omitempty"`
}

// LoadClientDefaults reads a YAML document describing the default
// provider/retry/plugins a Builder should start from, for deployments that
// want those choices externalized from Go code (e.g. switching providers
// per environment without a rebuild).
func LoadClientDefaults(path string) (ClientDefaults, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ClientDefaults{}, fmt.Errorf("client: reading defaults file %q: %w", path, err)
	}

	var defaults ClientDefaults
	if err := yaml.Unmarshal(raw, &defaults); err != nil {
		return ClientDefaults{}, fmt.Errorf("client: parsing defaults file %q: %w", path, err)
	}

	return defaults, nil
}

// Builder assembles a request.Builder from the Factory's named components
// and the given defaults, returning an error if any named component isn't
// registered.
func (f *Factory) Builder(url string, method wire.Method, defaults ClientDefaults) (request.Builder, error) {
	provider, err := f.Provider(defaults.Provider)
	if err != nil {
		return request.Builder{}, err
	}

	b := request.New(url, method, provider)

	if defaults.Retry != "" {
		policy, err := f.RetryPolicy(defaults.Retry)
		if err != nil {
			return request.Builder{}, err
		}

		b = b.Retry(policy)
	}

	if len(defaults.Plugins) > 0 {
		plugins := make([]request.Plugin, 0, len(defaults.Plugins))

		for _, name := range defaults.Plugins {
			p, err := f.Plugin(name)
			if err != nil {
				return request.Builder{}, err
			}

			plugins = append(plugins, p)
		}

		b = b.Plugins(plugins...)
	}

	if defaults.Timeout > 0 {
		b = b.Timeout(defaults.Timeout)
	}

	return b, nil
}
