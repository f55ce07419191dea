package di

import "context"

// Container is the named registry backing client.Factory: Factory.Register*
// calls Register to add a provider/plugin/retry-policy constructor, and
// Factory.Provider/Plugin/RetryPolicy call Resolve to build (and cache) one
// by name.
type Container interface {
	// Register adds a service factory to the container
	// Returns error if name already registered or factory is invalid
	Register(name string, factory Factory, opts ...RegisterOption) error

	// Resolve returns a service by name
	// Returns error if not found or instantiation fails
	Resolve(name string) (any, error)

	// ResolveReady resolves a service, ensuring it and its non-lazy
	// dependencies are started first. Useful when a provider's Register() phase needs a
	// dependency to be fully initialized before use. Calls Start() on the
	// service if it implements Service and hasn't been started.
	ResolveReady(ctx context.Context, name string) (any, error)

	// Has checks if a service is registered
	Has(name string) bool

	// IsStarted checks if a service has been started
	// Returns false if service doesn't exist or hasn't been started
	IsStarted(name string) bool

	// Services returns all registered service names
	Services() []string

	// BeginScope creates a new scope for request-scoped services.
	// Scopes must be ended with scope.End() to clean up resources.
	BeginScope() Scope

	// Start initializes all services in dependency order
	Start(ctx context.Context) error

	// Stop shuts down all services in reverse order
	Stop(ctx context.Context) error

	// Health checks all services
	Health(ctx context.Context) error

	// Inspect returns diagnostic information about a service
	Inspect(name string) ServiceInfo
}

// Scope represents a lifetime scope: a per-scope cache in front of the
// parent Container, cleared on End.
type Scope interface {
	// Resolve returns a service by name from this scope
	// Every service is resolved through the parent container and then
	// cached within the scope; the parent caches "scoped" entries like
	// singletons, so separate scopes share one instance
	Resolve(name string) (any, error)

	// End cleans up all scoped services in this scope
	// Must be called when scope is no longer needed (typically in defer)
	End() error
}

// Factory creates a service instance.
type Factory func(c Container) (any, error)

// ServiceInfo is the diagnostic snapshot Container.Inspect returns for one
// registered name.
type ServiceInfo struct {
	Name         string
	Lifecycle    string
	Dependencies []string
	Started      bool
	Healthy      bool
	Metadata     map[string]string
}
