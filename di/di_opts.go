package di

import "maps"

// RegisterOption configures how Factory.Register* entries are constructed
// and cached: lifecycle (singleton vs transient vs scoped), and the other
// named entries a provider/plugin/retry-policy factory depends on.
type RegisterOption struct {
	Lifecycle    string // "singleton", "scoped", or "transient"
	Dependencies []string
	Deps         []Dep
	Metadata     map[string]string
}

// Singleton makes the service built once and cached for the container's
// lifetime (the default when no lifecycle option is given).
func Singleton() RegisterOption {
	return RegisterOption{Lifecycle: "singleton"}
}

// Transient makes container.Resolve rebuild the service from its factory
// on every call instead of caching the first instance.
func Transient() RegisterOption {
	return RegisterOption{Lifecycle: "transient"}
}

// Scoped labels the service with the "scoped" lifecycle. container.Resolve
// caches it exactly like a singleton, so a new Container.BeginScope scope
// receives the same instance rather than a fresh one.
func Scoped() RegisterOption {
	return RegisterOption{Lifecycle: "scoped"}
}

// WithDependencies declares explicit dependencies (string-based, backward compatible).
// All dependencies are treated as eager.
func WithDependencies(deps ...string) RegisterOption {
	return RegisterOption{Dependencies: deps}
}

// WithDeps declares dependencies with full Dep specs (name and mode).
// This is the new, more powerful API for declaring dependencies.
func WithDeps(deps ...Dep) RegisterOption {
	return RegisterOption{Deps: deps}
}

// WithDIMetadata adds diagnostic metadata to DI service registration.
func WithDIMetadata(key, value string) RegisterOption {
	return RegisterOption{Metadata: map[string]string{key: value}}
}

// MergeOptions combines multiple options.
func MergeOptions(opts []RegisterOption) RegisterOption {
	result := RegisterOption{
		Lifecycle: "singleton", // default
		Metadata:  make(map[string]string),
	}

	for _, opt := range opts {
		if opt.Lifecycle != "" {
			result.Lifecycle = opt.Lifecycle
		}

		result.Dependencies = append(result.Dependencies, opt.Dependencies...)
		result.Deps = append(result.Deps, opt.Deps...)

		maps.Copy(result.Metadata, opt.Metadata)
	}

	return result
}

// GetAllDeps returns all dependencies as Dep specs.
// Converts string-based dependencies to eager Deps for unified handling.
func (o RegisterOption) GetAllDeps() []Dep {
	allDeps := make([]Dep, 0, len(o.Deps)+len(o.Dependencies))
	allDeps = append(allDeps, o.Deps...)

	for _, name := range o.Dependencies {
		allDeps = append(allDeps, Eager(name))
	}

	return allDeps
}
