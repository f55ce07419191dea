package di

// DepMode specifies how container.Resolve should treat a declared
// dependency when constructing a provider, plugin, or retry policy.
type DepMode int

const (
	// DepEager resolves the dependency immediately during service creation.
	// Fails if the dependency is not found.
	DepEager DepMode = iota

	// DepLazy defers resolution until the dependency is first accessed.
	// Useful for breaking circular dependencies or expensive services.
	DepLazy

	// DepOptional resolves immediately but returns nil if not found.
	// Does not fail if the dependency is missing.
	DepOptional

	// DepLazyOptional combines lazy resolution with optional behavior.
	// Defers resolution and returns nil if not found on access.
	DepLazyOptional
)

// String returns the string representation of the DepMode.
func (m DepMode) String() string {
	switch m {
	case DepEager:
		return "eager"
	case DepLazy:
		return "lazy"
	case DepOptional:
		return "optional"
	case DepLazyOptional:
		return "lazy_optional"
	default:
		return "unknown"
	}
}

// IsLazy returns true if the mode involves lazy resolution.
func (m DepMode) IsLazy() bool {
	return m == DepLazy || m == DepLazyOptional
}

// IsOptional returns true if the mode allows missing dependencies.
func (m DepMode) IsOptional() bool {
	return m == DepOptional || m == DepLazyOptional
}

// Dep names a single named entry in the Container (a provider, plugin, or
// retry policy registered via Factory) and how container.Resolve should
// wait for it relative to the service that depends on it.
type Dep struct {
	Name string
	Mode DepMode
}

// Eager creates an eager dependency specification.
// The dependency is resolved immediately and fails if not found.
func Eager(name string) Dep {
	return Dep{Name: name, Mode: DepEager}
}

// Lazy creates a lazy dependency specification.
// The dependency is resolved on first access.
func Lazy(name string) Dep {
	return Dep{Name: name, Mode: DepLazy}
}

// Optional creates an optional dependency specification.
// The dependency is resolved immediately but returns nil if not found.
func Optional(name string) Dep {
	return Dep{Name: name, Mode: DepOptional}
}

// LazyOptional creates a lazy optional dependency specification.
// The dependency is resolved on first access and returns nil if not found.
func LazyOptional(name string) Dep {
	return Dep{Name: name, Mode: DepLazyOptional}
}

// DepNames extracts just the names from a slice of Dep specs, the form
// ServiceInfo.Dependencies reports from Inspect.
func DepNames(deps []Dep) []string {
	names := make([]string, len(deps))
	for i, dep := range deps {
		names[i] = dep.Name
	}

	return names
}
