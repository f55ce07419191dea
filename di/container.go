package di

import (
	"context"
	"fmt"
	"sync"
)

// entry is one registered service's bookkeeping.
type entry struct {
	factory Factory
	opts    RegisterOption

	mu       sync.Mutex
	instance any
	built    bool
	started  bool
	startErr error
}

// container is the in-process Container implementation. Resolution order
// for a service's dependencies follows each Dep's Mode: Eager/Optional
// dependencies are resolved (and, for Eager, must succeed) before the
// depending service's factory runs; Lazy/LazyOptional dependencies are
// simply validated to exist (when non-optional) and left for the factory
// to Resolve itself on demand.
type container struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string // registration order, used for deterministic Start/Stop
}

// NewContainer builds an empty Container.
func NewContainer() Container {
	return &container{entries: make(map[string]*entry)}
}

func (c *container) Register(name string, factory Factory, opts ...RegisterOption) error {
	if factory == nil {
		return fmt.Errorf("di: factory for %q is nil", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[name]; exists {
		return fmt.Errorf("di: %q already registered", name)
	}

	c.entries[name] = &entry{factory: factory, opts: MergeOptions(opts)}
	c.order = append(c.order, name)

	return nil
}

func (c *container) lookup(name string) (*entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[name]

	return e, ok
}

func (c *container) Resolve(name string) (any, error) {
	e, ok := c.lookup(name)
	if !ok {
		return nil, fmt.Errorf("di: %q not registered", name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	transient := e.opts.Lifecycle == "transient"

	if e.built && !transient {
		return e.instance, nil
	}

	for _, dep := range e.opts.GetAllDeps() {
		if dep.Mode.IsLazy() {
			if !dep.Mode.IsOptional() && !c.Has(dep.Name) {
				return nil, fmt.Errorf("di: lazy dependency %q of %q not registered", dep.Name, name)
			}

			continue
		}

		if _, err := c.Resolve(dep.Name); err != nil && !dep.Mode.IsOptional() {
			return nil, fmt.Errorf("di: resolving dependency %q of %q: %w", dep.Name, name, err)
		}
	}

	instance, err := e.factory(c)
	if err != nil {
		return nil, fmt.Errorf("di: constructing %q: %w", name, err)
	}

	if !transient {
		e.instance = instance
		e.built = true
	}

	return instance, nil
}

func (c *container) ResolveReady(ctx context.Context, name string) (any, error) {
	instance, err := c.Resolve(name)
	if err != nil {
		return nil, err
	}

	e, _ := c.lookup(name)

	for _, dep := range e.opts.GetAllDeps() {
		if dep.Mode.IsLazy() {
			continue
		}

		if _, err := c.ResolveReady(ctx, dep.Name); err != nil && !dep.Mode.IsOptional() {
			return nil, fmt.Errorf("di: starting dependency %q of %q: %w", dep.Name, name, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return instance, nil
	}

	if svc, ok := instance.(Service); ok {
		if err := svc.Start(ctx); err != nil {
			e.startErr = err

			return nil, fmt.Errorf("di: starting %q: %w", name, err)
		}
	}

	e.started = true

	return instance, nil
}

func (c *container) Has(name string) bool {
	_, ok := c.lookup(name)

	return ok
}

func (c *container) IsStarted(name string) bool {
	e, ok := c.lookup(name)
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.started
}

func (c *container) Services() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.order))
	copy(names, c.order)

	return names
}

func (c *container) BeginScope() Scope {
	return &scope{parent: c, cache: make(map[string]any)}
}

// Start resolves and starts every registered service in registration order.
// Registration order doubles as a simple dependency order: callers should
// register a dependency before the service that needs it.
func (c *container) Start(ctx context.Context) error {
	for _, name := range c.Services() {
		if _, err := c.ResolveReady(ctx, name); err != nil {
			return err
		}
	}

	return nil
}

// Stop stops every started service in reverse registration order.
func (c *container) Stop(ctx context.Context) error {
	names := c.Services()

	var firstErr error

	for i := len(names) - 1; i >= 0; i-- {
		e, ok := c.lookup(names[i])
		if !ok {
			continue
		}

		e.mu.Lock()
		instance, started := e.instance, e.started
		e.mu.Unlock()

		if !started {
			continue
		}

		if svc, ok := instance.(Service); ok {
			if err := svc.Stop(ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (c *container) Health(ctx context.Context) error {
	for _, name := range c.Services() {
		e, _ := c.lookup(name)

		e.mu.Lock()
		instance, built := e.instance, e.built
		e.mu.Unlock()

		if !built {
			continue
		}

		if checker, ok := instance.(HealthChecker); ok {
			if err := checker.Health(ctx); err != nil {
				return fmt.Errorf("di: %q unhealthy: %w", name, err)
			}
		}
	}

	return nil
}

func (c *container) Inspect(name string) ServiceInfo {
	e, ok := c.lookup(name)
	if !ok {
		return ServiceInfo{Name: name}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return ServiceInfo{
		Name:         name,
		Lifecycle:    e.opts.Lifecycle,
		Dependencies: DepNames(e.opts.GetAllDeps()),
		Started:      e.started,
		Healthy:      e.startErr == nil,
		Metadata:     e.opts.Metadata,
	}
}

// scope is a request-scoped resolver: every lookup is delegated to the
// parent container once and the result is cached in the scope until End.
// The parent caches "scoped" entries the same way it caches singletons, so
// two scopes receive the same instance.
type scope struct {
	parent *container
	mu     sync.Mutex
	cache  map[string]any
}

func (s *scope) Resolve(name string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache[name]; ok {
		return v, nil
	}

	v, err := s.parent.Resolve(name)
	if err != nil {
		return nil, err
	}

	s.cache[name] = v

	return v, nil
}

func (s *scope) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error

	for _, v := range s.cache {
		if d, ok := v.(Disposable); ok {
			if err := d.Dispose(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	s.cache = nil

	return firstErr
}
