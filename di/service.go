package di

import "context"

// Service is implemented by anything Factory constructs that needs explicit
// lifecycle management — container.Start/Stop call these in registration
// order (and reverse, for Stop) on every resolved instance that implements it.
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// HealthChecker is implemented by a resolved service that wants to
// participate in Container.Health.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Disposable is implemented by a scoped service that needs cleanup when the
// Scope it was resolved in ends.
type Disposable interface {
	Dispose() error
}
