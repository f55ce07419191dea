package log

import (
	"context"

	"go.uber.org/zap"
)

// Logger is the structured logger every component in this module accepts:
// retry.Engine logs retry warnings, gate.Gate logs cancelled waiters, and
// plugin.LoggingPlugin logs each attempt's outcome. Every consumer checks
// for a nil Logger once at its own call site rather than requiring a noop
// fallback to be threaded through construction.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)
	Fatalf(template string, args ...any)

	// With returns a derived Logger that prepends fields to every
	// subsequent call.
	With(fields ...Field) Logger
	// WithContext returns a derived Logger enriched with whatever fields
	// WithContextFields previously attached to ctx.
	WithContext(ctx context.Context) Logger
	Named(name string) Logger

	Sync() error
}

// Field is a structured log field: a correlation ID, an HTTP method or
// status code, a retry attempt number, an error.
type Field interface {
	Key() string
	Value() any
	// ZapField returns the underlying zap.Field for efficient conversion.
	ZapField() zap.Field
}

// LoggingConfig configures NewLogger.
type LoggingConfig struct {
	Level       LogLevel `env:"LOG_LEVEL"   mapstructure:"level"       yaml:"level"`
	Format      string   `env:"LOG_FORMAT"  mapstructure:"format"      yaml:"format"`
	Environment string   `env:"ENVIRONMENT" mapstructure:"environment" yaml:"environment"`
	Output      string   `env:"LOG_OUTPUT"  mapstructure:"output"      yaml:"output"`
}
