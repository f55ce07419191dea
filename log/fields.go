package log

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapField wraps a zap.Field and implements the Field interface.
type ZapField struct {
	zapField zap.Field
}

func (f ZapField) Key() string { return f.zapField.Key }

func (f ZapField) Value() any {
	switch f.zapField.Type {
	case zapcore.StringType:
		return f.zapField.String
	case zapcore.Int64Type:
		return f.zapField.Integer
	case zapcore.Int32Type:
		return int32(f.zapField.Integer) //nolint:gosec // intentional conversion from stored int64
	case zapcore.Int16Type:
		return int16(f.zapField.Integer) //nolint:gosec // intentional conversion from stored int64
	case zapcore.Int8Type:
		return int8(f.zapField.Integer) //nolint:gosec // intentional conversion from stored int64
	case zapcore.Uint64Type:
		return uint64(f.zapField.Integer) //nolint:gosec // intentional conversion from stored int64
	case zapcore.Uint32Type:
		return uint32(f.zapField.Integer) //nolint:gosec // intentional conversion from stored int64
	case zapcore.Uint16Type:
		return uint16(f.zapField.Integer) //nolint:gosec // intentional conversion from stored int64
	case zapcore.Uint8Type:
		return uint8(f.zapField.Integer) //nolint:gosec // intentional conversion from stored int64
	case zapcore.UintptrType:
		return uintptr(f.zapField.Integer)
	case zapcore.Float64Type:
		return math.Float64frombits(uint64(f.zapField.Integer)) //nolint:gosec // intentional conversion from stored int64
	case zapcore.Float32Type:
		return math.Float32frombits(uint32(f.zapField.Integer)) //nolint:gosec // intentional conversion from stored int64
	case zapcore.BoolType:
		return f.zapField.Integer == 1
	case zapcore.TimeType:
		if f.zapField.Interface != nil {
			return f.zapField.Interface
		}

		return time.Unix(0, f.zapField.Integer)
	case zapcore.DurationType:
		return time.Duration(f.zapField.Integer)
	case zapcore.ErrorType:
		return f.zapField.Interface
	case zapcore.SkipType:
		return nil
	default:
		return f.zapField.Interface
	}
}

// ZapField returns the underlying zap.Field.
func (f ZapField) ZapField() zap.Field { return f.zapField }

// CustomField represents a field with a custom key-value pair, built by
// Custom; its ZapField goes through zap.Any.
type CustomField struct {
	key   string
	value any
}

func (f CustomField) Key() string      { return f.key }
func (f CustomField) Value() any       { return f.value }
func (f CustomField) ZapField() zap.Field { return zap.Any(f.key, f.value) }

// LazyField evaluates its value only when ZapField/Value is actually
// called, for fields expensive enough to skip at a disabled log level.
type LazyField struct {
	key       string
	valueFunc func() any
}

func (f LazyField) Key() string { return f.key }

func (f LazyField) Value() any {
	if f.valueFunc != nil {
		return f.valueFunc()
	}

	return nil
}

func (f LazyField) ZapField() zap.Field { return zap.Any(f.key, f.Value()) }

// Field constructors wrapping zap's typed constructors.
var (
	String = func(key, val string) Field { return ZapField{zap.String(key, val)} }

	Int   = func(key string, val int) Field   { return ZapField{zap.Int(key, val)} }
	Int64 = func(key string, val int64) Field { return ZapField{zap.Int64(key, val)} }

	Uint64 = func(key string, val uint64) Field { return ZapField{zap.Uint64(key, val)} }

	Float32 = func(key string, val float32) Field { return ZapField{zap.Float32(key, val)} }
	Float64 = func(key string, val float64) Field { return ZapField{zap.Float64(key, val)} }

	Bool = func(key string, val bool) Field { return ZapField{zap.Bool(key, val)} }

	Time     = func(key string, val time.Time) Field     { return ZapField{zap.Time(key, val)} }
	Duration = func(key string, val time.Duration) Field { return ZapField{zap.Duration(key, val)} }

	Error = func(err error) Field { return ZapField{zap.Error(err)} }

	Stringer = func(key string, val fmt.Stringer) Field { return ZapField{zap.Stringer(key, val)} }

	Any = func(key string, val any) Field { return ZapField{zap.Any(key, val)} }

	Strings = func(key string, val []string) Field { return ZapField{zap.Strings(key, val)} }

	Stack = func(key string) Field { return ZapField{zap.Stack(key)} }

	// Custom wraps an arbitrary key/value as a Field without going through
	// a zap typed constructor.
	Custom = func(key string, value any) Field { return CustomField{key: key, value: value} }

	// Lazy defers value computation until the field is actually encoded.
	Lazy = func(key string, valueFunc func() any) Field { return LazyField{key: key, valueFunc: valueFunc} }
)

// HTTP-specific field constructors — the fields plugin.LoggingPlugin
// attaches to every attempt's send/receive/failure log line.
var (
	HTTPMethod = func(method string) Field { return String("http.method", method) }
	HTTPStatus = func(status int) Field { return Int("http.status", status) }
	HTTPURL    = func(url string) Field { return String("http.url", url) }

	// CorrelationID tags a log line with the per-logical-send ID the
	// client stamps via plugin.WithCorrelationID.
	CorrelationID = func(id string) Field { return String("correlation_id", id) }

	// RetryAttempt tags a log line with the 1-based attempt number retry.Engine is on.
	RetryAttempt = func(n int) Field { return Int("retry.attempt", n) }

	// LatencyMs reports a duration in fractional milliseconds, the unit
	// log.PerformanceMonitor (and so retry.Engine's attempt logging) uses.
	LatencyMs = func(latency time.Duration) Field {
		return Float64("latency.ms", float64(latency.Nanoseconds())/1e6)
	}
)

// Enhanced field conversion functions.

// FieldsToZap converts Field interfaces to zap.Field, skipping nils.
func FieldsToZap(fields []Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		if field != nil {
			zapFields = append(zapFields, field.ZapField())
		}
	}

	return zapFields
}

// MergeFields concatenates multiple field slices, skipping nils.
func MergeFields(fieldSlices ...[]Field) []Field {
	totalLen := 0
	for _, slice := range fieldSlices {
		totalLen += len(slice)
	}

	result := make([]Field, 0, totalLen)

	for _, slice := range fieldSlices {
		for _, field := range slice {
			if field != nil {
				result = append(result, field)
			}
		}
	}

	return result
}

// FieldGroup is a named, reusable bundle of fields — e.g. the set
// LoggingPlugin attaches to every "sending request" line.
type FieldGroup struct {
	fields []Field
}

// NewFieldGroup creates a new field group.
func NewFieldGroup(fields ...Field) *FieldGroup {
	return &FieldGroup{fields: fields}
}

// Add adds fields to the group.
func (fg *FieldGroup) Add(fields ...Field) *FieldGroup {
	fg.fields = append(fg.fields, fields...)

	return fg
}

// Fields returns all fields in the group.
func (fg *FieldGroup) Fields() []Field {
	return fg.fields
}

// RequestGroup bundles the fields that describe one outbound attempt:
// correlation ID, method, and URL.
func RequestGroup(correlationID, method, url string) *FieldGroup {
	return NewFieldGroup(CorrelationID(correlationID), HTTPMethod(method), HTTPURL(url))
}

// ValidateField reports whether field is well-formed.
func ValidateField(field Field) error {
	if field == nil {
		return errors.New("field cannot be nil")
	}

	if field.Key() == "" {
		return errors.New("field key cannot be empty")
	}

	return nil
}

// SanitizeFields removes nil and invalid fields.
func SanitizeFields(fields []Field) []Field {
	sanitized := make([]Field, 0, len(fields))
	for _, field := range fields {
		if ValidateField(field) == nil {
			sanitized = append(sanitized, field)
		}
	}

	return sanitized
}

// ctxFieldsKey carries the fields WithContextFields attaches, read
// back by Logger.WithContext.
type ctxFieldsKeyType struct{}

var ctxFieldsKey = ctxFieldsKeyType{}

// WithContextFields attaches fields to ctx so a Logger.WithContext call
// anywhere downstream picks them up without the caller threading a Logger
// through every function signature.
func WithContextFields(ctx context.Context, fields ...Field) context.Context {
	return context.WithValue(ctx, ctxFieldsKey, fields)
}

// ContextFields returns the fields WithContextFields attached to ctx, or
// nil if none were attached.
func ContextFields(ctx context.Context) []Field {
	fields, _ := ctx.Value(ctxFieldsKey).([]Field)

	return fields
}
