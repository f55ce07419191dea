// Package reqtag reflects over struct tags to produce request parameters
// and headers for the framework's typed-parameter capability (see
// request.TypedParameter), validates them, and redacts sensitive fields
// before they reach a log line. Adapted from the teacher's request-binding
// package, inverted from "populate a struct from an inbound request" to
// "produce parameters from an outbound struct".
package reqtag

import (
	"fmt"
	"reflect"
	"strings"
)

// SensitiveMode specifies how a sensitive field is cleaned before logging.
type SensitiveMode int

const (
	// SensitiveModeZero sets the field to its zero value.
	SensitiveModeZero SensitiveMode = iota
	// SensitiveModeRedact replaces the field with "[REDACTED]".
	SensitiveModeRedact
	// SensitiveModeMask replaces the field with a custom mask.
	SensitiveModeMask
)

// RedactedPlaceholder is the default placeholder for redacted fields.
const RedactedPlaceholder = "[REDACTED]"

// SensitiveFieldConfig holds the cleaning configuration for one field.
type SensitiveFieldConfig struct {
	Mode SensitiveMode
	Mask string
}

// ParseSensitiveTag parses a `sensitive:"..."` tag value:
//   - "true"/"1"   -> zero value
//   - "redact"     -> "[REDACTED]"
//   - "mask:***"   -> custom mask "***"
func ParseSensitiveTag(tagValue string) *SensitiveFieldConfig {
	if tagValue == "" {
		return nil
	}

	tagValue = strings.TrimSpace(tagValue)

	switch {
	case tagValue == "true" || tagValue == "1":
		return &SensitiveFieldConfig{Mode: SensitiveModeZero}
	case tagValue == "redact":
		return &SensitiveFieldConfig{Mode: SensitiveModeRedact}
	case strings.HasPrefix(tagValue, "mask:"):
		return &SensitiveFieldConfig{Mode: SensitiveModeMask, Mask: strings.TrimPrefix(tagValue, "mask:")}
	default:
		return &SensitiveFieldConfig{Mode: SensitiveModeZero}
	}
}

// CleanSensitiveFields returns a cleaned copy of v with any field tagged
// `sensitive:"..."` masked, recursing into nested structs/slices/maps.
func CleanSensitiveFields(v any) any {
	if v == nil {
		return nil
	}

	return cleanValue(reflect.ValueOf(v)).Interface()
}

func cleanValue(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return rv
		}

		if rv.Kind() == reflect.Ptr {
			cleaned := cleanValue(rv.Elem())
			result := reflect.New(rv.Elem().Type())
			result.Elem().Set(cleaned)

			return result
		}

		return cleanValue(rv.Elem())
	case reflect.Struct:
		return cleanStruct(rv)
	case reflect.Slice:
		return cleanSlice(rv)
	case reflect.Array:
		return cleanArray(rv)
	case reflect.Map:
		return cleanMap(rv)
	default:
		return rv
	}
}

func cleanStruct(rv reflect.Value) reflect.Value {
	rt := rv.Type()
	result := reflect.New(rt).Elem()

	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		if config := ParseSensitiveTag(field.Tag.Get("sensitive")); config != nil {
			result.Field(i).Set(applyCleaning(field.Type, config))
		} else {
			result.Field(i).Set(cleanValue(rv.Field(i)))
		}
	}

	return result
}

func cleanSlice(rv reflect.Value) reflect.Value {
	if rv.IsNil() {
		return rv
	}

	result := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Cap())
	for i := range rv.Len() {
		result.Index(i).Set(cleanValue(rv.Index(i)))
	}

	return result
}

func cleanArray(rv reflect.Value) reflect.Value {
	result := reflect.New(rv.Type()).Elem()
	for i := range rv.Len() {
		result.Index(i).Set(cleanValue(rv.Index(i)))
	}

	return result
}

func cleanMap(rv reflect.Value) reflect.Value {
	if rv.IsNil() {
		return rv
	}

	result := reflect.MakeMap(rv.Type())

	iter := rv.MapRange()
	for iter.Next() {
		result.SetMapIndex(iter.Key(), cleanValue(iter.Value()))
	}

	return result
}

func applyCleaning(fieldType reflect.Type, config *SensitiveFieldConfig) reflect.Value {
	switch config.Mode {
	case SensitiveModeRedact:
		return stringValue(fieldType, RedactedPlaceholder)
	case SensitiveModeMask:
		return stringValue(fieldType, config.Mask)
	case SensitiveModeZero:
		return reflect.Zero(fieldType)
	default:
		return reflect.Zero(fieldType)
	}
}

func stringValue(fieldType reflect.Type, value string) reflect.Value {
	if fieldType.Kind() == reflect.Ptr {
		if fieldType.Elem().Kind() == reflect.String {
			result := reflect.New(fieldType.Elem())
			result.Elem().SetString(value)

			return result
		}

		return reflect.Zero(fieldType)
	}

	if fieldType.Kind() == reflect.String {
		return reflect.ValueOf(value)
	}

	return reflect.Zero(fieldType)
}

// RedactHeaders returns a copy of headers with well-known sensitive header
// values replaced by RedactedPlaceholder, for safe inclusion in a log line.
func RedactHeaders(headers []HeaderPair) []HeaderPair {
	redacted := make([]HeaderPair, len(headers))

	for i, h := range headers {
		if isSensitiveHeaderName(h.Name) {
			redacted[i] = HeaderPair{Name: h.Name, Value: RedactedPlaceholder}
		} else {
			redacted[i] = h
		}
	}

	return redacted
}

// HeaderPair mirrors wire.Header without importing the wire package, so
// reqtag stays usable by anything that can produce a name/value pair.
type HeaderPair struct {
	Name  string
	Value string
}

func isSensitiveHeaderName(name string) bool {
	switch strings.ToLower(name) {
	case "authorization", "cookie", "set-cookie", "x-api-key", "x-auth-token":
		return true
	default:
		return false
	}
}

// fmtSensitive is a small helper kept for parity with the teacher's
// ResponseProcessor-style string formatting; used by bind.go for header values.
func fmtSensitive(v any) string {
	return fmt.Sprintf("%v", v)
}
