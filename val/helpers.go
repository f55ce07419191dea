// Package val holds the struct-tag helper and collected-error type
// reqtag.Bind uses when it turns an outbound request struct into
// request.Parameter/header values: which tag names a field, and which
// binding/validation failures to report back to the caller before a
// request is ever sent.
package val

import (
	"reflect"
	"strings"
)

// GetFieldName extracts the name reqtag.Bind (via
// validator.RegisterTagNameFunc) and validateStruct report a field under,
// so a validation failure on a struct's "Email" field reads as the wire
// name ("email") the caller actually wrote, not the Go field name.
// Priority: path > query > header > json > field name.
func GetFieldName(field reflect.StructField) string {
	tagPriority := []string{"path", "query", "header", "json"}
	for _, tagName := range tagPriority {
		if tagValue := field.Tag.Get(tagName); tagValue != "" && tagValue != "-" {
			return parseTagName(tagValue)
		}
	}

	return field.Name
}

// parseTagName extracts the name part from a tag value (before comma).
func parseTagName(tagValue string) string {
	if idx := strings.Index(tagValue, ","); idx != -1 {
		return tagValue[:idx]
	}

	return tagValue
}
