package val

import (
	"fmt"
	"strings"
)

// ValidationFailedMessage is the default message a ValidationError carries
// when reqtag.Bind fails a request struct with no more specific reason.
const ValidationFailedMessage = "Validation failed"

// ValidationFieldError is a single field-level binding or validation
// failure collected while reqtag.Bind walks a request struct.
type ValidationFieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ValidationError collects every ValidationFieldError found while binding
// one request struct, so reqtag.Bind can report all of them together
// instead of failing on the first missing header or query parameter.
type ValidationError struct {
	Errors []ValidationFieldError `json:"errors"`
}

// NewValidationError creates an empty ValidationError ready for Add/AddWithCode.
func NewValidationError() *ValidationError {
	return &ValidationError{}
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	if ve == nil || len(ve.Errors) == 0 {
		return ValidationFailedMessage
	}

	messages := make([]string, 0, len(ve.Errors))
	for _, err := range ve.Errors {
		if err.Field != "" {
			messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
		} else {
			messages = append(messages, err.Message)
		}
	}

	return strings.Join(messages, "; ")
}

// Add adds a validation error with no code.
func (ve *ValidationError) Add(field, message string, value any) {
	if ve == nil {
		return
	}

	ve.Errors = append(ve.Errors, ValidationFieldError{
		Field:   field,
		Message: message,
		Value:   value,
	})
}

// AddWithCode adds a validation error tagged with one of the ErrCode* constants.
func (ve *ValidationError) AddWithCode(field, message, code string, value any) {
	if ve == nil {
		return
	}

	ve.Errors = append(ve.Errors, ValidationFieldError{
		Field:   field,
		Message: message,
		Value:   value,
		Code:    code,
	})
}

// HasErrors reports whether any field failed binding or validation.
func (ve *ValidationError) HasErrors() bool {
	return ve != nil && len(ve.Errors) > 0
}

// GetFieldErrors returns all errors recorded against a specific field.
func (ve *ValidationError) GetFieldErrors(field string) []ValidationFieldError {
	if ve == nil {
		return nil
	}

	var fieldErrors []ValidationFieldError

	for _, err := range ve.Errors {
		if err.Field == field {
			fieldErrors = append(fieldErrors, err)
		}
	}

	return fieldErrors
}

// HasFieldError reports whether a specific field has any recorded errors.
func (ve *ValidationError) HasFieldError(field string) bool {
	return len(ve.GetFieldErrors(field)) > 0
}

// Common validation error codes, attached via AddWithCode and surfaced on
// ValidationFieldError.Code so a caller can branch on failure kind instead
// of parsing the message.
const (
	ErrCodeRequired      = "REQUIRED"
	ErrCodeInvalidFormat = "INVALID_FORMAT"
	ErrCodeMinValue      = "MIN_VALUE"
	ErrCodeMaxValue      = "MAX_VALUE"
)
