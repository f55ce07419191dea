package val

import (
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		ve   *ValidationError
		want string
	}{
		{
			name: "nil validation error",
			ve:   nil,
			want: ValidationFailedMessage,
		},
		{
			name: "empty errors",
			ve:   &ValidationError{},
			want: ValidationFailedMessage,
		},
		{
			name: "single error",
			ve: &ValidationError{
				Errors: []ValidationFieldError{
					{Field: "email", Message: "invalid email"},
				},
			},
			want: "email: invalid email",
		},
		{
			name: "multiple errors",
			ve: &ValidationError{
				Errors: []ValidationFieldError{
					{Field: "email", Message: "invalid email"},
					{Field: "age", Message: "must be positive"},
				},
			},
			want: "email: invalid email; age: must be positive",
		},
		{
			name: "error without field",
			ve: &ValidationError{
				Errors: []ValidationFieldError{
					{Message: "general validation error"},
				},
			},
			want: "general validation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ve.Error()
			if got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError_Add(t *testing.T) {
	ve := NewValidationError()
	ve.Add("email", "invalid email", "test@")

	if len(ve.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(ve.Errors))
	}

	err := ve.Errors[0]
	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}

	if err.Message != "invalid email" {
		t.Errorf("Message = %q, want %q", err.Message, "invalid email")
	}

	if err.Value != "test@" {
		t.Errorf("Value = %v, want %q", err.Value, "test@")
	}
}

func TestValidationError_Add_Nil(t *testing.T) {
	var ve *ValidationError
	ve.Add("email", "invalid", nil) // Should not panic
}

func TestValidationError_AddWithCode(t *testing.T) {
	ve := NewValidationError()
	ve.AddWithCode("email", "invalid format", ErrCodeInvalidFormat, "test@")

	if len(ve.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(ve.Errors))
	}

	err := ve.Errors[0]
	if err.Code != ErrCodeInvalidFormat {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidFormat)
	}
}

func TestValidationError_HasErrors(t *testing.T) {
	tests := []struct {
		name string
		ve   *ValidationError
		want bool
	}{
		{
			name: "nil validation error",
			ve:   nil,
			want: false,
		},
		{
			name: "empty errors",
			ve:   NewValidationError(),
			want: false,
		},
		{
			name: "with errors",
			ve: &ValidationError{
				Errors: []ValidationFieldError{
					{Field: "email", Message: "invalid"},
				},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ve.HasErrors()
			if got != tt.want {
				t.Errorf("HasErrors() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidationError_GetFieldErrors(t *testing.T) {
	ve := NewValidationError()
	ve.Add("email", "invalid format", "test@")
	ve.Add("email", "too short", "a@b")
	ve.Add("age", "required", nil)

	emailErrors := ve.GetFieldErrors("email")
	if len(emailErrors) != 2 {
		t.Errorf("len(emailErrors) = %d, want 2", len(emailErrors))
	}

	ageErrors := ve.GetFieldErrors("age")
	if len(ageErrors) != 1 {
		t.Errorf("len(ageErrors) = %d, want 1", len(ageErrors))
	}

	nonExistent := ve.GetFieldErrors("nonexistent")
	if len(nonExistent) != 0 {
		t.Errorf("len(nonExistent) = %d, want 0", len(nonExistent))
	}
}

func TestValidationError_GetFieldErrors_Nil(t *testing.T) {
	var ve *ValidationError

	result := ve.GetFieldErrors("email")

	if result != nil {
		t.Error("GetFieldErrors() on nil should return nil")
	}
}

func TestValidationError_HasFieldError(t *testing.T) {
	ve := NewValidationError()
	ve.Add("email", "invalid", nil)

	if !ve.HasFieldError("email") {
		t.Error("HasFieldError(email) should be true")
	}

	if ve.HasFieldError("age") {
		t.Error("HasFieldError(age) should be false")
	}
}
