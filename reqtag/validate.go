package reqtag

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/willonboy/ztapi/val"
)

var (
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New()
		validatorInstance.RegisterTagNameFunc(val.GetFieldName)
	})

	return validatorInstance
}

// validateStruct runs go-playground/validator's `validate:"..."` tags over
// v and appends any failures to verrs.
func validateStruct(v any, verrs *val.ValidationError) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			verrs.AddWithCode(fe.Field(), formatMessage(fe), errorCode(fe), fe.Value())
		}

		return nil
	}

	// InvalidValidationError or similar: v wasn't a struct/pointer the
	// validator could inspect. Not a field-level failure, so surface it.
	return err
}

func formatMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return "value is below the minimum"
	case "max":
		return "value exceeds the maximum"
	case "email":
		return "must be a valid email address"
	case "url", "uri":
		return "must be a valid URL"
	default:
		return "failed validation: " + fe.Tag()
	}
}

func errorCode(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return val.ErrCodeRequired
	case "min":
		return val.ErrCodeMinValue
	case "max":
		return val.ErrCodeMaxValue
	default:
		return val.ErrCodeInvalidFormat
	}
}
