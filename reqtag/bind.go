package reqtag

import (
	"reflect"
	"strings"

	"github.com/willonboy/ztapi/request"
	"github.com/willonboy/ztapi/val"
)

// Bind reflects over v's exported fields and produces parameters/headers
// for an outbound request, reading the same tag grammar the teacher's
// request binder reads for inbound requests:
//
//	type ListWidgetsRequest struct {
//	    TenantID string `header:"X-Tenant-Id" required:"true"`
//	    DryRun   bool   `query:"dryRun"`
//	    Name     string `json:"name" validate:"required,min=1"`
//	}
//
// Fields tagged `query` or `json` become request.Parameter items (in
// struct-field order); fields tagged `header` are returned separately since
// they belong on the descriptor's Headers, not its Params. v must be a
// struct or a pointer to one.
func Bind(v any) (params []request.Parameter, headers []HeaderPair, err error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil, nil
		}

		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Struct {
		return nil, nil, nil
	}

	rt := rv.Type()

	verrs := val.NewValidationError()

	if err := bindFields(rv, rt, &params, &headers, verrs); err != nil {
		return nil, nil, err
	}

	if err := validateStruct(v, verrs); err != nil {
		return nil, nil, err
	}

	if verrs.HasErrors() {
		return nil, nil, verrs
	}

	return params, headers, nil
}

func bindFields(rv reflect.Value, rt reflect.Type, params *[]request.Parameter, headers *[]HeaderPair, verrs *val.ValidationError) error {
	for i := range rt.NumField() {
		field := rt.Field(i)
		fieldValue := rv.Field(i)

		if field.Anonymous && !hasExplicitTag(field) {
			embeddedValue, embeddedType, ok := resolveEmbedded(fieldValue)
			if ok {
				if err := bindFields(embeddedValue, embeddedType, params, headers, verrs); err != nil {
					return err
				}

				continue
			}
		}

		if !field.IsExported() {
			continue
		}

		if headerTag := field.Tag.Get("header"); headerTag != "" {
			name := tagName(headerTag, field.Name)
			if !fieldValue.IsZero() {
				*headers = append(*headers, HeaderPair{Name: name, Value: fmtSensitive(fieldValue.Interface())})
			} else if isRequired(field, headerTag) {
				verrs.AddWithCode(name, "header is required", val.ErrCodeRequired, nil)
			}

			continue
		}

		if queryTag := field.Tag.Get("query"); queryTag != "" {
			name := tagName(queryTag, field.Name)
			if fieldValue.IsZero() {
				if isRequired(field, queryTag) {
					verrs.AddWithCode(name, "query parameter is required", val.ErrCodeRequired, nil)
				}

				continue
			}

			*params = append(*params, request.Scalar(name, fieldValue.Interface()))

			continue
		}

		if jsonTag := field.Tag.Get("json"); jsonTag != "" && jsonTag != "-" {
			name := tagName(jsonTag, field.Name)
			if fieldValue.IsZero() && strings.Contains(jsonTag, ",omitempty") {
				continue
			}

			*params = append(*params, request.Scalar(name, fieldValue.Interface()))
		}
	}

	return nil
}

func resolveEmbedded(fieldValue reflect.Value) (reflect.Value, reflect.Type, bool) {
	if fieldValue.Kind() == reflect.Ptr {
		if fieldValue.IsNil() {
			return reflect.Value{}, nil, false
		}

		fieldValue = fieldValue.Elem()
	}

	if fieldValue.Kind() != reflect.Struct {
		return reflect.Value{}, nil, false
	}

	return fieldValue, fieldValue.Type(), true
}

func hasExplicitTag(field reflect.StructField) bool {
	return field.Tag.Get("query") != "" || field.Tag.Get("header") != "" || field.Tag.Get("json") != ""
}

func tagName(tag, fallback string) string {
	if idx := strings.Index(tag, ","); idx != -1 {
		tag = tag[:idx]
	}

	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fallback
	}

	return tag
}

func isRequired(field reflect.StructField, tag string) bool {
	if field.Tag.Get("optional") == "true" {
		return false
	}

	if field.Tag.Get("required") == "true" {
		return true
	}

	if strings.Contains(tag, ",omitempty") {
		return false
	}

	return field.Type.Kind() != reflect.Ptr
}
