package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single entry of the "details" array of a validation error response.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag,omitempty"`
	Message string `json:"message"`
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their json names, the same way clients send them
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks s against its `validate` struct tags and returns nil when s is valid.
func Validate(s any) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []FieldError{{Message: err.Error()}}
	}

	details := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		details = append(details, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Tag:     fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return details
}

// DecodeJSON decodes the request body into dst. Any failure is returned as validation details,
// since a body that does not decode is invalid input.
func DecodeJSON(r *http.Request, dst any) []FieldError {
	if r.Body == nil {
		return []FieldError{{Tag: "json", Message: "request body is empty"}}
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return []FieldError{{
				Field:   typeErr.Field,
				Tag:     "type",
				Message: fmt.Sprintf("ต้องเป็นชนิด %s", typeErr.Type),
			}}
		}
		return []FieldError{{Tag: "json", Message: err.Error()}}
	}
	return nil
}

// DecodeAndValidate is DecodeJSON followed by Validate.
func DecodeAndValidate(r *http.Request, dst any) []FieldError {
	if details := DecodeJSON(r, dst); details != nil {
		return details
	}
	return Validate(dst)
}

// fieldPath drops the root struct name: "workoutRequest.distanceKm" -> "distanceKm"
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "กรุณากรอกข้อมูล"
	case "min", "gte":
		return fmt.Sprintf("ต้องมีค่าอย่างน้อย %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("ต้องมีค่าไม่เกิน %s", fe.Param())
	case "email":
		return "รูปแบบอีเมลไม่ถูกต้อง"
	case "url":
		return "รูปแบบ URL ไม่ถูกต้อง"
	case "oneof":
		return fmt.Sprintf("ต้องเป็นหนึ่งใน: %s", fe.Param())
	case "eqfield":
		return "รหัสผ่านไม่ตรงกัน"
	case "eq":
		return fmt.Sprintf("กรุณาพิมพ์ %s เพื่อยืนยัน", fe.Param())
	default:
		return MsgInvalidInput
	}
}

// ValidateVar checks a single value against tag, reporting failures under field.
func ValidateVar(field string, value any, tag string) []FieldError {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []FieldError{{Field: field, Message: err.Error()}}
	}

	details := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		details = append(details, FieldError{
			Field:   field,
			Tag:     fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return details
}
