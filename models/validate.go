package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// в сообщениях используем имена полей из json-тегов, как их видит бэкенд
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError описывает одно нарушенное правило
type FieldError struct {
	Field string
	Rule  string
	Param string
}

func (f FieldError) String() string {
	switch f.Rule {
	case "required":
		return f.Field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", f.Field, f.Param)
	case "min":
		return f.Field + " must not be empty"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", f.Field, f.Param)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", f.Field, f.Param)
	case "alpha":
		return f.Field + " must contain letters only"
	case "number":
		return f.Field + " must be a number"
	case "date":
		return f.Field + " must be a date (YYYY-MM-DD)"
	default:
		return fmt.Sprintf("%s is invalid (%s)", f.Field, f.Rule)
	}
}

// ValidationError - тело запроса не прошло проверку, запрос не отправлялся
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.String())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validate проверяет тело запроса по тегам validate
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate payload: %w", err)
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}
