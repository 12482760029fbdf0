// Package validation checks request inputs and projected result records and
// reports every problem as a field violation.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Violation is one invalid field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error collects violations. It is returned by Struct and by Violations.Err.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Violations accumulates domain checks that struct tags cannot express.
type Violations []Violation

func (vs *Violations) Add(field, format string, args ...any) {
	*vs = append(*vs, Violation{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Check adds a violation when ok is false.
func (vs *Violations) Check(ok bool, field, format string, args ...any) {
	if !ok {
		vs.Add(field, format, args...)
	}
}

// Merge appends the violations of err when it is a validation error and
// returns any other error unchanged.
func (vs *Violations) Merge(err error) error {
	if err == nil {
		return nil
	}
	var verr *Error
	if errors.As(err, &verr) {
		*vs = append(*vs, verr.Violations...)
		return nil
	}
	return err
}

// Err returns nil when no violation was recorded.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	return &Error{Violations: vs}
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// имена полей берём из json-тегов, как их видит клиент
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates v against its `validate` tags.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(Violations, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, Violation{Field: fieldPath(fe), Message: message(fe)})
	}
	return out.Err()
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.String {
			return "must have at least " + fe.Param() + " element(s)"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.String {
			return "must have at most " + fe.Param() + " element(s)"
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "unique":
		return "must not contain duplicates"
	case "datetime":
		return "must be a date in the format " + fe.Param()
	}
	return fmt.Sprintf("failed on the %q rule", fe.Tag())
}

// Slice validates every element and prefixes the field with the index.
func Slice[T any](field string, items []T) error {
	var out Violations
	for i, it := range items {
		err := Struct(it)
		var verr *Error
		if errors.As(err, &verr) {
			for _, v := range verr.Violations {
				out = append(out, Violation{Field: fmt.Sprintf("%s[%d].%s", field, i, v.Field), Message: v.Message})
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return out.Err()
}
