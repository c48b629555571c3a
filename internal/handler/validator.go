package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"storefront-backend/internal/dto"

	"github.com/go-playground/validator/v10"
)

// RequestValidator plugs validator/v10 into echo's Context.Validate. Field names in errors
// follow the json tags.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

func (v *RequestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// validationIssues flattens validator errors into per-field issues. Anything else becomes a
// single body-level issue.
func validationIssues(err error) []dto.ValidationIssue {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []dto.ValidationIssue{{Field: "body", Message: err.Error()}}
	}

	issues := make([]dto.ValidationIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		// drop the root struct name
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		issues = append(issues, dto.ValidationIssue{
			Field:   field,
			Message: issueMessage(fe),
		})
	}
	return issues
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
