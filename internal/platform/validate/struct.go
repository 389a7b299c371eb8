// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
)

var (
	structValidator *validator.Validate
	structOnce      sync.Once
)

// engine returns the shared validator; it caches struct metadata and is safe
// for concurrent use.
func engine() *validator.Validate {
	structOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())

		// Report JSON names so field errors match the request body.
		structValidator.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
	return structValidator
}

/*
Struct validates a decoded request DTO using its `validate` tags.

Returns:
  - nil when every rule passes
  - a 400 [apperr.AppError] carrying one [apperr.FieldError] per failed field
*/
func Struct(target any) error {
	err := engine().Struct(target)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Internal(fmt.Errorf("validate_struct_failed: %w", err))
	}

	details := make([]apperr.FieldError, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		details = append(details, apperr.FieldError{
			Field:   fieldErr.Field(),
			Message: translate(fieldErr),
		})
	}
	return apperr.ValidationError("Validation failed", details...)
}

var messages = map[string]string{
	"required": "This field is required",
	"email":    "Must be a valid email address",
	"uuid":     "Must be a valid UUID",
}

var messagesWithParam = map[string]string{
	"min":   "Minimum %s characters",
	"max":   "Maximum %s characters",
	"oneof": "Must be one of: %s",
	"gt":    "Must be greater than %s",
	"gte":   "Must be greater than or equal to %s",
}

func translate(fieldErr validator.FieldError) string {
	if message, ok := messages[fieldErr.Tag()]; ok {
		return message
	}
	if template, ok := messagesWithParam[fieldErr.Tag()]; ok {
		return fmt.Sprintf(template, fieldErr.Param())
	}
	return fmt.Sprintf("Failed the %q rule", fieldErr.Tag())
}
