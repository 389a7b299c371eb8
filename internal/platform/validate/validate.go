// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate collects field-level input failures and reports them as a
// single 400 [apperr.AppError].
//
// # Architecture
//
// Services and multipart handlers run the fluent [Validator] on their inputs.
// JSON handlers additionally run [Struct] on decoded bodies, whose rules live
// in `validate` tags.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator accumulates failures across fields. Each field reports at most one
// failure: once a rule fails, later rules for the same field are skipped, so
// an empty username says "required" rather than also "too short".
//
// A Validator is single-use and not safe for concurrent use.
type Validator struct {
	errs   []apperr.FieldError
	failed map[string]bool
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(field, strings.TrimSpace(value) == "", "This field is required")
}

// MinLen fails if the value has fewer than min characters.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) < min, fmt.Sprintf("Minimum %d characters", min))
}

// MaxLen fails if the value has more than max characters.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) > max, fmt.Sprintf("Maximum %d characters", max))
}

// Email fails unless the value is a bare address. Display-name forms such as
// "Alice <alice@example.com>" are rejected because only the address is stored.
func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	return v.check(field, err != nil || address.Address != value, "Must be a valid email address")
}

// UUID fails if the value is not a canonical UUID string.
func (v *Validator) UUID(field, value string) *Validator {
	return v.check(field, !uuid.Valid(value), "Must be a valid UUID")
}

// Custom records message against field when failed is true.
//
//	v.Custom("duration", duration < 0, "Duration must not be negative")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	return v.check(field, failed, message)
}

// Err returns the accumulated failures as one validation error, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

func (v *Validator) check(field string, failed bool, message string) *Validator {
	if !failed || v.failed[field] {
		return v
	}
	if v.failed == nil {
		v.failed = make(map[string]bool)
	}
	v.failed[field] = true
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
	return v
}

// RequiredError builds a validation error for one field outside a chain.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
