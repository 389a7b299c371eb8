// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/validate"
)

func details(t *testing.T, err error) []apperr.FieldError {
	t.Helper()
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeInvalidArgument, appErr.Code)
	return appErr.Details
}

/*
TestValidator_Rules runs each rule against a passing and a failing value.
*/
func TestValidator_Rules(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*validate.Validator) *validate.Validator
		fails bool
	}{
		{"required ok", func(v *validate.Validator) *validate.Validator { return v.Required("title", "Intro to Go") }, false},
		{"required blank", func(v *validate.Validator) *validate.Validator { return v.Required("title", "   ") }, true},
		{"min ok", func(v *validate.Validator) *validate.Validator { return v.MinLen("username", "tai", 3) }, false},
		{"min counts runes", func(v *validate.Validator) *validate.Validator { return v.MinLen("username", "日本", 3) }, true},
		{"max ok", func(v *validate.Validator) *validate.Validator { return v.MaxLen("content", "日本語", 3) }, false},
		{"max exceeded", func(v *validate.Validator) *validate.Validator { return v.MaxLen("content", "abcd", 3) }, true},
		{"email ok", func(v *validate.Validator) *validate.Validator { return v.Email("email", "tai@vidtube.app") }, false},
		{"email missing domain", func(v *validate.Validator) *validate.Validator { return v.Email("email", "tai@") }, true},
		{"email display name", func(v *validate.Validator) *validate.Validator { return v.Email("email", "Tai <tai@vidtube.app>") }, true},
		{"email empty", func(v *validate.Validator) *validate.Validator { return v.Email("email", "") }, true},
		{"uuid ok", func(v *validate.Validator) *validate.Validator { return v.UUID("videoId", "0191e8a0-0000-7000-8000-000000000001") }, false},
		{"uuid malformed", func(v *validate.Validator) *validate.Validator { return v.UUID("videoId", "not-a-uuid") }, true},
		{"custom", func(v *validate.Validator) *validate.Validator { return v.Custom("duration", true, "Duration must not be negative") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.apply(&validate.Validator{}).Err()
			if !tt.fails {
				assert.NoError(t, err)
				return
			}
			assert.Len(t, details(t, err), 1)
		})
	}
}

/*
TestValidator_OneFailurePerField keeps only the first failure of each field
while still reporting every failing field.
*/
func TestValidator_OneFailurePerField(t *testing.T) {
	err := (&validate.Validator{}).
		Required("username", "").
		MinLen("username", "", 3).
		Required("email", "not-an-email").
		Email("email", "not-an-email").
		Required("fullName", "Tai Bui").
		Err()

	got := details(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, apperr.FieldError{Field: "username", Message: "This field is required"}, got[0])
	assert.Equal(t, apperr.FieldError{Field: "email", Message: "Must be a valid email address"}, got[1])
}

/*
TestRequiredError wraps a single field failure.
*/
func TestRequiredError(t *testing.T) {
	got := details(t, validate.RequiredError("videoFile", "File is required"))
	assert.Equal(t, []apperr.FieldError{{Field: "videoFile", Message: "File is required"}}, got)
}
