// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
)

/*
TestTaxonomy_StatusCodes verifies every constructor maps to its HTTP status.
*/
func TestTaxonomy_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"invalid argument", apperr.InvalidArgument("bad id"), http.StatusBadRequest, apperr.CodeInvalidArgument},
		{"validation", apperr.ValidationError("Validation failed"), http.StatusBadRequest, apperr.CodeInvalidArgument},
		{"unauthorized", apperr.Unauthorized("nope"), http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"forbidden", apperr.Forbidden("not yours"), http.StatusForbidden, apperr.CodeForbidden},
		{"not found", apperr.NotFound("Video"), http.StatusNotFound, apperr.CodeNotFound},
		{"conflict", apperr.Conflict("taken"), http.StatusConflict, apperr.CodeConflict},
		{"rate limited", apperr.RateLimited(30), http.StatusTooManyRequests, apperr.CodeRateLimited},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, apperr.CodeInternal},
		{"unavailable", apperr.ServiceUnavailable("down"), http.StatusServiceUnavailable, apperr.CodeServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

/*
TestAs_WrappedChain verifies that an AppError is found through fmt.Errorf wrapping.
*/
func TestAs_WrappedChain(t *testing.T) {
	wrapped := fmt.Errorf("video_service_delete_failed: %w", apperr.Forbidden("not yours"))

	found := apperr.As(wrapped)
	require.NotNil(t, found)
	assert.Equal(t, apperr.CodeForbidden, found.Code)
	assert.True(t, apperr.HasCode(wrapped, apperr.CodeForbidden))
	assert.False(t, apperr.HasCode(errors.New("plain"), apperr.CodeForbidden))
}

/*
TestWithCause_DoesNotMutateOriginal ensures shared sentinel errors stay clean.
*/
func TestWithCause_DoesNotMutateOriginal(t *testing.T) {
	base := apperr.NotFound("User")
	cause := errors.New("no rows")

	withCause := base.WithCause(cause)

	assert.Nil(t, base.Cause)
	assert.ErrorIs(t, withCause, cause)
	assert.Equal(t, "User not found", withCause.Error())
}
