// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	"github.com/taibuivan/vidtube/internal/platform/sec"
)

type fakeAuthenticator struct {
	valid map[string]string
	seen  []string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*sec.AccessClaims, error) {
	f.seen = append(f.seen, token)
	principalID, ok := f.valid[token]
	if !ok {
		return nil, apperr.Unauthorized("Invalid access token")
	}
	return &sec.AccessClaims{PrincipalID: principalID}, nil
}

func principalEcho() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(ctxutil.PrincipalID(request.Context())))
	})
}

/*
TestAuthenticate covers the token sources and anonymous pass-through.
*/
func TestAuthenticate(t *testing.T) {
	authenticator := &fakeAuthenticator{valid: map[string]string{"good": "u1"}}
	handler := middleware.Authenticate(authenticator)(principalEcho())

	tests := []struct {
		name       string
		prepare    func(*http.Request)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "anonymous",
			prepare:    func(*http.Request) {},
			wantStatus: http.StatusOK,
			wantBody:   "",
		},
		{
			name: "cookie",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: "good"})
			},
			wantStatus: http.StatusOK,
			wantBody:   "u1",
		},
		{
			name: "bearer header",
			prepare: func(r *http.Request) {
				r.Header.Set(constants.HeaderAuthorization, "Bearer good")
			},
			wantStatus: http.StatusOK,
			wantBody:   "u1",
		},
		{
			name: "invalid token",
			prepare: func(r *http.Request) {
				r.Header.Set(constants.HeaderAuthorization, "Bearer forged")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed header",
			prepare: func(r *http.Request) {
				r.Header.Set(constants.HeaderAuthorization, "Token good")
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(request)
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, recorder.Body.String())
			}
		})
	}
}

/*
TestAuthenticate_CookieWinsOverHeader verifies the cookie is the preferred source.
*/
func TestAuthenticate_CookieWinsOverHeader(t *testing.T) {
	authenticator := &fakeAuthenticator{valid: map[string]string{"cookie": "u1", "header": "u2"}}
	handler := middleware.Authenticate(authenticator)(principalEcho())

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: "cookie"})
	request.Header.Set(constants.HeaderAuthorization, "Bearer header")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "u1", recorder.Body.String())
	assert.Equal(t, []string{"cookie"}, authenticator.seen)
}

/*
TestRequireAuth rejects anonymous callers with the failure envelope.
*/
func TestRequireAuth(t *testing.T) {
	handler := middleware.RequireAuth(principalEcho())

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"success":false`)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(ctxutil.WithPrincipal(request.Context(), &sec.AccessClaims{PrincipalID: "u1"}))
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestRequestID keeps a client supplied id and generates one otherwise.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = ctxutil.GetRequestID(r.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "client-id")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "client-id", seen)
	assert.Equal(t, "client-id", recorder.Header().Get(constants.HeaderXRequestID))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "client-id", seen)
}

/*
TestPanicRecovery converts a panic into a 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "boom")
}

/*
TestRealIP prefers proxy headers.
*/
func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXForwardedFor, "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXRealIP, "198.51.100.2")
	assert.Equal(t, "198.51.100.2", middleware.RealIP(request))
}
