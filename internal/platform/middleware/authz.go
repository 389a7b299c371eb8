// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/internal/platform/sec"
)

// PrincipalAuthenticator verifies an access token and confirms its principal
// still exists.
//
// # Why an interface?
//
// Defining it here decouples the middleware from the auth service, so handler
// tests can inject a fake guard.
type PrincipalAuthenticator interface {
	Authenticate(context context.Context, accessToken string) (*sec.AccessClaims, error)
}

// Authenticate resolves the caller's identity from the access token.
//
// # Flow
//  1. Read the token from the accessToken cookie, then from 'Authorization: Bearer'.
//  2. If absent, the request proceeds as anonymous.
//  3. If present, verify it via [PrincipalAuthenticator]; any failure is 401.
//  4. Inject [*sec.AccessClaims] into the request context for downstream use.
func Authenticate(authenticator PrincipalAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Token Extraction ───────────────────────────────────────────
			token, err := accessToken(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 2. Anonymous Access ───────────────────────────────────────────
			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := authenticator.Authenticate(request.Context(), token)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithPrincipal(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetPrincipal(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Unauthorized request"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// accessToken prefers the session cookie over the Authorization header.
func accessToken(request *http.Request) (string, error) {
	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	header := request.Header.Get(constants.HeaderAuthorization)
	if header == "" {
		return "", nil
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", apperr.Unauthorized("Invalid authorization format")
	}
	return strings.TrimSpace(token), nil
}
