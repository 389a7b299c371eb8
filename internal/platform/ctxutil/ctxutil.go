// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil carries per-request values through [context.Context]: the
// correlation id, the request-scoped logger and the authenticated principal.
//
// Keys are unexported so no other package can read or overwrite them without
// going through these helpers.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/vidtube/internal/platform/sec"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	loggerKey
	principalKey
	recorderKey
)

// # Request Tracing

// WithRequestID returns a copy of ctx carrying the X-Request-ID value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the correlation id, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// # Structured Logging

// WithLogger returns a copy of ctx carrying a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the request-scoped logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Identity

// principalRecorder is a mutable cell shared between an outer middleware and
// the inner layer that authenticates the caller. Context values only flow
// inwards, so the access logger installs this before the chain runs and reads
// it once the handler returns.
type principalRecorder struct {
	principalID string
}

// WithPrincipalRecorder prepares ctx so [WithPrincipal] calls made deeper in
// the chain become visible through [RecordedPrincipalID].
func WithPrincipalRecorder(ctx context.Context) context.Context {
	return context.WithValue(ctx, recorderKey, &principalRecorder{})
}

// RecordedPrincipalID returns the principal authenticated anywhere below the
// recorder, or "" when the request stayed anonymous.
func RecordedPrincipalID(ctx context.Context) string {
	if recorder, ok := ctx.Value(recorderKey).(*principalRecorder); ok {
		return recorder.principalID
	}
	return ""
}

// WithPrincipal returns a copy of ctx carrying the verified access claims.
func WithPrincipal(ctx context.Context, claims *sec.AccessClaims) context.Context {
	if recorder, ok := ctx.Value(recorderKey).(*principalRecorder); ok && claims != nil {
		recorder.principalID = claims.PrincipalID
	}
	return context.WithValue(ctx, principalKey, claims)
}

// GetPrincipal returns the verified access claims, or nil for anonymous requests.
func GetPrincipal(ctx context.Context) *sec.AccessClaims {
	claims, _ := ctx.Value(principalKey).(*sec.AccessClaims)
	return claims
}

// PrincipalID returns the acting principal id, or "" for anonymous requests.
func PrincipalID(ctx context.Context) string {
	if claims := GetPrincipal(ctx); claims != nil {
		return claims.PrincipalID
	}
	return ""
}
