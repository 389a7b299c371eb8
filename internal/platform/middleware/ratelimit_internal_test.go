// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

/*
TestIPLimiters keeps one bucket per address and forgets idle ones.
*/
func TestIPLimiters(t *testing.T) {
	now := time.Now()
	limiters := newIPLimiters(rate.Every(time.Hour), 2)

	assert.True(t, limiters.allow("203.0.113.7", now))
	assert.True(t, limiters.allow("203.0.113.7", now))
	assert.False(t, limiters.allow("203.0.113.7", now))
	assert.True(t, limiters.allow("198.51.100.2", now))

	assert.Equal(t, 2, limiters.sweep(now.Add(time.Minute), 3*time.Minute))
	assert.Equal(t, 0, limiters.sweep(now.Add(5*time.Minute), 3*time.Minute))

	assert.True(t, limiters.allow("203.0.113.7", now.Add(5*time.Minute)))
}

/*
TestRateLimit answers 429 once the caller's bucket is empty.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := rateLimit(ctx, newIPLimiters(rate.Every(time.Hour), 1))(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	}))

	serve := func() int {
		request := httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil)
		request.RemoteAddr = "203.0.113.7:4000"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusNoContent, serve())
	assert.Equal(t, http.StatusTooManyRequests, serve())
}

/*
TestUsableRequestID rejects ids that would pollute the access log.
*/
func TestUsableRequestID(t *testing.T) {
	assert.True(t, usableRequestID("client-id-42"))
	assert.False(t, usableRequestID(""))
	assert.False(t, usableRequestID("has space"))
	assert.False(t, usableRequestID("line\nbreak"))
	assert.False(t, usableRequestID(string(make([]byte, maxRequestIDLength+1))))
}
