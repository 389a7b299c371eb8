// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the whole service.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer and session cookie names.
  - Uploads: multipart limits and media folders.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "vidtube-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is generous because uploads stream through the body.
	DefaultReadTimeout = 2 * time.Minute

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 2 * time.Minute

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for non-upload request lifecycles.
	GlobalRequestTimeout = 30 * time.Second

	// UploadRequestTimeout bounds multipart routes that push media to object storage.
	UploadRequestTimeout = 90 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute

	// AuthRateLimitRequests caps credential endpoints per IP per AuthRateLimitWindow.
	AuthRateLimitRequests = 20

	// AuthRateLimitWindow is the window for AuthRateLimitRequests.
	AuthRateLimitWindow = time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "vidtube.app"

	// AccessTokenCookieName carries the access token for browser clients.
	AccessTokenCookieName = "accessToken"

	// RefreshTokenCookieName carries the refresh token for browser clients.
	RefreshTokenCookieName = "refreshToken"

	// SessionCookiePath scopes both session cookies.
	SessionCookiePath = "/"
)

// # HTTP Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # Uploads

const (
	// MultipartMemory is the part of a multipart body kept in memory before spilling to disk.
	MultipartMemory = 32 << 20

	MediaFolderAvatars    = "avatars"
	MediaFolderCovers     = "covers"
	MediaFolderVideos     = "videos"
	MediaFolderThumbnails = "thumbnails"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixLoginAttempts = "auth:login_attempts:"
)
