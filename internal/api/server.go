// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/vidtube/internal/core/comment"
	"github.com/taibuivan/vidtube/internal/core/playlist"
	"github.com/taibuivan/vidtube/internal/core/tweet"
	"github.com/taibuivan/vidtube/internal/core/video"
	"github.com/taibuivan/vidtube/internal/platform/config"
	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	"github.com/taibuivan/vidtube/internal/social/like"
	"github.com/taibuivan/vidtube/internal/social/subscription"
	"github.com/taibuivan/vidtube/internal/users/account"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	Auth         *auth.Handler
	Account      *account.Handler
	Video        *video.Handler
	Comment      *comment.Handler
	Tweet        *tweet.Handler
	Playlist     *playlist.Handler
	Like         *like.Handler
	Subscription *subscription.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// Routes that accept media uploads get the longer [constants.UploadRequestTimeout].
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, authenticator middleware.PrincipalAuthenticator, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.Metrics())
	r.Use(chimw.CleanPath)
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(cfg))

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		authenticate := middleware.Authenticate(authenticator)

		api.Group(func(uploads chi.Router) {
			uploads.Use(chimw.Timeout(constants.UploadRequestTimeout))

			// Credential routes authenticate per endpoint.
			uploads.Mount("/auth", h.Auth.Routes(authenticate))

			uploads.Group(func(authed chi.Router) {
				authed.Use(authenticate)
				authed.Mount("/users", h.Account.Routes())
				authed.Mount("/videos", h.Video.Routes())
			})
		})

		api.Group(func(rest chi.Router) {
			rest.Use(chimw.Timeout(constants.GlobalRequestTimeout))
			rest.Use(authenticate)
			rest.Mount("/comments", h.Comment.Routes())
			rest.Mount("/tweets", h.Tweet.Routes())
			rest.Mount("/playlist", h.Playlist.Routes())
			rest.Mount("/likes", h.Like.Routes())
			rest.Mount("/subscriptions", h.Subscription.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
