// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tweet

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

// Handler implements the HTTP layer for tweets.
type Handler struct {
	tweetService *Service
}

// NewHandler constructs a new tweet [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{tweetService: service}
}

// Routes returns a [chi.Router] configured with the tweet endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/user/{userId}", handler.userTweets)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.createTweet)
		r.Patch("/{tweetId}", handler.updateTweet)
		r.Delete("/{tweetId}", handler.deleteTweet)
	})

	return router
}

type contentRequest struct {
	Content string `json:"content" validate:"required,max=280"`
}

/*
POST /api/v1/tweets.

Request:
  - body: contentRequest

Response:
  - 201: Tweet
  - 400: Empty or oversized content
*/
func (handler *Handler) createTweet(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input contentRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tweet, err := handler.tweetService.CreateTweet(request.Context(), userID, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, tweet, "Tweet created successfully")
}

/*
GET /api/v1/tweets/user/{userId}.

Response:
  - 200: pagination.Page[Summary]
  - 404: Unknown user
*/
func (handler *Handler) userTweets(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.PathID(request, "userId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.tweetService.UserTweets(request.Context(), userID,
		ctxutil.PrincipalID(request.Context()), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page, "Tweets fetched successfully")
}

/*
PATCH /api/v1/tweets/{tweetId}.

Response:
  - 200: Tweet
  - 403: Not the author
*/
func (handler *Handler) updateTweet(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tweetID, err := requestutil.PathID(request, "tweetId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input contentRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tweet, err := handler.tweetService.UpdateTweet(request.Context(), userID, tweetID, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tweet, "Tweet updated successfully")
}

/*
DELETE /api/v1/tweets/{tweetId}.

Response:
  - 200: {}
  - 403: Not the author
*/
func (handler *Handler) deleteTweet(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tweetID, err := requestutil.PathID(request, "tweetId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.tweetService.DeleteTweet(request.Context(), userID, tweetID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Tweet deleted successfully")
}
