// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package like

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

// Handler implements the HTTP layer for likes.
type Handler struct {
	likeService *Service
}

// NewHandler constructs a new like [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{likeService: service}
}

// Routes returns a [chi.Router] configured with the like endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/toggle/v/{videoId}", handler.toggleHandler("videoId", "isVideoLiked", handler.likeService.ToggleVideoLike))
	router.Post("/toggle/c/{commentId}", handler.toggleHandler("commentId", "isCommentLiked", handler.likeService.ToggleCommentLike))
	router.Post("/toggle/t/{tweetId}", handler.toggleHandler("tweetId", "isTweetLiked", handler.likeService.ToggleTweetLike))
	router.Get("/videos", handler.likedVideos)

	return router
}

type toggleFunc func(context context.Context, userID, targetID string) (bool, error)

/*
POST /api/v1/likes/toggle/{v|c|t}/{id}.

Response:
  - 200: {present: bool, isVideoLiked|isCommentLiked|isTweetLiked: bool}
  - 400: Malformed or unknown target
*/
func (handler *Handler) toggleHandler(param, key string, toggle toggleFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		userID, err := requestutil.RequiredPrincipalID(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		liked, err := toggle(request.Context(), userID, requestutil.Param(request, param))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		message := "Like removed successfully"
		if liked {
			message = "Liked successfully"
		}
		respond.OK(writer, map[string]bool{"present": liked, key: liked}, message)
	}
}

/*
GET /api/v1/likes/videos.

Request:
  - query: page, limit

Response:
  - 200: pagination.Page[LikedVideo]
*/
func (handler *Handler) likedVideos(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.likeService.LikedVideos(request.Context(), userID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page, "Liked videos fetched successfully")
}
