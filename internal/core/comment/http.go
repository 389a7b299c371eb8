// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

// Handler implements the HTTP layer for comments.
type Handler struct {
	commentService *Service
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{commentService: service}
}

// Routes returns a [chi.Router] configured with the comment endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{videoId}", handler.listComments)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/{videoId}", handler.addComment)
		r.Patch("/c/{commentId}", handler.updateComment)
		r.Delete("/c/{commentId}", handler.deleteComment)
	})

	return router
}

type contentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

/*
GET /api/v1/comments/{videoId}.

Request:
  - query: page, limit

Response:
  - 200: pagination.Page[Summary]
  - 404: Unknown or hidden video
*/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	videoID, err := requestutil.PathID(request, "videoId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.commentService.ListComments(request.Context(), videoID,
		ctxutil.PrincipalID(request.Context()), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page, "Comments fetched successfully")
}

/*
POST /api/v1/comments/{videoId}.

Request:
  - body: contentRequest

Response:
  - 201: Comment
  - 400: Empty content
*/
func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videoID, err := requestutil.PathID(request, "videoId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input contentRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.commentService.AddComment(request.Context(), userID, videoID, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment, "Comment added successfully")
}

/*
PATCH /api/v1/comments/c/{commentId}.

Request:
  - body: contentRequest

Response:
  - 200: Comment
  - 403: Not the author
*/
func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID, err := requestutil.PathID(request, "commentId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input contentRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.commentService.UpdateComment(request.Context(), userID, commentID, input.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment, "Comment updated successfully")
}

/*
DELETE /api/v1/comments/c/{commentId}.

Response:
  - 200: {}
  - 403: Not the author
*/
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID, err := requestutil.PathID(request, "commentId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.commentService.DeleteComment(request.Context(), userID, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Comment deleted successfully")
}
