// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

// Handler implements the HTTP layer for videos.
type Handler struct {
	videoService   *Service
	maxUploadBytes int64
}

// NewHandler constructs a new video [Handler].
func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	return &Handler{videoService: service, maxUploadBytes: maxUploadBytes}
}

// Routes returns a [chi.Router] configured with the video endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Discovery (optional auth)
	router.Get("/", handler.listVideos)
	router.Get("/{videoId}", handler.getVideo)

	// Catalogue management
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.publishVideo)
		r.Patch("/{videoId}", handler.updateVideo)
		r.Delete("/{videoId}", handler.deleteVideo)
		r.Patch("/toggle/publish/{videoId}", handler.togglePublish)
	})

	return router
}

// # Discovery Endpoints

/*
GET /api/v1/videos.

Request:
  - query: page, limit, query, userId, sortBy, sortType

Response:
  - 200: pagination.Page[Summary]
  - 400: Invalid userId or sort
*/
func (handler *Handler) listVideos(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()

	page, err := handler.videoService.ListVideos(request.Context(), ListInput{
		Query:    values.Get("query"),
		UserID:   values.Get("userId"),
		SortBy:   values.Get("sortBy"),
		SortType: values.Get("sortType"),
		Params:   pagination.FromRequest(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page, "Videos fetched successfully")
}

/*
GET /api/v1/videos/{videoId}.

Response:
  - 200: Detail
  - 400: Malformed id
  - 404: Missing or unpublished
*/
func (handler *Handler) getVideo(writer http.ResponseWriter, request *http.Request) {
	videoID, err := requestutil.PathID(request, "videoId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.videoService.GetVideo(request.Context(), videoID, ctxutil.PrincipalID(request.Context()))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail, "Video fetched successfully")
}

// # Catalogue Endpoints

/*
POST /api/v1/videos.

Request:
  - body: multipart form with videoFile, thumbnail, title, description, duration

Response:
  - 201: Video
  - 400: Validation failure
*/
func (handler *Handler) publishVideo(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseMultipart(writer, request, handler.maxUploadBytes); err != nil {
		respond.Error(writer, request, err)
		return
	}

	duration, err := parseDuration(requestutil.FormValue(request, FieldDuration))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videoFile, videoBody, err := requestutil.FormFile(request, FieldVideoFile, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer videoBody.Close()

	thumbnail, thumbnailBody, err := requestutil.FormFile(request, FieldThumbnail, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer thumbnailBody.Close()

	draft := Draft{
		Title:       requestutil.FormValue(request, FieldTitle),
		Description: requestutil.FormValue(request, FieldDescription),
		Duration:    duration,
	}

	video, err := handler.videoService.Publish(request.Context(), userID, draft, *videoFile, *thumbnail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, video, "Video uploaded successfully")
}

/*
PATCH /api/v1/videos/{videoId}.

Request:
  - body: multipart form with title, description and an optional thumbnail

Response:
  - 200: Video
  - 403: Not the owner
*/
func (handler *Handler) updateVideo(writer http.ResponseWriter, request *http.Request) {
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

	if err := requestutil.ParseMultipart(writer, request, handler.maxUploadBytes); err != nil {
		respond.Error(writer, request, err)
		return
	}

	thumbnail, thumbnailBody, err := requestutil.FormFile(request, FieldThumbnail, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if thumbnailBody != nil {
		defer thumbnailBody.Close()
	}

	input := UpdateInput{
		Title:       requestutil.FormValue(request, FieldTitle),
		Description: requestutil.FormValue(request, FieldDescription),
	}

	video, err := handler.videoService.UpdateVideo(request.Context(), userID, videoID, input, thumbnail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video, "Video updated successfully")
}

/*
DELETE /api/v1/videos/{videoId}.

Response:
  - 200: {}
  - 403: Not the owner
  - 404: Unknown video
*/
func (handler *Handler) deleteVideo(writer http.ResponseWriter, request *http.Request) {
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

	if err := handler.videoService.DeleteVideo(request.Context(), userID, videoID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Video deleted successfully")
}

/*
PATCH /api/v1/videos/toggle/publish/{videoId}.

Response:
  - 200: Video
  - 403: Not the owner
*/
func (handler *Handler) togglePublish(writer http.ResponseWriter, request *http.Request) {
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

	video, err := handler.videoService.TogglePublish(request.Context(), userID, videoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video, "Publish status toggled successfully")
}

// parseDuration reads the client supplied duration in seconds; empty means 0.
func parseDuration(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0, validate.RequiredError(FieldDuration, "Duration must be a number of seconds")
	}
	return duration, nil
}
