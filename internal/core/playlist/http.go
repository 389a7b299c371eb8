// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playlist

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

// Handler implements the HTTP layer for playlists.
type Handler struct {
	playlistService *Service
}

// NewHandler constructs a new playlist [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{playlistService: service}
}

// Routes returns a [chi.Router] configured with the playlist endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{playlistId}", handler.getPlaylist)
	router.Get("/user/{userId}", handler.userPlaylists)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.createPlaylist)
		r.Patch("/{playlistId}", handler.updatePlaylist)
		r.Delete("/{playlistId}", handler.deletePlaylist)
		r.Patch("/add/{videoId}/{playlistId}", handler.addVideo)
		r.Patch("/remove/{videoId}/{playlistId}", handler.removeVideo)
	})

	return router
}

type draftRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=1000"`
}

func (input draftRequest) draft() Draft {
	return Draft{Name: input.Name, Description: input.Description}
}

/*
POST /api/v1/playlist.

Request:
  - body: draftRequest

Response:
  - 201: Playlist
*/
func (handler *Handler) createPlaylist(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input draftRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlist, err := handler.playlistService.CreatePlaylist(request.Context(), userID, input.draft())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, playlist, "Playlist created successfully")
}

// GET /api/v1/playlist/{playlistId}.
func (handler *Handler) getPlaylist(writer http.ResponseWriter, request *http.Request) {
	playlistID, err := requestutil.PathID(request, "playlistId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.playlistService.GetPlaylist(request.Context(), playlistID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail, "Playlist fetched successfully")
}

// GET /api/v1/playlist/user/{userId}.
func (handler *Handler) userPlaylists(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.PathID(request, "userId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.playlistService.UserPlaylists(request.Context(), userID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page, "User playlists fetched successfully")
}

/*
PATCH /api/v1/playlist/{playlistId}.

Response:
  - 200: Playlist
  - 403: Not the curator
*/
func (handler *Handler) updatePlaylist(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlistID, err := requestutil.PathID(request, "playlistId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input draftRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlist, err := handler.playlistService.UpdatePlaylist(request.Context(), userID, playlistID, input.draft())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, playlist, "Playlist updated successfully")
}

// DELETE /api/v1/playlist/{playlistId}.
func (handler *Handler) deletePlaylist(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlistID, err := requestutil.PathID(request, "playlistId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.playlistService.DeletePlaylist(request.Context(), userID, playlistID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, nil, "Playlist deleted successfully")
}

// PATCH /api/v1/playlist/add/{videoId}/{playlistId}.
func (handler *Handler) addVideo(writer http.ResponseWriter, request *http.Request) {
	handler.changeMembership(writer, request, handler.playlistService.AddVideo, "Video added to playlist successfully")
}

// PATCH /api/v1/playlist/remove/{videoId}/{playlistId}.
func (handler *Handler) removeVideo(writer http.ResponseWriter, request *http.Request) {
	handler.changeMembership(writer, request, handler.playlistService.RemoveVideo, "Video removed from playlist successfully")
}

type membershipChange func(ctx context.Context, principalID, playlistID, videoID string) (*Playlist, error)

func (handler *Handler) changeMembership(writer http.ResponseWriter, request *http.Request, change membershipChange, message string) {
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

	playlistID, err := requestutil.PathID(request, "playlistId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlist, err := change(request.Context(), userID, playlistID, videoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, playlist, message)
}
