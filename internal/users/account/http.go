// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/internal/platform/storage"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
	maxUploadBytes int64
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	return &Handler{accountService: service, maxUploadBytes: maxUploadBytes}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public channel discovery
	router.Get("/c/{username}", handler.channelProfile)

	// Account Management
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/current-user", handler.currentUser)
		r.Patch("/update-account", handler.updateAccount)
		r.Patch("/avatar", handler.updateAvatar)
		r.Patch("/cover-image", handler.updateCoverImage)
		r.Get("/history", handler.watchHistory)
	})

	return router
}

// # User Profile Endpoints

/*
GET /api/v1/users/current-user.

Response:
  - 200: User: Public projection of the caller
  - 401: Authentication required
*/
func (handler *Handler) currentUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.CurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "Current user fetched successfully")
}

type updateAccountRequest struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
}

/*
PATCH /api/v1/users/update-account.

Request:
  - body: updateAccountRequest

Response:
  - 200: User: The updated profile
  - 400: Validation failure
  - 409: Email already registered
*/
func (handler *Handler) updateAccount(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateAccountRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateAccount(request.Context(), userID, UpdateAccountInput{
		FullName: input.FullName,
		Email:    input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "Account details updated successfully")
}

/*
PATCH /api/v1/users/avatar.

Request:
  - body: multipart form with an "avatar" file

Response:
  - 200: User: The updated profile
  - 400: Missing file
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	handler.replaceMedia(writer, request, auth.FieldAvatar, handler.accountService.UpdateAvatar, "Avatar updated successfully")
}

/*
PATCH /api/v1/users/cover-image.

Request:
  - body: multipart form with a "coverImage" file

Response:
  - 200: User: The updated profile
  - 400: Missing file
*/
func (handler *Handler) updateCoverImage(writer http.ResponseWriter, request *http.Request) {
	handler.replaceMedia(writer, request, auth.FieldCoverImage, handler.accountService.UpdateCoverImage, "Cover image updated successfully")
}

type mediaUpdater func(context.Context, string, storage.Upload) (*auth.User, error)

func (handler *Handler) replaceMedia(writer http.ResponseWriter, request *http.Request, field string, update mediaUpdater, message string) {
	userID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseMultipart(writer, request, handler.maxUploadBytes); err != nil {
		respond.Error(writer, request, err)
		return
	}

	upload, body, err := requestutil.FormFile(request, field, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer body.Close()

	user, err := update(request.Context(), userID, *upload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, message)
}

// # Channel Endpoints

/*
GET /api/v1/users/c/{username}.

Response:
  - 200: ChannelProfile
  - 404: Unknown channel
*/
func (handler *Handler) channelProfile(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")
	if username == "" {
		respond.Error(writer, request, validate.RequiredError(auth.FieldUsername, "Username is missing"))
		return
	}

	profile, err := handler.accountService.ChannelProfile(request.Context(), username, ctxutil.PrincipalID(request.Context()))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile, "User channel fetched successfully")
}

/*
GET /api/v1/users/history.

Response:
  - 200: []HistoryEntry
*/
func (handler *Handler) watchHistory(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entries, err := handler.accountService.WatchHistory(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries, "Watch history fetched successfully")
}
