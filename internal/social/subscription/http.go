// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidtube/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidtube/internal/platform/request"
	"github.com/taibuivan/vidtube/internal/platform/respond"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

// Handler implements the HTTP layer for subscriptions.
type Handler struct {
	subscriptionService *Service
}

// NewHandler constructs a new subscription [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{subscriptionService: service}
}

// Routes returns a [chi.Router] configured with the subscription endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/c/{channelId}", handler.channelSubscribers)
	router.Get("/u/{subscriberId}", handler.subscribedChannels)
	router.With(middleware.RequireAuth).Post("/c/{channelId}", handler.toggleSubscription)

	return router
}

/*
POST /api/v1/subscriptions/c/{channelId}.

Response:
  - 200: {present: bool, subscribed: bool}
  - 400: Malformed or unknown channel, or the caller's own channel
*/
func (handler *Handler) toggleSubscription(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredPrincipalID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	subscribed, err := handler.subscriptionService.ToggleSubscription(request.Context(), userID, requestutil.Param(request, "channelId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := "Unsubscribed successfully"
	if subscribed {
		message = "Subscribed successfully"
	}
	respond.OK(writer, map[string]bool{"present": subscribed, "subscribed": subscribed}, message)
}

/*
GET /api/v1/subscriptions/c/{channelId}.

Response:
  - 200: pagination.Page[Subscriber]
  - 400: Malformed channel id
*/
func (handler *Handler) channelSubscribers(writer http.ResponseWriter, request *http.Request) {
	channelID, err := requestutil.PathID(request, "channelId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.subscriptionService.ChannelSubscribers(request.Context(), channelID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page, "Subscribers fetched successfully")
}

/*
GET /api/v1/subscriptions/u/{subscriberId}.

Response:
  - 200: pagination.Page[SubscribedChannel]
  - 400: Malformed subscriber id
*/
func (handler *Handler) subscribedChannels(writer http.ResponseWriter, request *http.Request) {
	subscriberID, err := requestutil.PathID(request, "subscriberId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.subscriptionService.SubscribedChannels(request.Context(), subscriberID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page, "Subscribed channels fetched successfully")
}
