// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription

import (
	"context"
	"fmt"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/social/toggle"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

// Service coordinates subscription toggles and listings.
type Service struct {
	toggles Toggler
	repo    SubscriptionRepository
}

// NewService constructs a new subscription [Service].
func NewService(toggles Toggler, repo SubscriptionRepository) *Service {
	return &Service{toggles: toggles, repo: repo}
}

/*
ToggleSubscription subscribes the caller to a channel, or unsubscribes.

Parameters:
  - context: context.Context
  - userID: string
  - channelID: string

Returns:
  - bool: True if the caller is now subscribed
  - error: apperr.InvalidArgument for unknown channels or the caller's own
*/
func (service *Service) ToggleSubscription(context context.Context, userID, channelID string) (bool, error) {
	if userID == channelID {
		return false, apperr.InvalidArgument("You cannot subscribe to your own channel")
	}

	result, err := service.toggles.Toggle(context, userID, channelID, toggle.Subscription)
	if err != nil {
		return false, err
	}
	return result.Present, nil
}

// ChannelSubscribers returns one page of a channel's subscribers.
func (service *Service) ChannelSubscribers(context context.Context, channelID string, params pagination.Params) (pagination.Page[Subscriber], error) {
	items, total, err := service.repo.Subscribers(context, channelID, params)
	if err != nil {
		return pagination.Page[Subscriber]{}, fmt.Errorf("subscription_service_subscribers_failed: %w", err)
	}
	return pagination.NewPage(items, params, total), nil
}

// SubscribedChannels returns one page of the channels a principal follows.
func (service *Service) SubscribedChannels(context context.Context, subscriberID string, params pagination.Params) (pagination.Page[SubscribedChannel], error) {
	items, total, err := service.repo.SubscribedChannels(context, subscriberID, params)
	if err != nil {
		return pagination.Page[SubscribedChannel]{}, fmt.Errorf("subscription_service_channels_failed: %w", err)
	}
	return pagination.NewPage(items, params, total), nil
}
