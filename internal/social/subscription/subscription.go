// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package subscription manages channel subscriptions.

A subscription is a toggle edge from a subscriber to a channel (another
principal). Listings expose both directions: who subscribes to a channel, and
which channels a principal follows.
*/
package subscription

import (
	"context"
	"time"

	"github.com/taibuivan/vidtube/internal/core/view"
	"github.com/taibuivan/vidtube/internal/social/toggle"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

// # Read Models

// Subscriber is a principal subscribed to the listed channel.
type Subscriber struct {
	view.Owner
	SubscribersCount int       `json:"subscribersCount"`
	SubscribedBack   bool      `json:"subscribedBack"`
	SubscribedAt     time.Time `json:"subscribedAt"`
}

// LatestVideo is the newest published upload of a channel.
type LatestVideo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SubscribedChannel is a channel the listed principal follows.
type SubscribedChannel struct {
	view.Owner
	SubscribersCount int          `json:"subscribersCount"`
	LatestVideo      *LatestVideo `json:"latestVideo"`
	SubscribedAt     time.Time    `json:"subscribedAt"`
}

// Toggler flips relationship edges.
type Toggler interface {
	Toggle(context context.Context, actorID, targetID string, kind toggle.Kind) (toggle.Result, error)
}

// # Repository Contracts

// SubscriptionRepository reads subscription-derived views.
type SubscriptionRepository interface {

	/*
		Subscribers lists the subscribers of a channel, newest first.

		Parameters:
		  - context: context.Context
		  - channelID: string
		  - params: pagination.Params

		Returns:
		  - []Subscriber: The requested page
		  - int: Total subscribers
		  - error: Retrieval failures
	*/
	Subscribers(context context.Context, channelID string, params pagination.Params) ([]Subscriber, int, error)

	/*
		SubscribedChannels lists the channels a principal follows, newest
		subscription first.

		Parameters:
		  - context: context.Context
		  - subscriberID: string
		  - params: pagination.Params

		Returns:
		  - []SubscribedChannel: The requested page
		  - int: Total channels
		  - error: Retrieval failures
	*/
	SubscribedChannels(context context.Context, subscriberID string, params pagination.Params) ([]SubscribedChannel, int, error)
}
