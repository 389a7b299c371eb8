// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles profile management and the channel-facing views of a
principal.

It lets users view and update their identity data (details, avatar, cover
image), exposes the public channel profile, and lists the watch history.

# Architecture

  - Entities: ChannelProfile, HistoryEntry (read models).
  - Domain: This package depends on the auth package for the User entity.
  - Media: Replaced avatar and cover objects are deleted after the row update.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/vidtube/internal/core/view"
	"github.com/taibuivan/vidtube/internal/platform/storage"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

// # Read Models

// ChannelProfile is a principal seen as a publisher.
type ChannelProfile struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	FullName          string `json:"fullName"`
	Avatar            string `json:"avatar"`
	CoverImage        string `json:"coverImage"`
	SubscribersCount  int    `json:"subscribersCount"`
	SubscribedToCount int    `json:"channelsSubscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}

// HistoryEntry is one watched video.
type HistoryEntry struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	VideoFile   string     `json:"videoFile"`
	Thumbnail   string     `json:"thumbnail"`
	Duration    float64    `json:"duration"`
	Views       int64      `json:"views"`
	CreatedAt   time.Time  `json:"createdAt"`
	Owner       view.Owner `json:"owner"`
}

// MediaSlot names an image column pair of users.account.
type MediaSlot int

const (
	SlotAvatar MediaSlot = iota
	SlotCoverImage
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		UpdateDetails replaces the full name and email.

		Parameters:
		  - context: context.Context
		  - id: string
		  - fullName: string
		  - email: string (normalized)

		Returns:
		  - *auth.User: Updated entity
		  - error: apperr.Conflict if the email is taken, apperr.NotFound
	*/
	UpdateDetails(context context.Context, id, fullName, email string) (*auth.User, error)

	/*
		ReplaceMedia points an image slot at a new object.

		Parameters:
		  - context: context.Context
		  - id: string
		  - slot: MediaSlot
		  - object: storage.Object

		Returns:
		  - string: Key of the replaced object ("" if none)
		  - error: apperr.NotFound or storage failures
	*/
	ReplaceMedia(context context.Context, id string, slot MediaSlot, object storage.Object) (string, error)

	/*
		ChannelProfile builds the channel view of a username.

		Parameters:
		  - context: context.Context
		  - username: string (normalized)
		  - viewerID: string ("" for anonymous)

		Returns:
		  - *ChannelProfile: Aggregated view
		  - error: apperr.NotFound if no such channel
	*/
	ChannelProfile(context context.Context, username, viewerID string) (*ChannelProfile, error)

	/*
		WatchHistory lists watched videos, most recent first.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []HistoryEntry: Watched videos still visible to the user
		  - error: Retrieval errors
	*/
	WatchHistory(context context.Context, userID string) ([]HistoryEntry, error)
}
