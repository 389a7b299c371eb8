// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package playlist manages user-curated, ordered collections of videos.

Only published videos count towards a playlist's totals and appear in its
rendered view. Membership rows cascade away with either the playlist or the
video.
*/
package playlist

import (
	"context"
	"time"

	"github.com/taibuivan/vidtube/internal/core/view"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

// # Domain Models

// Playlist is the stored playlist header.
type Playlist struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OwnerID returns the curator.
func (playlist *Playlist) OwnerID() string {
	return playlist.Owner
}

// Summary is a playlist as listed on a channel.
type Summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TotalVideos int       `json:"totalVideos"`
	TotalViews  int64     `json:"totalViews"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Item is one published video inside a playlist.
type Item struct {
	view.VideoCard
	AddedAt time.Time `json:"addedAt"`
}

// Detail is the full playlist view.
type Detail struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	TotalVideos int        `json:"totalVideos"`
	TotalViews  int64      `json:"totalViews"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Owner       view.Owner `json:"owner"`
	Videos      []Item     `json:"videos"`
}

// Draft carries the editable fields.
type Draft struct {
	Name        string
	Description string
}

const (
	FieldName        = "name"
	FieldDescription = "description"

	MaxNameLength        = 100
	MaxDescriptionLength = 1000
)

// # Repository

// PlaylistRepository defines the persistence contract for playlists.
type PlaylistRepository interface {
	OwnerExists(context context.Context, userID string) (bool, error)

	// VideoVisible reports whether videoID is published or owned by viewerID.
	VideoVisible(context context.Context, videoID, viewerID string) (bool, error)

	FindByID(context context.Context, id string) (*Playlist, error)

	/*
		Detail renders the playlist with its owner and published videos.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Detail: Videos in insertion order
		  - error: apperr.NotFound if the playlist is missing
	*/
	Detail(context context.Context, id string) (*Detail, error)

	ListByOwner(context context.Context, ownerID string, params pagination.Params) ([]Summary, int, error)

	Create(context context.Context, playlist *Playlist) error
	Update(context context.Context, id string, draft Draft) (*Playlist, error)
	Delete(context context.Context, id string) error

	// AddVideo is idempotent; an existing membership keeps its position.
	AddVideo(context context.Context, playlistID, videoID string) (*Playlist, error)

	// RemoveVideo is idempotent.
	RemoveVideo(context context.Context, playlistID, videoID string) (*Playlist, error)
}
