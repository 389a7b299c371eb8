// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package video defines the video catalogue: uploads, the published listing and
the personalized watch page.

Core Responsibility:

  - Catalogue: Publish, edit, unpublish and delete videos owned by a channel.
  - Discovery: Published listing with search, channel filter and ordering.
  - Watch page: Like and subscription state for the viewer, view counting
    and watch history.

Only the owner may mutate a video. Unpublished videos are visible to their
owner alone.
*/
package video

import (
	"context"
	"time"

	"github.com/taibuivan/vidtube/internal/core/view"
	"github.com/taibuivan/vidtube/internal/platform/storage"
	"github.com/taibuivan/vidtube/pkg/pagination"
	"github.com/taibuivan/vidtube/pkg/query"
)

// # Domain Entities

// Video is a stored upload.
type Video struct {
	ID           string    `json:"id"`
	Owner        string    `json:"owner"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoFileURL string    `json:"videoFile"`
	VideoFileKey string    `json:"-"`
	ThumbnailURL string    `json:"thumbnail"`
	ThumbnailKey string    `json:"-"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// OwnerID returns the publishing channel.
func (video *Video) OwnerID() string {
	return video.Owner
}

// # Read Models

// Summary is one row of the published listing.
type Summary struct {
	view.VideoCard
	LikesCount int `json:"likesCount"`
}

// Channel is the owner projection of the watch page.
type Channel struct {
	view.Owner
	SubscribersCount int  `json:"subscribersCount"`
	IsSubscribed     bool `json:"isSubscribed"`
}

// Detail is the watch page of one video.
type Detail struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	LikesCount  int       `json:"likesCount"`
	IsLiked     bool      `json:"isLiked"`
	Owner       Channel   `json:"owner"`
}

// OwnerID returns the publishing channel.
func (detail *Detail) OwnerID() string {
	return detail.Owner.ID
}

// # Filters & Inputs

// Filter narrows the published listing.
type Filter struct {
	Query  string
	UserID string
	Sort   query.Sort
}

// Draft is a video about to be created.
type Draft struct {
	Title       string
	Description string
	Duration    float64
}

// Changes are the editable fields of a video.
type Changes struct {
	Title       string
	Description string
	Thumbnail   *storage.Object
}

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDuration    = "duration"
	FieldVideoFile   = "videoFile"
	FieldThumbnail   = "thumbnail"
	FieldUserID      = "userId"
	FieldSortBy      = "sortBy"
)

// MaxTitleLength bounds video titles.
const MaxTitleLength = 200

// SortColumns whitelists the fields the listing may be ordered by.
var SortColumns = map[string]string{
	"createdAt": "v.createdat",
	"views":     "v.views",
	"duration":  "v.duration",
	"title":     "v.title",
}

// DefaultSort orders the listing newest first.
var DefaultSort = query.Sort{Column: "v.createdat", Direction: query.Desc}

// # Repository Contracts

// VideoRepository defines the persistence contract for videos.
type VideoRepository interface {

	/*
		FindByID loads the stored row, regardless of visibility.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Video: The stored entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Video, error)

	/*
		List returns one page of published videos.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - params: pagination.Params

		Returns:
		  - []Summary: The requested page
		  - int: Total matches
		  - error: Retrieval failures
	*/
	List(context context.Context, filter Filter, params pagination.Params) ([]Summary, int, error)

	/*
		Detail builds the watch page as seen by viewerID ("" for anonymous).

		Parameters:
		  - context: context.Context
		  - id: string
		  - viewerID: string

		Returns:
		  - *Detail: Video with counts and personalized flags
		  - error: apperr.NotFound or storage failures
	*/
	Detail(context context.Context, id, viewerID string) (*Detail, error)

	// RecordView counts a view and moves the video to the end of the viewer's history.
	RecordView(context context.Context, id, viewerID string) error

	// Create persists a new video.
	Create(context context.Context, video *Video) error

	// Update applies changes and returns the row as updated.
	Update(context context.Context, id string, changes Changes) (*Video, error)

	// TogglePublish flips the published flag and returns the row as updated.
	TogglePublish(context context.Context, id string) (*Video, error)

	/*
		Delete removes the video and every edge pointing at it in one
		transaction: likes on the video, its comments and their likes, and
		its id in every watch history.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	Delete(context context.Context, id string) error
}
