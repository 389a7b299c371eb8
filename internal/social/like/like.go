// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package like manages likes on videos, comments and tweets.

Toggling is delegated to the relationship engine in [toggle]; this package
adds the HTTP surface and the liked-videos listing.
*/
package like

import (
	"context"
	"time"

	"github.com/taibuivan/vidtube/internal/core/view"
	"github.com/taibuivan/vidtube/internal/social/toggle"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

// LikedVideo is a video the principal liked.
type LikedVideo struct {
	view.VideoCard
	LikedAt time.Time `json:"likedAt"`
}

// Toggler flips relationship edges.
type Toggler interface {
	Toggle(context context.Context, actorID, targetID string, kind toggle.Kind) (toggle.Result, error)
}

// LikeRepository reads like-derived views.
type LikeRepository interface {

	/*
		LikedVideos lists the videos a principal liked, most recent like first.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - params: pagination.Params

		Returns:
		  - []LikedVideo: The requested page
		  - int: Total number of liked videos
		  - error: Retrieval failures
	*/
	LikedVideos(context context.Context, userID string, params pagination.Params) ([]LikedVideo, int, error)
}
