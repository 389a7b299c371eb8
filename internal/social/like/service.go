// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package like

import (
	"context"
	"fmt"

	"github.com/taibuivan/vidtube/internal/social/toggle"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

// Service coordinates like toggles and listings.
type Service struct {
	toggles Toggler
	repo    LikeRepository
}

// NewService constructs a new like [Service].
func NewService(toggles Toggler, repo LikeRepository) *Service {
	return &Service{toggles: toggles, repo: repo}
}

// ToggleVideoLike flips the caller's like on a video and reports whether it is now liked.
func (service *Service) ToggleVideoLike(context context.Context, userID, videoID string) (bool, error) {
	return service.toggle(context, userID, videoID, toggle.VideoLike)
}

// ToggleCommentLike flips the caller's like on a comment.
func (service *Service) ToggleCommentLike(context context.Context, userID, commentID string) (bool, error) {
	return service.toggle(context, userID, commentID, toggle.CommentLike)
}

// ToggleTweetLike flips the caller's like on a tweet.
func (service *Service) ToggleTweetLike(context context.Context, userID, tweetID string) (bool, error) {
	return service.toggle(context, userID, tweetID, toggle.TweetLike)
}

func (service *Service) toggle(context context.Context, userID, targetID string, kind toggle.Kind) (bool, error) {
	result, err := service.toggles.Toggle(context, userID, targetID, kind)
	if err != nil {
		return false, err
	}
	return result.Present, nil
}

/*
LikedVideos returns one page of the caller's liked videos.

Parameters:
  - context: context.Context
  - userID: string
  - params: pagination.Params

Returns:
  - pagination.Page[LikedVideo]
  - error: Retrieval failures
*/
func (service *Service) LikedVideos(context context.Context, userID string, params pagination.Params) (pagination.Page[LikedVideo], error) {
	items, total, err := service.repo.LikedVideos(context, userID, params)
	if err != nil {
		return pagination.Page[LikedVideo]{}, fmt.Errorf("like_service_liked_videos_failed: %w", err)
	}
	return pagination.NewPage(items, params, total), nil
}
