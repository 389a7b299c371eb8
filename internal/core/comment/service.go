// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/validate"
	"github.com/taibuivan/vidtube/pkg/pagination"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// Service orchestrates comment threads.
type Service struct {
	commentRepo CommentRepository
}

// NewService constructs a new comment [Service].
func NewService(commentRepo CommentRepository) *Service {
	return &Service{commentRepo: commentRepo}
}

/*
ListComments returns one page of a video's comments as seen by viewerID.

Parameters:
  - context: context.Context
  - videoID: string
  - viewerID: string
  - params: pagination.Params

Returns:
  - pagination.Page[Summary]
  - error: apperr.NotFound if the video is missing or hidden
*/
func (service *Service) ListComments(context context.Context, videoID, viewerID string, params pagination.Params) (pagination.Page[Summary], error) {
	if err := service.requireVisibleVideo(context, videoID, viewerID); err != nil {
		return pagination.Page[Summary]{}, err
	}

	items, total, err := service.commentRepo.List(context, videoID, viewerID, params)
	if err != nil {
		return pagination.Page[Summary]{}, fmt.Errorf("comment_service_list_failed: %w", err)
	}
	return pagination.NewPage(items, params, total), nil
}

/*
AddComment posts a comment on a visible video.

Parameters:
  - context: context.Context
  - ownerID: string
  - videoID: string
  - content: string

Returns:
  - *Comment
  - error: Validation failures, apperr.NotFound for unknown videos
*/
func (service *Service) AddComment(context context.Context, ownerID, videoID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if err := validateContent(content); err != nil {
		return nil, err
	}

	if err := service.requireVisibleVideo(context, videoID, ownerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	comment := &Comment{
		ID:        uuid.New(),
		VideoID:   videoID,
		Owner:     ownerID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.commentRepo.Create(context, comment); err != nil {
		return nil, fmt.Errorf("comment_service_add_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "comment_added", slog.String("comment_id", comment.ID), slog.String("video_id", videoID))
	return comment, nil
}

/*
UpdateComment rewrites a comment owned by the caller.

Parameters:
  - context: context.Context
  - principalID: string
  - id: string
  - content: string

Returns:
  - *Comment
  - error: apperr.Forbidden for non-owners
*/
func (service *Service) UpdateComment(context context.Context, principalID, id, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if err := validateContent(content); err != nil {
		return nil, err
	}

	if err := service.authorize(context, principalID, id); err != nil {
		return nil, err
	}

	updated, err := service.commentRepo.UpdateContent(context, id, content)
	if err != nil {
		return nil, fmt.Errorf("comment_service_update_failed: %w", err)
	}
	return updated, nil
}

// DeleteComment removes a comment owned by the caller together with its likes.
func (service *Service) DeleteComment(context context.Context, principalID, id string) error {
	if err := service.authorize(context, principalID, id); err != nil {
		return err
	}

	if err := service.commentRepo.Delete(context, id); err != nil {
		return fmt.Errorf("comment_service_delete_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "comment_deleted", slog.String("comment_id", id))
	return nil
}

func (service *Service) authorize(context context.Context, principalID, id string) error {
	current, err := service.commentRepo.FindByID(context, id)
	if err != nil {
		return err
	}
	return sec.AuthorizeOwner(principalID, current)
}

func (service *Service) requireVisibleVideo(context context.Context, videoID, viewerID string) error {
	visible, err := service.commentRepo.VideoVisible(context, videoID, viewerID)
	if err != nil {
		return fmt.Errorf("comment_service_video_lookup_failed: %w", err)
	}
	if !visible {
		return apperr.NotFound("Video")
	}
	return nil
}

func validateContent(content string) error {
	validator := &validate.Validator{}
	return validator.Required(FieldContent, content).
		MaxLen(FieldContent, content, MaxContentLength).
		Err()
}
