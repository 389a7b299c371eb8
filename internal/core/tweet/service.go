// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tweet

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

// Service orchestrates tweets.
type Service struct {
	tweetRepo TweetRepository
}

// NewService constructs a new tweet [Service].
func NewService(tweetRepo TweetRepository) *Service {
	return &Service{tweetRepo: tweetRepo}
}

// CreateTweet publishes a tweet on the caller's channel.
func (service *Service) CreateTweet(context context.Context, ownerID, content string) (*Tweet, error) {
	content = strings.TrimSpace(content)
	if err := validateContent(content); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tweet := &Tweet{ID: uuid.New(), Owner: ownerID, Content: content, CreatedAt: now, UpdatedAt: now}

	if err := service.tweetRepo.Create(context, tweet); err != nil {
		return nil, fmt.Errorf("tweet_service_create_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "tweet_created", slog.String("tweet_id", tweet.ID), slog.String("owner_id", ownerID))
	return tweet, nil
}

/*
UserTweets returns one page of a user's tweets as seen by viewerID.

Parameters:
  - context: context.Context
  - userID: string
  - viewerID: string
  - params: pagination.Params

Returns:
  - pagination.Page[Summary]
  - error: apperr.NotFound for unknown users
*/
func (service *Service) UserTweets(context context.Context, userID, viewerID string, params pagination.Params) (pagination.Page[Summary], error) {
	exists, err := service.tweetRepo.AuthorExists(context, userID)
	if err != nil {
		return pagination.Page[Summary]{}, fmt.Errorf("tweet_service_author_lookup_failed: %w", err)
	}
	if !exists {
		return pagination.Page[Summary]{}, apperr.NotFound("User")
	}

	items, total, err := service.tweetRepo.ListByOwner(context, userID, viewerID, params)
	if err != nil {
		return pagination.Page[Summary]{}, fmt.Errorf("tweet_service_list_failed: %w", err)
	}
	return pagination.NewPage(items, params, total), nil
}

// UpdateTweet rewrites a tweet owned by the caller.
func (service *Service) UpdateTweet(context context.Context, principalID, id, content string) (*Tweet, error) {
	content = strings.TrimSpace(content)
	if err := validateContent(content); err != nil {
		return nil, err
	}

	if err := service.authorize(context, principalID, id); err != nil {
		return nil, err
	}

	updated, err := service.tweetRepo.UpdateContent(context, id, content)
	if err != nil {
		return nil, fmt.Errorf("tweet_service_update_failed: %w", err)
	}
	return updated, nil
}

// DeleteTweet removes a tweet owned by the caller together with its likes.
func (service *Service) DeleteTweet(context context.Context, principalID, id string) error {
	if err := service.authorize(context, principalID, id); err != nil {
		return err
	}

	if err := service.tweetRepo.Delete(context, id); err != nil {
		return fmt.Errorf("tweet_service_delete_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "tweet_deleted", slog.String("tweet_id", id))
	return nil
}

func (service *Service) authorize(context context.Context, principalID, id string) error {
	current, err := service.tweetRepo.FindByID(context, id)
	if err != nil {
		return err
	}
	return sec.AuthorizeOwner(principalID, current)
}

func validateContent(content string) error {
	validator := &validate.Validator{}
	return validator.Required(FieldContent, content).
		MaxLen(FieldContent, content, MaxContentLength).
		Err()
}
