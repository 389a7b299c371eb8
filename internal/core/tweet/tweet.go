// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package tweet manages short text posts published on a channel.
package tweet

import (
	"context"
	"time"

	"github.com/taibuivan/vidtube/internal/core/view"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

// Tweet is a short post.
type Tweet struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnerID returns the author.
func (tweet *Tweet) OwnerID() string {
	return tweet.Owner
}

// Summary is a tweet as listed on a channel.
type Summary struct {
	ID         string     `json:"id"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	LikesCount int        `json:"likesCount"`
	IsLiked    bool       `json:"isLiked"`
	Owner      view.Owner `json:"owner"`
}

const (
	FieldContent = "content"

	// MaxContentLength bounds a single tweet.
	MaxContentLength = 280
)

// TweetRepository defines the persistence contract for tweets.
type TweetRepository interface {
	// AuthorExists reports whether userID is a registered principal.
	AuthorExists(context context.Context, userID string) (bool, error)

	/*
		ListByOwner returns a user's tweets, newest first.

		Parameters:
		  - context: context.Context
		  - ownerID: string
		  - viewerID: string ("" for anonymous)
		  - params: pagination.Params

		Returns:
		  - []Summary: The requested page
		  - int: Total tweets
		  - error: Storage failures
	*/
	ListByOwner(context context.Context, ownerID, viewerID string, params pagination.Params) ([]Summary, int, error)

	FindByID(context context.Context, id string) (*Tweet, error)
	Create(context context.Context, tweet *Tweet) error
	UpdateContent(context context.Context, id, content string) (*Tweet, error)

	// Delete removes the tweet and the likes on it in one transaction.
	Delete(context context.Context, id string) error
}
