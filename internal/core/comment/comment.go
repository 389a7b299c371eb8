// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package comment manages the discussion thread under each video.
package comment

import (
	"context"
	"time"

	"github.com/taibuivan/vidtube/internal/core/view"
	"github.com/taibuivan/vidtube/pkg/pagination"
)

// Comment is one message on a video.
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video"`
	Owner     string    `json:"owner"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnerID returns the author.
func (comment *Comment) OwnerID() string {
	return comment.Owner
}

// Summary is a comment as listed under a video.
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

	// MaxContentLength bounds a single comment.
	MaxContentLength = 1000
)

// CommentRepository defines the persistence contract for comments.
type CommentRepository interface {

	/*
		VideoVisible reports whether the video exists and viewerID may see it
		(published, or owned by the viewer).

		Parameters:
		  - context: context.Context
		  - videoID: string
		  - viewerID: string

		Returns:
		  - bool
		  - error: Storage failures
	*/
	VideoVisible(context context.Context, videoID, viewerID string) (bool, error)

	/*
		List returns the comments of a video, newest first.

		Parameters:
		  - context: context.Context
		  - videoID: string
		  - viewerID: string ("" for anonymous)
		  - params: pagination.Params

		Returns:
		  - []Summary: The requested page
		  - int: Total comments
		  - error: Storage failures
	*/
	List(context context.Context, videoID, viewerID string, params pagination.Params) ([]Summary, int, error)

	// FindByID loads a comment or returns apperr.NotFound.
	FindByID(context context.Context, id string) (*Comment, error)

	// Create persists a new comment.
	Create(context context.Context, comment *Comment) error

	// UpdateContent rewrites the text and returns the updated row.
	UpdateContent(context context.Context, id, content string) (*Comment, error)

	// Delete removes the comment and the likes on it in one transaction.
	Delete(context context.Context, id string) error
}
