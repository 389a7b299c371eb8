// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package toggle implements idempotent relationship edges (likes and
subscriptions) keyed by (actor, kind, target).

A toggle flips presence: an existing edge is removed, a missing one created.
The store's primary key guarantees at most one edge per tuple no matter how
many toggles race.
*/
package toggle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
	"github.com/taibuivan/vidtube/internal/platform/metrics"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// Kind identifies an edge type.
type Kind string

const (
	VideoLike    Kind = "video_like"
	CommentLike  Kind = "comment_like"
	TweetLike    Kind = "tweet_like"
	Subscription Kind = "subscription"
)

// targetNames names the target of each kind in client messages.
var targetNames = map[Kind]string{
	VideoLike:    "video",
	CommentLike:  "comment",
	TweetLike:    "tweet",
	Subscription: "channel",
}

// Valid reports whether kind is known.
func (kind Kind) Valid() bool {
	_, ok := targetNames[kind]
	return ok
}

// Result is the edge state after a toggle.
type Result struct {
	Present bool `json:"present"`
}

// EdgeStore persists edges.
type EdgeStore interface {

	/*
		TargetVisible reports whether targetID references an entity of the
		kind's target type that actorID is allowed to see. Unpublished videos
		and comments under them are visible to the video owner only.

		Parameters:
		  - context: context.Context
		  - kind: Kind
		  - actorID: string
		  - targetID: string (valid UUID)

		Returns:
		  - bool: True if the target exists and is visible
		  - error: Retrieval errors
	*/
	TargetVisible(context context.Context, kind Kind, actorID, targetID string) (bool, error)

	/*
		Toggle removes the edge if present, otherwise inserts it, atomically.

		Parameters:
		  - context: context.Context
		  - kind: Kind
		  - actorID: string
		  - targetID: string

		Returns:
		  - bool: Presence after the call
		  - error: Persistence errors
	*/
	Toggle(context context.Context, kind Kind, actorID, targetID string) (bool, error)
}

// Engine validates targets and flips edges.
type Engine struct {
	store EdgeStore
}

// NewEngine constructs an [Engine].
func NewEngine(store EdgeStore) *Engine {
	return &Engine{store: store}
}

/*
Toggle flips the (actorID, kind, targetID) edge.

Description: The target is validated before any edge is read, so a malformed,
dangling or hidden id never creates an edge.

Parameters:
  - context: context.Context
  - actorID: string
  - targetID: string
  - kind: Kind

Returns:
  - Result: Presence after the toggle
  - error: apperr.InvalidArgument for a bad kind or target, store failures
*/
func (engine *Engine) Toggle(context context.Context, actorID, targetID string, kind Kind) (Result, error) {
	targetName, ok := targetNames[kind]
	if !ok {
		return Result{}, apperr.InvalidArgument("Unknown relationship kind")
	}

	if !uuid.Valid(targetID) {
		return Result{}, apperr.InvalidArgument(fmt.Sprintf("Invalid %s id", targetName))
	}

	visible, err := engine.store.TargetVisible(context, kind, actorID, targetID)
	if err != nil {
		return Result{}, fmt.Errorf("toggle_target_lookup_failed: %w", err)
	}
	if !visible {
		return Result{}, apperr.InvalidArgument(fmt.Sprintf("The %s does not exist", targetName))
	}

	present, err := engine.store.Toggle(context, kind, actorID, targetID)
	if err != nil {
		return Result{}, fmt.Errorf("toggle_edge_failed: %w", err)
	}

	metrics.RecordToggle(string(kind), present)
	ctxutil.GetLogger(context).InfoContext(context, "edge_toggled",
		slog.String("kind", string(kind)),
		slog.String("actor_id", actorID),
		slog.String("target_id", targetID),
		slog.Bool("present", present),
	)

	return Result{Present: present}, nil
}
