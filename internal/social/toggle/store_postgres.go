// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package toggle

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
	"github.com/taibuivan/vidtube/internal/platform/postgres"
)

// edgeTable maps a kind onto its relational layout.
type edgeTable struct {
	table        string
	actorColumn  string
	targetColumn string

	// discriminator is the social.like.targetkind value; "" for tables
	// holding a single kind.
	discriminator string

	targetTable string
}

var edgeTables = map[Kind]edgeTable{
	VideoLike: {
		table: schema.SocialLike.Table, actorColumn: schema.SocialLike.LikedBy, targetColumn: schema.SocialLike.TargetID,
		discriminator: schema.LikeTargetVideo, targetTable: schema.CoreVideo.Table,
	},
	CommentLike: {
		table: schema.SocialLike.Table, actorColumn: schema.SocialLike.LikedBy, targetColumn: schema.SocialLike.TargetID,
		discriminator: schema.LikeTargetComment, targetTable: schema.CoreComment.Table,
	},
	TweetLike: {
		table: schema.SocialLike.Table, actorColumn: schema.SocialLike.LikedBy, targetColumn: schema.SocialLike.TargetID,
		discriminator: schema.LikeTargetTweet, targetTable: schema.CoreTweet.Table,
	},
	Subscription: {
		table: schema.SocialSubscription.Table, actorColumn: schema.SocialSubscription.SubscriberID,
		targetColumn: schema.SocialSubscription.ChannelID, targetTable: schema.UserAccount.Table,
	},
}

// keyCondition renders the composite key predicate and its arguments.
func (edge edgeTable) keyCondition(actorID, targetID string) (string, []any) {
	if edge.discriminator == "" {
		return fmt.Sprintf("%s = $1 AND %s = $2", edge.actorColumn, edge.targetColumn),
			[]any{actorID, targetID}
	}
	return fmt.Sprintf("%s = $1 AND %s = $2 AND %s = $3", edge.actorColumn, edge.targetColumn, schema.SocialLike.TargetKind),
		[]any{actorID, targetID, edge.discriminator}
}

// insertStatement binds the same arguments as keyCondition.
func (edge edgeTable) insertStatement() string {
	if edge.discriminator == "" {
		return fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			edge.table, edge.actorColumn, edge.targetColumn)
	}
	return fmt.Sprintf("INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		edge.table, edge.actorColumn, edge.targetColumn, schema.SocialLike.TargetKind)
}

// PostgresEdgeStore implements [EdgeStore] using pgx.
type PostgresEdgeStore struct {
	pool *pgxpool.Pool
}

// NewEdgeStore creates a new Postgres implementation of the EdgeStore.
func NewEdgeStore(pool *pgxpool.Pool) *PostgresEdgeStore {
	return &PostgresEdgeStore{pool: pool}
}

// visibilityStatement renders the existence check for a kind's target.
// Video and comment likes also require the video to be published or owned by
// the actor; the other kinds bind only the target id.
func visibilityStatement(kind Kind, actorID, targetID string) (string, []any, error) {
	video := schema.CoreVideo
	visibleVideo := fmt.Sprintf("(v.%s OR v.%s = $2)", video.IsPublished, video.OwnerID)

	switch kind {
	case VideoLike:
		return fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s v WHERE v.%s = $1 AND %s)",
			video.Table, video.ID, visibleVideo), []any{targetID, actorID}, nil
	case CommentLike:
		comment := schema.CoreComment
		return fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s c JOIN %s v ON v.%s = c.%s WHERE c.%s = $1 AND %s)",
			comment.Table, video.Table, video.ID, comment.VideoID, comment.ID, visibleVideo), []any{targetID, actorID}, nil
	}

	edge, ok := edgeTables[kind]
	if !ok {
		return "", nil, fmt.Errorf("toggle: no table for kind %q", kind)
	}
	return fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", edge.targetTable), []any{targetID}, nil
}

/*
TargetVisible checks the target table by primary key, applying the video
publication rule for video and comment likes.

Parameters:
  - context: context.Context
  - kind: Kind
  - actorID: string
  - targetID: string

Returns:
  - bool: True if present and visible to actorID
  - error: Database errors
*/
func (store *PostgresEdgeStore) TargetVisible(context context.Context, kind Kind, actorID, targetID string) (bool, error) {
	statement, args, err := visibilityStatement(kind, actorID, targetID)
	if err != nil {
		return false, err
	}

	var visible bool
	if err := store.pool.QueryRow(context, statement, args...).Scan(&visible); err != nil {
		return false, dberr.Wrap(err, "toggle_target_visible")
	}
	return visible, nil
}

/*
Toggle deletes the edge, or inserts it when nothing was deleted.

Description: Both statements run in one transaction. The primary key makes a
concurrent insert of the same tuple a no-op, which still leaves the edge
present.

Parameters:
  - context: context.Context
  - kind: Kind
  - actorID: string
  - targetID: string

Returns:
  - bool: Presence after the toggle
  - error: Database errors
*/
func (store *PostgresEdgeStore) Toggle(context context.Context, kind Kind, actorID, targetID string) (bool, error) {
	edge, ok := edgeTables[kind]
	if !ok {
		return false, fmt.Errorf("toggle: no table for kind %q", kind)
	}

	condition, args := edge.keyCondition(actorID, targetID)
	deleteStatement := fmt.Sprintf("DELETE FROM %s WHERE %s RETURNING %s", edge.table, condition, edge.actorColumn)
	insertStatement := edge.insertStatement()

	var present bool
	err := postgres.InTx(context, store.pool, func(tx pgx.Tx) error {
		var removed string
		err := tx.QueryRow(context, deleteStatement, args...).Scan(&removed)
		switch {
		case err == nil:
			present = false
			return nil
		case !errors.Is(err, pgx.ErrNoRows):
			return err
		}

		if _, err := tx.Exec(context, insertStatement, args...); err != nil {
			return err
		}
		present = true
		return nil
	})
	if err != nil {
		return false, dberr.Wrap(err, "toggle_edge")
	}

	return present, nil
}
