// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tweet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidtube/internal/core/view"
	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
	"github.com/taibuivan/vidtube/internal/platform/postgres"
	"github.com/taibuivan/vidtube/pkg/pagination"
	"github.com/taibuivan/vidtube/pkg/query"
)

// PostgresTweetRepository implements [TweetRepository] using pgx.
type PostgresTweetRepository struct {
	pool *pgxpool.Pool
}

// NewTweetRepository creates a new Postgres implementation of the TweetRepository.
func NewTweetRepository(pool *pgxpool.Pool) *PostgresTweetRepository {
	return &PostgresTweetRepository{pool: pool}
}

func tweetColumns() string {
	tweet := schema.CoreTweet
	return strings.Join([]string{tweet.ID, tweet.OwnerID, tweet.Content, tweet.CreatedAt, tweet.UpdatedAt}, ", ")
}

func scanTweet(row pgx.Row) (*Tweet, error) {
	tweet := &Tweet{}
	if err := row.Scan(&tweet.ID, &tweet.Owner, &tweet.Content, &tweet.CreatedAt, &tweet.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Tweet")
		}
		return nil, err
	}
	return tweet, nil
}

// AuthorExists probes users.account by primary key.
func (repository *PostgresTweetRepository) AuthorExists(context context.Context, userID string) (bool, error) {
	statement := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.UserAccount.Table, schema.UserAccount.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, statement, userID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "tweet_author_exists")
	}
	return exists, nil
}

/*
ListByOwner renders a channel's tweets with like state for the viewer.

Parameters:
  - context: context.Context
  - ownerID: string
  - viewerID: string
  - params: pagination.Params

Returns:
  - []Summary
  - int: Total tweets
  - error: Database failure
*/
func (repository *PostgresTweetRepository) ListByOwner(context context.Context, ownerID, viewerID string, params pagination.Params) ([]Summary, int, error) {
	tweet := schema.CoreTweet

	builder := query.Select(
		"t."+tweet.ID, "t."+tweet.Content, "t."+tweet.CreatedAt, "t."+tweet.UpdatedAt,
		view.LikesCount(schema.LikeTargetTweet, "t."+tweet.ID),
	).
		Column(view.IsLiked(schema.LikeTargetTweet, "t."+tweet.ID), view.Viewer(viewerID))

	for _, column := range view.OwnerColumns("o") {
		builder.Column(column)
	}

	builder.
		From(tweet.Table+" t").
		Join(view.JoinOwner("o", "t."+tweet.OwnerID)).
		Where("t."+tweet.OwnerID+" = ?", ownerID).
		OrderBy("t."+tweet.CreatedAt, query.Desc).
		OrderBy("t."+tweet.ID, query.Desc).
		WithTotal().
		Paginate(params.Limit, params.Offset())

	sql, args := builder.Build()

	rows, err := repository.pool.Query(context, sql, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_user_tweets")
	}
	defer rows.Close()

	var (
		items []Summary
		total int
	)
	for rows.Next() {
		var item Summary
		targets := append([]any{
			&item.ID, &item.Content, &item.CreatedAt, &item.UpdatedAt, &item.LikesCount, &item.IsLiked,
		}, item.Owner.Targets()...)
		if err := rows.Scan(append(targets, &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_tweet")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_user_tweets")
	}

	total, err = postgres.PageTotal(context, repository.pool, builder, len(items), total)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_user_tweets_count")
	}
	return items, total, nil
}

// FindByID loads a tweet.
func (repository *PostgresTweetRepository) FindByID(context context.Context, id string) (*Tweet, error) {
	statement := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, tweetColumns(), schema.CoreTweet.Table, schema.CoreTweet.ID)

	tweet, err := scanTweet(repository.pool.QueryRow(context, statement, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_tweet_by_id")
	}
	return tweet, nil
}

// Create inserts a tweet row.
func (repository *PostgresTweetRepository) Create(context context.Context, tweet *Tweet) error {
	statement := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5)`, schema.CoreTweet.Table, tweetColumns())

	if _, err := repository.pool.Exec(context, statement,
		tweet.ID, tweet.Owner, tweet.Content, tweet.CreatedAt, tweet.UpdatedAt); err != nil {
		return dberr.Wrap(err, "create_tweet")
	}
	return nil
}

// UpdateContent rewrites the tweet text.
func (repository *PostgresTweetRepository) UpdateContent(context context.Context, id, content string) (*Tweet, error) {
	tweet := schema.CoreTweet
	statement := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 RETURNING %s`,
		tweet.Table, tweet.Content, tweet.UpdatedAt, tweet.ID, tweetColumns())

	updated, err := scanTweet(repository.pool.QueryRow(context, statement, id, content))
	if err != nil {
		return nil, dberr.Wrap(err, "update_tweet")
	}
	return updated, nil
}

// Delete removes the tweet and its likes.
func (repository *PostgresTweetRepository) Delete(context context.Context, id string) error {
	like, tweet := schema.SocialLike, schema.CoreTweet

	deleteLikes := fmt.Sprintf(`DELETE FROM %s WHERE %s = '%s' AND %s = $1`,
		like.Table, like.TargetKind, schema.LikeTargetTweet, like.TargetID)
	deleteTweet := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, tweet.Table, tweet.ID)

	err := postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(context, deleteLikes, id); err != nil {
			return err
		}
		tag, err := tx.Exec(context, deleteTweet, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Tweet")
		}
		return nil
	})
	if err != nil {
		return dberr.Wrap(err, "delete_tweet")
	}
	return nil
}
