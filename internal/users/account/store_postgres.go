// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

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
	"github.com/taibuivan/vidtube/internal/platform/storage"
	"github.com/taibuivan/vidtube/internal/users/auth"
	"github.com/taibuivan/vidtube/pkg/query"
)

// # Repository Implementations

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for profile management.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

func scanPublicUser(row pgx.Row) (*auth.User, error) {
	user := &auth.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.AvatarURL,
		&user.AvatarKey,
		&user.CoverImageURL,
		&user.CoverImageKey,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}
	return user, nil
}

// # AccountRepository Methods

/*
FindByID retrieves the public projection of a user.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *auth.User: Hydrated identity entity, without credentials
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	statement := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(schema.UserAccount.PublicColumns(), ", "),
		schema.UserAccount.Table, schema.UserAccount.ID,
	)

	user, err := scanPublicUser(repository.pool.QueryRow(context, statement, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_account_by_id")
	}
	return user, nil
}

/*
UpdateDetails modifies the full name and email in one statement.

Parameters:
  - context: context.Context
  - id: string
  - fullName: string
  - email: string

Returns:
  - *auth.User: The row as updated
  - error: apperr.Conflict, apperr.NotFound or database failure
*/
func (repository *PostgresAccountRepository) UpdateDetails(context context.Context, id, fullName, email string) (*auth.User, error) {
	statement := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.FullName, schema.UserAccount.Email, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		strings.Join(schema.UserAccount.PublicColumns(), ", "),
	)

	user, err := scanPublicUser(repository.pool.QueryRow(context, statement, id, fullName, email))
	if err != nil {
		return nil, dberr.WrapConflict(err, "update_account_details", map[string]string{
			"account_email_key": "Email is already registered",
		})
	}
	return user, nil
}

/*
ReplaceMedia swaps an image slot and reports the key it replaced.

Description: The self-join exposes the pre-update row, so reading the old key
and writing the new one is a single statement.

Parameters:
  - context: context.Context
  - id: string
  - slot: MediaSlot
  - object: storage.Object

Returns:
  - string: Previous object key
  - error: apperr.NotFound or database failure
*/
func (repository *PostgresAccountRepository) ReplaceMedia(context context.Context, id string, slot MediaSlot, object storage.Object) (string, error) {
	urlColumn, keyColumn := schema.UserAccount.AvatarURL, schema.UserAccount.AvatarKey
	if slot == SlotCoverImage {
		urlColumn, keyColumn = schema.UserAccount.CoverImageURL, schema.UserAccount.CoverImageKey
	}

	statement := fmt.Sprintf(`
		UPDATE %s cur
		SET %s = $2, %s = $3, %s = NOW()
		FROM %s prev
		WHERE cur.%s = $1 AND prev.%s = cur.%s
		RETURNING prev.%s`,
		schema.UserAccount.Table,
		urlColumn, keyColumn, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.ID, schema.UserAccount.ID,
		keyColumn,
	)

	var previousKey string
	err := repository.pool.QueryRow(context, statement, id, object.URL, object.Key).Scan(&previousKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound("User")
		}
		return "", dberr.Wrap(err, "replace_account_media")
	}
	return previousKey, nil
}

/*
ChannelProfile aggregates the public channel view.

Parameters:
  - context: context.Context
  - username: string
  - viewerID: string

Returns:
  - *ChannelProfile: Counts and the viewer's subscription flag
  - error: apperr.NotFound or database failure
*/
func (repository *PostgresAccountRepository) ChannelProfile(context context.Context, username, viewerID string) (*ChannelProfile, error) {
	sql, args := query.Select(
		"a."+schema.UserAccount.ID,
		"a."+schema.UserAccount.Username,
		"a."+schema.UserAccount.Email,
		"a."+schema.UserAccount.FullName,
		"a."+schema.UserAccount.AvatarURL,
		"a."+schema.UserAccount.CoverImageURL,
		view.SubscribersCount("a."+schema.UserAccount.ID),
		view.SubscribedToCount("a."+schema.UserAccount.ID),
	).
		Column(view.IsSubscribed("a."+schema.UserAccount.ID), view.Viewer(viewerID)).
		From(schema.UserAccount.Table+" a").
		Where("a."+schema.UserAccount.Username+" = ?", username).
		Build()

	profile := &ChannelProfile{}
	err := repository.pool.QueryRow(context, sql, args...).Scan(
		&profile.ID,
		&profile.Username,
		&profile.Email,
		&profile.FullName,
		&profile.Avatar,
		&profile.CoverImage,
		&profile.SubscribersCount,
		&profile.SubscribedToCount,
		&profile.IsSubscribed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Channel")
		}
		return nil, dberr.Wrap(err, "channel_profile")
	}
	return profile, nil
}

/*
WatchHistory expands the stored id array in reverse viewing order.

Description: Unpublished videos stay visible only to their owner.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []HistoryEntry: Most recent first
  - error: Database failure
*/
func (repository *PostgresAccountRepository) WatchHistory(context context.Context, userID string) ([]HistoryEntry, error) {
	video := schema.CoreVideo
	builder := query.Select(
		"v."+video.ID, "v."+video.Title, "v."+video.Description, "v."+video.VideoFileURL,
		"v."+video.ThumbnailURL, "v."+video.Duration, "v."+video.Views, "v."+video.CreatedAt,
	)
	for _, column := range view.OwnerColumns("o") {
		builder.Column(column)
	}

	sql, args := builder.
		From(fmt.Sprintf("%s a CROSS JOIN LATERAL unnest(a.%s) WITH ORDINALITY AS h(videoid, position)",
			schema.UserAccount.Table, schema.UserAccount.WatchHistory)).
		Join(fmt.Sprintf("JOIN %s v ON v.%s = h.videoid", video.Table, video.ID)).
		Join(view.JoinOwner("o", "v."+video.OwnerID)).
		Where("a."+schema.UserAccount.ID+" = ?", userID).
		Where(fmt.Sprintf("v.%s OR v.%s = a.%s", video.IsPublished, video.OwnerID, schema.UserAccount.ID)).
		OrderBy("h.position", query.Desc).
		Build()

	rows, err := repository.pool.Query(context, sql, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "watch_history")
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		var entry HistoryEntry
		targets := append([]any{
			&entry.ID, &entry.Title, &entry.Description, &entry.VideoFile,
			&entry.Thumbnail, &entry.Duration, &entry.Views, &entry.CreatedAt,
		}, entry.Owner.Targets()...)

		if err := rows.Scan(targets...); err != nil {
			return nil, dberr.Wrap(err, "scan_watch_history")
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "watch_history")
	}
	return entries, nil
}
