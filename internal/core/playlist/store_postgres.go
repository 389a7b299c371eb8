// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playlist

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

// PostgresPlaylistRepository implements [PlaylistRepository] using pgx.
type PostgresPlaylistRepository struct {
	pool *pgxpool.Pool
}

// NewPlaylistRepository creates a new Postgres implementation of the PlaylistRepository.
func NewPlaylistRepository(pool *pgxpool.Pool) *PostgresPlaylistRepository {
	return &PostgresPlaylistRepository{pool: pool}
}

func playlistColumns() string {
	playlist := schema.CorePlaylist
	return strings.Join([]string{
		playlist.ID, playlist.OwnerID, playlist.Name, playlist.Description, playlist.CreatedAt, playlist.UpdatedAt,
	}, ", ")
}

func scanPlaylist(row pgx.Row) (*Playlist, error) {
	playlist := &Playlist{}
	err := row.Scan(&playlist.ID, &playlist.Owner, &playlist.Name, &playlist.Description,
		&playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Playlist")
		}
		return nil, err
	}
	return playlist, nil
}

// publishedMembers joins the published videos of the playlist in playlistColumn.
func publishedMembers(playlistColumn string) string {
	member, video := schema.CorePlaylistVideo, schema.CoreVideo
	return fmt.Sprintf("FROM %s pm JOIN %s pmv ON pmv.%s = pm.%s WHERE pm.%s = %s AND pmv.%s",
		member.Table, video.Table, video.ID, member.VideoID, member.PlaylistID, playlistColumn, video.IsPublished)
}

// OwnerExists probes users.account by primary key.
func (repository *PostgresPlaylistRepository) OwnerExists(context context.Context, userID string) (bool, error) {
	statement := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.UserAccount.Table, schema.UserAccount.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, statement, userID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "playlist_owner_exists")
	}
	return exists, nil
}

// VideoVisible hides other channels' drafts.
func (repository *PostgresPlaylistRepository) VideoVisible(context context.Context, videoID, viewerID string) (bool, error) {
	video := schema.CoreVideo
	statement := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND (%s OR %s = $2))`,
		video.Table, video.ID, video.IsPublished, video.OwnerID)

	var visible bool
	if err := repository.pool.QueryRow(context, statement, videoID, view.Viewer(viewerID)).Scan(&visible); err != nil {
		return false, dberr.Wrap(err, "playlist_video_visible")
	}
	return visible, nil
}

// FindByID loads the playlist header.
func (repository *PostgresPlaylistRepository) FindByID(context context.Context, id string) (*Playlist, error) {
	statement := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		playlistColumns(), schema.CorePlaylist.Table, schema.CorePlaylist.ID)

	playlist, err := scanPlaylist(repository.pool.QueryRow(context, statement, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_playlist_by_id")
	}
	return playlist, nil
}

/*
Detail runs two statements: the header with totals and owner, then the
published videos in insertion order.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Detail
  - error: NotFound or database failure
*/
func (repository *PostgresPlaylistRepository) Detail(context context.Context, id string) (*Detail, error) {
	playlist, video, member := schema.CorePlaylist, schema.CoreVideo, schema.CorePlaylistVideo

	builder := query.Select(
		"p."+playlist.ID, "p."+playlist.Name, "p."+playlist.Description,
		"(SELECT COUNT(*) "+publishedMembers("p."+playlist.ID)+")",
		"(SELECT COALESCE(SUM(pmv."+video.Views+"), 0)::bigint "+publishedMembers("p."+playlist.ID)+")",
		"p."+playlist.CreatedAt, "p."+playlist.UpdatedAt,
	)
	for _, column := range view.OwnerColumns("o") {
		builder.Column(column)
	}

	sql, args := builder.
		From(playlist.Table+" p").
		Join(view.JoinOwner("o", "p."+playlist.OwnerID)).
		Where("p."+playlist.ID+" = ?", id).
		Build()

	detail := &Detail{}
	targets := append([]any{
		&detail.ID, &detail.Name, &detail.Description, &detail.TotalVideos, &detail.TotalViews,
		&detail.CreatedAt, &detail.UpdatedAt,
	}, detail.Owner.Targets()...)

	if err := repository.pool.QueryRow(context, sql, args...).Scan(targets...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Playlist")
		}
		return nil, dberr.Wrap(err, "playlist_detail")
	}

	sql, args = query.Select(view.VideoCardColumns("v", "vo")...).
		Column("pv."+member.AddedAt).
		From(member.Table+" pv").
		Join(fmt.Sprintf("JOIN %s v ON v.%s = pv.%s", video.Table, video.ID, member.VideoID)).
		Join(view.JoinOwner("vo", "v."+video.OwnerID)).
		Where("pv."+member.PlaylistID+" = ?", id).
		Where("v."+video.IsPublished).
		OrderBy("pv."+member.AddedAt, query.Asc).
		OrderBy("v."+video.ID, query.Asc).
		Build()

	rows, err := repository.pool.Query(context, sql, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "playlist_videos")
	}
	defer rows.Close()

	detail.Videos = []Item{}
	for rows.Next() {
		var item Item
		if err := rows.Scan(append(item.Targets(), &item.AddedAt)...); err != nil {
			return nil, dberr.Wrap(err, "scan_playlist_video")
		}
		detail.Videos = append(detail.Videos, item)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "playlist_videos")
	}
	return detail, nil
}

/*
ListByOwner aggregates every playlist of ownerID with published totals.

Parameters:
  - context: context.Context
  - ownerID: string
  - params: pagination.Params

Returns:
  - []Summary: Newest first
  - int: Total playlists
  - error: Database failure
*/
func (repository *PostgresPlaylistRepository) ListByOwner(context context.Context, ownerID string, params pagination.Params) ([]Summary, int, error) {
	playlist, video, member := schema.CorePlaylist, schema.CoreVideo, schema.CorePlaylistVideo

	builder := query.Select(
		"p."+playlist.ID, "p."+playlist.Name, "p."+playlist.Description,
		"COUNT(v."+video.ID+")", "COALESCE(SUM(v."+video.Views+"), 0)::bigint",
		"p."+playlist.CreatedAt, "p."+playlist.UpdatedAt,
	).
		From(playlist.Table+" p").
		Join(fmt.Sprintf("LEFT JOIN %s pv ON pv.%s = p.%s", member.Table, member.PlaylistID, playlist.ID)).
		Join(fmt.Sprintf("LEFT JOIN %s v ON v.%s = pv.%s AND v.%s", video.Table, video.ID, member.VideoID, video.IsPublished)).
		Where("p."+playlist.OwnerID+" = ?", ownerID).
		GroupBy("p."+playlist.ID).
		OrderBy("p."+playlist.CreatedAt, query.Desc).
		OrderBy("p."+playlist.ID, query.Desc).
		WithTotal().
		Paginate(params.Limit, params.Offset())

	sql, args := builder.Build()

	rows, err := repository.pool.Query(context, sql, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_user_playlists")
	}
	defer rows.Close()

	var (
		items []Summary
		total int
	)
	for rows.Next() {
		var item Summary
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.TotalVideos, &item.TotalViews,
			&item.CreatedAt, &item.UpdatedAt, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_playlist")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_user_playlists")
	}

	total, err = postgres.PageTotal(context, repository.pool, builder, len(items), total)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_user_playlists_count")
	}
	return items, total, nil
}

// Create inserts the playlist header.
func (repository *PostgresPlaylistRepository) Create(context context.Context, playlist *Playlist) error {
	statement := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.CorePlaylist.Table, playlistColumns())

	if _, err := repository.pool.Exec(context, statement, playlist.ID, playlist.Owner, playlist.Name,
		playlist.Description, playlist.CreatedAt, playlist.UpdatedAt); err != nil {
		return dberr.Wrap(err, "create_playlist")
	}
	return nil
}

// Update rewrites name and description.
func (repository *PostgresPlaylistRepository) Update(context context.Context, id string, draft Draft) (*Playlist, error) {
	playlist := schema.CorePlaylist
	statement := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = NOW() WHERE %s = $1 RETURNING %s`,
		playlist.Table, playlist.Name, playlist.Description, playlist.UpdatedAt, playlist.ID, playlistColumns())

	updated, err := scanPlaylist(repository.pool.QueryRow(context, statement, id, draft.Name, draft.Description))
	if err != nil {
		return nil, dberr.Wrap(err, "update_playlist")
	}
	return updated, nil
}

// Delete removes the playlist; memberships cascade.
func (repository *PostgresPlaylistRepository) Delete(context context.Context, id string) error {
	statement := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CorePlaylist.Table, schema.CorePlaylist.ID)

	tag, err := repository.pool.Exec(context, statement, id)
	if err != nil {
		return dberr.Wrap(err, "delete_playlist")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Playlist")
	}
	return nil
}

// AddVideo inserts the membership and touches the header.
func (repository *PostgresPlaylistRepository) AddVideo(context context.Context, playlistID, videoID string) (*Playlist, error) {
	member := schema.CorePlaylistVideo
	statement := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, NOW()) ON CONFLICT DO NOTHING`,
		member.Table, member.PlaylistID, member.VideoID, member.AddedAt)

	return repository.changeMembership(context, "add_playlist_video", statement, playlistID, videoID)
}

// RemoveVideo deletes the membership and touches the header.
func (repository *PostgresPlaylistRepository) RemoveVideo(context context.Context, playlistID, videoID string) (*Playlist, error) {
	member := schema.CorePlaylistVideo
	statement := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		member.Table, member.PlaylistID, member.VideoID)

	return repository.changeMembership(context, "remove_playlist_video", statement, playlistID, videoID)
}

func (repository *PostgresPlaylistRepository) changeMembership(context context.Context, action, statement, playlistID, videoID string) (*Playlist, error) {
	playlist := schema.CorePlaylist
	touch := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 RETURNING %s`,
		playlist.Table, playlist.UpdatedAt, playlist.ID, playlistColumns())

	var updated *Playlist
	err := postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(context, statement, playlistID, videoID); err != nil {
			return err
		}

		var err error
		updated, err = scanPlaylist(tx.QueryRow(context, touch, playlistID))
		return err
	})
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return updated, nil
}
