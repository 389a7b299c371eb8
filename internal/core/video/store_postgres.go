// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

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

// PostgresVideoRepository implements [VideoRepository] using pgx.
type PostgresVideoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new Postgres implementation of the VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// # Helpers

func videoColumns() []string {
	video := schema.CoreVideo
	return []string{
		video.ID, video.OwnerID, video.Title, video.Description,
		video.VideoFileURL, video.VideoFileKey, video.ThumbnailURL, video.ThumbnailKey,
		video.Duration, video.Views, video.IsPublished, video.CreatedAt, video.UpdatedAt,
	}
}

func scanVideo(row pgx.Row) (*Video, error) {
	video := &Video{}
	err := row.Scan(
		&video.ID,
		&video.Owner,
		&video.Title,
		&video.Description,
		&video.VideoFileURL,
		&video.VideoFileKey,
		&video.ThumbnailURL,
		&video.ThumbnailKey,
		&video.Duration,
		&video.Views,
		&video.IsPublished,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Video")
		}
		return nil, err
	}
	return video, nil
}

var likePattern = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term literally.
func containsPattern(term string) string {
	return "%" + likePattern.Replace(term) + "%"
}

// # Reads

/*
FindByID loads the stored row.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Video
  - error: apperr.NotFound or database failure
*/
func (repository *PostgresVideoRepository) FindByID(context context.Context, id string) (*Video, error) {
	statement := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(videoColumns(), ", "), schema.CoreVideo.Table, schema.CoreVideo.ID)

	video, err := scanVideo(repository.pool.QueryRow(context, statement, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_video_by_id")
	}
	return video, nil
}

/*
List renders the published listing.

Description: Search matches title or description case-insensitively. The id
breaks ties so pages stay stable under equal sort keys.

Parameters:
  - context: context.Context
  - filter: Filter
  - params: pagination.Params

Returns:
  - []Summary
  - int: Total matches
  - error: Database failure
*/
func (repository *PostgresVideoRepository) List(context context.Context, filter Filter, params pagination.Params) ([]Summary, int, error) {
	video := schema.CoreVideo
	pattern := containsPattern(filter.Query)

	builder := query.Select(view.VideoCardColumns("v", "o")...).
		Column(view.LikesCount(schema.LikeTargetVideo, "v."+video.ID)).
		From(video.Table+" v").
		Join(view.JoinOwner("o", "v."+video.OwnerID)).
		Where("v."+video.IsPublished+" = ?", true).
		WhereIf(filter.Query != "", fmt.Sprintf("v.%s ILIKE ? OR v.%s ILIKE ?", video.Title, video.Description), pattern, pattern).
		WhereIf(filter.UserID != "", "v."+video.OwnerID+" = ?", filter.UserID).
		OrderBy(filter.Sort.Column, filter.Sort.Direction).
		OrderBy("v."+video.ID, query.Desc).
		WithTotal().
		Paginate(params.Limit, params.Offset())

	sql, args := builder.Build()

	rows, err := repository.pool.Query(context, sql, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_videos")
	}
	defer rows.Close()

	var (
		items []Summary
		total int
	)
	for rows.Next() {
		var item Summary
		targets := append(item.Targets(), &item.LikesCount, &total)
		if err := rows.Scan(targets...); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_video_summary")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_videos")
	}

	total, err = postgres.PageTotal(context, repository.pool, builder, len(items), total)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_videos_count")
	}
	return items, total, nil
}

/*
Detail builds the watch page.

Parameters:
  - context: context.Context
  - id: string
  - viewerID: string ("" for anonymous)

Returns:
  - *Detail
  - error: apperr.NotFound or database failure
*/
func (repository *PostgresVideoRepository) Detail(context context.Context, id, viewerID string) (*Detail, error) {
	video := schema.CoreVideo
	viewer := view.Viewer(viewerID)

	builder := query.Select(
		"v."+video.ID, "v."+video.Title, "v."+video.Description, "v."+video.VideoFileURL,
		"v."+video.ThumbnailURL, "v."+video.Duration, "v."+video.Views, "v."+video.IsPublished,
		"v."+video.CreatedAt,
		view.LikesCount(schema.LikeTargetVideo, "v."+video.ID),
	).
		Column(view.IsLiked(schema.LikeTargetVideo, "v."+video.ID), viewer)

	for _, column := range view.OwnerColumns("o") {
		builder.Column(column)
	}

	sql, args := builder.
		Column(view.SubscribersCount("o."+schema.UserAccount.ID)).
		Column(view.IsSubscribed("o."+schema.UserAccount.ID), viewer).
		From(video.Table+" v").
		Join(view.JoinOwner("o", "v."+video.OwnerID)).
		Where("v."+video.ID+" = ?", id).
		Build()

	detail := &Detail{}
	targets := append([]any{
		&detail.ID, &detail.Title, &detail.Description, &detail.VideoFile,
		&detail.Thumbnail, &detail.Duration, &detail.Views, &detail.IsPublished,
		&detail.CreatedAt, &detail.LikesCount, &detail.IsLiked,
	}, detail.Owner.Targets()...)
	targets = append(targets, &detail.Owner.SubscribersCount, &detail.Owner.IsSubscribed)

	if err := repository.pool.QueryRow(context, sql, args...).Scan(targets...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Video")
		}
		return nil, dberr.Wrap(err, "video_detail")
	}
	return detail, nil
}

// # Writes

/*
RecordView increments the view counter and refreshes the viewer's history.

Description: array_remove before array_append keeps the history free of
duplicates with the latest view last.

Parameters:
  - context: context.Context
  - id: string
  - viewerID: string

Returns:
  - error: Database failure
*/
func (repository *PostgresVideoRepository) RecordView(context context.Context, id, viewerID string) error {
	video, account := schema.CoreVideo, schema.UserAccount

	countView := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1`,
		video.Table, video.Views, video.Views, video.ID)

	pushHistory := fmt.Sprintf(`UPDATE %s SET %s = array_append(array_remove(%s, $1::uuid), $1::uuid) WHERE %s = $2`,
		account.Table, account.WatchHistory, account.WatchHistory, account.ID)

	err := postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(context, countView, id); err != nil {
			return err
		}
		_, err := tx.Exec(context, pushHistory, id, viewerID)
		return err
	})
	if err != nil {
		return dberr.Wrap(err, "record_video_view")
	}
	return nil
}

// Create inserts a new video row.
func (repository *PostgresVideoRepository) Create(context context.Context, video *Video) error {
	columns := videoColumns()
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	statement := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		schema.CoreVideo.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	_, err := repository.pool.Exec(context, statement,
		video.ID, video.Owner, video.Title, video.Description,
		video.VideoFileURL, video.VideoFileKey, video.ThumbnailURL, video.ThumbnailKey,
		video.Duration, video.Views, video.IsPublished, video.CreatedAt, video.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_video")
	}
	return nil
}

/*
Update writes the editable fields. The thumbnail columns change only when a
new object is supplied.

Parameters:
  - context: context.Context
  - id: string
  - changes: Changes

Returns:
  - *Video: The row as updated
  - error: apperr.NotFound or database failure
*/
func (repository *PostgresVideoRepository) Update(context context.Context, id string, changes Changes) (*Video, error) {
	video := schema.CoreVideo

	assignments := []string{
		video.Title + " = $2",
		video.Description + " = $3",
		video.UpdatedAt + " = NOW()",
	}
	args := []any{id, changes.Title, changes.Description}

	if changes.Thumbnail != nil {
		assignments = append(assignments, video.ThumbnailURL+" = $4", video.ThumbnailKey+" = $5")
		args = append(args, changes.Thumbnail.URL, changes.Thumbnail.Key)
	}

	statement := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1 RETURNING %s`,
		video.Table, strings.Join(assignments, ", "), video.ID, strings.Join(videoColumns(), ", "))

	updated, err := scanVideo(repository.pool.QueryRow(context, statement, args...))
	if err != nil {
		return nil, dberr.Wrap(err, "update_video")
	}
	return updated, nil
}

// TogglePublish flips ispublished in place.
func (repository *PostgresVideoRepository) TogglePublish(context context.Context, id string) (*Video, error) {
	video := schema.CoreVideo
	statement := fmt.Sprintf(`UPDATE %s SET %s = NOT %s, %s = NOW() WHERE %s = $1 RETURNING %s`,
		video.Table, video.IsPublished, video.IsPublished, video.UpdatedAt, video.ID,
		strings.Join(videoColumns(), ", "))

	updated, err := scanVideo(repository.pool.QueryRow(context, statement, id))
	if err != nil {
		return nil, dberr.Wrap(err, "toggle_video_publish")
	}
	return updated, nil
}

/*
Delete removes the video with its dependent edges in one transaction.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or database failure
*/
func (repository *PostgresVideoRepository) Delete(context context.Context, id string) error {
	like, comment, account, video := schema.SocialLike, schema.CoreComment, schema.UserAccount, schema.CoreVideo

	statements := []string{
		fmt.Sprintf(`DELETE FROM %s WHERE %s = '%s' AND %s IN (SELECT %s FROM %s WHERE %s = $1)`,
			like.Table, like.TargetKind, schema.LikeTargetComment, like.TargetID,
			comment.ID, comment.Table, comment.VideoID),
		fmt.Sprintf(`DELETE FROM %s WHERE %s = '%s' AND %s = $1`,
			like.Table, like.TargetKind, schema.LikeTargetVideo, like.TargetID),
		fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, comment.Table, comment.VideoID),
		fmt.Sprintf(`UPDATE %s SET %s = array_remove(%s, $1::uuid) WHERE $1::uuid = ANY(%s)`,
			account.Table, account.WatchHistory, account.WatchHistory, account.WatchHistory),
	}
	deleteVideo := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, video.Table, video.ID)

	err := postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		for _, statement := range statements {
			if _, err := tx.Exec(context, statement, id); err != nil {
				return err
			}
		}

		tag, err := tx.Exec(context, deleteVideo, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Video")
		}
		return nil
	})
	if err != nil {
		return dberr.Wrap(err, "delete_video")
	}
	return nil
}
