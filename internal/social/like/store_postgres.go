// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package like

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/vidtube/internal/core/view"
	"github.com/taibuivan/vidtube/internal/platform/database/schema"
	"github.com/taibuivan/vidtube/internal/platform/dberr"
	"github.com/taibuivan/vidtube/internal/platform/postgres"
	"github.com/taibuivan/vidtube/pkg/pagination"
	"github.com/taibuivan/vidtube/pkg/query"
)

// PostgresLikeRepository implements [LikeRepository] using pgx.
type PostgresLikeRepository struct {
	pool *pgxpool.Pool
}

// NewLikeRepository creates a new Postgres implementation of the LikeRepository.
func NewLikeRepository(pool *pgxpool.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

/*
LikedVideos joins video likes onto the video card projection.

Description: Unpublished videos are listed only when the caller owns them.

Parameters:
  - context: context.Context
  - userID: string
  - params: pagination.Params

Returns:
  - []LikedVideo: The requested page
  - int: Total count
  - error: Database failure
*/
func (repository *PostgresLikeRepository) LikedVideos(context context.Context, userID string, params pagination.Params) ([]LikedVideo, int, error) {
	like, video := schema.SocialLike, schema.CoreVideo

	builder := query.Select(view.VideoCardColumns("v", "o")...).
		Column("l."+like.CreatedAt).
		From(like.Table+" l").
		Join(fmt.Sprintf("JOIN %s v ON v.%s = l.%s", video.Table, video.ID, like.TargetID)).
		Join(view.JoinOwner("o", "v."+video.OwnerID)).
		Where("l."+like.LikedBy+" = ?", userID).
		Where("l."+like.TargetKind+" = ?", schema.LikeTargetVideo).
		Where(fmt.Sprintf("v.%s OR v.%s = l.%s", video.IsPublished, video.OwnerID, like.LikedBy)).
		OrderBy("l."+like.CreatedAt, query.Desc).
		WithTotal().
		Paginate(params.Limit, params.Offset())

	sql, args := builder.Build()

	rows, err := repository.pool.Query(context, sql, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "liked_videos")
	}
	defer rows.Close()

	var (
		items []LikedVideo
		total int
	)
	for rows.Next() {
		var item LikedVideo
		targets := append(item.Targets(), &item.LikedAt, &total)
		if err := rows.Scan(targets...); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_liked_video")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "liked_videos")
	}

	total, err = postgres.PageTotal(context, repository.pool, builder, len(items), total)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "liked_videos_count")
	}
	return items, total, nil
}
