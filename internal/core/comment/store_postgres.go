// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

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

// PostgresCommentRepository implements [CommentRepository] using pgx.
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new Postgres implementation of the CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

func commentColumns() string {
	comment := schema.CoreComment
	return strings.Join([]string{
		comment.ID, comment.VideoID, comment.OwnerID, comment.Content, comment.CreatedAt, comment.UpdatedAt,
	}, ", ")
}

func scanComment(row pgx.Row) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(&comment.ID, &comment.VideoID, &comment.Owner, &comment.Content, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, err
	}
	return comment, nil
}

// VideoVisible checks existence and visibility in one probe.
func (repository *PostgresCommentRepository) VideoVisible(context context.Context, videoID, viewerID string) (bool, error) {
	video := schema.CoreVideo
	statement := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND (%s OR %s = $2))`,
		video.Table, video.ID, video.IsPublished, video.OwnerID)

	var visible bool
	if err := repository.pool.QueryRow(context, statement, videoID, view.Viewer(viewerID)).Scan(&visible); err != nil {
		return false, dberr.Wrap(err, "comment_video_visible")
	}
	return visible, nil
}

/*
List renders the comment thread of a video.

Parameters:
  - context: context.Context
  - videoID: string
  - viewerID: string
  - params: pagination.Params

Returns:
  - []Summary
  - int: Total comments
  - error: Database failure
*/
func (repository *PostgresCommentRepository) List(context context.Context, videoID, viewerID string, params pagination.Params) ([]Summary, int, error) {
	comment := schema.CoreComment

	builder := query.Select(
		"c."+comment.ID, "c."+comment.Content, "c."+comment.CreatedAt, "c."+comment.UpdatedAt,
		view.LikesCount(schema.LikeTargetComment, "c."+comment.ID),
	).
		Column(view.IsLiked(schema.LikeTargetComment, "c."+comment.ID), view.Viewer(viewerID))

	for _, column := range view.OwnerColumns("o") {
		builder.Column(column)
	}

	builder.
		From(comment.Table+" c").
		Join(view.JoinOwner("o", "c."+comment.OwnerID)).
		Where("c."+comment.VideoID+" = ?", videoID).
		OrderBy("c."+comment.CreatedAt, query.Desc).
		OrderBy("c."+comment.ID, query.Desc).
		WithTotal().
		Paginate(params.Limit, params.Offset())

	sql, args := builder.Build()

	rows, err := repository.pool.Query(context, sql, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
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
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}

	total, err = postgres.PageTotal(context, repository.pool, builder, len(items), total)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments_count")
	}
	return items, total, nil
}

// FindByID loads a comment.
func (repository *PostgresCommentRepository) FindByID(context context.Context, id string) (*Comment, error) {
	statement := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		commentColumns(), schema.CoreComment.Table, schema.CoreComment.ID)

	comment, err := scanComment(repository.pool.QueryRow(context, statement, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_comment_by_id")
	}
	return comment, nil
}

// Create inserts a comment row.
func (repository *PostgresCommentRepository) Create(context context.Context, comment *Comment) error {
	statement := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.CoreComment.Table, commentColumns())

	_, err := repository.pool.Exec(context, statement,
		comment.ID, comment.VideoID, comment.Owner, comment.Content, comment.CreatedAt, comment.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_comment")
	}
	return nil
}

// UpdateContent rewrites the comment text.
func (repository *PostgresCommentRepository) UpdateContent(context context.Context, id, content string) (*Comment, error) {
	comment := schema.CoreComment
	statement := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 RETURNING %s`,
		comment.Table, comment.Content, comment.UpdatedAt, comment.ID, commentColumns())

	updated, err := scanComment(repository.pool.QueryRow(context, statement, id, content))
	if err != nil {
		return nil, dberr.Wrap(err, "update_comment")
	}
	return updated, nil
}

/*
Delete removes the comment and its likes.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or database failure
*/
func (repository *PostgresCommentRepository) Delete(context context.Context, id string) error {
	like, comment := schema.SocialLike, schema.CoreComment

	deleteLikes := fmt.Sprintf(`DELETE FROM %s WHERE %s = '%s' AND %s = $1`,
		like.Table, like.TargetKind, schema.LikeTargetComment, like.TargetID)
	deleteComment := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, comment.Table, comment.ID)

	err := postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(context, deleteLikes, id); err != nil {
			return err
		}
		tag, err := tx.Exec(context, deleteComment, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Comment")
		}
		return nil
	})
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}
	return nil
}
