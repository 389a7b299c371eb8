// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/vidtube/pkg/query"
)

// RowQuerier runs single-row queries. [*pgxpool.Pool] and [pgx.Tx] satisfy it.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

/*
PageTotal returns the size of the unpaginated result behind a listing.

Description: windowTotal is the COUNT(*) OVER() value scanned from the page.
It is only reliable when the page returned rows; an empty page at a non-zero
offset falls back to the count statement of builder.

Parameters:
  - ctx: context.Context
  - db: RowQuerier
  - builder: *query.Builder (the builder that rendered the page)
  - rows: int (rows on the page)
  - windowTotal: int

Returns:
  - int: Total matches
  - error: Count query failure
*/
func PageTotal(ctx context.Context, db RowQuerier, builder *query.Builder, rows, windowTotal int) (int, error) {
	if rows > 0 || builder.Offset() == 0 {
		return windowTotal, nil
	}

	sql, args := builder.BuildCount()

	var total int
	if err := db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres: count failed: %w", err)
	}
	return total, nil
}
