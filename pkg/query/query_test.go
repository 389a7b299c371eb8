// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidtube/pkg/query"
)

/*
TestBuild_PlaceholderOrder verifies placeholders are numbered in statement order
even when stages are added out of order.
*/
func TestBuild_PlaceholderOrder(t *testing.T) {
	builder := query.Select("v.id").
		From("core.video v").
		Where("v.ispublished = ?", true).
		Column("EXISTS (SELECT 1 FROM social.like l WHERE l.targetid = v.id AND l.likedby = ?) AS isliked", "viewer").
		Join("JOIN users.account o ON o.id = v.ownerid AND o.id <> ?", "blocked").
		OrderBy("v.createdat", query.Desc).
		WithTotal().
		Paginate(10, 20)

	sql, args := builder.Build()

	assert.Equal(t,
		"SELECT v.id, EXISTS (SELECT 1 FROM social.like l WHERE l.targetid = v.id AND l.likedby = $1) AS isliked, COUNT(*) OVER() AS total"+
			" FROM core.video v"+
			" JOIN users.account o ON o.id = v.ownerid AND o.id <> $2"+
			" WHERE (v.ispublished = $3)"+
			" ORDER BY v.createdat DESC"+
			" LIMIT $4 OFFSET $5",
		sql)
	assert.Equal(t, []any{"viewer", "blocked", true, 10, 20}, args)
}

/*
TestBuild_WhereIf skips disabled filters.
*/
func TestBuild_WhereIf(t *testing.T) {
	sql, args := query.Select("id").
		From("core.tweet").
		WhereIf(false, "ownerid = ?", "u1").
		WhereIf(true, "content ILIKE ?", "%go%").
		Build()

	assert.Equal(t, "SELECT id FROM core.tweet WHERE (content ILIKE $1)", sql)
	assert.Equal(t, []any{"%go%"}, args)
}

/*
TestBuild_GroupByAndMultipleOrder renders grouping and tie-breakers.
*/
func TestBuild_GroupByAndMultipleOrder(t *testing.T) {
	sql, _ := query.Select("p.id", "COUNT(pv.videoid)").
		From("core.playlist p").
		Join("LEFT JOIN core.playlistvideo pv ON pv.playlistid = p.id").
		GroupBy("p.id").
		OrderBy("p.createdat", query.Desc).
		OrderBy("p.id", query.Asc).
		Build()

	assert.Equal(t,
		"SELECT p.id, COUNT(pv.videoid) FROM core.playlist p LEFT JOIN core.playlistvideo pv ON pv.playlistid = p.id GROUP BY p.id ORDER BY p.createdat DESC, p.id ASC",
		sql)
}

/*
TestBuildCount keeps the filters of a paginated view and drops its columns,
ordering and bounds.
*/
func TestBuildCount(t *testing.T) {
	builder := query.Select("v.id").
		Column("EXISTS (SELECT 1 FROM social.like l WHERE l.likedby = ?) AS isliked", "viewer").
		From("core.video v").
		Join("JOIN users.account o ON o.id = v.ownerid").
		Where("v.ispublished = ?", true).
		WhereIf(true, "v.ownerid = ?", "u1").
		OrderBy("v.createdat", query.Desc).
		WithTotal().
		Paginate(2, 6)

	sql, args := builder.BuildCount()

	assert.Equal(t,
		"SELECT COUNT(*) FROM (SELECT 1 FROM core.video v JOIN users.account o ON o.id = v.ownerid"+
			" WHERE (v.ispublished = $1) AND (v.ownerid = $2)) AS counted",
		sql)
	assert.Equal(t, []any{true, "u1"}, args)
	assert.Equal(t, 6, builder.Offset())

	grouped, _ := query.Select("p.id").From("core.playlist p").GroupBy("p.id").BuildCount()
	assert.Equal(t, "SELECT COUNT(*) FROM (SELECT 1 FROM core.playlist p GROUP BY p.id) AS counted", grouped)
}

/*
TestResolveSort covers the precedence rules of caller-specified ordering.
*/
func TestResolveSort(t *testing.T) {
	allowed := map[string]string{"createdAt": "v.createdat", "views": "v.views"}
	fallback := query.Sort{Column: "v.createdat", Direction: query.Desc}

	tests := []struct {
		name     string
		sortBy   string
		sortType string
		want     query.Sort
		ok       bool
	}{
		{"default", "", "", fallback, true},
		{"only sortBy", "views", "", fallback, true},
		{"views asc", "views", "asc", query.Sort{Column: "v.views", Direction: query.Asc}, true},
		{"views DESC", "views", "DESC", query.Sort{Column: "v.views", Direction: query.Desc}, true},
		{"unknown field", "password", "asc", fallback, false},
		{"unknown direction", "views", "sideways", fallback, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := query.ResolveSort(tt.sortBy, tt.sortType, allowed, fallback)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
