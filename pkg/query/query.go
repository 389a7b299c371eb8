// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package query composes PostgreSQL SELECT pipelines for read views.

A view is assembled stage by stage (columns, source, joins, filters, ordering,
window total, pagination) and rendered once. Fragments use "?" as the argument
placeholder; [Builder.Build] renumbers them to $1..$n in the order they appear
in the final statement, so stages can be added in any order.

	sql, args := query.Select("v.id", "v.title").
		From("core.video v").
		Where("v.ispublished = ?", true).
		OrderBy("v.createdat", query.Desc).
		WithTotal().
		Paginate(10, 0).
		Build()

The "?" character is reserved; fragments must not use the jsonb "?" operators.
*/
package query

import (
	"strconv"
	"strings"
)

// Direction is a SQL sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// TotalColumn is the alias of the window count added by [Builder.WithTotal].
const TotalColumn = "total"

type fragment struct {
	sql  string
	args []any
}

// Builder accumulates the stages of one SELECT statement.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	columns    []fragment
	from       string
	joins      []fragment
	conditions []fragment
	groupBy    []string
	orderBy    []string
	withTotal  bool
	limit      int
	offset     int
	paginated  bool
}

// Select starts a pipeline with plain column expressions.
func Select(columns ...string) *Builder {
	builder := &Builder{}
	for _, column := range columns {
		builder.columns = append(builder.columns, fragment{sql: column})
	}
	return builder
}

// Column adds a computed column whose expression may bind arguments.
func (builder *Builder) Column(expression string, args ...any) *Builder {
	builder.columns = append(builder.columns, fragment{sql: expression, args: args})
	return builder
}

// From sets the source relation.
func (builder *Builder) From(source string) *Builder {
	builder.from = source
	return builder
}

// Join adds a full join clause, e.g. "JOIN users.account o ON o.id = v.ownerid".
func (builder *Builder) Join(clause string, args ...any) *Builder {
	builder.joins = append(builder.joins, fragment{sql: clause, args: args})
	return builder
}

// Where adds a condition combined with AND.
func (builder *Builder) Where(condition string, args ...any) *Builder {
	builder.conditions = append(builder.conditions, fragment{sql: condition, args: args})
	return builder
}

// WhereIf adds the condition only when ok is true.
func (builder *Builder) WhereIf(ok bool, condition string, args ...any) *Builder {
	if ok {
		return builder.Where(condition, args...)
	}
	return builder
}

// GroupBy adds grouping expressions.
func (builder *Builder) GroupBy(expressions ...string) *Builder {
	builder.groupBy = append(builder.groupBy, expressions...)
	return builder
}

// OrderBy appends an ordering term. Earlier terms take precedence.
func (builder *Builder) OrderBy(expression string, direction Direction) *Builder {
	if direction != Asc {
		direction = Desc
	}
	builder.orderBy = append(builder.orderBy, expression+" "+string(direction))
	return builder
}

// WithTotal adds "COUNT(*) OVER() AS total" so one round trip returns the
// page and the size of the unpaginated result. The window count only arrives
// with a row; a page past the end needs [Builder.BuildCount].
func (builder *Builder) WithTotal() *Builder {
	builder.withTotal = true
	return builder
}

// Paginate bounds the result.
func (builder *Builder) Paginate(limit, offset int) *Builder {
	builder.limit = limit
	builder.offset = offset
	builder.paginated = true
	return builder
}

// Build renders the statement and its positional arguments.
func (builder *Builder) Build() (string, []any) {
	var sql strings.Builder
	var args []any

	sql.WriteString("SELECT ")
	for i, column := range builder.columns {
		if i > 0 {
			sql.WriteString(", ")
		}
		sql.WriteString(column.sql)
		args = append(args, column.args...)
	}
	if builder.withTotal {
		if len(builder.columns) > 0 {
			sql.WriteString(", ")
		}
		sql.WriteString("COUNT(*) OVER() AS " + TotalColumn)
	}

	args = builder.writeSource(&sql, args)

	if len(builder.orderBy) > 0 {
		sql.WriteString(" ORDER BY ")
		sql.WriteString(strings.Join(builder.orderBy, ", "))
	}

	if builder.paginated {
		sql.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, builder.limit, builder.offset)
	}

	return rebind(sql.String()), args
}

/*
BuildCount renders the size of the unpaginated result.

Description: Columns, ordering and pagination are dropped; the source, joins,
filters and grouping are kept, so a grouped view counts its groups.
*/
func (builder *Builder) BuildCount() (string, []any) {
	var sql strings.Builder
	sql.WriteString("SELECT COUNT(*) FROM (SELECT 1")
	args := builder.writeSource(&sql, nil)
	sql.WriteString(") AS counted")
	return rebind(sql.String()), args
}

// Offset returns the offset set by [Builder.Paginate], or 0.
func (builder *Builder) Offset() int {
	return builder.offset
}

// writeSource renders FROM through GROUP BY and appends their arguments.
func (builder *Builder) writeSource(sql *strings.Builder, args []any) []any {
	sql.WriteString(" FROM ")
	sql.WriteString(builder.from)

	for _, join := range builder.joins {
		sql.WriteString(" ")
		sql.WriteString(join.sql)
		args = append(args, join.args...)
	}

	for i, condition := range builder.conditions {
		if i == 0 {
			sql.WriteString(" WHERE ")
		} else {
			sql.WriteString(" AND ")
		}
		sql.WriteString("(" + condition.sql + ")")
		args = append(args, condition.args...)
	}

	if len(builder.groupBy) > 0 {
		sql.WriteString(" GROUP BY ")
		sql.WriteString(strings.Join(builder.groupBy, ", "))
	}
	return args
}

// rebind replaces each "?" with $1, $2, ... in order of appearance.
func rebind(sql string) string {
	var out strings.Builder
	out.Grow(len(sql) + 16)

	position := 0
	for _, r := range sql {
		if r == '?' {
			position++
			out.WriteByte('$')
			out.WriteString(strconv.Itoa(position))
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

// # Sorting

// Sort is a resolved ordering of a listing.
type Sort struct {
	Column    string
	Direction Direction
}

// ResolveSort maps the caller's sortBy/sortType onto a whitelisted column.
//
// When either value is empty the fallback is used. It reports false when the
// caller asked for a field or direction that is not allowed.
func ResolveSort(sortBy, sortType string, allowed map[string]string, fallback Sort) (Sort, bool) {
	if sortBy == "" || sortType == "" {
		return fallback, true
	}

	column, ok := allowed[sortBy]
	if !ok {
		return fallback, false
	}

	switch strings.ToLower(sortType) {
	case "asc":
		return Sort{Column: column, Direction: Asc}, true
	case "desc":
		return Sort{Column: column, Direction: Desc}, true
	default:
		return fallback, false
	}
}
