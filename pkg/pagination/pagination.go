// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Contract
//
// "page" is 1-indexed and defaults to 1, "limit" defaults to 10. Non-numeric,
// non-positive or oversized values fall back to the default instead of failing
// the request. Every paginated response carries the total count and total pages.
package pagination

import (
	"net/http"

	"github.com/taibuivan/vidtube/pkg/convert"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 10
	// MaxLimit is the upper bound for items per page.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET value derived from Page and Limit.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Page is one page of a listing plus its navigation metadata.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewPage wraps items with metadata computed from total and params.
func NewPage[T any](items []T, params Params, total int) Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if params.Limit > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	return Page[T]{
		Items:       items,
		Page:        params.Page,
		Limit:       params.Limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: params.Page < totalPages,
		HasPrevPage: params.Page > 1,
	}
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
func FromRequest(r *http.Request) Params {
	return Parse(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))
}

// Parse applies the fallback rules to raw page and limit strings. Invalid
// values take the defaults; a limit above [MaxLimit] is clamped to it.
func Parse(rawPage, rawLimit string) Params {
	page := convert.ToPositiveIntD(rawPage, DefaultPage)
	limit := min(convert.ToPositiveIntD(rawLimit, DefaultLimit), MaxLimit)

	return Params{Page: page, Limit: limit}
}
