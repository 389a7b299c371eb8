// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides lenient conversions for query-string values.

Malformed input yields the caller's default instead of an error. Use it only
where a bad value should silently fall back, such as paging parameters. Form
fields that must be rejected when malformed are parsed with [strconv] directly.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD parses s as a base-10 int, returning def when s is blank or malformed.
func ToIntD(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}

	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// ToPositiveIntD is [ToIntD] that also treats zero and negatives as malformed.
func ToPositiveIntD(s string, def int) int {
	if v := ToIntD(s, def); v > 0 {
		return v
	}
	return def
}
