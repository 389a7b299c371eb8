// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug folds arbitrary Unicode file names into ASCII key fragments.
//
// Media object keys keep a readable trace of the uploaded file name
// ("mon-ete-a-paris") next to the generated id.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength caps a fragment so keys stay well below S3's 1024 byte limit.
const MaxLength = 64

var stripMarks = transform.Chain(norm.NFD, transform.RemoveFunc(isMark), norm.NFC)

// From lowercases s, drops accents and collapses every run of characters
// outside [a-z0-9] into one hyphen. Scripts without an ASCII folding
// (CJK, Cyrillic) vanish, so the result may be empty.
func From(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var builder strings.Builder
	pendingHyphen := false

	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			pendingHyphen = false
			builder.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	result := builder.String()
	if len(result) > MaxLength {
		result = strings.TrimRight(result[:MaxLength], "-")
	}
	return result
}

func isMark(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
