// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidtube/pkg/slug"
)

/*
TestFrom folds accents and punctuation into hyphens.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mon Été à Paris", "mon-ete-a-paris"},
		{"  --Hello,  World!!-- ", "hello-world"},
		{"clip_2024.final", "clip-2024-final"},
		{"日本語", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.in))
		})
	}
}

/*
TestFrom_Truncates never leaves a trailing hyphen after cutting.
*/
func TestFrom_Truncates(t *testing.T) {
	got := slug.From(strings.Repeat("ab ", 40))

	assert.LessOrEqual(t, len(got), slug.MaxLength)
	assert.False(t, strings.HasSuffix(got, "-"))
}
