// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage is the media store for uploaded files (avatars, cover images,
video files and thumbnails).

Two implementations satisfy [Store]:

  - [S3Store]: any S3-compatible bucket, guarded by a circuit breaker.
  - [MemoryStore]: process-local, used when no bucket is configured.

Callers persist both the returned URL (served to clients) and the key (used to
delete the object later).
*/
package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/taibuivan/vidtube/pkg/slug"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// Upload is one file received from a client.
type Upload struct {
	Body        io.Reader
	Size        int64
	ContentType string
	Filename    string
}

// Object identifies a stored file.
type Object struct {
	Key string
	URL string
}

// Store persists and removes media objects.
type Store interface {
	Put(ctx context.Context, folder string, upload Upload) (Object, error)
	Delete(ctx context.Context, key string) error
}

// maxExtensionLength bounds the preserved file extension.
const maxExtensionLength = 10

/*
ObjectKey builds a collision-free key that keeps the original name readable.

Example:

	ObjectKey("videos", "Mon Été à Paris.MP4") // "videos/0191e8a0-...-mon-ete-a-paris.mp4"
*/
func ObjectKey(folder, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	extension := strings.ToLower(path.Ext(base))
	name := slug.From(strings.TrimSuffix(base, path.Ext(base)))

	if !cleanExtension(extension) {
		extension = ""
	}

	key := uuid.New()
	if name != "" {
		key += "-" + name
	}
	return folder + "/" + key + extension
}

func cleanExtension(extension string) bool {
	if len(extension) < 2 || len(extension) > maxExtensionLength {
		return false
	}
	for _, r := range extension[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func publicURL(baseURL, key string) string {
	if baseURL == "" {
		return key
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + key
}
