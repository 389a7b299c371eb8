// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStore keeps objects in process memory. Development only: contents
// vanish on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
}

// NewMemoryStore creates an empty store whose URLs start with baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte), baseURL: baseURL}
}

// Put reads the whole upload into memory.
func (store *MemoryStore) Put(ctx context.Context, folder string, upload Upload) (Object, error) {
	data, err := io.ReadAll(upload.Body)
	if err != nil {
		return Object{}, fmt.Errorf("storage_put_failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	key := ObjectKey(folder, upload.Filename)

	store.mu.Lock()
	store.objects[key] = data
	store.mu.Unlock()

	return Object{Key: key, URL: publicURL(store.baseURL, key)}, nil
}

// Delete removes the object if present.
func (store *MemoryStore) Delete(_ context.Context, key string) error {
	store.mu.Lock()
	delete(store.objects, key)
	store.mu.Unlock()
	return nil
}

// Get returns a copy of the stored bytes.
func (store *MemoryStore) Get(key string) ([]byte, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	data, ok := store.objects[key]
	if !ok {
		return nil, false
	}
	return bytes.Clone(data), true
}

// Len reports the number of stored objects.
func (store *MemoryStore) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.objects)
}
