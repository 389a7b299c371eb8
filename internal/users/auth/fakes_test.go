// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/sec"
	"github.com/taibuivan/vidtube/internal/platform/storage"
	"github.com/taibuivan/vidtube/internal/users/auth"
)

// memoryUsers is an in-memory [auth.UserRepository] with the same atomicity
// guarantees as the Postgres one.
type memoryUsers struct {
	mu         sync.Mutex
	users      map[string]auth.User
	failCreate error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]auth.User)}
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return &user, nil
}

func (m *memoryUsers) FindByIdentifier(_ context.Context, identifier string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == identifier || user.Email == identifier {
			return &user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUsers) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUsers) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return m.failCreate
	}
	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperr.Conflict("Username is already taken")
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUsers) UpdatePassword(_ context.Context, userID, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	m.users[userID] = user
	return nil
}

func (m *memoryUsers) SetRefreshTokenHash(_ context.Context, userID, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.RefreshTokenHash = &tokenHash
	m.users[userID] = user
	return nil
}

func (m *memoryUsers) RotateRefreshTokenHash(_ context.Context, userID, presentedHash, newHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok || user.RefreshTokenHash == nil || *user.RefreshTokenHash != presentedHash {
		return false, nil
	}
	user.RefreshTokenHash = &newHash
	m.users[userID] = user
	return true, nil
}

func (m *memoryUsers) ClearRefreshTokenHash(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[userID]; ok {
		user.RefreshTokenHash = nil
		m.users[userID] = user
	}
	return nil
}

func (m *memoryUsers) stored(t *testing.T, id string) auth.User {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	require.True(t, ok)
	return user
}

// memoryAttempts is an in-memory [auth.LoginAttemptRepository].
type memoryAttempts struct {
	mu     sync.Mutex
	counts map[string]int
	window time.Duration
	err    error
}

func newMemoryAttempts() *memoryAttempts {
	return &memoryAttempts{counts: make(map[string]int)}
}

func (m *memoryAttempts) Failures(_ context.Context, identifier string) (int, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, 0, m.err
	}
	return m.counts[identifier], m.window, nil
}

func (m *memoryAttempts) RecordFailure(_ context.Context, identifier string, window time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.counts[identifier]++
	m.window = window
	return nil
}

func (m *memoryAttempts) Reset(_ context.Context, identifier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counts, identifier)
	return nil
}

var (
	signingKeyOnce sync.Once
	signingKey     *rsa.PrivateKey
)

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	signingKeyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		signingKey = key
	})
	return sec.NewTokenServiceFromKeys(signingKey, "refresh-secret", "vidtube.test")
}

type fixture struct {
	users    *memoryUsers
	attempts *memoryAttempts
	media    *storage.MemoryStore
	tokens   *sec.TokenService
	service  *auth.Service
}

var testConfig = auth.Config{
	AccessTokenTTL:     time.Minute,
	RefreshTokenTTL:    time.Hour,
	LoginMaxAttempts:   3,
	LoginLockoutWindow: 15 * time.Minute,
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    newMemoryUsers(),
		attempts: newMemoryAttempts(),
		media:    storage.NewMemoryStore("https://cdn.test"),
		tokens:   newTokenService(t),
	}
	f.service = auth.NewService(f.users, f.attempts, f.tokens, f.media, testConfig)
	return f
}

var errStoreDown = errors.New("store down")
