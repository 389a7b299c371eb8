// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/vidtube/internal/platform/constants"
	redisstore "github.com/taibuivan/vidtube/internal/platform/redis"
)

// # Login Attempt Repository

// RedisLoginAttemptRepository implements [LoginAttemptRepository] using Redis.
//
// Each identifier owns one counter key. The key's TTL is the lockout window,
// set once by the failure that opens it.
type RedisLoginAttemptRepository struct {
	client redis.UniversalClient
}

// NewLoginAttemptRepository creates a new Redis-backed LoginAttemptRepository.
func NewLoginAttemptRepository(client redis.UniversalClient) *RedisLoginAttemptRepository {
	return &RedisLoginAttemptRepository{client: client}
}

// loginAttemptsKey folds case so "Alice" and "alice" share one counter.
func loginAttemptsKey(identifier string) string {
	return redisstore.Key(constants.RedisPrefixLoginAttempts, strings.ToLower(strings.TrimSpace(identifier)))
}

/*
Failures reads the counter and its remaining TTL.

Parameters:
  - context: context.Context
  - identifier: string

Returns:
  - int: Failure count, zero if the key is absent
  - time.Duration: Remaining window
  - error: Connectivity errors
*/
func (repository *RedisLoginAttemptRepository) Failures(context context.Context, identifier string) (int, time.Duration, error) {
	key := loginAttemptsKey(identifier)

	var countCmd *redis.StringCmd
	var ttlCmd *redis.DurationCmd
	_, err := repository.client.Pipelined(context, func(pipe redis.Pipeliner) error {
		countCmd = pipe.Get(context, key)
		ttlCmd = pipe.TTL(context, key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, 0, fmt.Errorf("redis_login_attempts_get_failed: %w", err)
	}

	raw, err := countCmd.Result()
	if errors.Is(err, redis.Nil) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("redis_login_attempts_get_failed: %w", err)
	}

	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, 0, fmt.Errorf("redis_login_attempts_corrupt: %w", err)
	}

	return count, max(ttlCmd.Val(), 0), nil
}

/*
RecordFailure increments the counter inside a MULTI block.

Description: EXPIRE NX only sets the TTL when the key has none, so the window
is anchored at the first failure and later failures do not extend it.

Parameters:
  - context: context.Context
  - identifier: string
  - window: time.Duration

Returns:
  - error: Connectivity errors
*/
func (repository *RedisLoginAttemptRepository) RecordFailure(context context.Context, identifier string, window time.Duration) error {
	key := loginAttemptsKey(identifier)

	_, err := repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Incr(context, key)
		pipe.ExpireNX(context, key, window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_login_attempts_incr_failed: %w", err)
	}

	return nil
}

/*
Reset removes the counter.

Parameters:
  - context: context.Context
  - identifier: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisLoginAttemptRepository) Reset(context context.Context, identifier string) error {
	if err := repository.client.Del(context, loginAttemptsKey(identifier)).Err(); err != nil {
		return fmt.Errorf("redis_login_attempts_delete_failed: %w", err)
	}
	return nil
}
