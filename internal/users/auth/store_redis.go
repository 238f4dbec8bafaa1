// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"fmt"
	"time"

	stdctx "context"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/kritika/internal/platform/constants"
)

// # Throttle Repository

// RedisThrottleRepository implements [ThrottleRepository] on top of Redis.
//
// All keys carry a TTL, so the store is self-cleaning. Redis being
// unavailable degrades abuse control, never identity correctness.
type RedisThrottleRepository struct {
	client *redis.Client
}

// NewThrottleRepository creates a Redis-backed [ThrottleRepository].
func NewThrottleRepository(client *redis.Client) *RedisThrottleRepository {
	return &RedisThrottleRepository{client: client}
}

/*
AcquireCooldown atomically claims the resend cooldown for a user.

Description: SET NX with TTL — the first caller wins, later callers are
refused until the key expires.

Parameters:
  - context: context.Context
  - userID: string
  - ttl: time.Duration

Returns:
  - bool: true if the cooldown was free and is now held
  - error: Redis failures
*/
func (repository *RedisThrottleRepository) AcquireCooldown(context stdctx.Context, userID string, ttl time.Duration) (bool, error) {
	key := constants.RedisPrefixSignupCooldown + userID

	acquired, err := repository.client.SetNX(context, key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis_throttle_cooldown_failed: %w", err)
	}

	return acquired, nil
}

/*
CountAttempt records one token-exchange attempt and returns the windowed total.

Description: INCR plus an expiry set only when the key is fresh, producing a
fixed-window counter that self-deletes.

Parameters:
  - context: context.Context
  - username: string
  - window: time.Duration

Returns:
  - int64: Attempts recorded in the active window, including this one
  - error: Redis failures
*/
func (repository *RedisThrottleRepository) CountAttempt(context stdctx.Context, username string, window time.Duration) (int64, error) {
	key := constants.RedisPrefixExchangeAttempts + username

	count, err := repository.client.Incr(context, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_throttle_incr_failed: %w", err)
	}

	// First attempt in the window starts the clock.
	if count == 1 {
		if err := repository.client.Expire(context, key, window).Err(); err != nil {
			return count, fmt.Errorf("redis_throttle_expire_failed: %w", err)
		}
	}

	return count, nil
}

/*
ResetAttempts clears the attempt counter after a successful exchange.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: Redis failures
*/
func (repository *RedisThrottleRepository) ResetAttempts(context stdctx.Context, username string) error {
	key := constants.RedisPrefixExchangeAttempts + username

	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_throttle_reset_failed: %w", err)
	}

	return nil
}
