// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/madr-app/madr/internal/platform/constants"
)

// RedisTokenLedger implements [TokenLedger] with one expiring key per token id.
type RedisTokenLedger struct {
	client redis.UniversalClient
}

// NewTokenLedger creates a new [RedisTokenLedger].
func NewTokenLedger(client redis.UniversalClient) *RedisTokenLedger {
	return &RedisTokenLedger{client: client}
}

/*
Consume marks jti as used for ttl.

Description: SET NX is atomic, so of two concurrent requests carrying the same
token exactly one observes the first use.

Returns:
  - bool: True on the first use of jti
  - error: Redis failures
*/
func (ledger *RedisTokenLedger) Consume(context context.Context, jti string, ttl time.Duration) (bool, error) {
	first, err := ledger.client.SetNX(context, constants.RedisPrefixConsumedToken+jti, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("token_ledger_consume_failed: %w", err)
	}
	return first, nil
}

// Release deletes the consumed marker of jti.
func (ledger *RedisTokenLedger) Release(context context.Context, jti string) error {
	if err := ledger.client.Del(context, constants.RedisPrefixConsumedToken+jti).Err(); err != nil {
		return fmt.Errorf("token_ledger_release_failed: %w", err)
	}
	return nil
}
