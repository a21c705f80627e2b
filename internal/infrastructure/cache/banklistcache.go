// Package cache holds redis-backed read-through caches.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"paydesk/internal/application/billing/contractgateway"
	"paydesk/internal/shared/logger"
)

const bankListKey = "paydesk:payman:banklist"

// BankListCache caches the gateway's bank list for a short TTL. Misses and
// redis failures fall through to the gateway; only successful fetches are
// ever stored.
type BankListCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

// NewBankListCache creates a cache with the given TTL.
func NewBankListCache(client *redis.Client, ttl time.Duration, logger logger.Interface) *BankListCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &BankListCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached bank list and whether it was present.
func (c *BankListCache) Get(ctx context.Context) ([]contractgateway.Bank, bool) {
	raw, err := c.client.Get(ctx, bankListKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warnw("bank list cache read failed", "error", err)
		}
		return nil, false
	}

	var banks []contractgateway.Bank
	if err := json.Unmarshal(raw, &banks); err != nil {
		c.logger.Warnw("bank list cache entry corrupt, ignoring", "error", err)
		return nil, false
	}
	if len(banks) == 0 {
		return nil, false
	}
	return banks, true
}

// Set stores the bank list. Failures are logged and ignored: the cache is
// an optimization, never a source of truth.
func (c *BankListCache) Set(ctx context.Context, banks []contractgateway.Bank) {
	raw, err := json.Marshal(banks)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, bankListKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warnw("bank list cache write failed", "error", err)
	}
}
