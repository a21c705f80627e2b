package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paydesk/internal/application/billing/contractgateway"
	"paydesk/internal/shared/logger"
)

func setupTestRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return client
}

func testBanks() []contractgateway.Bank {
	return []contractgateway.Bank{
		{Name: "Bank Mellat", Slug: "mellat", BankCode: "061", MaxDailyAmount: 1_000_000_000, MaxDailyCount: 5},
		{Name: "Bank Saman", Slug: "saman", BankCode: "056", MaxDailyAmount: 500_000_000, MaxDailyCount: 10},
	}
}

func TestBankListCache_MissOnEmpty(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewBankListCache(client, time.Minute, logger.NewLogger())

	banks, ok := cache.Get(context.Background())
	assert.False(t, ok)
	assert.Nil(t, banks)
}

func TestBankListCache_SetThenGet(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewBankListCache(client, time.Minute, logger.NewLogger())
	ctx := context.Background()

	cache.Set(ctx, testBanks())

	banks, ok := cache.Get(ctx)
	require.True(t, ok)
	require.Len(t, banks, 2)
	assert.Equal(t, "mellat", banks[0].Slug)
	assert.Equal(t, int64(1_000_000_000), banks[0].MaxDailyAmount)
}

func TestBankListCache_CorruptEntryIsAMiss(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewBankListCache(client, time.Minute, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, bankListKey, "not-json", time.Minute).Err())

	_, ok := cache.Get(ctx)
	assert.False(t, ok)
}

func TestBankListCache_EmptyListIsAMiss(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewBankListCache(client, time.Minute, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, bankListKey, "[]", time.Minute).Err())

	_, ok := cache.Get(ctx)
	assert.False(t, ok)
}

func TestBankListCache_RedisDownFallsThrough(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()
	cache := NewBankListCache(client, time.Minute, logger.NewLogger())
	ctx := context.Background()

	_, ok := cache.Get(ctx)
	assert.False(t, ok)

	// Set must not panic or block either.
	cache.Set(ctx, testBanks())
}
