package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paydesk/internal/domain/subscription"
	"paydesk/internal/shared/logger"
)

func TestSubscriptionRepository_HasActiveByPaymentMethod(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db, logger.NewLogger())
	ctx := context.Background()

	pmID := uint(3)
	sub, err := subscription.NewSubscription(1, &pmID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, sub))

	t.Run("active subscription blocks", func(t *testing.T) {
		has, err := repo.HasActiveByPaymentMethod(ctx, 1, 3)
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("other payment method does not", func(t *testing.T) {
		has, err := repo.HasActiveByPaymentMethod(ctx, 1, 4)
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("other user does not", func(t *testing.T) {
		has, err := repo.HasActiveByPaymentMethod(ctx, 2, 3)
		require.NoError(t, err)
		assert.False(t, has)
	})
}

func TestSubscriptionRepository_ListActivePaymentMethodIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db, logger.NewLogger())
	ctx := context.Background()

	pm1, pm2 := uint(10), uint(11)

	sub1, err := subscription.NewSubscription(7, &pm1)
	require.NoError(t, err)
	sub2, err := subscription.NewSubscription(7, &pm2)
	require.NoError(t, err)
	sub3, err := subscription.NewSubscription(7, nil)
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, sub1))
	require.NoError(t, repo.Create(ctx, sub2))
	require.NoError(t, repo.Create(ctx, sub3))

	ids, err := repo.ListActivePaymentMethodIDs(ctx, 7)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{10, 11}, ids)

	ids, err = repo.ListActivePaymentMethodIDs(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
