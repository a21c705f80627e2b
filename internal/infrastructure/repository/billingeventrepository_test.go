package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paydesk/internal/domain/billing"
	"paydesk/internal/shared/logger"
)

func newEvent(t *testing.T, userID uint, eventType billing.EventType, data map[string]interface{}) *billing.BillingEvent {
	t.Helper()
	event, err := billing.NewBillingEvent(userID, nil, eventType, data, billing.SeverityInfo)
	require.NoError(t, err)
	return event
}

func TestBillingEventRepository_Append(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBillingEventRepository(db, logger.NewLogger())
	ctx := context.Background()

	t.Run("append assigns id and round trips data", func(t *testing.T) {
		event := newEvent(t, 1, billing.EventContractCreated, map[string]interface{}{
			"paymentMethodId": "pm_abc",
			"maxAmount":       float64(100000),
		})

		require.NoError(t, repo.Append(ctx, event))
		assert.NotZero(t, event.ID())

		events, err := repo.ListByUser(ctx, 1, 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, billing.EventContractCreated, events[0].EventType())
		assert.Equal(t, "pm_abc", events[0].EventData()["paymentMethodId"])
		assert.Equal(t, float64(100000), events[0].EventData()["maxAmount"])
	})

	t.Run("nullable payment method id", func(t *testing.T) {
		pmID := uint(7)
		withRef, err := billing.NewBillingEvent(2, &pmID, billing.EventContractVerified, nil, billing.SeverityInfo)
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, withRef))

		withoutRef := newEvent(t, 2, billing.EventPaymentMethodHardDeleted, map[string]interface{}{"paymentMethodId": "pm_gone"})
		require.NoError(t, repo.Append(ctx, withoutRef))

		events, err := repo.ListByUser(ctx, 2, 10)
		require.NoError(t, err)
		require.Len(t, events, 2)
	})
}

func TestBillingEventRepository_CountByType(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBillingEventRepository(db, logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, newEvent(t, 5, billing.EventContractCreated, nil)))
	require.NoError(t, repo.Append(ctx, newEvent(t, 5, billing.EventContractCreated, nil)))
	require.NoError(t, repo.Append(ctx, newEvent(t, 5, billing.EventContractVerified, nil)))
	require.NoError(t, repo.Append(ctx, newEvent(t, 6, billing.EventContractCreated, nil)))

	count, err := repo.CountByType(ctx, 5, billing.EventContractCreated)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountByType(ctx, 5, billing.EventContractVerified)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountByType(ctx, 5, billing.EventPaymentMethodHardDeleted)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBillingEventRepository_ListByUserLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBillingEventRepository(db, logger.NewLogger())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx, newEvent(t, 9, billing.EventContractCreated, nil)))
	}

	events, err := repo.ListByUser(ctx, 9, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}
