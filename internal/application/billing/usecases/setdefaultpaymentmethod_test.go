package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paydesk/internal/domain/billing"
	apperrors "paydesk/internal/shared/errors"
)

func TestSetDefaultPaymentMethod_Switch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := verifiedContract(t, env, 1)
	second := verifiedContract(t, env, 1)
	require.True(t, first.IsPrimary)
	require.False(t, second.IsPrimary)

	uc := NewSetDefaultPaymentMethodUseCase(env.pmRepo, env.eventRepo, env.tx, env.logger)
	result, err := uc.Execute(ctx, SetDefaultPaymentMethodCommand{UserID: 1, PaymentMethodID: second.ID})
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Equal(t, first.ID, result.PreviousID)
	assert.Equal(t, second.ID, result.NewID)

	// Exactly one primary remains.
	oldPM, err := env.pmRepo.GetBySID(ctx, 1, first.ID)
	require.NoError(t, err)
	newPM, err := env.pmRepo.GetBySID(ctx, 1, second.ID)
	require.NoError(t, err)
	assert.False(t, oldPM.IsPrimary())
	assert.True(t, newPM.IsPrimary())

	assert.Equal(t, int64(1), env.countEvents(t, 1, billing.EventDefaultChanged))
}

func TestSetDefaultPaymentMethod_AlreadyPrimary(t *testing.T) {
	env := newTestEnv(t)
	pm := verifiedContract(t, env, 1)
	require.True(t, pm.IsPrimary)

	uc := NewSetDefaultPaymentMethodUseCase(env.pmRepo, env.eventRepo, env.tx, env.logger)
	result, err := uc.Execute(context.Background(), SetDefaultPaymentMethodCommand{UserID: 1, PaymentMethodID: pm.ID})
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.Empty(t, result.PreviousID)
	assert.Equal(t, int64(0), env.countEvents(t, 1, billing.EventDefaultChanged),
		"no event when nothing changed")
}

func TestSetDefaultPaymentMethod_NotFound(t *testing.T) {
	env := newTestEnv(t)

	uc := NewSetDefaultPaymentMethodUseCase(env.pmRepo, env.eventRepo, env.tx, env.logger)
	_, err := uc.Execute(context.Background(), SetDefaultPaymentMethodCommand{UserID: 1, PaymentMethodID: "pm_missing"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestSetDefaultPaymentMethod_PendingContractRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.createUseCase().Execute(ctx, validCreateCommand(1))
	require.NoError(t, err)

	uc := NewSetDefaultPaymentMethodUseCase(env.pmRepo, env.eventRepo, env.tx, env.logger)
	_, err = uc.Execute(ctx, SetDefaultPaymentMethodCommand{UserID: 1, PaymentMethodID: created.ContractID})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeBadRequest))
}

func TestSetDefaultPaymentMethod_ScopedToUser(t *testing.T) {
	env := newTestEnv(t)
	pm := verifiedContract(t, env, 1)

	uc := NewSetDefaultPaymentMethodUseCase(env.pmRepo, env.eventRepo, env.tx, env.logger)
	_, err := uc.Execute(context.Background(), SetDefaultPaymentMethodCommand{UserID: 2, PaymentMethodID: pm.ID})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
