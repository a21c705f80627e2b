package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paydesk/internal/domain/billing"
	vo "paydesk/internal/domain/billing/valueobjects"
	apperrors "paydesk/internal/shared/errors"
)

// startContract runs the create flow and returns the authority of the
// resulting pending row.
func startContract(t *testing.T, env *testEnv, userID uint) string {
	t.Helper()
	result, err := env.createUseCase().Execute(context.Background(), validCreateCommand(userID))
	require.NoError(t, err)
	return result.PaymanAuthority
}

func TestVerifyContract_ActivatesPendingRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	authority := startContract(t, env, 1)

	result, err := env.verifyUseCase().Execute(ctx, VerifyContractCommand{
		UserID: 1, Authority: authority, Status: "OK",
	})
	require.NoError(t, err)

	assert.False(t, result.Idempotent)
	assert.NotEmpty(t, result.Signature)
	assert.Equal(t, "active", result.PaymentMethod.ContractStatus)
	assert.True(t, result.PaymentMethod.IsPrimary, "first contract becomes primary")

	// The pending row was upgraded in place, not duplicated.
	assert.Equal(t, int64(1), env.countRows(t, 1))

	pm, err := env.pmRepo.GetBySID(ctx, 1, result.PaymentMethod.ID)
	require.NoError(t, err)
	require.NotNil(t, pm)
	assert.Equal(t, vo.ContractStatusActive, pm.ContractStatus())
	require.NotNil(t, pm.ContractSignatureEncrypted())
	assert.NotEqual(t, result.Signature, *pm.ContractSignatureEncrypted(), "signature stored encrypted")

	decrypted, err := env.cipher.Decrypt(*pm.ContractSignatureEncrypted())
	require.NoError(t, err)
	assert.Equal(t, result.Signature, decrypted)

	assert.Equal(t, int64(1), env.countEvents(t, 1, billing.EventContractVerified))
}

func TestVerifyContract_RepeatIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	authority := startContract(t, env, 1)
	uc := env.verifyUseCase()

	first, err := uc.Execute(ctx, VerifyContractCommand{UserID: 1, Authority: authority, Status: "OK"})
	require.NoError(t, err)

	second, err := uc.Execute(ctx, VerifyContractCommand{UserID: 1, Authority: authority, Status: "OK"})
	require.NoError(t, err)

	assert.True(t, second.Idempotent)
	assert.Equal(t, first.PaymentMethod.ID, second.PaymentMethod.ID)
	assert.Equal(t, int64(1), env.countRows(t, 1))
	assert.Equal(t, int64(1), env.countEvents(t, 1, billing.EventContractVerified),
		"no second verified event on the idempotent path")
}

func TestVerifyContract_WithoutPendingRowCreatesActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// No create step: the authority is only known to the gateway, as
	// after a database loss or a contract started elsewhere.
	result, err := env.verifyUseCase().Execute(ctx, VerifyContractCommand{
		UserID: 7, Authority: "payman-external-001", Status: "OK",
	})
	require.NoError(t, err)

	assert.False(t, result.Idempotent)
	assert.Equal(t, "active", result.PaymentMethod.ContractStatus)
	assert.Equal(t, int64(1), env.countRows(t, 7))
}

func TestVerifyContract_SecondContractNotPrimary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uc := env.verifyUseCase()

	first, err := uc.Execute(ctx, VerifyContractCommand{UserID: 1, Authority: "payman-a", Status: "OK"})
	require.NoError(t, err)
	require.True(t, first.PaymentMethod.IsPrimary)

	second, err := uc.Execute(ctx, VerifyContractCommand{UserID: 1, Authority: "payman-b", Status: "OK"})
	require.NoError(t, err)
	assert.False(t, second.PaymentMethod.IsPrimary)
}

func TestVerifyContract_DeclinedStatusInvalidatesPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	authority := startContract(t, env, 1)

	_, err := env.verifyUseCase().Execute(ctx, VerifyContractCommand{
		UserID: 1, Authority: authority, Status: "NOK",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	// Pending row flipped to invalid, no active row created.
	pending, err := env.pmRepo.GetPendingByAuthority(ctx, 1, authority)
	require.NoError(t, err)
	assert.Nil(t, pending)

	assert.Equal(t, int64(1), env.countEvents(t, 1, billing.EventContractInvalidated))
	assert.Equal(t, int64(0), env.countEvents(t, 1, billing.EventContractVerified))
}

func TestVerifyContract_DeclinedStatusWithoutPendingRow(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.verifyUseCase().Execute(context.Background(), VerifyContractCommand{
		UserID: 1, Authority: "payman-unknown", Status: "NOK",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Equal(t, int64(0), env.countRows(t, 1))
}

func TestVerifyContract_MissingAuthority(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.verifyUseCase().Execute(context.Background(), VerifyContractCommand{
		UserID: 1, Status: "OK",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestVerifyContract_GatewayVerificationFails(t *testing.T) {
	env := newTestEnv(t)
	authority := startContract(t, env, 1)
	env.gateway.FailVerify(errors.New("code -54"))

	_, err := env.verifyUseCase().Execute(context.Background(), VerifyContractCommand{
		UserID: 1, Authority: authority, Status: "OK",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUpstream))

	// The pending row survives for a later retry or recovery.
	pending, perr := env.pmRepo.GetPendingByAuthority(context.Background(), 1, authority)
	require.NoError(t, perr)
	assert.NotNil(t, pending)
}

func TestVerifyContract_SameSignatureDifferentUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uc := env.verifyUseCase()

	// The fake derives the signature from the authority, so the same
	// authority yields the same hash for both users.
	first, err := uc.Execute(ctx, VerifyContractCommand{UserID: 1, Authority: "payman-shared", Status: "OK"})
	require.NoError(t, err)
	second, err := uc.Execute(ctx, VerifyContractCommand{UserID: 2, Authority: "payman-shared", Status: "OK"})
	require.NoError(t, err)

	assert.False(t, first.Idempotent)
	assert.False(t, second.Idempotent)
	assert.Equal(t, int64(1), env.countRows(t, 1))
	assert.Equal(t, int64(1), env.countRows(t, 2))
}

func TestVerifyContract_PathIDMustCarryAuthority(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uc := env.verifyUseCase()

	firstAuthority := startContract(t, env, 1)
	secondAuthority := startContract(t, env, 1)
	require.NotEqual(t, firstAuthority, secondAuthority)

	first, err := env.pmRepo.GetPendingByAuthority(ctx, 1, firstAuthority)
	require.NoError(t, err)
	require.NotNil(t, first)

	// Submitting the second negotiation's authority against the first
	// row's URL must be rejected before the gateway is contacted.
	_, err = uc.Execute(ctx, VerifyContractCommand{
		UserID: 1, PaymentMethodID: first.SID(), Authority: secondAuthority, Status: "OK",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	// The right pairing still verifies.
	result, err := uc.Execute(ctx, VerifyContractCommand{
		UserID: 1, PaymentMethodID: first.SID(), Authority: firstAuthority, Status: "OK",
	})
	require.NoError(t, err)
	assert.Equal(t, first.SID(), result.PaymentMethod.ID)
}

func TestVerifyContract_PathIDNotFound(t *testing.T) {
	env := newTestEnv(t)
	authority := startContract(t, env, 1)

	_, err := env.verifyUseCase().Execute(context.Background(), VerifyContractCommand{
		UserID: 1, PaymentMethodID: "pm_doesnotexist", Authority: authority, Status: "OK",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

// raceBlindRepository hides the surviving row from the first dedup lookup,
// reproducing the window in which two verifications of the same authority
// both read before either commits. The unique index then rejects the
// loser's insert and the writer must reconcile by re-reading.
type raceBlindRepository struct {
	billing.PaymentMethodRepository
	blind int
}

func (r *raceBlindRepository) GetActiveBySignatureHash(ctx context.Context, userID uint, hash string) (*billing.PaymentMethod, error) {
	if r.blind > 0 {
		r.blind--
		return nil, nil
	}
	return r.PaymentMethodRepository.GetActiveBySignatureHash(ctx, userID, hash)
}

func TestVerifyContract_ConcurrentVerificationResolvesToSurvivor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	authority := startContract(t, env, 1)

	winner, err := env.verifyUseCase().Execute(ctx, VerifyContractCommand{
		UserID: 1, Authority: authority, Status: "OK",
	})
	require.NoError(t, err)

	blindRepo := &raceBlindRepository{PaymentMethodRepository: env.pmRepo, blind: 1}
	loserUC := NewVerifyContractUseCase(blindRepo, env.eventRepo, env.gateway, env.cipher, env.tx, env.logger)

	loser, err := loserUC.Execute(ctx, VerifyContractCommand{
		UserID: 1, Authority: authority, Status: "OK",
	})
	require.NoError(t, err, "losing the unique-index race must not surface an error")

	assert.True(t, loser.Idempotent)
	assert.Equal(t, winner.PaymentMethod.ID, loser.PaymentMethod.ID, "loser resolves to the surviving row")
	assert.Equal(t, int64(1), env.countRows(t, 1))

	// The loser's transaction rolled back, so its verified event is gone too.
	assert.Equal(t, int64(1), env.countEvents(t, 1, billing.EventContractVerified))
}
