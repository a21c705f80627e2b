package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "paydesk/internal/domain/billing/valueobjects"
	"paydesk/internal/shared/id"
)

func TestNewPendingContract(t *testing.T) {
	t.Run("creates pending contract", func(t *testing.T) {
		pm, err := NewPendingContract(42, "payman-auth-1")
		require.NoError(t, err)

		assert.Equal(t, uint(42), pm.UserID())
		assert.Equal(t, ContractTypeDirectDebit, pm.ContractType())
		assert.Equal(t, vo.ContractStatusPending, pm.ContractStatus())
		require.NotNil(t, pm.PaymanAuthority())
		assert.Equal(t, "payman-auth-1", *pm.PaymanAuthority())
		assert.Nil(t, pm.ContractSignatureEncrypted())
		assert.Nil(t, pm.ContractSignatureHash())
		assert.True(t, pm.IsActive())
		assert.False(t, pm.IsPrimary())
		assert.True(t, id.HasPrefix(pm.SID(), id.PrefixPaymentMethod))
	})

	t.Run("rejects zero user", func(t *testing.T) {
		_, err := NewPendingContract(0, "payman-auth-1")
		assert.Error(t, err)
	})

	t.Run("rejects empty authority", func(t *testing.T) {
		_, err := NewPendingContract(42, "")
		assert.Error(t, err)
	})
}

func TestNewActiveContract(t *testing.T) {
	t.Run("creates active contract", func(t *testing.T) {
		pm, err := NewActiveContract(7, "ciphertext", "hash", true)
		require.NoError(t, err)

		assert.Equal(t, vo.ContractStatusActive, pm.ContractStatus())
		assert.True(t, pm.IsPrimary())
		assert.True(t, pm.HasActiveContract())
		assert.True(t, pm.IsCancellable())
		assert.Nil(t, pm.PaymanAuthority())
	})

	t.Run("rejects missing signature", func(t *testing.T) {
		_, err := NewActiveContract(7, "", "hash", false)
		assert.Error(t, err)

		_, err = NewActiveContract(7, "ciphertext", "", false)
		assert.Error(t, err)
	})
}

func TestPaymentMethod_Activate(t *testing.T) {
	t.Run("pending becomes active", func(t *testing.T) {
		pm, err := NewPendingContract(1, "auth")
		require.NoError(t, err)

		err = pm.Activate("ciphertext", "hash", true)
		require.NoError(t, err)

		assert.Equal(t, vo.ContractStatusActive, pm.ContractStatus())
		assert.True(t, pm.IsPrimary())
		assert.True(t, pm.HasActiveContract())
	})

	t.Run("active cannot activate again", func(t *testing.T) {
		pm, err := NewActiveContract(1, "ciphertext", "hash", false)
		require.NoError(t, err)

		err = pm.Activate("other", "otherhash", false)
		assert.Error(t, err)
	})

	t.Run("requires signature and hash", func(t *testing.T) {
		pm, err := NewPendingContract(1, "auth")
		require.NoError(t, err)

		assert.Error(t, pm.Activate("", "hash", false))
		assert.Error(t, pm.Activate("ciphertext", "", false))
	})
}

func TestPaymentMethod_MarkInvalid(t *testing.T) {
	t.Run("pending becomes invalid", func(t *testing.T) {
		pm, err := NewPendingContract(1, "auth")
		require.NoError(t, err)

		require.NoError(t, pm.MarkInvalid())
		assert.Equal(t, vo.ContractStatusInvalid, pm.ContractStatus())
		assert.False(t, pm.IsActive())
	})

	t.Run("idempotent on invalid", func(t *testing.T) {
		pm, err := NewPendingContract(1, "auth")
		require.NoError(t, err)

		require.NoError(t, pm.MarkInvalid())
		assert.NoError(t, pm.MarkInvalid())
	})

	t.Run("active cannot become invalid", func(t *testing.T) {
		pm, err := NewActiveContract(1, "ciphertext", "hash", false)
		require.NoError(t, err)

		assert.Error(t, pm.MarkInvalid())
	})
}

func TestPaymentMethod_IsCancellable(t *testing.T) {
	t.Run("pending without signature is not cancellable", func(t *testing.T) {
		pm, err := NewPendingContract(1, "auth")
		require.NoError(t, err)

		assert.False(t, pm.IsCancellable())
	})

	t.Run("signed contract is cancellable", func(t *testing.T) {
		pm, err := NewActiveContract(1, "ciphertext", "hash", false)
		require.NoError(t, err)

		assert.True(t, pm.IsCancellable())
	})
}

func TestReconstructPaymentMethod(t *testing.T) {
	encrypted := "ciphertext"
	hash := "hash"

	pm := ReconstructPaymentMethod(PaymentMethodReconstructParams{
		ID:                         5,
		SID:                        "pm_abc123",
		UserID:                     9,
		ContractType:               ContractTypeDirectDebit,
		ContractSignatureEncrypted: &encrypted,
		ContractSignatureHash:      &hash,
		ContractStatus:             vo.ContractStatusActive,
		IsPrimary:                  true,
		IsActive:                   true,
	})

	assert.Equal(t, uint(5), pm.ID())
	assert.Equal(t, "pm_abc123", pm.SID())
	assert.True(t, pm.HasActiveContract())
}
