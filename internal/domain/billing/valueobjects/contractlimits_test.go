package valueobjects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContractLimits(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	future := now.AddDate(1, 0, 0)

	t.Run("valid limits", func(t *testing.T) {
		limits, err := NewContractLimits(500000, 5, 50, future, now)
		require.NoError(t, err)
		assert.Equal(t, int64(500000), limits.MaxAmount)
		assert.Equal(t, 5, limits.MaxDailyCount)
		assert.Equal(t, 50, limits.MaxMonthlyCount)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewContractLimits(0, 5, 50, future, now)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive counts", func(t *testing.T) {
		_, err := NewContractLimits(500000, 0, 50, future, now)
		assert.Error(t, err)

		_, err = NewContractLimits(500000, 5, 0, future, now)
		assert.Error(t, err)
	})

	t.Run("rejects daily above monthly", func(t *testing.T) {
		_, err := NewContractLimits(500000, 60, 50, future, now)
		assert.Error(t, err)
	})

	t.Run("rejects past expiry", func(t *testing.T) {
		_, err := NewContractLimits(500000, 5, 50, now.AddDate(0, 0, -1), now)
		assert.Error(t, err)

		_, err = NewContractLimits(500000, 5, 50, now, now)
		assert.Error(t, err)
	})
}

func TestBank_SupportsLimits(t *testing.T) {
	limits := ContractLimits{MaxAmount: 1000000, MaxDailyCount: 10}

	t.Run("unlimited bank supports anything", func(t *testing.T) {
		bank := Bank{Name: "Unlimited", MaxDailyAmount: 0, MaxDailyCount: 0}
		assert.True(t, bank.SupportsLimits(limits))
	})

	t.Run("amount cap enforced", func(t *testing.T) {
		bank := Bank{Name: "Capped", MaxDailyAmount: 500000}
		assert.False(t, bank.SupportsLimits(limits))
	})

	t.Run("count cap enforced", func(t *testing.T) {
		bank := Bank{Name: "Capped", MaxDailyCount: 5}
		assert.False(t, bank.SupportsLimits(limits))
	})

	t.Run("caps above request are fine", func(t *testing.T) {
		bank := Bank{Name: "Roomy", MaxDailyAmount: 2000000, MaxDailyCount: 20}
		assert.True(t, bank.SupportsLimits(limits))
	})
}

func TestContractLimits_ValidateAgainstBanks(t *testing.T) {
	limits := ContractLimits{MaxAmount: 1000000, MaxDailyCount: 10}

	t.Run("empty bank list is an error", func(t *testing.T) {
		assert.Error(t, limits.ValidateAgainstBanks(nil))
		assert.Error(t, limits.ValidateAgainstBanks([]Bank{}))
	})

	t.Run("one supporting bank is enough", func(t *testing.T) {
		banks := []Bank{
			{Name: "Strict", MaxDailyAmount: 100},
			{Name: "Open"},
		}
		assert.NoError(t, limits.ValidateAgainstBanks(banks))
	})

	t.Run("no supporting bank rejects", func(t *testing.T) {
		banks := []Bank{
			{Name: "Strict", MaxDailyAmount: 100},
			{Name: "AlsoStrict", MaxDailyCount: 1},
		}
		assert.Error(t, limits.ValidateAgainstBanks(banks))
	})
}
