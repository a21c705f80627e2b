package valueobjects

import (
	"fmt"
	"time"
)

// Bank is one entry of the gateway's current bank list. A zero
// MaxDailyAmount or MaxDailyCount means the bank advertises no limit.
type Bank struct {
	Name           string
	Slug           string
	BankCode       string
	MaxDailyAmount int64
	MaxDailyCount  int
}

// SupportsLimits reports whether the bank can honor the requested limits.
func (b Bank) SupportsLimits(limits ContractLimits) bool {
	if b.MaxDailyAmount > 0 && limits.MaxAmount > b.MaxDailyAmount {
		return false
	}
	if b.MaxDailyCount > 0 && limits.MaxDailyCount > b.MaxDailyCount {
		return false
	}
	return true
}

// ContractLimits are the caps the user requests for a direct-debit contract.
type ContractLimits struct {
	MaxAmount       int64
	MaxDailyCount   int
	MaxMonthlyCount int
	ExpireAt        time.Time
}

// NewContractLimits validates the basic shape of the requested limits.
func NewContractLimits(maxAmount int64, maxDailyCount, maxMonthlyCount int, expireAt time.Time, now time.Time) (ContractLimits, error) {
	if maxAmount <= 0 {
		return ContractLimits{}, fmt.Errorf("max amount must be positive")
	}
	if maxDailyCount <= 0 {
		return ContractLimits{}, fmt.Errorf("max daily count must be positive")
	}
	if maxMonthlyCount <= 0 {
		return ContractLimits{}, fmt.Errorf("max monthly count must be positive")
	}
	if maxDailyCount > maxMonthlyCount {
		return ContractLimits{}, fmt.Errorf("max daily count cannot exceed max monthly count")
	}
	if !expireAt.After(now) {
		return ContractLimits{}, fmt.Errorf("contract expiry must be in the future")
	}

	return ContractLimits{
		MaxAmount:       maxAmount,
		MaxDailyCount:   maxDailyCount,
		MaxMonthlyCount: maxMonthlyCount,
		ExpireAt:        expireAt,
	}, nil
}

// ValidateAgainstBanks checks the requested limits against the gateway's
// advertised bank list. An empty list is an error: limits are never
// accepted unchecked.
func (l ContractLimits) ValidateAgainstBanks(banks []Bank) error {
	if len(banks) == 0 {
		return fmt.Errorf("bank list is empty, cannot validate contract limits")
	}

	for _, b := range banks {
		if b.SupportsLimits(l) {
			return nil
		}
	}

	return fmt.Errorf("requested limits exceed the maximums of every available bank")
}
