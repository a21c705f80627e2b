package valueobjects

import "fmt"

// ContractStatus is the lifecycle state of a direct-debit contract.
//
// no_contract -> pending -> active; active -> cancelled (row removed);
// pending -> invalid (kept for audit); active -> expired (time-based,
// driven outside this service). Failed attempts never return to active,
// a fresh contract request is required.
type ContractStatus string

const (
	ContractStatusNone      ContractStatus = "no_contract"
	ContractStatusPending   ContractStatus = "pending"
	ContractStatusActive    ContractStatus = "active"
	ContractStatusExpired   ContractStatus = "expired"
	ContractStatusCancelled ContractStatus = "cancelled"
	ContractStatusInvalid   ContractStatus = "invalid"
)

// ParseContractStatus validates and returns a ContractStatus.
func ParseContractStatus(s string) (ContractStatus, error) {
	status := ContractStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid contract status: %q", s)
	}
	return status, nil
}

func (s ContractStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known status.
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusNone, ContractStatusPending, ContractStatusActive,
		ContractStatusExpired, ContractStatusCancelled, ContractStatusInvalid:
		return true
	}
	return false
}

// IsFinal reports whether no further transitions are expected from s.
func (s ContractStatus) IsFinal() bool {
	switch s {
	case ContractStatusExpired, ContractStatusCancelled, ContractStatusInvalid:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine permits s -> next.
func (s ContractStatus) CanTransitionTo(next ContractStatus) bool {
	switch s {
	case ContractStatusNone:
		return next == ContractStatusPending
	case ContractStatusPending:
		return next == ContractStatusActive || next == ContractStatusInvalid
	case ContractStatusActive:
		return next == ContractStatusCancelled || next == ContractStatusExpired
	default:
		return false
	}
}
