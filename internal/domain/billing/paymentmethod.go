package billing

import (
	"fmt"
	"time"

	vo "paydesk/internal/domain/billing/valueobjects"
	"paydesk/internal/shared/biztime"
	"paydesk/internal/shared/id"
)

// ContractTypeDirectDebit tags every payment method this service creates.
const ContractTypeDirectDebit = "direct_debit_contract"

// PaymentMethod is one direct-debit contract attempt or established
// contract. The plaintext signature never lives on this struct: only the
// ciphertext and its deterministic hash, which is the dedup lookup key.
type PaymentMethod struct {
	id           uint
	sid          string
	userID       uint
	contractType string

	contractSignatureEncrypted *string
	contractSignatureHash      *string
	contractStatus             vo.ContractStatus

	paymanAuthority *string

	isPrimary bool
	isActive  bool

	lastUsedAt *time.Time
	createdAt  time.Time
	updatedAt  time.Time
}

// NewPendingContract creates a payment method in pending state, persisted
// before the user is redirected to the bank so a crash mid-handshake leaves
// an auditable row behind.
func NewPendingContract(userID uint, paymanAuthority string) (*PaymentMethod, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if paymanAuthority == "" {
		return nil, fmt.Errorf("payman authority is required")
	}

	now := biztime.NowUTC()

	return &PaymentMethod{
		sid:             id.MustGenerateWithPrefix(id.PrefixPaymentMethod, id.DefaultLength),
		userID:          userID,
		contractType:    ContractTypeDirectDebit,
		contractStatus:  vo.ContractStatusPending,
		paymanAuthority: &paymanAuthority,
		isActive:        true,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// NewActiveContract creates a payment method directly in active state.
// Used by the recovery path when verification succeeded upstream but no
// pending row was ever persisted locally.
func NewActiveContract(userID uint, encryptedSignature, signatureHash string, isPrimary bool) (*PaymentMethod, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if encryptedSignature == "" || signatureHash == "" {
		return nil, fmt.Errorf("encrypted signature and hash are required")
	}

	now := biztime.NowUTC()

	return &PaymentMethod{
		sid:                        id.MustGenerateWithPrefix(id.PrefixPaymentMethod, id.DefaultLength),
		userID:                     userID,
		contractType:               ContractTypeDirectDebit,
		contractSignatureEncrypted: &encryptedSignature,
		contractSignatureHash:      &signatureHash,
		contractStatus:             vo.ContractStatusActive,
		isPrimary:                  isPrimary,
		isActive:                   true,
		createdAt:                  now,
		updatedAt:                  now,
	}, nil
}

// Activate transitions a pending contract to active once the gateway has
// exchanged the authority for a signature.
func (p *PaymentMethod) Activate(encryptedSignature, signatureHash string, isPrimary bool) error {
	if !p.contractStatus.CanTransitionTo(vo.ContractStatusActive) {
		return fmt.Errorf("cannot activate contract with status %s", p.contractStatus)
	}
	if encryptedSignature == "" || signatureHash == "" {
		return fmt.Errorf("encrypted signature and hash are required")
	}

	p.contractSignatureEncrypted = &encryptedSignature
	p.contractSignatureHash = &signatureHash
	p.contractStatus = vo.ContractStatusActive
	p.isPrimary = isPrimary
	p.isActive = true
	p.updatedAt = biztime.NowUTC()

	return nil
}

// MarkInvalid records a failed or declined verification. The row is kept
// for audit and never transitions again.
func (p *PaymentMethod) MarkInvalid() error {
	if p.contractStatus == vo.ContractStatusInvalid {
		return nil
	}
	if !p.contractStatus.CanTransitionTo(vo.ContractStatusInvalid) {
		return fmt.Errorf("cannot invalidate contract with status %s", p.contractStatus)
	}

	p.contractStatus = vo.ContractStatusInvalid
	p.isActive = false
	p.updatedAt = biztime.NowUTC()

	return nil
}

// SetPrimary flips the primary flag. The orchestrator enforces the
// one-primary-per-user invariant across rows.
func (p *PaymentMethod) SetPrimary(primary bool) {
	p.isPrimary = primary
	p.updatedAt = biztime.NowUTC()
}

// MarkUsed records a successful charge against this contract.
func (p *PaymentMethod) MarkUsed() {
	now := biztime.NowUTC()
	p.lastUsedAt = &now
	p.updatedAt = now
}

// IsCancellable reports whether the row holds a signed direct-debit
// contract that can be cancelled upstream.
func (p *PaymentMethod) IsCancellable() bool {
	return p.contractType == ContractTypeDirectDebit && p.contractSignatureEncrypted != nil
}

// HasActiveContract reports whether the contract is signed and usable.
func (p *PaymentMethod) HasActiveContract() bool {
	return p.contractStatus == vo.ContractStatusActive && p.contractSignatureEncrypted != nil
}

func (p *PaymentMethod) ID() uint                   { return p.id }
func (p *PaymentMethod) SID() string                { return p.sid }
func (p *PaymentMethod) UserID() uint               { return p.userID }
func (p *PaymentMethod) ContractType() string       { return p.contractType }
func (p *PaymentMethod) ContractSignatureEncrypted() *string {
	return p.contractSignatureEncrypted
}
func (p *PaymentMethod) ContractSignatureHash() *string { return p.contractSignatureHash }
func (p *PaymentMethod) ContractStatus() vo.ContractStatus {
	return p.contractStatus
}
func (p *PaymentMethod) PaymanAuthority() *string { return p.paymanAuthority }
func (p *PaymentMethod) IsPrimary() bool          { return p.isPrimary }
func (p *PaymentMethod) IsActive() bool           { return p.isActive }
func (p *PaymentMethod) LastUsedAt() *time.Time   { return p.lastUsedAt }
func (p *PaymentMethod) CreatedAt() time.Time     { return p.createdAt }
func (p *PaymentMethod) UpdatedAt() time.Time     { return p.updatedAt }

// SetID sets the auto-generated ID after persistence (used by the repository after Create).
func (p *PaymentMethod) SetID(id uint) {
	p.id = id
}

// PaymentMethodReconstructParams carries persisted state back into the domain.
type PaymentMethodReconstructParams struct {
	ID                         uint
	SID                        string
	UserID                     uint
	ContractType               string
	ContractSignatureEncrypted *string
	ContractSignatureHash      *string
	ContractStatus             vo.ContractStatus
	PaymanAuthority            *string
	IsPrimary                  bool
	IsActive                   bool
	LastUsedAt                 *time.Time
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// ReconstructPaymentMethod rebuilds a PaymentMethod from persistence.
func ReconstructPaymentMethod(params PaymentMethodReconstructParams) *PaymentMethod {
	return &PaymentMethod{
		id:                         params.ID,
		sid:                        params.SID,
		userID:                     params.UserID,
		contractType:               params.ContractType,
		contractSignatureEncrypted: params.ContractSignatureEncrypted,
		contractSignatureHash:      params.ContractSignatureHash,
		contractStatus:             params.ContractStatus,
		paymanAuthority:            params.PaymanAuthority,
		isPrimary:                  params.IsPrimary,
		isActive:                   params.IsActive,
		lastUsedAt:                 params.LastUsedAt,
		createdAt:                  params.CreatedAt,
		updatedAt:                  params.UpdatedAt,
	}
}
