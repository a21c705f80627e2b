package billing

import (
	"context"
	"errors"
)

// ErrDuplicateSignature is returned by Create/Update when the
// (user_id, contract_signature_hash) unique index rejects the write.
// Callers resolve it by re-reading the surviving row.
var ErrDuplicateSignature = errors.New("duplicate contract signature")

// PaymentMethodRepository persists direct-debit contracts. All queries are
// scoped by user: no operation may read or mutate another user's rows.
type PaymentMethodRepository interface {
	Create(ctx context.Context, pm *PaymentMethod) error
	Update(ctx context.Context, pm *PaymentMethod) error
	// HardDelete removes the row permanently. The caller is responsible for
	// writing the deletion audit event in the same transaction first.
	HardDelete(ctx context.Context, userID, id uint) error

	GetByID(ctx context.Context, userID, id uint) (*PaymentMethod, error)
	GetBySID(ctx context.Context, userID uint, sid string) (*PaymentMethod, error)
	// GetActiveBySignatureHash is the dedup lookup: it finds the user's
	// active contract carrying the given signature hash, or returns
	// (nil, nil) when none exists.
	GetActiveBySignatureHash(ctx context.Context, userID uint, hash string) (*PaymentMethod, error)
	// GetPendingByAuthority finds the user's pending row for an in-flight
	// contract negotiation, or returns (nil, nil).
	GetPendingByAuthority(ctx context.Context, userID uint, authority string) (*PaymentMethod, error)
	ListByUser(ctx context.Context, userID uint) ([]*PaymentMethod, error)

	HasActivePrimary(ctx context.Context, userID uint) (bool, error)
	// UnsetPrimaryForUser clears is_primary on all of the user's rows.
	UnsetPrimaryForUser(ctx context.Context, userID uint) error
}

// BillingEventRepository persists the append-only audit log.
type BillingEventRepository interface {
	Append(ctx context.Context, event *BillingEvent) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]*BillingEvent, error)
	// CountByType exists for the audit assertions in tests and admin views.
	CountByType(ctx context.Context, userID uint, eventType EventType) (int64, error)
}
