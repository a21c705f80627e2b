package usecases

import (
	"context"
	"errors"
	"fmt"

	"paydesk/internal/application/billing/signaturecipher"
	"paydesk/internal/domain/billing"
	"paydesk/internal/shared/db"
	"paydesk/internal/shared/logger"
)

// verifiedContractWriter is the shared dedup-then-persist path behind
// VerifyContract, the public callback and manual recovery. All three must
// uphold the same invariant: at most one active row per signature hash per
// user, no matter how often they run.
type verifiedContractWriter struct {
	pmRepo    billing.PaymentMethodRepository
	eventRepo billing.BillingEventRepository
	cipher    signaturecipher.Cipher
	tx        *db.TransactionManager
	logger    logger.Interface
}

// persistResult is what the writer hands back to its callers.
type persistResult struct {
	PaymentMethod *billing.PaymentMethod
	// Idempotent is true when an existing row with the same signature
	// hash was found and returned instead of creating a new one.
	Idempotent bool
}

// persistVerified encrypts the signature, searches for an existing active
// row by hash, and either returns it (idempotent) or upgrades the pending
// row / creates a new active one. newEvent is appended on creation,
// idempotentEvent (optional, may be empty) on the duplicate path. All
// writes share one transaction.
//
// The read-check-write sequence can race with a concurrent call for the
// same authority; the unique index on (user_id, contract_signature_hash)
// decides the winner and the loser reconciles by re-reading.
func (w *verifiedContractWriter) persistVerified(
	ctx context.Context,
	userID uint,
	authority string,
	signature string,
	newEvent billing.EventType,
	idempotentEvent billing.EventType,
) (*persistResult, error) {
	encrypted, hash, err := w.cipher.Encrypt(signature)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt signature: %w", err)
	}

	result := &persistResult{}

	txErr := w.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		existing, err := w.pmRepo.GetActiveBySignatureHash(txCtx, userID, hash)
		if err != nil {
			return err
		}
		if existing != nil {
			result.PaymentMethod = existing
			result.Idempotent = true
			if idempotentEvent != "" {
				return w.appendEvent(txCtx, userID, existing, idempotentEvent, map[string]interface{}{
					"paymentMethodId": existing.SID(),
					"signatureHash":   hash,
					"paymanAuthority": authority,
				})
			}
			return nil
		}

		hasPrimary, err := w.pmRepo.HasActivePrimary(txCtx, userID)
		if err != nil {
			return err
		}

		pending, err := w.pmRepo.GetPendingByAuthority(txCtx, userID, authority)
		if err != nil {
			return err
		}

		if pending != nil {
			if err := pending.Activate(encrypted, hash, !hasPrimary); err != nil {
				return err
			}
			if err := w.pmRepo.Update(txCtx, pending); err != nil {
				return err
			}
			result.PaymentMethod = pending
		} else {
			pm, err := billing.NewActiveContract(userID, encrypted, hash, !hasPrimary)
			if err != nil {
				return err
			}
			if err := w.pmRepo.Create(txCtx, pm); err != nil {
				return err
			}
			result.PaymentMethod = pm
		}

		return w.appendEvent(txCtx, userID, result.PaymentMethod, newEvent, map[string]interface{}{
			"paymentMethodId": result.PaymentMethod.SID(),
			"signatureHash":   hash,
			"paymanAuthority": authority,
			"isPrimary":       result.PaymentMethod.IsPrimary(),
		})
	})

	if txErr != nil {
		if errors.Is(txErr, billing.ErrDuplicateSignature) {
			// Lost the race against a concurrent verification. The unique
			// index kept a single row alive; resolve to it.
			existing, err := w.pmRepo.GetActiveBySignatureHash(ctx, userID, hash)
			if err != nil {
				return nil, err
			}
			if existing == nil {
				return nil, txErr
			}
			w.logger.Warnw("concurrent verification detected, resolved to surviving row",
				"user_id", userID, "payment_method_id", existing.SID())
			return &persistResult{PaymentMethod: existing, Idempotent: true}, nil
		}
		return nil, txErr
	}

	return result, nil
}

func (w *verifiedContractWriter) appendEvent(ctx context.Context, userID uint, pm *billing.PaymentMethod, eventType billing.EventType, data map[string]interface{}) error {
	pmID := pm.ID()
	event, err := billing.NewBillingEvent(userID, &pmID, eventType, data, billing.SeverityInfo)
	if err != nil {
		return err
	}
	return w.eventRepo.Append(ctx, event)
}
