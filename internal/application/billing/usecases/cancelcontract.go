package usecases

import (
	"context"

	"paydesk/internal/application/billing/contractgateway"
	"paydesk/internal/application/billing/signaturecipher"
	"paydesk/internal/domain/billing"
	"paydesk/internal/domain/subscription"
	"paydesk/internal/shared/db"
	apperrors "paydesk/internal/shared/errors"
	"paydesk/internal/shared/logger"
)

// CancelContractCommand identifies the contract to cancel.
type CancelContractCommand struct {
	UserID          uint
	PaymentMethodID string
}

// CancelContractUseCase revokes a contract upstream (best-effort) and
// hard-deletes the local row after writing the deletion audit event.
// Local state is authoritative for the user-facing outcome: an
// unreachable gateway never blocks removal.
type CancelContractUseCase struct {
	pmRepo    billing.PaymentMethodRepository
	eventRepo billing.BillingEventRepository
	subRepo   subscription.SubscriptionRepository
	gateway   contractgateway.Gateway
	cipher    signaturecipher.Cipher
	tx        *db.TransactionManager
	logger    logger.Interface
}

func NewCancelContractUseCase(
	pmRepo billing.PaymentMethodRepository,
	eventRepo billing.BillingEventRepository,
	subRepo subscription.SubscriptionRepository,
	gateway contractgateway.Gateway,
	cipher signaturecipher.Cipher,
	tx *db.TransactionManager,
	logger logger.Interface,
) *CancelContractUseCase {
	return &CancelContractUseCase{
		pmRepo:    pmRepo,
		eventRepo: eventRepo,
		subRepo:   subRepo,
		gateway:   gateway,
		cipher:    cipher,
		tx:        tx,
		logger:    logger,
	}
}

func (uc *CancelContractUseCase) Execute(ctx context.Context, cmd CancelContractCommand) error {
	pm, err := uc.pmRepo.GetBySID(ctx, cmd.UserID, cmd.PaymentMethodID)
	if err != nil {
		return apperrors.NewInternalError("failed to load payment method")
	}
	if pm == nil {
		return apperrors.NewNotFoundError("payment method not found")
	}
	if !pm.IsCancellable() {
		return apperrors.NewBadRequestError("payment method is not a signed direct debit contract")
	}

	inUse, err := uc.subRepo.HasActiveByPaymentMethod(ctx, cmd.UserID, pm.ID())
	if err != nil {
		return apperrors.NewInternalError("failed to check subscriptions")
	}
	if inUse {
		return apperrors.NewConflictError("contract is referenced by an active subscription")
	}

	// Upstream cancellation is best-effort. The outcome is recorded in the
	// audit event, never surfaced as a failure.
	gatewayCancelled := uc.cancelUpstream(ctx, pm)

	hash := ""
	if pm.ContractSignatureHash() != nil {
		hash = *pm.ContractSignatureHash()
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		// The event must not hold a foreign key to the row being deleted
		// in the same unit of work; the id lives in the payload only.
		event, err := billing.NewBillingEvent(cmd.UserID, nil, billing.EventPaymentMethodHardDeleted, map[string]interface{}{
			"paymentMethodId":             pm.SID(),
			"contractStatus":              pm.ContractStatus().String(),
			"signatureHash":               hash,
			"wasPrimary":                  pm.IsPrimary(),
			"zarinpalCancellationSuccess": gatewayCancelled,
		}, billing.SeverityWarning)
		if err != nil {
			return err
		}
		if err := uc.eventRepo.Append(txCtx, event); err != nil {
			return err
		}
		return uc.pmRepo.HardDelete(txCtx, cmd.UserID, pm.ID())
	})
	if err != nil {
		uc.logger.Errorw("failed to delete payment method",
			"error", err, "user_id", cmd.UserID, "payment_method_id", pm.SID())
		return apperrors.NewInternalError("failed to delete payment method")
	}

	uc.logger.Infow("direct debit contract cancelled",
		"payment_method_id", pm.SID(),
		"user_id", cmd.UserID,
		"gateway_cancelled", gatewayCancelled)

	return nil
}

// cancelUpstream decrypts the signature and revokes the contract at the
// gateway, reporting success. Decryption or gateway failures (including
// the gateway's "contract not active") are logged and swallowed.
func (uc *CancelContractUseCase) cancelUpstream(ctx context.Context, pm *billing.PaymentMethod) bool {
	encrypted := pm.ContractSignatureEncrypted()
	if encrypted == nil {
		return false
	}

	signature, err := uc.cipher.Decrypt(*encrypted)
	if err != nil {
		uc.logger.Errorw("failed to decrypt contract signature for cancellation",
			"error", err, "payment_method_id", pm.SID())
		return false
	}

	if err := uc.gateway.CancelContract(ctx, signature); err != nil {
		uc.logger.Warnw("gateway contract cancellation failed, proceeding locally",
			"error", err, "payment_method_id", pm.SID())
		return false
	}

	return true
}
