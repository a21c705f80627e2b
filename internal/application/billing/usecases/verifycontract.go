package usecases

import (
	"context"

	"paydesk/internal/application/billing/contractgateway"
	"paydesk/internal/application/billing/dto"
	"paydesk/internal/application/billing/signaturecipher"
	"paydesk/internal/domain/billing"
	"paydesk/internal/shared/db"
	apperrors "paydesk/internal/shared/errors"
	"paydesk/internal/shared/logger"
)

// VerifyContractCommand carries the bank redirect parameters.
type VerifyContractCommand struct {
	UserID uint
	// PaymentMethodID, when set, names the row the caller believes it is
	// verifying. The row must exist for the user and carry the submitted
	// authority.
	PaymentMethodID string
	Authority       string
	// Status is the gateway's redirect status. Anything other than the
	// success sentinel fails without contacting the gateway.
	Status string
}

// VerifyContractResult returns the plaintext signature once, for
// client-side confirmation only, alongside the persisted record.
type VerifyContractResult struct {
	Signature     string
	PaymentMethod *dto.PaymentMethodDTO
	// Idempotent is true when this verification resolved to a previously
	// persisted row instead of creating a new one.
	Idempotent bool
}

// VerifyContractUseCase exchanges an authority for a signature and
// persists the active contract, idempotently.
type VerifyContractUseCase struct {
	writer  verifiedContractWriter
	pmRepo  billing.PaymentMethodRepository
	gateway contractgateway.Gateway
	tx      *db.TransactionManager
	logger  logger.Interface
}

func NewVerifyContractUseCase(
	pmRepo billing.PaymentMethodRepository,
	eventRepo billing.BillingEventRepository,
	gateway contractgateway.Gateway,
	cipher signaturecipher.Cipher,
	tx *db.TransactionManager,
	logger logger.Interface,
) *VerifyContractUseCase {
	return &VerifyContractUseCase{
		writer: verifiedContractWriter{
			pmRepo:    pmRepo,
			eventRepo: eventRepo,
			cipher:    cipher,
			tx:        tx,
			logger:    logger,
		},
		pmRepo:  pmRepo,
		gateway: gateway,
		tx:      tx,
		logger:  logger,
	}
}

func (uc *VerifyContractUseCase) Execute(ctx context.Context, cmd VerifyContractCommand) (*VerifyContractResult, error) {
	if cmd.Authority == "" {
		return nil, apperrors.NewValidationError("payman authority is required")
	}
	if cmd.PaymentMethodID != "" {
		pm, err := uc.pmRepo.GetBySID(ctx, cmd.UserID, cmd.PaymentMethodID)
		if err != nil {
			uc.logger.Errorw("failed to load payment method for verification",
				"error", err, "user_id", cmd.UserID, "payment_method_id", cmd.PaymentMethodID)
			return nil, apperrors.NewInternalError("failed to load payment method")
		}
		if pm == nil {
			return nil, apperrors.NewNotFoundError("payment method not found")
		}
		if pm.PaymanAuthority() == nil || *pm.PaymanAuthority() != cmd.Authority {
			return nil, apperrors.NewValidationError("payman authority does not belong to this payment method")
		}
	}
	if cmd.Status != contractgateway.StatusOK {
		uc.markPendingInvalid(ctx, cmd.UserID, cmd.Authority)
		return nil, apperrors.NewValidationError("contract signing was not completed", "status="+cmd.Status)
	}

	signature, err := uc.gateway.VerifyContract(ctx, cmd.Authority)
	if err != nil {
		uc.logger.Errorw("gateway contract verification failed",
			"error", err, "user_id", cmd.UserID, "authority", cmd.Authority)
		return nil, apperrors.NewUpstreamError("contract verification failed")
	}

	result, err := uc.writer.persistVerified(ctx, cmd.UserID, cmd.Authority, signature,
		billing.EventContractVerified, "")
	if err != nil {
		uc.logger.Errorw("failed to persist verified contract",
			"error", err, "user_id", cmd.UserID, "authority", cmd.Authority)
		return nil, apperrors.NewInternalError("failed to persist verified contract")
	}

	uc.logger.Infow("direct debit contract verified",
		"payment_method_id", result.PaymentMethod.SID(),
		"user_id", cmd.UserID,
		"idempotent", result.Idempotent)

	return &VerifyContractResult{
		Signature:     signature,
		PaymentMethod: dto.FromPaymentMethod(result.PaymentMethod),
		Idempotent:    result.Idempotent,
	}, nil
}

// markPendingInvalid moves the pending row (if any) to invalid when the
// user declined at the bank. Best-effort: a failure here must not mask the
// validation error returned to the client.
func (uc *VerifyContractUseCase) markPendingInvalid(ctx context.Context, userID uint, authority string) {
	err := uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		pending, err := uc.writer.pmRepo.GetPendingByAuthority(txCtx, userID, authority)
		if err != nil || pending == nil {
			return err
		}
		if err := pending.MarkInvalid(); err != nil {
			return err
		}
		if err := uc.writer.pmRepo.Update(txCtx, pending); err != nil {
			return err
		}
		return uc.writer.appendEvent(txCtx, userID, pending, billing.EventContractInvalidated, map[string]interface{}{
			"paymentMethodId": pending.SID(),
			"paymanAuthority": authority,
		})
	})
	if err != nil {
		uc.logger.Warnw("failed to invalidate pending contract",
			"error", err, "user_id", userID, "authority", authority)
	}
}
