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

// RecoverContractCommand identifies the authority to re-verify.
type RecoverContractCommand struct {
	UserID    uint
	Authority string
}

// RecoverContractResult reports the recovered (or already present) record.
type RecoverContractResult struct {
	PaymentMethod *dto.PaymentMethodDTO
	Recovered     bool
}

// RecoverContractUseCase re-runs verification for a contract that
// succeeded upstream but whose local write was lost (client crash between
// gateway verify and persistence). Sandbox/test deployments inject the
// fake gateway, so non-production authorities exercise exactly this path.
type RecoverContractUseCase struct {
	writer  verifiedContractWriter
	gateway contractgateway.Gateway
	logger  logger.Interface
}

func NewRecoverContractUseCase(
	pmRepo billing.PaymentMethodRepository,
	eventRepo billing.BillingEventRepository,
	gateway contractgateway.Gateway,
	cipher signaturecipher.Cipher,
	tx *db.TransactionManager,
	logger logger.Interface,
) *RecoverContractUseCase {
	return &RecoverContractUseCase{
		writer: verifiedContractWriter{
			pmRepo:    pmRepo,
			eventRepo: eventRepo,
			cipher:    cipher,
			tx:        tx,
			logger:    logger,
		},
		gateway: gateway,
		logger:  logger,
	}
}

func (uc *RecoverContractUseCase) Execute(ctx context.Context, cmd RecoverContractCommand) (*RecoverContractResult, error) {
	if cmd.Authority == "" {
		return nil, apperrors.NewValidationError("payman authority is required")
	}

	signature, err := uc.gateway.VerifyContract(ctx, cmd.Authority)
	if err != nil {
		uc.logger.Errorw("gateway verification failed during recovery",
			"error", err, "user_id", cmd.UserID, "authority", cmd.Authority)
		return nil, apperrors.NewUpstreamError("contract verification failed")
	}

	result, err := uc.writer.persistVerified(ctx, cmd.UserID, cmd.Authority, signature,
		billing.EventRecovered, billing.EventRecoveryIdempotent)
	if err != nil {
		uc.logger.Errorw("failed to persist recovered contract",
			"error", err, "user_id", cmd.UserID, "authority", cmd.Authority)
		return nil, apperrors.NewInternalError("failed to persist recovered contract")
	}

	uc.logger.Infow("contract recovery completed",
		"payment_method_id", result.PaymentMethod.SID(),
		"user_id", cmd.UserID,
		"idempotent", result.Idempotent)

	return &RecoverContractResult{
		PaymentMethod: dto.FromPaymentMethod(result.PaymentMethod),
		Recovered:     !result.Idempotent,
	}, nil
}
