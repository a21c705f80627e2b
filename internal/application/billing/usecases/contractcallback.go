package usecases

import (
	"context"

	"paydesk/internal/application/billing/contractgateway"
	"paydesk/internal/application/billing/dto"
	"paydesk/internal/application/billing/signaturecipher"
	"paydesk/internal/domain/billing"
	"paydesk/internal/shared/db"
	"paydesk/internal/shared/logger"
)

// ContractCallbackCommand carries the bank redirect parameters for the
// unauthenticated callback endpoint. UserID is zero when neither a session
// nor a valid recovery cookie resolved a user.
type ContractCallbackCommand struct {
	UserID    uint
	Authority string
	Status    string
	// UserFromCookie marks that UserID came from the recovery cookie
	// rather than a session, for the audit trail.
	UserFromCookie bool
}

// ContractCallbackResult never carries an error to the client: the
// redirect target is controlled by the gateway, not a trusted client, so
// the endpoint always answers HTTP 200 with Success set accordingly.
type ContractCallbackResult struct {
	Success       bool
	Message       string
	Signature     string
	PaymentMethod *dto.PaymentMethodDTO
	// Persisted is true when a user was resolved and the contract was
	// stored (or found idempotently).
	Persisted bool
}

// ContractCallbackUseCase handles the browser redirect from the bank.
// With a resolved user it runs the same dedup-then-create path as
// verification; without one it only confirms the signature read-only.
// Safe to invoke repeatedly for the same authority.
type ContractCallbackUseCase struct {
	writer  verifiedContractWriter
	gateway contractgateway.Gateway
	logger  logger.Interface
}

func NewContractCallbackUseCase(
	pmRepo billing.PaymentMethodRepository,
	eventRepo billing.BillingEventRepository,
	gateway contractgateway.Gateway,
	cipher signaturecipher.Cipher,
	tx *db.TransactionManager,
	logger logger.Interface,
) *ContractCallbackUseCase {
	return &ContractCallbackUseCase{
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

func (uc *ContractCallbackUseCase) Execute(ctx context.Context, cmd ContractCallbackCommand) *ContractCallbackResult {
	if cmd.Authority == "" {
		return &ContractCallbackResult{Success: false, Message: "missing payman authority"}
	}
	if cmd.Status != contractgateway.StatusOK {
		// Non-success redirect: nothing to verify, nothing persisted.
		return &ContractCallbackResult{Success: false, Message: "contract signing was not completed"}
	}

	signature, err := uc.gateway.VerifyContract(ctx, cmd.Authority)
	if err != nil {
		uc.logger.Errorw("gateway verification failed on public callback",
			"error", err, "authority", cmd.Authority)
		return &ContractCallbackResult{Success: false, Message: "contract verification failed"}
	}

	if cmd.UserID == 0 {
		// No session and no matching recovery cookie: read-only
		// confirmation, the contract can be recovered manually later.
		uc.logger.Warnw("contract callback without resolvable user",
			"authority", cmd.Authority)
		return &ContractCallbackResult{
			Success:   true,
			Message:   "contract verified, sign in to attach it to your account",
			Signature: signature,
		}
	}

	result, err := uc.writer.persistVerified(ctx, cmd.UserID, cmd.Authority, signature,
		billing.EventContractVerified, "")
	if err != nil {
		uc.logger.Errorw("failed to persist contract from public callback",
			"error", err, "user_id", cmd.UserID, "authority", cmd.Authority)
		return &ContractCallbackResult{Success: false, Message: "failed to store contract"}
	}

	uc.logger.Infow("contract persisted from public callback",
		"payment_method_id", result.PaymentMethod.SID(),
		"user_id", cmd.UserID,
		"user_from_cookie", cmd.UserFromCookie,
		"idempotent", result.Idempotent)

	return &ContractCallbackResult{
		Success:       true,
		Message:       "contract verified",
		Signature:     signature,
		PaymentMethod: dto.FromPaymentMethod(result.PaymentMethod),
		Persisted:     true,
	}
}
