package usecases

import (
	"context"
	"time"

	"paydesk/internal/application/billing/contractgateway"
	"paydesk/internal/application/billing/dto"
	"paydesk/internal/domain/billing"
	vo "paydesk/internal/domain/billing/valueobjects"
	"paydesk/internal/shared/biztime"
	"paydesk/internal/shared/db"
	apperrors "paydesk/internal/shared/errors"
	"paydesk/internal/shared/logger"
)

// BankListCache is an optional read-through cache in front of the
// gateway's bank list. Failed fetches are never cached.
type BankListCache interface {
	Get(ctx context.Context) ([]contractgateway.Bank, bool)
	Set(ctx context.Context, banks []contractgateway.Bank)
}

// CreateContractCommand carries the user's requested contract terms.
type CreateContractCommand struct {
	UserID          uint
	Mobile          string
	NationalID      string
	MaxAmount       int64
	MaxDailyCount   int
	MaxMonthlyCount int
	ExpireAt        time.Time
}

// CreateContractResult is returned to the handler, which signs the
// recovery cookie from the authority before responding.
type CreateContractResult struct {
	ContractID      string
	PaymanAuthority string
	Banks           []dto.BankDTO
	// SigningURLTemplate has {bankCode} left for the client to fill in.
	SigningURLTemplate string
}

// CreateContractUseCase opens a direct-debit contract negotiation: fetch
// and validate the bank list, request an authority from the gateway, and
// persist a pending payment method so a crash before verification still
// leaves an auditable row.
type CreateContractUseCase struct {
	pmRepo    billing.PaymentMethodRepository
	eventRepo billing.BillingEventRepository
	gateway   contractgateway.Gateway
	urls      contractgateway.SigningURLBuilder
	bankCache BankListCache
	tx        *db.TransactionManager
	logger    logger.Interface
	config    ContractConfig
}

// ContractConfig holds the callback URL the gateway redirects the bank to.
type ContractConfig struct {
	CallbackURL string
}

func NewCreateContractUseCase(
	pmRepo billing.PaymentMethodRepository,
	eventRepo billing.BillingEventRepository,
	gateway contractgateway.Gateway,
	urls contractgateway.SigningURLBuilder,
	bankCache BankListCache,
	tx *db.TransactionManager,
	logger logger.Interface,
	config ContractConfig,
) *CreateContractUseCase {
	return &CreateContractUseCase{
		pmRepo:    pmRepo,
		eventRepo: eventRepo,
		gateway:   gateway,
		urls:      urls,
		bankCache: bankCache,
		tx:        tx,
		logger:    logger,
		config:    config,
	}
}

func (uc *CreateContractUseCase) Execute(ctx context.Context, cmd CreateContractCommand) (*CreateContractResult, error) {
	mobile, err := vo.NewMobileNumber(cmd.Mobile)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid mobile number", err.Error())
	}

	limits, err := vo.NewContractLimits(cmd.MaxAmount, cmd.MaxDailyCount, cmd.MaxMonthlyCount, cmd.ExpireAt, biztime.NowUTC())
	if err != nil {
		return nil, apperrors.NewValidationError("invalid contract limits", err.Error())
	}

	// Bank list first. If the gateway cannot produce it the whole
	// operation fails: limits are never accepted unchecked.
	banks, err := uc.fetchBanks(ctx)
	if err != nil {
		uc.logger.Errorw("failed to fetch bank list", "error", err, "user_id", cmd.UserID)
		return nil, apperrors.NewUpstreamError("bank list unavailable")
	}
	if len(banks) == 0 {
		uc.logger.Errorw("gateway returned empty bank list", "user_id", cmd.UserID)
		return nil, apperrors.NewUpstreamError("bank list unavailable")
	}

	domainBanks := make([]vo.Bank, len(banks))
	for i, b := range banks {
		domainBanks[i] = vo.Bank{
			Name:           b.Name,
			Slug:           b.Slug,
			BankCode:       b.BankCode,
			MaxDailyAmount: b.MaxDailyAmount,
			MaxDailyCount:  b.MaxDailyCount,
		}
	}
	if err := limits.ValidateAgainstBanks(domainBanks); err != nil {
		return nil, apperrors.NewValidationError("contract limits rejected", err.Error())
	}

	gatewayResp, err := uc.gateway.RequestContract(ctx, contractgateway.ContractRequest{
		Mobile:          mobile.String(),
		NationalID:      cmd.NationalID,
		ExpireAt:        limits.ExpireAt,
		MaxDailyCount:   limits.MaxDailyCount,
		MaxMonthlyCount: limits.MaxMonthlyCount,
		MaxAmount:       limits.MaxAmount,
		CallbackURL:     uc.config.CallbackURL,
	})
	if err != nil {
		uc.logger.Errorw("gateway contract request failed", "error", err, "user_id", cmd.UserID)
		return nil, apperrors.NewUpstreamError("contract request failed")
	}

	pm, err := billing.NewPendingContract(cmd.UserID, gatewayResp.PaymanAuthority)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create payment method", err.Error())
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.pmRepo.Create(txCtx, pm); err != nil {
			return err
		}

		pmID := pm.ID()
		event, err := billing.NewBillingEvent(cmd.UserID, &pmID, billing.EventContractCreated, map[string]interface{}{
			"paymentMethodId": pm.SID(),
			"paymanAuthority": gatewayResp.PaymanAuthority,
			"maxAmount":       limits.MaxAmount,
			"maxDailyCount":   limits.MaxDailyCount,
			"maxMonthlyCount": limits.MaxMonthlyCount,
			"expireAt":        limits.ExpireAt,
		}, billing.SeverityInfo)
		if err != nil {
			return err
		}
		return uc.eventRepo.Append(txCtx, event)
	})
	if err != nil {
		uc.logger.Errorw("failed to persist pending contract", "error", err, "user_id", cmd.UserID)
		return nil, apperrors.NewInternalError("failed to persist pending contract")
	}

	uc.logger.Infow("direct debit contract requested",
		"payment_method_id", pm.SID(),
		"user_id", cmd.UserID,
		"authority", gatewayResp.PaymanAuthority)

	bankDTOs := make([]dto.BankDTO, len(banks))
	for i, b := range banks {
		bankDTOs[i] = dto.BankDTO{
			Name:           b.Name,
			Slug:           b.Slug,
			BankCode:       b.BankCode,
			MaxDailyAmount: b.MaxDailyAmount,
			MaxDailyCount:  b.MaxDailyCount,
			SigningURL:     uc.urls.SigningURL(gatewayResp.PaymanAuthority, b.BankCode),
		}
	}

	return &CreateContractResult{
		ContractID:         pm.SID(),
		PaymanAuthority:    gatewayResp.PaymanAuthority,
		Banks:              bankDTOs,
		SigningURLTemplate: uc.urls.SigningURL(gatewayResp.PaymanAuthority, "{bankCode}"),
	}, nil
}

func (uc *CreateContractUseCase) fetchBanks(ctx context.Context) ([]contractgateway.Bank, error) {
	if uc.bankCache != nil {
		if banks, ok := uc.bankCache.Get(ctx); ok {
			return banks, nil
		}
	}

	banks, err := uc.gateway.BankList(ctx)
	if err != nil {
		return nil, err
	}

	if uc.bankCache != nil && len(banks) > 0 {
		uc.bankCache.Set(ctx, banks)
	}
	return banks, nil
}
