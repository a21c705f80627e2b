package usecases

import (
	"context"

	"paydesk/internal/application/billing/dto"
	"paydesk/internal/domain/billing"
	"paydesk/internal/domain/subscription"
	apperrors "paydesk/internal/shared/errors"
	"paydesk/internal/shared/logger"
)

// ListPaymentMethodsQuery scopes the listing to one user.
type ListPaymentMethodsQuery struct {
	UserID uint
}

// ListPaymentMethodsResult is the read surface backing the cards UI.
type ListPaymentMethodsResult struct {
	PaymentMethods []*dto.PaymentMethodDTO
}

// ListPaymentMethodsUseCase lists the user's payment methods, flagging
// rows referenced by an active subscription so the UI can disable their
// delete action.
type ListPaymentMethodsUseCase struct {
	pmRepo  billing.PaymentMethodRepository
	subRepo subscription.SubscriptionRepository
	logger  logger.Interface
}

func NewListPaymentMethodsUseCase(
	pmRepo billing.PaymentMethodRepository,
	subRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *ListPaymentMethodsUseCase {
	return &ListPaymentMethodsUseCase{
		pmRepo:  pmRepo,
		subRepo: subRepo,
		logger:  logger,
	}
}

func (uc *ListPaymentMethodsUseCase) Execute(ctx context.Context, query ListPaymentMethodsQuery) (*ListPaymentMethodsResult, error) {
	methods, err := uc.pmRepo.ListByUser(ctx, query.UserID)
	if err != nil {
		uc.logger.Errorw("failed to list payment methods", "error", err, "user_id", query.UserID)
		return nil, apperrors.NewInternalError("failed to list payment methods")
	}

	inUse := make(map[uint]bool)
	ids, err := uc.subRepo.ListActivePaymentMethodIDs(ctx, query.UserID)
	if err != nil {
		uc.logger.Errorw("failed to resolve subscriptions for listing", "error", err, "user_id", query.UserID)
		return nil, apperrors.NewInternalError("failed to list payment methods")
	}
	for _, id := range ids {
		inUse[id] = true
	}

	dtos := make([]*dto.PaymentMethodDTO, 0, len(methods))
	for _, m := range methods {
		d := dto.FromPaymentMethod(m)
		d.InUse = inUse[m.ID()]
		dtos = append(dtos, d)
	}

	return &ListPaymentMethodsResult{PaymentMethods: dtos}, nil
}
