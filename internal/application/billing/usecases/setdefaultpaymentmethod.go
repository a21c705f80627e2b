package usecases

import (
	"context"

	"paydesk/internal/domain/billing"
	"paydesk/internal/shared/db"
	apperrors "paydesk/internal/shared/errors"
	"paydesk/internal/shared/logger"
)

// SetDefaultPaymentMethodCommand identifies the new default.
type SetDefaultPaymentMethodCommand struct {
	UserID          uint
	PaymentMethodID string
}

// SetDefaultPaymentMethodResult reports whether anything changed.
type SetDefaultPaymentMethodResult struct {
	Changed       bool
	PreviousID    string
	NewID         string
	PaymentMethod *dtoPaymentMethodRef
}

type dtoPaymentMethodRef struct {
	ID string `json:"id"`
}

// SetDefaultPaymentMethodUseCase flips the primary flag atomically:
// unset-all then set-one then audit, in a single transaction, so a crash
// can never leave zero or two primaries observable.
type SetDefaultPaymentMethodUseCase struct {
	pmRepo    billing.PaymentMethodRepository
	eventRepo billing.BillingEventRepository
	tx        *db.TransactionManager
	logger    logger.Interface
}

func NewSetDefaultPaymentMethodUseCase(
	pmRepo billing.PaymentMethodRepository,
	eventRepo billing.BillingEventRepository,
	tx *db.TransactionManager,
	logger logger.Interface,
) *SetDefaultPaymentMethodUseCase {
	return &SetDefaultPaymentMethodUseCase{
		pmRepo:    pmRepo,
		eventRepo: eventRepo,
		tx:        tx,
		logger:    logger,
	}
}

func (uc *SetDefaultPaymentMethodUseCase) Execute(ctx context.Context, cmd SetDefaultPaymentMethodCommand) (*SetDefaultPaymentMethodResult, error) {
	result := &SetDefaultPaymentMethodResult{}

	err := uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		target, err := uc.pmRepo.GetBySID(txCtx, cmd.UserID, cmd.PaymentMethodID)
		if err != nil {
			return err
		}
		if target == nil {
			return apperrors.NewNotFoundError("payment method not found")
		}
		if !target.HasActiveContract() {
			return apperrors.NewBadRequestError("payment method has no active signed contract")
		}

		result.NewID = target.SID()

		// Already primary: success, no writes, no event.
		if target.IsPrimary() {
			result.PaymentMethod = &dtoPaymentMethodRef{ID: target.SID()}
			return nil
		}

		previous := ""
		methods, err := uc.pmRepo.ListByUser(txCtx, cmd.UserID)
		if err != nil {
			return err
		}
		for _, m := range methods {
			if m.IsPrimary() {
				previous = m.SID()
				break
			}
		}

		if err := uc.pmRepo.UnsetPrimaryForUser(txCtx, cmd.UserID); err != nil {
			return err
		}

		target.SetPrimary(true)
		if err := uc.pmRepo.Update(txCtx, target); err != nil {
			return err
		}

		targetID := target.ID()
		event, err := billing.NewBillingEvent(cmd.UserID, &targetID, billing.EventDefaultChanged, map[string]interface{}{
			"previousDefault": previous,
			"newDefault":      target.SID(),
		}, billing.SeverityInfo)
		if err != nil {
			return err
		}
		if err := uc.eventRepo.Append(txCtx, event); err != nil {
			return err
		}

		result.Changed = true
		result.PreviousID = previous
		result.PaymentMethod = &dtoPaymentMethodRef{ID: target.SID()}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to set default payment method",
			"error", err, "user_id", cmd.UserID, "payment_method_id", cmd.PaymentMethodID)
		return nil, apperrors.NewInternalError("failed to set default payment method")
	}

	uc.logger.Infow("default payment method updated",
		"user_id", cmd.UserID,
		"previous", result.PreviousID,
		"new", result.NewID,
		"changed", result.Changed)

	return result, nil
}
