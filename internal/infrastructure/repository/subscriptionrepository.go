package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"paydesk/internal/domain/subscription"
	"paydesk/internal/infrastructure/persistence/mappers"
	"paydesk/internal/infrastructure/persistence/models"
	"paydesk/internal/shared/db"
	"paydesk/internal/shared/logger"
)

// SubscriptionRepository implements subscription.SubscriptionRepository on gorm.
type SubscriptionRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(gdb *gorm.DB, logger logger.Interface) *SubscriptionRepository {
	return &SubscriptionRepository{db: gdb, logger: logger}
}

// Create persists a new subscription row.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	model := mappers.SubscriptionToModel(sub)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return err
	}
	sub.SetID(model.ID)
	return nil
}

// GetByID retrieves the user's subscription by numeric ID.
func (r *SubscriptionRepository) GetByID(ctx context.Context, userID, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND id = ?", userID, id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.SubscriptionToDomain(&model), nil
}

// HasActiveByPaymentMethod reports whether an active subscription references
// the payment method.
func (r *SubscriptionRepository) HasActiveByPaymentMethod(ctx context.Context, userID, paymentMethodID uint) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("user_id = ? AND payment_method_id = ? AND status = ?",
			userID, paymentMethodID, string(subscription.StatusActive)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListActivePaymentMethodIDs returns the distinct payment method ids
// referenced by the user's active subscriptions.
func (r *SubscriptionRepository) ListActivePaymentMethodIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Distinct("payment_method_id").
		Where("user_id = ? AND status = ? AND payment_method_id IS NOT NULL",
			userID, string(subscription.StatusActive)).
		Pluck("payment_method_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
