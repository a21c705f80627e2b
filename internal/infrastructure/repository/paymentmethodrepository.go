package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"paydesk/internal/domain/billing"
	vo "paydesk/internal/domain/billing/valueobjects"
	"paydesk/internal/infrastructure/persistence/mappers"
	"paydesk/internal/infrastructure/persistence/models"
	"paydesk/internal/shared/db"
	"paydesk/internal/shared/logger"
)

// PaymentMethodRepository implements billing.PaymentMethodRepository on gorm.
type PaymentMethodRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewPaymentMethodRepository creates a new PaymentMethodRepository.
func NewPaymentMethodRepository(gdb *gorm.DB, logger logger.Interface) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: gdb, logger: logger}
}

// Create persists a new payment method row.
func (r *PaymentMethodRepository) Create(ctx context.Context, pm *billing.PaymentMethod) error {
	model := mappers.PaymentMethodToModel(pm)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return translateDuplicate(err)
	}
	pm.SetID(model.ID)
	return nil
}

// Update saves the full state of an existing row.
func (r *PaymentMethodRepository) Update(ctx context.Context, pm *billing.PaymentMethod) error {
	model := mappers.PaymentMethodToModel(pm)
	if err := db.GetTxFromContext(ctx, r.db).Save(model).Error; err != nil {
		return translateDuplicate(err)
	}
	return nil
}

// HardDelete permanently removes the row. The audit event must already be
// written in the same transaction.
func (r *PaymentMethodRepository) HardDelete(ctx context.Context, userID, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&models.PaymentMethodModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByID retrieves the user's payment method by numeric ID.
func (r *PaymentMethodRepository) GetByID(ctx context.Context, userID, id uint) (*billing.PaymentMethod, error) {
	var model models.PaymentMethodModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND id = ?", userID, id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.PaymentMethodToDomain(&model)
}

// GetBySID retrieves the user's payment method by short ID.
func (r *PaymentMethodRepository) GetBySID(ctx context.Context, userID uint, sid string) (*billing.PaymentMethod, error) {
	var model models.PaymentMethodModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND sid = ?", userID, sid).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.PaymentMethodToDomain(&model)
}

// GetActiveBySignatureHash finds the user's active contract carrying the
// given signature hash, or (nil, nil) when none exists.
func (r *PaymentMethodRepository) GetActiveBySignatureHash(ctx context.Context, userID uint, hash string) (*billing.PaymentMethod, error) {
	var model models.PaymentMethodModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND contract_signature_hash = ? AND contract_status = ?",
			userID, hash, vo.ContractStatusActive.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.PaymentMethodToDomain(&model)
}

// GetPendingByAuthority finds the user's pending row for an in-flight
// negotiation, or (nil, nil).
func (r *PaymentMethodRepository) GetPendingByAuthority(ctx context.Context, userID uint, authority string) (*billing.PaymentMethod, error) {
	var model models.PaymentMethodModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND payman_authority = ? AND contract_status = ?",
			userID, authority, vo.ContractStatusPending.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.PaymentMethodToDomain(&model)
}

// ListByUser returns all of the user's payment methods, newest first.
func (r *PaymentMethodRepository) ListByUser(ctx context.Context, userID uint) ([]*billing.PaymentMethod, error) {
	var rows []models.PaymentMethodModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	methods := make([]*billing.PaymentMethod, 0, len(rows))
	for i := range rows {
		pm, err := mappers.PaymentMethodToDomain(&rows[i])
		if err != nil {
			r.logger.Warnw("skipping unmappable payment method row", "id", rows[i].ID, "error", err)
			continue
		}
		methods = append(methods, pm)
	}
	return methods, nil
}

// HasActivePrimary reports whether the user already has an active primary
// payment method.
func (r *PaymentMethodRepository) HasActivePrimary(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentMethodModel{}).
		Where("user_id = ? AND is_primary = ? AND contract_status = ?",
			userID, true, vo.ContractStatusActive.String()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UnsetPrimaryForUser clears is_primary on all of the user's rows.
func (r *PaymentMethodRepository) UnsetPrimaryForUser(ctx context.Context, userID uint) error {
	return db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentMethodModel{}).
		Where("user_id = ? AND is_primary = ?", userID, true).
		Update("is_primary", false).Error
}

// translateDuplicate maps driver-level unique index violations to the
// domain sentinel so the use case can reconcile the race.
func translateDuplicate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return billing.ErrDuplicateSignature
	}
	msg := err.Error()
	if strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed") {
		return billing.ErrDuplicateSignature
	}
	return err
}
