package repository

import (
	"context"

	"gorm.io/gorm"

	"paydesk/internal/domain/billing"
	"paydesk/internal/infrastructure/persistence/mappers"
	"paydesk/internal/infrastructure/persistence/models"
	"paydesk/internal/shared/db"
	"paydesk/internal/shared/logger"
)

// BillingEventRepository implements billing.BillingEventRepository on gorm.
type BillingEventRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewBillingEventRepository creates a new BillingEventRepository.
func NewBillingEventRepository(gdb *gorm.DB, logger logger.Interface) *BillingEventRepository {
	return &BillingEventRepository{db: gdb, logger: logger}
}

// Append writes one audit row. Rows are never updated or deleted.
func (r *BillingEventRepository) Append(ctx context.Context, event *billing.BillingEvent) error {
	model, err := mappers.BillingEventToModel(event)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return err
	}
	event.SetID(model.ID)
	return nil
}

// ListByUser returns the user's most recent events, newest first.
func (r *BillingEventRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]*billing.BillingEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []models.BillingEventModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	events := make([]*billing.BillingEvent, 0, len(rows))
	for i := range rows {
		event, err := mappers.BillingEventToDomain(&rows[i])
		if err != nil {
			r.logger.Warnw("skipping unmappable billing event row", "id", rows[i].ID, "error", err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// CountByType counts the user's events of the given type.
func (r *BillingEventRepository) CountByType(ctx context.Context, userID uint, eventType billing.EventType) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.BillingEventModel{}).
		Where("user_id = ? AND event_type = ?", userID, string(eventType)).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
