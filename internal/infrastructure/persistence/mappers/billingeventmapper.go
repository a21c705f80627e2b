package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"paydesk/internal/domain/billing"
	"paydesk/internal/infrastructure/persistence/models"
)

func BillingEventToModel(e *billing.BillingEvent) (*models.BillingEventModel, error) {
	data, err := json.Marshal(e.EventData())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	return &models.BillingEventModel{
		ID:              e.ID(),
		SID:             e.SID(),
		UserID:          e.UserID(),
		PaymentMethodID: e.PaymentMethodID(),
		EventType:       string(e.EventType()),
		EventData:       datatypes.JSON(data),
		Severity:        string(e.Severity()),
		CreatedAt:       e.CreatedAt(),
	}, nil
}

func BillingEventToDomain(model *models.BillingEventModel) (*billing.BillingEvent, error) {
	eventData := make(map[string]interface{})
	if len(model.EventData) > 0 {
		if err := json.Unmarshal(model.EventData, &eventData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event data of row %d: %w", model.ID, err)
		}
	}

	return billing.ReconstructBillingEvent(billing.BillingEventReconstructParams{
		ID:              model.ID,
		SID:             model.SID,
		UserID:          model.UserID,
		PaymentMethodID: model.PaymentMethodID,
		EventType:       billing.EventType(model.EventType),
		EventData:       eventData,
		Severity:        billing.Severity(model.Severity),
		CreatedAt:       model.CreatedAt,
	}), nil
}
