package mappers

import (
	"paydesk/internal/domain/subscription"
	"paydesk/internal/infrastructure/persistence/models"
)

func SubscriptionToModel(s *subscription.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:              s.ID(),
		SID:             s.SID(),
		UserID:          s.UserID(),
		PaymentMethodID: s.PaymentMethodID(),
		Status:          string(s.Status()),
		CreatedAt:       s.CreatedAt(),
		UpdatedAt:       s.UpdatedAt(),
	}
}

func SubscriptionToDomain(model *models.SubscriptionModel) *subscription.Subscription {
	return subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:              model.ID,
		SID:             model.SID,
		UserID:          model.UserID,
		PaymentMethodID: model.PaymentMethodID,
		Status:          subscription.Status(model.Status),
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	})
}
