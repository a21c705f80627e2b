package mappers

import (
	"fmt"

	"paydesk/internal/domain/billing"
	vo "paydesk/internal/domain/billing/valueobjects"
	"paydesk/internal/infrastructure/persistence/models"
)

func PaymentMethodToModel(pm *billing.PaymentMethod) *models.PaymentMethodModel {
	return &models.PaymentMethodModel{
		ID:                         pm.ID(),
		SID:                        pm.SID(),
		UserID:                     pm.UserID(),
		ContractType:               pm.ContractType(),
		ContractSignatureEncrypted: pm.ContractSignatureEncrypted(),
		ContractSignatureHash:      pm.ContractSignatureHash(),
		ContractStatus:             pm.ContractStatus().String(),
		PaymanAuthority:            pm.PaymanAuthority(),
		IsPrimary:                  pm.IsPrimary(),
		IsActive:                   pm.IsActive(),
		LastUsedAt:                 pm.LastUsedAt(),
		CreatedAt:                  pm.CreatedAt(),
		UpdatedAt:                  pm.UpdatedAt(),
	}
}

func PaymentMethodToDomain(model *models.PaymentMethodModel) (*billing.PaymentMethod, error) {
	status, err := vo.ParseContractStatus(model.ContractStatus)
	if err != nil {
		return nil, fmt.Errorf("invalid contract status in row %d: %w", model.ID, err)
	}

	return billing.ReconstructPaymentMethod(billing.PaymentMethodReconstructParams{
		ID:                         model.ID,
		SID:                        model.SID,
		UserID:                     model.UserID,
		ContractType:               model.ContractType,
		ContractSignatureEncrypted: model.ContractSignatureEncrypted,
		ContractSignatureHash:      model.ContractSignatureHash,
		ContractStatus:             status,
		PaymanAuthority:            model.PaymanAuthority,
		IsPrimary:                  model.IsPrimary,
		IsActive:                   model.IsActive,
		LastUsedAt:                 model.LastUsedAt,
		CreatedAt:                  model.CreatedAt,
		UpdatedAt:                  model.UpdatedAt,
	}), nil
}
