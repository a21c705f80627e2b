// Package dto holds the wire shapes the billing use cases return to the
// HTTP layer. The encrypted signature blob never appears here.
package dto

import (
	"time"

	"paydesk/internal/domain/billing"
)

// PaymentMethodDTO is the client-facing view of a payment method.
type PaymentMethodDTO struct {
	ID             string     `json:"id"`
	ContractType   string     `json:"contract_type"`
	ContractStatus string     `json:"contract_status"`
	IsPrimary      bool       `json:"is_primary"`
	IsActive       bool       `json:"is_active"`
	InUse          bool       `json:"in_use"`
	LastUsedAt     *time.Time `json:"last_used_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// FromPaymentMethod maps a domain payment method to its DTO.
func FromPaymentMethod(pm *billing.PaymentMethod) *PaymentMethodDTO {
	return &PaymentMethodDTO{
		ID:             pm.SID(),
		ContractType:   pm.ContractType(),
		ContractStatus: pm.ContractStatus().String(),
		IsPrimary:      pm.IsPrimary(),
		IsActive:       pm.IsActive(),
		LastUsedAt:     pm.LastUsedAt(),
		CreatedAt:      pm.CreatedAt(),
	}
}

// BankDTO is one selectable bank, reshaped for display.
type BankDTO struct {
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	BankCode       string `json:"bank_code"`
	MaxDailyAmount int64  `json:"max_daily_amount"`
	MaxDailyCount  int    `json:"max_daily_count"`
	SigningURL     string `json:"signing_url"`
}
