package models

import "time"

// PaymentMethodModel is the gorm row backing a direct-debit contract.
// The composite unique index on (user_id, contract_signature_hash) is the
// storage-level guarantee that concurrent verifications of the same
// signature leave at most one row alive.
type PaymentMethodModel struct {
	ID                         uint    `gorm:"primaryKey"`
	SID                        string  `gorm:"column:sid;uniqueIndex;size:32;not null"`
	UserID                     uint    `gorm:"index;not null;uniqueIndex:idx_user_signature_hash"`
	ContractType               string  `gorm:"size:40;not null"`
	ContractSignatureEncrypted *string `gorm:"type:text"`
	ContractSignatureHash      *string `gorm:"size:64;uniqueIndex:idx_user_signature_hash"`
	ContractStatus             string  `gorm:"size:20;not null;index"`
	PaymanAuthority            *string `gorm:"size:64;index"`
	IsPrimary                  bool    `gorm:"not null;default:false"`
	IsActive                   bool    `gorm:"not null;default:true"`
	LastUsedAt                 *time.Time
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}
