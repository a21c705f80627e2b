package models

import (
	"time"

	"gorm.io/datatypes"
)

// BillingEventModel is one append-only audit row. PaymentMethodID is a
// plain nullable column, not a foreign key: deletion events reference a
// row removed in the same transaction and carry the id in EventData.
type BillingEventModel struct {
	ID              uint   `gorm:"primaryKey"`
	SID             string `gorm:"column:sid;uniqueIndex;size:32;not null"`
	UserID          uint   `gorm:"index;not null"`
	PaymentMethodID *uint  `gorm:"index"`
	EventType       string `gorm:"size:64;not null;index"`
	EventData       datatypes.JSON
	Severity        string    `gorm:"size:10;not null;default:'info'"`
	CreatedAt       time.Time `gorm:"index"`
}

func (BillingEventModel) TableName() string {
	return "billing_events"
}
