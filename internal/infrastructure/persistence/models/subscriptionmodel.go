package models

import "time"

// SubscriptionModel is the minimal subscription row the billing subsystem
// consults when deciding whether a contract may be cancelled.
type SubscriptionModel struct {
	ID              uint   `gorm:"primaryKey"`
	SID             string `gorm:"column:sid;uniqueIndex;size:32;not null"`
	UserID          uint   `gorm:"index;not null"`
	PaymentMethodID *uint  `gorm:"index"`
	Status          string `gorm:"size:20;not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
