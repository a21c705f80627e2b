// Package subscription holds the minimal subscription aggregate the billing
// subsystem needs: enough to know whether an active subscription references
// a payment method, which blocks contract cancellation.
package subscription

import (
	"fmt"
	"time"

	"paydesk/internal/shared/biztime"
	"paydesk/internal/shared/id"
)

// Status of a subscription.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Subscription is a minimal billing-side view of a subscription.
type Subscription struct {
	id              uint
	sid             string
	userID          uint
	paymentMethodID *uint
	status          Status
	createdAt       time.Time
	updatedAt       time.Time
}

// NewSubscription creates an active subscription charged against the given
// payment method.
func NewSubscription(userID uint, paymentMethodID *uint) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}

	now := biztime.NowUTC()

	return &Subscription{
		sid:             id.MustGenerateWithPrefix(id.PrefixSubscription, id.DefaultLength),
		userID:          userID,
		paymentMethodID: paymentMethodID,
		status:          StatusActive,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func (s *Subscription) ID() uint               { return s.id }
func (s *Subscription) SID() string            { return s.sid }
func (s *Subscription) UserID() uint           { return s.userID }
func (s *Subscription) PaymentMethodID() *uint { return s.paymentMethodID }
func (s *Subscription) Status() Status         { return s.status }
func (s *Subscription) CreatedAt() time.Time   { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time   { return s.updatedAt }

// SetID sets the auto-generated ID after persistence.
func (s *Subscription) SetID(id uint) {
	s.id = id
}

// SubscriptionReconstructParams carries persisted state back into the domain.
type SubscriptionReconstructParams struct {
	ID              uint
	SID             string
	UserID          uint
	PaymentMethodID *uint
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReconstructSubscription rebuilds a Subscription from persistence.
func ReconstructSubscription(params SubscriptionReconstructParams) *Subscription {
	return &Subscription{
		id:              params.ID,
		sid:             params.SID,
		userID:          params.UserID,
		paymentMethodID: params.PaymentMethodID,
		status:          params.Status,
		createdAt:       params.CreatedAt,
		updatedAt:       params.UpdatedAt,
	}
}
