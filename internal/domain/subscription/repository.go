package subscription

import "context"

// SubscriptionRepository is the read surface the billing subsystem needs.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, userID, id uint) (*Subscription, error)
	// HasActiveByPaymentMethod reports whether any active subscription
	// references the payment method. A contract in use cannot be cancelled.
	HasActiveByPaymentMethod(ctx context.Context, userID, paymentMethodID uint) (bool, error)
	ListActivePaymentMethodIDs(ctx context.Context, userID uint) ([]uint, error)
}
