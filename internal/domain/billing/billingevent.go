package billing

import (
	"fmt"
	"time"

	"paydesk/internal/shared/biztime"
	"paydesk/internal/shared/id"
)

// EventType tags an entry in the append-only billing audit log.
type EventType string

const (
	EventContractCreated          EventType = "direct_debit_contract_created"
	EventContractVerified         EventType = "direct_debit_contract_verified"
	EventContractInvalidated      EventType = "direct_debit_contract_invalidated"
	EventPaymentMethodHardDeleted EventType = "payment_method_hard_deleted"
	EventDefaultChanged           EventType = "default_payment_method_changed"
	EventRecovered                EventType = "payment_method_recovered"
	EventRecoveryIdempotent       EventType = "payment_method_recovery_idempotent"
)

// Severity of a billing event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// BillingEvent is one append-only audit record. Events are written in the
// same transaction as the state change they describe, and are never mutated
// or deleted. PaymentMethodID is deliberately not a foreign key: when the
// referenced row is hard-deleted in the same unit of work the id lives only
// in EventData.
type BillingEvent struct {
	id              uint
	sid             string
	userID          uint
	paymentMethodID *uint
	eventType       EventType
	eventData       map[string]interface{}
	severity        Severity
	createdAt       time.Time
}

// NewBillingEvent creates an audit event. paymentMethodID may be nil when
// the referenced row is deleted in the same unit of work.
func NewBillingEvent(userID uint, paymentMethodID *uint, eventType EventType, eventData map[string]interface{}, severity Severity) (*BillingEvent, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if eventType == "" {
		return nil, fmt.Errorf("event type is required")
	}
	if severity == "" {
		severity = SeverityInfo
	}
	if eventData == nil {
		eventData = make(map[string]interface{})
	}

	return &BillingEvent{
		sid:             id.MustGenerateWithPrefix(id.PrefixBillingEvent, id.DefaultLength),
		userID:          userID,
		paymentMethodID: paymentMethodID,
		eventType:       eventType,
		eventData:       eventData,
		severity:        severity,
		createdAt:       biztime.NowUTC(),
	}, nil
}

func (e *BillingEvent) ID() uint                          { return e.id }
func (e *BillingEvent) SID() string                       { return e.sid }
func (e *BillingEvent) UserID() uint                      { return e.userID }
func (e *BillingEvent) PaymentMethodID() *uint            { return e.paymentMethodID }
func (e *BillingEvent) EventType() EventType              { return e.eventType }
func (e *BillingEvent) EventData() map[string]interface{} { return e.eventData }
func (e *BillingEvent) Severity() Severity                { return e.severity }
func (e *BillingEvent) CreatedAt() time.Time              { return e.createdAt }

// SetID sets the auto-generated ID after persistence.
func (e *BillingEvent) SetID(id uint) {
	e.id = id
}

// BillingEventReconstructParams carries persisted state back into the domain.
type BillingEventReconstructParams struct {
	ID              uint
	SID             string
	UserID          uint
	PaymentMethodID *uint
	EventType       EventType
	EventData       map[string]interface{}
	Severity        Severity
	CreatedAt       time.Time
}

// ReconstructBillingEvent rebuilds a BillingEvent from persistence.
func ReconstructBillingEvent(params BillingEventReconstructParams) *BillingEvent {
	return &BillingEvent{
		id:              params.ID,
		sid:             params.SID,
		userID:          params.UserID,
		paymentMethodID: params.PaymentMethodID,
		eventType:       params.EventType,
		eventData:       params.EventData,
		severity:        params.Severity,
		createdAt:       params.CreatedAt,
	}
}
