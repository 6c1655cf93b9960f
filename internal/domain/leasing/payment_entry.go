package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentType represents the kind of ledger event a payment entry records
type PaymentType string

const (
	// PaymentTypeAdvance is an upfront disbursement against future commission.
	// At most one may exist per lease, and only before any payments or
	// chargebacks have been recorded.
	PaymentTypeAdvance PaymentType = "advance"
	// PaymentTypePayment is a regular (full or partial) commission payment.
	PaymentTypePayment PaymentType = "payment"
	// PaymentTypeAdjustment is a free-signed correction to the agreed commission.
	PaymentTypeAdjustment PaymentType = "adjustment"
	// PaymentTypeChargeback claws back the unrecovered portion of an advance.
	// At most one may exist per lease.
	PaymentTypeChargeback PaymentType = "chargeback"
)

// IsValid checks if the payment type is a known variant
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeAdvance, PaymentTypePayment, PaymentTypeAdjustment, PaymentTypeChargeback:
		return true
	}
	return false
}

// String returns the string representation of PaymentType
func (t PaymentType) String() string {
	return string(t)
}

// PaymentEntry is one ledger event against a lease.
//
// Amount tracks the commission-ledger fact (what is owed or applied against
// the commission cap); Payout tracks the realized cash movement. The two
// diverge exactly when an advance has pre-funded part of the commission.
type PaymentEntry struct {
	shared.BaseEntity
	LeaseID uuid.UUID       `json:"lease_id"`
	Type    PaymentType     `json:"payment_type"`
	Amount  decimal.Decimal `json:"amount"`
	Payout  decimal.Decimal `json:"payout"`
	Date    time.Time       `json:"date"`
	Notes   string          `json:"notes,omitempty"`
}

// NewPaymentEntry creates a new payment entry. Amount and payout are the
// already-enforced and already-derived values; callers must run the amount
// enforcer, safeties and payout calculator first (see PaymentEntryService).
func NewPaymentEntry(
	leaseID uuid.UUID,
	paymentType PaymentType,
	amount decimal.Decimal,
	payout decimal.Decimal,
	date time.Time,
	notes string,
) (*PaymentEntry, error) {
	if leaseID == uuid.Nil {
		return nil, shared.NewConsistencyError("Payment entry must belong to a lease")
	}
	if !paymentType.IsValid() {
		return nil, shared.NewValidationError("Unknown payment type: " + string(paymentType))
	}
	if date.IsZero() {
		return nil, shared.NewValidationError("Payment entry date is required")
	}
	if len(notes) > 500 {
		return nil, shared.NewValidationError("Notes cannot exceed 500 characters")
	}

	return &PaymentEntry{
		BaseEntity: shared.NewBaseEntity(),
		LeaseID:    leaseID,
		Type:       paymentType,
		Amount:     amount,
		Payout:     payout,
		Date:       date,
		Notes:      notes,
	}, nil
}

// Update applies new enforced values to an existing entry. The same
// enforcement pipeline that gates creation must have produced them.
func (e *PaymentEntry) Update(
	paymentType PaymentType,
	amount decimal.Decimal,
	payout decimal.Decimal,
	date time.Time,
	notes string,
) error {
	if !paymentType.IsValid() {
		return shared.NewValidationError("Unknown payment type: " + string(paymentType))
	}
	if date.IsZero() {
		return shared.NewValidationError("Payment entry date is required")
	}
	if len(notes) > 500 {
		return shared.NewValidationError("Notes cannot exceed 500 characters")
	}

	e.Type = paymentType
	e.Amount = amount
	e.Payout = payout
	e.Date = date
	e.Notes = notes
	e.Touch()

	return nil
}

// IsAdvance returns true for advance entries
func (e *PaymentEntry) IsAdvance() bool {
	return e.Type == PaymentTypeAdvance
}

// IsChargeback returns true for chargeback entries
func (e *PaymentEntry) IsChargeback() bool {
	return e.Type == PaymentTypeChargeback
}
