package leasing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaidStatus represents the aggregate payment state of a lease
type PaidStatus string

const (
	PaidStatusUnpaid     PaidStatus = "unpaid"
	PaidStatusPartially  PaidStatus = "partially"
	PaidStatusPaid       PaidStatus = "paid"
	PaidStatusChargeback PaidStatus = "chargeback"
)

// IsValid checks if the status is a valid PaidStatus
func (s PaidStatus) IsValid() bool {
	switch s {
	case PaidStatusUnpaid, PaidStatusPartially, PaidStatusPaid, PaidStatusChargeback:
		return true
	}
	return false
}

// String returns the string representation of PaidStatus
func (s PaidStatus) String() string {
	return string(s)
}

// CommissionType represents how the agreed commission is expressed
type CommissionType string

const (
	CommissionTypeFlat    CommissionType = "flat"
	CommissionTypePercent CommissionType = "percent"
)

// IsValid checks if the commission type is valid
func (t CommissionType) IsValid() bool {
	return t == CommissionTypeFlat || t == CommissionTypePercent
}

// Lease represents one tenancy placement by an agent. It is the aggregate
// root for the payment ledger: BalancePaid, BalanceDue and PaidStatus are
// derived summary fields written exclusively by ApplyLedger, never by
// callers directly.
type Lease struct {
	shared.BaseAggregateRoot
	AgentID           uuid.UUID        `json:"agent_id"`
	InvoiceNumber     string           `json:"invoice_number"`
	Complex           string           `json:"complex"`
	ApartmentNumber   string           `json:"apartment_number"`
	TenantFname       string           `json:"tenant_fname"`
	TenantLname       string           `json:"tenant_lname"`
	TenantEmail       string           `json:"tenant_email,omitempty"`
	RentAmount        decimal.Decimal  `json:"rent_amount"`
	CommissionType    CommissionType   `json:"commission_type"`
	CommissionPercent *decimal.Decimal `json:"commission_percent,omitempty"`
	Commission        decimal.Decimal  `json:"commission"`
	MoveInDate        time.Time        `json:"move_in_date"`
	ExtraNotes        string           `json:"extra_notes,omitempty"`
	BalancePaid       decimal.Decimal  `json:"balance_paid"`
	BalanceDue        decimal.Decimal  `json:"balance_due"`
	PaidStatus        PaidStatus       `json:"paid_status"`
}

// NewLeaseInput carries the caller-supplied fields for creating a lease
type NewLeaseInput struct {
	AgentID           uuid.UUID
	InvoiceNumber     string
	Complex           string
	ApartmentNumber   string
	TenantFname       string
	TenantLname       string
	TenantEmail       string
	RentAmount        decimal.Decimal
	CommissionType    CommissionType
	CommissionPercent *decimal.Decimal
	Commission        decimal.Decimal
	MoveInDate        time.Time
	ExtraNotes        string
}

// NewLease creates a new lease. For percent-type commissions the flat
// commission figure is derived from the rent amount and the derived value
// wins over anything the caller supplied; for flat-type commissions the
// percent field is cleared.
func NewLease(in NewLeaseInput) (*Lease, error) {
	if in.AgentID == uuid.Nil {
		return nil, shared.NewConsistencyError("Lease must be owned by an agent")
	}
	if strings.TrimSpace(in.Complex) == "" {
		return nil, shared.NewValidationError("Complex is required")
	}
	if strings.TrimSpace(in.TenantFname) == "" || strings.TrimSpace(in.TenantLname) == "" {
		return nil, shared.NewValidationError("Tenant name is required")
	}
	if strings.TrimSpace(in.ApartmentNumber) == "" {
		return nil, shared.NewValidationError("Apartment number is required")
	}
	if in.RentAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Rent amount must be positive")
	}
	if in.MoveInDate.IsZero() {
		return nil, shared.NewValidationError("Move-in date is required")
	}

	commission, percent, err := deriveCommission(in.CommissionType, in.RentAmount, in.CommissionPercent, in.Commission)
	if err != nil {
		return nil, err
	}

	lease := &Lease{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AgentID:           in.AgentID,
		InvoiceNumber:     strings.TrimSpace(in.InvoiceNumber),
		Complex:           strings.TrimSpace(in.Complex),
		ApartmentNumber:   strings.TrimSpace(in.ApartmentNumber),
		TenantFname:       strings.TrimSpace(in.TenantFname),
		TenantLname:       strings.TrimSpace(in.TenantLname),
		TenantEmail:       strings.TrimSpace(in.TenantEmail),
		RentAmount:        in.RentAmount,
		CommissionType:    in.CommissionType,
		CommissionPercent: percent,
		Commission:        commission,
		MoveInDate:        in.MoveInDate,
		ExtraNotes:        in.ExtraNotes,
		BalancePaid:       decimal.Zero,
		BalanceDue:        commission,
		PaidStatus:        PaidStatusUnpaid,
	}

	lease.AddDomainEvent(NewLeaseCreatedEvent(lease))

	return lease, nil
}

// deriveCommission resolves the agreed commission from its typed inputs.
// Percent commissions are computed in decimal and rounded to cents so the
// derived cap never drifts from what the UI displayed.
func deriveCommission(
	commissionType CommissionType,
	rent decimal.Decimal,
	percent *decimal.Decimal,
	flat decimal.Decimal,
) (decimal.Decimal, *decimal.Decimal, error) {
	switch commissionType {
	case CommissionTypePercent:
		if percent == nil {
			return decimal.Zero, nil, shared.NewValidationError("Commission percent is required when type is 'percent'.")
		}
		if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
			return decimal.Zero, nil, shared.NewValidationError("Commission percent must be between 0 and 100.")
		}
		derived := rent.Mul(*percent).Div(decimal.NewFromInt(100)).Round(2)
		return derived, percent, nil

	case CommissionTypeFlat:
		if flat.IsNegative() {
			return decimal.Zero, nil, shared.NewValidationError("Commission amount must be non-negative.")
		}
		// Percent is explicitly cleared for flat commissions.
		return flat, nil, nil
	}

	return decimal.Zero, nil, shared.NewValidationError("Unknown commission type: " + string(commissionType))
}

// UpdateDetailsInput carries the mutable lease fields for an update
type UpdateDetailsInput struct {
	InvoiceNumber     string
	Complex           string
	ApartmentNumber   string
	TenantFname       string
	TenantLname       string
	TenantEmail       string
	RentAmount        decimal.Decimal
	CommissionType    CommissionType
	CommissionPercent *decimal.Decimal
	Commission        decimal.Decimal
	MoveInDate        time.Time
	ExtraNotes        string
}

// UpdateDetails applies caller-editable fields and re-derives the
// commission. Summary fields are untouched; the caller must re-run the
// ledger recomputation afterwards since the commission cap may have moved.
func (l *Lease) UpdateDetails(in UpdateDetailsInput) error {
	if strings.TrimSpace(in.Complex) == "" {
		return shared.NewValidationError("Complex is required")
	}
	if in.RentAmount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Rent amount must be positive")
	}
	if in.MoveInDate.IsZero() {
		return shared.NewValidationError("Move-in date is required")
	}

	commission, percent, err := deriveCommission(in.CommissionType, in.RentAmount, in.CommissionPercent, in.Commission)
	if err != nil {
		return err
	}

	l.InvoiceNumber = strings.TrimSpace(in.InvoiceNumber)
	l.Complex = strings.TrimSpace(in.Complex)
	l.ApartmentNumber = strings.TrimSpace(in.ApartmentNumber)
	l.TenantFname = strings.TrimSpace(in.TenantFname)
	l.TenantLname = strings.TrimSpace(in.TenantLname)
	l.TenantEmail = strings.TrimSpace(in.TenantEmail)
	l.RentAmount = in.RentAmount
	l.CommissionType = in.CommissionType
	l.CommissionPercent = percent
	l.Commission = commission
	l.MoveInDate = in.MoveInDate
	l.ExtraNotes = in.ExtraNotes
	l.Touch()
	l.IncrementVersion()

	return nil
}

// ApplyLedger recomputes the lease's persisted summary fields from the
// full current entry set. Idempotent: applying the same entries twice
// yields identical output.
//
// Status priority: chargeback dominates regardless of payment totals; a
// zero adjusted cap or payments covering the cap mean paid; no payments
// mean unpaid; anything else is partially paid.
func (l *Lease) ApplyLedger(entries []PaymentEntry) {
	agg := ComputeAggregates(entries, uuid.Nil)

	adjustedCap := agg.AdjustedCap(l.Commission)
	balanceDue := adjustedCap.Sub(agg.PaidPayments)
	if balanceDue.IsNegative() {
		balanceDue = decimal.Zero
	}

	var status PaidStatus
	switch {
	case agg.HasChargeback:
		status = PaidStatusChargeback
	case adjustedCap.IsZero() || agg.PaidPayments.GreaterThanOrEqual(adjustedCap):
		status = PaidStatusPaid
	case agg.PaidPayments.IsZero():
		status = PaidStatusUnpaid
	default:
		status = PaidStatusPartially
	}

	previous := l.PaidStatus
	l.BalancePaid = agg.PaidPayments
	l.BalanceDue = balanceDue
	l.PaidStatus = status
	l.Touch()
	l.IncrementVersion()

	if previous != status {
		l.AddDomainEvent(NewLeaseStatusChangedEvent(l, previous))
	}
}

// MarkChargedBack forces the lease's status to chargeback without touching
// balances. Used by the collections sweep for stale unpaid leases that have
// no outstanding advance to claw back (a zero-amount chargeback entry
// cannot be posted).
func (l *Lease) MarkChargedBack() {
	if l.PaidStatus == PaidStatusChargeback {
		return
	}
	previous := l.PaidStatus
	l.PaidStatus = PaidStatusChargeback
	l.Touch()
	l.IncrementVersion()
	l.AddDomainEvent(NewLeaseStatusChangedEvent(l, previous))
}

// TenantName returns the tenant's full name
func (l *Lease) TenantName() string {
	return strings.TrimSpace(l.TenantFname + " " + l.TenantLname)
}

// IsUnpaid returns true if no payments have been applied
func (l *Lease) IsUnpaid() bool {
	return l.PaidStatus == PaidStatusUnpaid
}

// IsChargedBack returns true if the lease has been charged back
func (l *Lease) IsChargedBack() bool {
	return l.PaidStatus == PaidStatusChargeback
}
