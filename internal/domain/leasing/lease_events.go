package leasing

import (
	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	EventTypeLeaseCreated       = "lease.created"
	EventTypeLeaseStatusChanged = "lease.status_changed"
	EventTypeEntryPosted        = "lease.entry_posted"
	EventTypeEntryReversed      = "lease.entry_reversed"
)

// LeaseCreatedEvent is published when a new lease is created
type LeaseCreatedEvent struct {
	shared.BaseDomainEvent
	AgentID    uuid.UUID       `json:"agent_id"`
	Complex    string          `json:"complex"`
	Commission decimal.Decimal `json:"commission"`
}

// NewLeaseCreatedEvent creates a LeaseCreatedEvent for the given lease
func NewLeaseCreatedEvent(lease *Lease) *LeaseCreatedEvent {
	return &LeaseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaseCreated, "Lease", lease.ID),
		AgentID:         lease.AgentID,
		Complex:         lease.Complex,
		Commission:      lease.Commission,
	}
}

// LeaseStatusChangedEvent is published when the derived paid status moves
type LeaseStatusChangedEvent struct {
	shared.BaseDomainEvent
	PreviousStatus PaidStatus      `json:"previous_status"`
	NewStatus      PaidStatus      `json:"new_status"`
	BalancePaid    decimal.Decimal `json:"balance_paid"`
	BalanceDue     decimal.Decimal `json:"balance_due"`
}

// NewLeaseStatusChangedEvent creates a LeaseStatusChangedEvent
func NewLeaseStatusChangedEvent(lease *Lease, previous PaidStatus) *LeaseStatusChangedEvent {
	return &LeaseStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaseStatusChanged, "Lease", lease.ID),
		PreviousStatus:  previous,
		NewStatus:       lease.PaidStatus,
		BalancePaid:     lease.BalancePaid,
		BalanceDue:      lease.BalanceDue,
	}
}

// EntryPostedEvent is published when a ledger entry is recorded on a lease
type EntryPostedEvent struct {
	shared.BaseDomainEvent
	EntryID uuid.UUID       `json:"entry_id"`
	Type    PaymentType     `json:"entry_type"`
	Amount  decimal.Decimal `json:"amount"`
	Payout  decimal.Decimal `json:"payout"`
}

// NewEntryPostedEvent creates an EntryPostedEvent
func NewEntryPostedEvent(leaseID uuid.UUID, entry *PaymentEntry) *EntryPostedEvent {
	return &EntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEntryPosted, "Lease", leaseID),
		EntryID:         entry.ID,
		Type:            entry.Type,
		Amount:          entry.Amount,
		Payout:          entry.Payout,
	}
}

// EntryReversedEvent is published when a ledger entry is deleted
type EntryReversedEvent struct {
	shared.BaseDomainEvent
	EntryID uuid.UUID       `json:"entry_id"`
	Type    PaymentType     `json:"entry_type"`
	Amount  decimal.Decimal `json:"amount"`
}

// NewEntryReversedEvent creates an EntryReversedEvent
func NewEntryReversedEvent(leaseID uuid.UUID, entry *PaymentEntry) *EntryReversedEvent {
	return &EntryReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEntryReversed, "Lease", leaseID),
		EntryID:         entry.ID,
		Type:            entry.Type,
		Amount:          entry.Amount,
	}
}
