package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/shared"
)

// LeaseFilter defines filtering options for lease queries
type LeaseFilter struct {
	shared.Filter
	AgentID       *uuid.UUID  // Filter by owning agent
	PaidStatus    *PaidStatus // Filter by derived payment status
	Complex       *string     // Filter by complex name (partial match)
	TenantName    *string     // Filter by tenant name (partial match)
	InvoiceNumber *string     // Filter by exact invoice number
	MoveInFrom    *time.Time  // Filter by move-in date range start
	MoveInTo      *time.Time  // Filter by move-in date range end
}

// LeaseRepository defines the interface for lease persistence
type LeaseRepository interface {
	// FindByID finds a lease by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Lease, error)

	// FindByIDForUpdate finds a lease by ID taking a row lock for the
	// duration of the surrounding transaction. Entry writes go through
	// this so concurrent posts against the same lease serialize.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Lease, error)

	// FindByInvoiceNumber finds a lease by its invoice number
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Lease, error)

	// FindAll finds leases with filtering and pagination
	FindAll(ctx context.Context, filter LeaseFilter) ([]Lease, error)

	// FindByAgent finds leases owned by an agent
	FindByAgent(ctx context.Context, agentID uuid.UUID, filter LeaseFilter) ([]Lease, error)

	// FindStaleUnpaid finds unpaid leases whose move-in date is on or
	// before the cutoff. Used by the collections sweep.
	FindStaleUnpaid(ctx context.Context, cutoff time.Time) ([]Lease, error)

	// Save creates or updates a lease
	Save(ctx context.Context, lease *Lease) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, lease *Lease) error

	// Delete soft deletes a lease
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts leases matching the filter
	Count(ctx context.Context, filter LeaseFilter) (int64, error)
}

// PaymentEntryFilter defines filtering options for entry queries
type PaymentEntryFilter struct {
	shared.Filter
	LeaseID  *uuid.UUID   // Filter by lease
	Type     *PaymentType // Filter by entry type
	DateFrom *time.Time   // Filter by entry date range start
	DateTo   *time.Time   // Filter by entry date range end
}

// PaymentEntryRepository defines the interface for payment entry persistence
type PaymentEntryRepository interface {
	// FindByID finds an entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentEntry, error)

	// FindByLease returns every entry for a lease ordered by date then
	// creation time. The reconciliation pipeline always works from this
	// full set.
	FindByLease(ctx context.Context, leaseID uuid.UUID) ([]PaymentEntry, error)

	// FindAll finds entries with filtering and pagination
	FindAll(ctx context.Context, filter PaymentEntryFilter) ([]PaymentEntry, error)

	// FindByAgentAndPeriod finds entries on leases owned by an agent
	// whose date falls inside the half-open interval [from, to)
	FindByAgentAndPeriod(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]PaymentEntry, error)

	// Save creates or updates an entry
	Save(ctx context.Context, entry *PaymentEntry) error

	// Delete hard deletes an entry. Ledger entries are reversed by
	// removal plus a lease recomputation, not by soft delete.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts entries matching the filter
	Count(ctx context.Context, filter PaymentEntryFilter) (int64, error)
}

// AgentDrawFilter defines filtering options for draw queries
type AgentDrawFilter struct {
	shared.Filter
	AgentID  *uuid.UUID // Filter by agent
	DateFrom *time.Time // Filter by draw date range start
	DateTo   *time.Time // Filter by draw date range end
}

// AgentDrawRepository defines the interface for agent draw persistence
type AgentDrawRepository interface {
	// FindByID finds a draw by ID
	FindByID(ctx context.Context, id uuid.UUID) (*AgentDraw, error)

	// FindAll finds draws with filtering and pagination
	FindAll(ctx context.Context, filter AgentDrawFilter) ([]AgentDraw, error)

	// FindByAgentAndPeriod finds an agent's draws dated inside [from, to)
	FindByAgentAndPeriod(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]AgentDraw, error)

	// Save creates or updates a draw
	Save(ctx context.Context, draw *AgentDraw) error

	// Delete hard deletes a draw
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts draws matching the filter
	Count(ctx context.Context, filter AgentDrawFilter) (int64, error)
}
