package leasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/leasing"
	"github.com/leaseledger/backend/internal/domain/shared"
	"github.com/leaseledger/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentEntryService orchestrates the ledger pipeline for entry mutations.
// Every create, update and delete runs inside one transaction against the
// lease's full entry set: compute aggregates, enforce the amount, run the
// safeties, derive the payout, persist, then recompute the lease summary.
type PaymentEntryService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewPaymentEntryService creates a new PaymentEntryService
func NewPaymentEntryService(scope TransactionScope, logger *zap.Logger) *PaymentEntryService {
	return &PaymentEntryService{
		scope:  scope,
		logger: logger,
	}
}

// CreateEntryRequest carries the client-submitted fields for a new entry.
// Amount is untrusted input; advance and chargeback amounts are derived
// server-side regardless of what the client sent.
type CreateEntryRequest struct {
	LeaseID uuid.UUID
	Type    leasing.PaymentType
	Amount  decimal.Decimal
	Date    time.Time
	Notes   string
}

// UpdateEntryRequest carries the client-submitted fields for an entry update
type UpdateEntryRequest struct {
	EntryID uuid.UUID
	Type    leasing.PaymentType
	Amount  decimal.Decimal
	Date    time.Time
	Notes   string
}

// CreateEntry records a new ledger entry against a lease and recomputes the
// lease's summary fields in the same transaction.
func (s *PaymentEntryService) CreateEntry(ctx context.Context, req CreateEntryRequest) (*leasing.PaymentEntry, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment_entry", "create")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrLeaseID, req.LeaseID.String(),
		telemetry.SpanAttrPaymentType, string(req.Type),
	)

	if !req.Type.IsValid() {
		err := shared.NewValidationError("Unknown payment type: " + string(req.Type))
		telemetry.RecordError(span, err)
		return nil, err
	}

	var created *leasing.PaymentEntry
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lease, err := repos.LeaseRepo().FindByIDForUpdate(ctx, req.LeaseID)
		if err != nil {
			return fmt.Errorf("failed to load lease: %w", err)
		}
		if lease == nil {
			return shared.ErrNotFound
		}

		entries, err := repos.EntryRepo().FindByLease(ctx, req.LeaseID)
		if err != nil {
			return fmt.Errorf("failed to load entries: %w", err)
		}

		entry, err := s.prepareEntry(lease, entries, uuid.Nil, req.Type, req.Amount, req.Date, req.Notes)
		if err != nil {
			return err
		}

		if err := repos.EntryRepo().Save(ctx, entry); err != nil {
			return fmt.Errorf("failed to save entry: %w", err)
		}

		entries = append(entries, *entry)
		lease.ApplyLedger(entries)
		lease.AddDomainEvent(leasing.NewEntryPostedEvent(lease.ID, entry))

		if err := repos.LeaseRepo().SaveWithLock(ctx, lease); err != nil {
			return fmt.Errorf("failed to save lease aggregates: %w", err)
		}

		created = entry
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrEntryID, created.ID.String(),
		telemetry.SpanAttrAmount, created.Amount.String(),
		telemetry.SpanAttrPayout, created.Payout.String(),
	)
	s.logger.Info("payment entry created",
		zap.String("lease_id", req.LeaseID.String()),
		zap.String("entry_id", created.ID.String()),
		zap.String("type", string(created.Type)),
		zap.String("amount", created.Amount.String()),
		zap.String("payout", created.Payout.String()),
	)

	return created, nil
}

// UpdateEntry re-runs the full pipeline for an existing entry. Aggregates
// are computed with the entry excluded so it does not see its own prior
// state, then the enforced values replace it.
func (s *PaymentEntryService) UpdateEntry(ctx context.Context, req UpdateEntryRequest) (*leasing.PaymentEntry, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment_entry", "update")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrEntryID, req.EntryID.String(),
		telemetry.SpanAttrPaymentType, string(req.Type),
	)

	if !req.Type.IsValid() {
		err := shared.NewValidationError("Unknown payment type: " + string(req.Type))
		telemetry.RecordError(span, err)
		return nil, err
	}

	var updated *leasing.PaymentEntry
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.EntryRepo().FindByID(ctx, req.EntryID)
		if err != nil {
			return fmt.Errorf("failed to load entry: %w", err)
		}
		if existing == nil {
			return shared.ErrNotFound
		}

		lease, err := repos.LeaseRepo().FindByIDForUpdate(ctx, existing.LeaseID)
		if err != nil {
			return fmt.Errorf("failed to load lease: %w", err)
		}
		if lease == nil {
			return shared.NewConsistencyError("Entry references a missing lease")
		}

		entries, err := repos.EntryRepo().FindByLease(ctx, lease.ID)
		if err != nil {
			return fmt.Errorf("failed to load entries: %w", err)
		}

		staged, err := s.prepareEntry(lease, entries, existing.ID, req.Type, req.Amount, req.Date, req.Notes)
		if err != nil {
			return err
		}

		if err := existing.Update(staged.Type, staged.Amount, staged.Payout, staged.Date, staged.Notes); err != nil {
			return err
		}
		if err := repos.EntryRepo().Save(ctx, existing); err != nil {
			return fmt.Errorf("failed to save entry: %w", err)
		}

		for i := range entries {
			if entries[i].ID == existing.ID {
				entries[i] = *existing
			}
		}
		lease.ApplyLedger(entries)

		if err := repos.LeaseRepo().SaveWithLock(ctx, lease); err != nil {
			return fmt.Errorf("failed to save lease aggregates: %w", err)
		}

		updated = existing
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("payment entry updated",
		zap.String("entry_id", updated.ID.String()),
		zap.String("type", string(updated.Type)),
		zap.String("amount", updated.Amount.String()),
	)

	return updated, nil
}

// DeleteEntry removes an entry and recomputes the lease. Enforcement and
// safeties do not apply to deletes; only the recomputation runs.
func (s *PaymentEntryService) DeleteEntry(ctx context.Context, entryID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment_entry", "delete")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrEntryID, entryID.String())

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.EntryRepo().FindByID(ctx, entryID)
		if err != nil {
			return fmt.Errorf("failed to load entry: %w", err)
		}
		if existing == nil {
			return shared.ErrNotFound
		}

		lease, err := repos.LeaseRepo().FindByIDForUpdate(ctx, existing.LeaseID)
		if err != nil {
			return fmt.Errorf("failed to load lease: %w", err)
		}
		if lease == nil {
			return shared.NewConsistencyError("Entry references a missing lease")
		}

		if err := repos.EntryRepo().Delete(ctx, entryID); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		entries, err := repos.EntryRepo().FindByLease(ctx, lease.ID)
		if err != nil {
			return fmt.Errorf("failed to load entries: %w", err)
		}

		remaining := make([]leasing.PaymentEntry, 0, len(entries))
		for i := range entries {
			if entries[i].ID != entryID {
				remaining = append(remaining, entries[i])
			}
		}

		lease.ApplyLedger(remaining)
		lease.AddDomainEvent(leasing.NewEntryReversedEvent(lease.ID, existing))

		if err := repos.LeaseRepo().SaveWithLock(ctx, lease); err != nil {
			return fmt.Errorf("failed to save lease aggregates: %w", err)
		}

		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.logger.Info("payment entry deleted", zap.String("entry_id", entryID.String()))
	return nil
}

// GetEntry loads a single entry by ID
func (s *PaymentEntryService) GetEntry(ctx context.Context, entryID uuid.UUID) (*leasing.PaymentEntry, error) {
	var entry *leasing.PaymentEntry
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.EntryRepo().FindByID(ctx, entryID)
		if err != nil {
			return err
		}
		if found == nil {
			return shared.ErrNotFound
		}
		entry = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListEntries returns all entries for a lease in ledger order
func (s *PaymentEntryService) ListEntries(ctx context.Context, leaseID uuid.UUID) ([]leasing.PaymentEntry, error) {
	var entries []leasing.PaymentEntry
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.EntryRepo().FindByLease(ctx, leaseID)
		if err != nil {
			return err
		}
		entries = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// prepareEntry runs enforcement, payout derivation and the safeties over a
// consistent snapshot and returns an entry carrying the authoritative
// values. excludeID is the entry under edit, or uuid.Nil on create.
func (s *PaymentEntryService) prepareEntry(
	lease *leasing.Lease,
	entries []leasing.PaymentEntry,
	excludeID uuid.UUID,
	paymentType leasing.PaymentType,
	submitted decimal.Decimal,
	date time.Time,
	notes string,
) (*leasing.PaymentEntry, error) {
	agg := leasing.ComputeAggregates(entries, excludeID)

	amount, err := leasing.EnforceAmount(lease.Commission, agg, paymentType, submitted)
	if err != nil {
		return nil, err
	}

	if err := leasing.ValidateEntry(leasing.EntryValidation{
		Type:       paymentType,
		Amount:     amount,
		Date:       date,
		MoveInDate: lease.MoveInDate,
		Aggregates: agg,
	}); err != nil {
		return nil, err
	}

	payout := leasing.ComputePayout(paymentType, amount, agg)

	return leasing.NewPaymentEntry(lease.ID, paymentType, amount, payout, date, notes)
}
