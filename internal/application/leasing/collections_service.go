package leasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/leasing"
	"github.com/leaseledger/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultStaleAfter is how long a lease may sit unpaid past its move-in
// date before the collections sweep charges it back.
const DefaultStaleAfter = 90 * 24 * time.Hour

// CollectionsService surfaces leases in collections trouble and runs the
// periodic chargeback sweep over stale unpaid leases.
type CollectionsService struct {
	scope      TransactionScope
	entries    *PaymentEntryService
	staleAfter time.Duration
	logger     *zap.Logger
}

// NewCollectionsService creates a new CollectionsService. staleAfter <= 0
// falls back to the default sweep window.
func NewCollectionsService(scope TransactionScope, entries *PaymentEntryService, staleAfter time.Duration, logger *zap.Logger) *CollectionsService {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &CollectionsService{
		scope:      scope,
		entries:    entries,
		staleAfter: staleAfter,
		logger:     logger,
	}
}

// PendingCollections returns unpaid and partially paid leases whose move-in
// date has passed the stale window. These are the sweep's candidates.
func (s *CollectionsService) PendingCollections(ctx context.Context) ([]leasing.Lease, error) {
	cutoff := time.Now().Add(-s.staleAfter)

	var pending []leasing.Lease
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.LeaseRepo().FindStaleUnpaid(ctx, cutoff)
		if err != nil {
			return err
		}
		pending = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pending, nil
}

// CollectionsHistory returns leases already charged back
func (s *CollectionsService) CollectionsHistory(ctx context.Context, filter leasing.LeaseFilter) ([]leasing.Lease, error) {
	status := leasing.PaidStatusChargeback
	filter.PaidStatus = &status

	var history []leasing.Lease
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.LeaseRepo().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		history = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

// SweepResult summarizes one chargeback sweep run
type SweepResult struct {
	Examined   int         `json:"examined"`
	ChargedOff int         `json:"charged_off"`
	Failed     int         `json:"failed"`
	LeaseIDs   []uuid.UUID `json:"lease_ids"`
}

// RunChargebackSweep charges back every lease still unpaid past the stale
// window. Leases with an outstanding advance get a chargeback entry posted
// through the normal pipeline, so the clawback lands in the payout ledger.
// Leases with nothing to claw back have nothing a chargeback entry could
// record (its enforced amount would be zero), so their status is forced
// directly.
//
// Each lease is its own transaction: one bad lease must not abort the
// whole sweep.
func (s *CollectionsService) RunChargebackSweep(ctx context.Context) (*SweepResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collections", "chargeback_sweep")
	defer span.End()

	pending, err := s.PendingCollections(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load sweep candidates: %w", err)
	}

	result := &SweepResult{Examined: len(pending)}
	for i := range pending {
		lease := &pending[i]
		if err := s.chargeBackLease(ctx, lease); err != nil {
			result.Failed++
			s.logger.Error("chargeback sweep failed for lease",
				zap.String("lease_id", lease.ID.String()),
				zap.Error(err),
			)
			continue
		}
		result.ChargedOff++
		result.LeaseIDs = append(result.LeaseIDs, lease.ID)
	}

	telemetry.SetAttributes(span,
		"examined", result.Examined,
		"charged_off", result.ChargedOff,
		"failed", result.Failed,
	)
	s.logger.Info("chargeback sweep complete",
		zap.Int("examined", result.Examined),
		zap.Int("charged_off", result.ChargedOff),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}

func (s *CollectionsService) chargeBackLease(ctx context.Context, lease *leasing.Lease) error {
	hasOutstandingAdvance := false
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		entries, err := repos.EntryRepo().FindByLease(ctx, lease.ID)
		if err != nil {
			return err
		}
		agg := leasing.ComputeAggregates(entries, uuid.Nil)
		hasOutstandingAdvance = agg.AdvanceOutstanding.IsPositive() && !agg.HasChargeback
		return nil
	})
	if err != nil {
		return err
	}

	if hasOutstandingAdvance {
		_, err := s.entries.CreateEntry(ctx, CreateEntryRequest{
			LeaseID: lease.ID,
			Type:    leasing.PaymentTypeChargeback,
			Date:    time.Now(),
			Notes:   "Charged back by collections sweep",
		})
		return err
	}

	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		locked, err := repos.LeaseRepo().FindByIDForUpdate(ctx, lease.ID)
		if err != nil {
			return err
		}
		if locked == nil || locked.PaidStatus == leasing.PaidStatusChargeback {
			return nil
		}
		locked.MarkChargedBack()
		return repos.LeaseRepo().SaveWithLock(ctx, locked)
	})
}
