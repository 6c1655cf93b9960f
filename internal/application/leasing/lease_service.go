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

// LeaseService handles lease lifecycle operations
type LeaseService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewLeaseService creates a new LeaseService
func NewLeaseService(scope TransactionScope, logger *zap.Logger) *LeaseService {
	return &LeaseService{
		scope:  scope,
		logger: logger,
	}
}

// CreateLeaseRequest carries the fields for creating a lease
type CreateLeaseRequest struct {
	AgentID           uuid.UUID
	InvoiceNumber     string
	Complex           string
	ApartmentNumber   string
	TenantFname       string
	TenantLname       string
	TenantEmail       string
	RentAmount        decimal.Decimal
	CommissionType    leasing.CommissionType
	CommissionPercent *decimal.Decimal
	Commission        decimal.Decimal
	MoveInDate        time.Time
	ExtraNotes        string
}

// UpdateLeaseRequest carries the fields for updating a lease
type UpdateLeaseRequest struct {
	LeaseID           uuid.UUID
	InvoiceNumber     string
	Complex           string
	ApartmentNumber   string
	TenantFname       string
	TenantLname       string
	TenantEmail       string
	RentAmount        decimal.Decimal
	CommissionType    leasing.CommissionType
	CommissionPercent *decimal.Decimal
	Commission        decimal.Decimal
	MoveInDate        time.Time
	ExtraNotes        string
}

// LeaseDetail bundles a lease with its full entry set
type LeaseDetail struct {
	Lease   *leasing.Lease
	Entries []leasing.PaymentEntry
}

// CreateLease records a new lease placement
func (s *LeaseService) CreateLease(ctx context.Context, req CreateLeaseRequest) (*leasing.Lease, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease", "create")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrAgentID, req.AgentID.String())

	lease, err := leasing.NewLease(leasing.NewLeaseInput{
		AgentID:           req.AgentID,
		InvoiceNumber:     req.InvoiceNumber,
		Complex:           req.Complex,
		ApartmentNumber:   req.ApartmentNumber,
		TenantFname:       req.TenantFname,
		TenantLname:       req.TenantLname,
		TenantEmail:       req.TenantEmail,
		RentAmount:        req.RentAmount,
		CommissionType:    req.CommissionType,
		CommissionPercent: req.CommissionPercent,
		Commission:        req.Commission,
		MoveInDate:        req.MoveInDate,
		ExtraNotes:        req.ExtraNotes,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if lease.InvoiceNumber != "" {
			existing, err := repos.LeaseRepo().FindByInvoiceNumber(ctx, lease.InvoiceNumber)
			if err != nil {
				return fmt.Errorf("failed to check invoice number: %w", err)
			}
			if existing != nil {
				return shared.NewDomainError(shared.CodeAlreadyExists, "A lease with this invoice number already exists")
			}
		}
		return repos.LeaseRepo().Save(ctx, lease)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrLeaseID, lease.ID.String())
	s.logger.Info("lease created",
		zap.String("lease_id", lease.ID.String()),
		zap.String("agent_id", lease.AgentID.String()),
		zap.String("commission", lease.Commission.String()),
	)

	return lease, nil
}

// UpdateLease applies editable fields and re-runs the ledger recomputation,
// since a changed commission or adjustment context moves the balance and
// status.
func (s *LeaseService) UpdateLease(ctx context.Context, req UpdateLeaseRequest) (*leasing.Lease, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease", "update")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrLeaseID, req.LeaseID.String())

	var updated *leasing.Lease
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lease, err := repos.LeaseRepo().FindByIDForUpdate(ctx, req.LeaseID)
		if err != nil {
			return fmt.Errorf("failed to load lease: %w", err)
		}
		if lease == nil {
			return shared.ErrNotFound
		}

		if err := lease.UpdateDetails(leasing.UpdateDetailsInput{
			InvoiceNumber:     req.InvoiceNumber,
			Complex:           req.Complex,
			ApartmentNumber:   req.ApartmentNumber,
			TenantFname:       req.TenantFname,
			TenantLname:       req.TenantLname,
			TenantEmail:       req.TenantEmail,
			RentAmount:        req.RentAmount,
			CommissionType:    req.CommissionType,
			CommissionPercent: req.CommissionPercent,
			Commission:        req.Commission,
			MoveInDate:        req.MoveInDate,
			ExtraNotes:        req.ExtraNotes,
		}); err != nil {
			return err
		}

		entries, err := repos.EntryRepo().FindByLease(ctx, lease.ID)
		if err != nil {
			return fmt.Errorf("failed to load entries: %w", err)
		}
		lease.ApplyLedger(entries)

		if err := repos.LeaseRepo().SaveWithLock(ctx, lease); err != nil {
			return fmt.Errorf("failed to save lease: %w", err)
		}

		updated = lease
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("lease updated", zap.String("lease_id", updated.ID.String()))
	return updated, nil
}

// GetLease loads a lease with its full entry set
func (s *LeaseService) GetLease(ctx context.Context, leaseID uuid.UUID) (*LeaseDetail, error) {
	var detail *LeaseDetail
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lease, err := repos.LeaseRepo().FindByID(ctx, leaseID)
		if err != nil {
			return err
		}
		if lease == nil {
			return shared.ErrNotFound
		}

		entries, err := repos.EntryRepo().FindByLease(ctx, leaseID)
		if err != nil {
			return err
		}

		detail = &LeaseDetail{Lease: lease, Entries: entries}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// ListLeases returns leases matching the filter
func (s *LeaseService) ListLeases(ctx context.Context, filter leasing.LeaseFilter) ([]leasing.Lease, int64, error) {
	var leases []leasing.Lease
	var total int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.LeaseRepo().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		count, err := repos.LeaseRepo().Count(ctx, filter)
		if err != nil {
			return err
		}
		leases = found
		total = count
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return leases, total, nil
}

// ListLeasesByAgent returns an agent's leases
func (s *LeaseService) ListLeasesByAgent(ctx context.Context, agentID uuid.UUID, filter leasing.LeaseFilter) ([]leasing.Lease, error) {
	var leases []leasing.Lease
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.LeaseRepo().FindByAgent(ctx, agentID, filter)
		if err != nil {
			return err
		}
		leases = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return leases, nil
}

// DeleteLease soft deletes a lease
func (s *LeaseService) DeleteLease(ctx context.Context, leaseID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease", "delete")
	defer span.End()

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lease, err := repos.LeaseRepo().FindByID(ctx, leaseID)
		if err != nil {
			return err
		}
		if lease == nil {
			return shared.ErrNotFound
		}
		return repos.LeaseRepo().Delete(ctx, leaseID)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.logger.Info("lease deleted", zap.String("lease_id", leaseID.String()))
	return nil
}

// RecomputeLease re-derives a lease's summary fields from its current
// entry set. Normally the entry pipeline keeps the two consistent; this is
// the manual repair path.
func (s *LeaseService) RecomputeLease(ctx context.Context, leaseID uuid.UUID) (*leasing.Lease, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease", "recompute")
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrLeaseID, leaseID.String())

	var recomputed *leasing.Lease
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lease, err := repos.LeaseRepo().FindByIDForUpdate(ctx, leaseID)
		if err != nil {
			return fmt.Errorf("failed to load lease: %w", err)
		}
		if lease == nil {
			return shared.ErrNotFound
		}

		entries, err := repos.EntryRepo().FindByLease(ctx, leaseID)
		if err != nil {
			return fmt.Errorf("failed to load entries: %w", err)
		}

		lease.ApplyLedger(entries)

		if err := repos.LeaseRepo().SaveWithLock(ctx, lease); err != nil {
			return fmt.Errorf("failed to save lease: %w", err)
		}

		recomputed = lease
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrPaidStatus, string(recomputed.PaidStatus))
	return recomputed, nil
}
