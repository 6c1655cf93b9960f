package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/leasing"
	"github.com/leaseledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DrawService handles agent draw bookkeeping. Draws sit outside the lease
// ledger and never trigger a lease recomputation.
type DrawService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewDrawService creates a new DrawService
func NewDrawService(scope TransactionScope, logger *zap.Logger) *DrawService {
	return &DrawService{
		scope:  scope,
		logger: logger,
	}
}

// CreateDrawRequest carries the fields for recording a draw
type CreateDrawRequest struct {
	AgentID uuid.UUID
	Amount  decimal.Decimal
	Date    time.Time
	Notes   string
}

// UpdateDrawRequest carries the fields for updating a draw
type UpdateDrawRequest struct {
	DrawID uuid.UUID
	Amount decimal.Decimal
	Date   time.Time
	Notes  string
}

// CreateDraw records a draw against an agent's future commission
func (s *DrawService) CreateDraw(ctx context.Context, req CreateDrawRequest) (*leasing.AgentDraw, error) {
	draw, err := leasing.NewAgentDraw(req.AgentID, req.Amount, req.Date, req.Notes)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.DrawRepo().Save(ctx, draw)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("agent draw recorded",
		zap.String("draw_id", draw.ID.String()),
		zap.String("agent_id", draw.AgentID.String()),
		zap.String("amount", draw.Amount.String()),
	)

	return draw, nil
}

// UpdateDraw applies editable fields to an existing draw
func (s *DrawService) UpdateDraw(ctx context.Context, req UpdateDrawRequest) (*leasing.AgentDraw, error) {
	var updated *leasing.AgentDraw
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		draw, err := repos.DrawRepo().FindByID(ctx, req.DrawID)
		if err != nil {
			return err
		}
		if draw == nil {
			return shared.ErrNotFound
		}

		if err := draw.Update(req.Amount, req.Date, req.Notes); err != nil {
			return err
		}
		if err := repos.DrawRepo().Save(ctx, draw); err != nil {
			return err
		}

		updated = draw
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteDraw removes a draw
func (s *DrawService) DeleteDraw(ctx context.Context, drawID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		draw, err := repos.DrawRepo().FindByID(ctx, drawID)
		if err != nil {
			return err
		}
		if draw == nil {
			return shared.ErrNotFound
		}
		return repos.DrawRepo().Delete(ctx, drawID)
	})
}

// ListDraws returns draws matching the filter
func (s *DrawService) ListDraws(ctx context.Context, filter leasing.AgentDrawFilter) ([]leasing.AgentDraw, int64, error) {
	var draws []leasing.AgentDraw
	var total int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.DrawRepo().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		count, err := repos.DrawRepo().Count(ctx, filter)
		if err != nil {
			return err
		}
		draws = found
		total = count
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return draws, total, nil
}
