package leasing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AgentDraw records money paid out to an agent ahead of earned commission.
// Draws live outside the lease ledger; they net against earned payouts on
// the agent report but never change a lease's balances or status.
type AgentDraw struct {
	shared.BaseEntity
	AgentID uuid.UUID       `json:"agent_id"`
	Amount  decimal.Decimal `json:"amount"`
	Date    time.Time       `json:"date"`
	Notes   string          `json:"notes,omitempty"`
}

// NewAgentDraw creates a draw against an agent's future commission
func NewAgentDraw(agentID uuid.UUID, amount decimal.Decimal, date time.Time, notes string) (*AgentDraw, error) {
	if agentID == uuid.Nil {
		return nil, shared.NewConsistencyError("Draw must reference an agent")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Draw amount must be positive")
	}
	if date.IsZero() {
		return nil, shared.NewValidationError("Draw date is required")
	}
	if len(notes) > 500 {
		return nil, shared.NewValidationError("Notes cannot exceed 500 characters")
	}

	return &AgentDraw{
		BaseEntity: shared.NewBaseEntity(),
		AgentID:    agentID,
		Amount:     amount,
		Date:       date,
		Notes:      strings.TrimSpace(notes),
	}, nil
}

// Update applies editable fields to an existing draw
func (d *AgentDraw) Update(amount decimal.Decimal, date time.Time, notes string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Draw amount must be positive")
	}
	if date.IsZero() {
		return shared.NewValidationError("Draw date is required")
	}
	if len(notes) > 500 {
		return shared.NewValidationError("Notes cannot exceed 500 characters")
	}

	d.Amount = amount
	d.Date = date
	d.Notes = strings.TrimSpace(notes)
	d.Touch()
	return nil
}
