package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/identity"
	"github.com/leaseledger/backend/internal/domain/leasing"
	"github.com/leaseledger/backend/internal/domain/shared"
	"github.com/leaseledger/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AgentSplitRatio is the house/agent commission split. Agents earn 70% of
// the billed-out total for the month.
var AgentSplitRatio = decimal.NewFromFloat(0.70)

// AgentReportService assembles the monthly payout report for an agent
type AgentReportService struct {
	leases  leasing.LeaseRepository
	entries leasing.PaymentEntryRepository
	draws   leasing.AgentDrawRepository
	users   identity.UserRepository
	logger  *zap.Logger
}

// NewAgentReportService creates a new AgentReportService
func NewAgentReportService(
	leases leasing.LeaseRepository,
	entries leasing.PaymentEntryRepository,
	draws leasing.AgentDrawRepository,
	users identity.UserRepository,
	logger *zap.Logger,
) *AgentReportService {
	return &AgentReportService{
		leases:  leases,
		entries: entries,
		draws:   draws,
		users:   users,
		logger:  logger,
	}
}

// LeaseTotals summarizes the cash picture of one lease within the period
type LeaseTotals struct {
	TotalBillOut     decimal.Decimal `json:"total_bill_out"`    // sum of payouts
	TotalChargebacks decimal.Decimal `json:"total_chargebacks"` // sum of negative payouts
	RemainingBalance decimal.Decimal `json:"remaining_balance"` // commission still held back
}

// ReportStats holds the headline numbers of the monthly report
type ReportStats struct {
	TotalBillOut     decimal.Decimal `json:"total_bill_out"`
	SplitAmount      decimal.Decimal `json:"split_amount"` // TotalBillOut x 0.70
	TotalChargebacks decimal.Decimal `json:"total_chargebacks"`
	TotalDraws       decimal.Decimal `json:"total_draws"`
	MonthlyPayout    decimal.Decimal `json:"monthly_payout"` // SplitAmount - TotalDraws
}

// EntryLine is one ledger entry inside a lease section
type EntryLine struct {
	ID     uuid.UUID       `json:"id"`
	Type   string          `json:"type"`
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Payout decimal.Decimal `json:"payout"`
	Notes  string          `json:"notes,omitempty"`
}

// LeaseSection groups a lease's period entries with the lease header data
type LeaseSection struct {
	LeaseID         uuid.UUID       `json:"lease_id"`
	InvoiceNumber   string          `json:"invoice_number"`
	Complex         string          `json:"complex"`
	ApartmentNumber string          `json:"apartment_number"`
	TenantName      string          `json:"tenant_name"`
	MoveInDate      time.Time       `json:"move_in_date"`
	RentAmount      decimal.Decimal `json:"rent_amount"`
	Commission      decimal.Decimal `json:"commission"`
	PaidStatus      string          `json:"paid_status"`
	Totals          LeaseTotals     `json:"totals"`
	Entries         []EntryLine     `json:"entries"`

	leaseCreatedAt time.Time
}

// DrawLine is one draw row in the report
type DrawLine struct {
	ID     uuid.UUID       `json:"id"`
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes,omitempty"`
}

// AgentReport is the full monthly report for one agent
type AgentReport struct {
	AgentID     uuid.UUID      `json:"agent_id"`
	AgentName   string         `json:"agent_name"`
	Month       time.Month     `json:"month"`
	Year        int            `json:"year"`
	Period      string         `json:"period"` // e.g. "August 2025"
	GeneratedAt time.Time      `json:"generated_at"`
	Stats       ReportStats    `json:"stats"`
	Sections    []LeaseSection `json:"sections"`
	Draws       []DrawLine     `json:"draws"`
}

// MonthBucket is one month of the yearly payout series
type MonthBucket struct {
	Month       time.Month      `json:"month"`
	Paid        decimal.Decimal `json:"paid"`
	Chargebacks decimal.Decimal `json:"chargebacks"` // reported as a positive figure
	Advances    decimal.Decimal `json:"advances"`
	Net         decimal.Decimal `json:"net"` // Paid - Chargebacks
}

// computeLeaseTotals sums a lease's period entries.
// TotalBillOut is the sum of payouts, TotalChargebacks the sum of negative
// payouts only, and RemainingBalance is the commission minus every positive
// (amount - payout) delta, floored at zero.
func computeLeaseTotals(entries []EntryLine, commission decimal.Decimal) LeaseTotals {
	billOut := decimal.Zero
	chargebacks := decimal.Zero
	positiveDeltas := decimal.Zero

	for _, e := range entries {
		billOut = billOut.Add(e.Payout)
		if e.Payout.IsNegative() {
			chargebacks = chargebacks.Add(e.Payout)
		}
		if delta := e.Amount.Sub(e.Payout); delta.IsPositive() {
			positiveDeltas = positiveDeltas.Add(delta)
		}
	}

	remaining := commission.Sub(positiveDeltas)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return LeaseTotals{
		TotalBillOut:     billOut,
		TotalChargebacks: chargebacks,
		RemainingBalance: remaining,
	}
}

// monthWindow returns [start, nextMonthStart) in UTC
func monthWindow(month time.Month, year int) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// AgentReport builds the monthly payout report for an agent
func (s *AgentReportService) AgentReport(ctx context.Context, agentID uuid.UUID, month time.Month, year int) (*AgentReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "agent_report", "build")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAgentID, agentID.String())

	agent, err := s.users.FindByID(ctx, agentID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Agent not found")
	}

	from, to := monthWindow(month, year)

	entries, err := s.entries.FindByAgentAndPeriod(ctx, agentID, from, to)
	if err != nil {
		s.logger.Error("Failed to load entries for report", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load report data")
	}

	sections, err := s.buildSections(ctx, entries)
	if err != nil {
		return nil, err
	}

	draws, err := s.draws.FindByAgentAndPeriod(ctx, agentID, from, to)
	if err != nil {
		s.logger.Error("Failed to load draws for report", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load report data")
	}

	drawLines := make([]DrawLine, len(draws))
	totalDraws := decimal.Zero
	for i, d := range draws {
		drawLines[i] = DrawLine{
			ID:     d.ID,
			Date:   d.Date,
			Amount: d.Amount,
			Notes:  d.Notes,
		}
		totalDraws = totalDraws.Add(d.Amount)
	}

	totalBillOut := decimal.Zero
	totalChargebacks := decimal.Zero
	for _, sec := range sections {
		totalBillOut = totalBillOut.Add(sec.Totals.TotalBillOut)
		totalChargebacks = totalChargebacks.Add(sec.Totals.TotalChargebacks)
	}

	splitAmount := totalBillOut.Mul(AgentSplitRatio).Round(2)
	// Draws already paid out this month come off the commission check
	monthlyPayout := splitAmount.Sub(totalDraws)

	report := &AgentReport{
		AgentID:     agentID,
		AgentName:   agent.FullName(),
		Month:       month,
		Year:        year,
		Period:      fmt.Sprintf("%s %d", month.String(), year),
		GeneratedAt: time.Now(),
		Stats: ReportStats{
			TotalBillOut:     totalBillOut,
			SplitAmount:      splitAmount,
			TotalChargebacks: totalChargebacks,
			TotalDraws:       totalDraws,
			MonthlyPayout:    monthlyPayout,
		},
		Sections: sections,
		Draws:    drawLines,
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrPayout, monthlyPayout.StringFixed(2))

	return report, nil
}

// buildSections groups period entries by lease and attaches lease headers.
// Sections are ordered by lease creation time, newest first.
func (s *AgentReportService) buildSections(ctx context.Context, entries []leasing.PaymentEntry) ([]LeaseSection, error) {
	byLease := make(map[uuid.UUID]*LeaseSection)
	order := make([]uuid.UUID, 0)

	for _, e := range entries {
		sec, ok := byLease[e.LeaseID]
		if !ok {
			lease, err := s.leases.FindByID(ctx, e.LeaseID)
			if err != nil {
				s.logger.Error("Failed to load lease for report",
					zap.String("lease_id", e.LeaseID.String()),
					zap.Error(err))
				return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load report data")
			}
			sec = &LeaseSection{
				LeaseID:         lease.ID,
				InvoiceNumber:   lease.InvoiceNumber,
				Complex:         lease.Complex,
				ApartmentNumber: lease.ApartmentNumber,
				TenantName:      lease.TenantName(),
				MoveInDate:      lease.MoveInDate,
				RentAmount:      lease.RentAmount,
				Commission:      lease.Commission,
				PaidStatus:      string(lease.PaidStatus),
				leaseCreatedAt:  lease.CreatedAt,
			}
			byLease[e.LeaseID] = sec
			order = append(order, e.LeaseID)
		}

		sec.Entries = append(sec.Entries, EntryLine{
			ID:     e.ID,
			Type:   string(e.Type),
			Date:   e.Date,
			Amount: e.Amount,
			Payout: e.Payout,
			Notes:  e.Notes,
		})
	}

	sections := make([]LeaseSection, 0, len(order))
	for _, id := range order {
		sec := byLease[id]
		sort.Slice(sec.Entries, func(i, j int) bool {
			return sec.Entries[i].Date.After(sec.Entries[j].Date)
		})
		sec.Totals = computeLeaseTotals(sec.Entries, sec.Commission)
		sections = append(sections, *sec)
	}

	sort.Slice(sections, func(i, j int) bool {
		return sections[i].leaseCreatedAt.After(sections[j].leaseCreatedAt)
	})

	return sections, nil
}

// MonthlyBreakdown returns the per-month paid/chargeback/advance series for
// a calendar year
func (s *AgentReportService) MonthlyBreakdown(ctx context.Context, agentID uuid.UUID, year int) ([]MonthBucket, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "agent_report", "monthly_breakdown")
	defer span.End()

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	entries, err := s.entries.FindByAgentAndPeriod(ctx, agentID, from, to)
	if err != nil {
		s.logger.Error("Failed to load entries for breakdown", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load report data")
	}

	buckets := make([]MonthBucket, 12)
	for i := range buckets {
		buckets[i] = MonthBucket{
			Month:       time.Month(i + 1),
			Paid:        decimal.Zero,
			Chargebacks: decimal.Zero,
			Advances:    decimal.Zero,
			Net:         decimal.Zero,
		}
	}

	for _, e := range entries {
		idx := int(e.Date.UTC().Month()) - 1
		switch e.Type {
		case leasing.PaymentTypePayment:
			buckets[idx].Paid = buckets[idx].Paid.Add(e.Amount)
		case leasing.PaymentTypeChargeback:
			buckets[idx].Chargebacks = buckets[idx].Chargebacks.Add(e.Amount.Abs())
		case leasing.PaymentTypeAdvance:
			buckets[idx].Advances = buckets[idx].Advances.Add(e.Amount)
		}
	}

	for i := range buckets {
		buckets[i].Net = buckets[i].Paid.Sub(buckets[i].Chargebacks)
	}

	return buckets, nil
}
