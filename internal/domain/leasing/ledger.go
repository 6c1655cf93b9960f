package leasing

import (
	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregates holds per-category sums and derived flags over a lease's
// payment entries. It is the context every other ledger rule reads.
type Aggregates struct {
	// PaidAll is the sum of all entries' amount, regardless of type.
	PaidAll decimal.Decimal
	// PaidPayments is the sum of amount over payment-type entries only.
	PaidPayments decimal.Decimal
	// TotalAdjustments is the sum of amount over adjustment entries (free-signed).
	TotalAdjustments decimal.Decimal
	// TotalAdvances is the sum of amount over advance entries.
	TotalAdvances decimal.Decimal
	// TotalChargebacks is the sum of amount over chargeback entries (always <= 0).
	TotalChargebacks decimal.Decimal
	// AdvanceOutstanding is the portion of any advance not yet clawed back
	// by a chargeback: max(TotalAdvances + TotalChargebacks, 0).
	AdvanceOutstanding decimal.Decimal
	HasAdvance         bool
	HasChargeback      bool
}

// ComputeAggregates computes per-category sums over a lease's payment
// entries. excludeID removes one entry from consideration, used when
// re-evaluating an entry being edited so it does not see its own prior
// state; pass uuid.Nil to include every entry.
//
// Pure function: no side effects, deterministic given its input.
func ComputeAggregates(entries []PaymentEntry, excludeID uuid.UUID) Aggregates {
	agg := Aggregates{
		PaidAll:            decimal.Zero,
		PaidPayments:       decimal.Zero,
		TotalAdjustments:   decimal.Zero,
		TotalAdvances:      decimal.Zero,
		TotalChargebacks:   decimal.Zero,
		AdvanceOutstanding: decimal.Zero,
	}

	for i := range entries {
		e := &entries[i]
		if excludeID != uuid.Nil && e.ID == excludeID {
			continue
		}

		agg.PaidAll = agg.PaidAll.Add(e.Amount)

		switch e.Type {
		case PaymentTypePayment:
			agg.PaidPayments = agg.PaidPayments.Add(e.Amount)
		case PaymentTypeAdjustment:
			agg.TotalAdjustments = agg.TotalAdjustments.Add(e.Amount)
		case PaymentTypeAdvance:
			agg.TotalAdvances = agg.TotalAdvances.Add(e.Amount)
			agg.HasAdvance = true
		case PaymentTypeChargeback:
			agg.TotalChargebacks = agg.TotalChargebacks.Add(e.Amount)
			agg.HasChargeback = true
		}
	}

	outstanding := agg.TotalAdvances.Add(agg.TotalChargebacks)
	if outstanding.IsPositive() {
		agg.AdvanceOutstanding = outstanding
	}

	return agg
}

// AdjustedCap returns the commission ceiling net of adjustments, floored
// at zero: max(commission + totalAdjustments, 0).
func (a Aggregates) AdjustedCap(commission decimal.Decimal) decimal.Decimal {
	ceiling := commission.Add(a.TotalAdjustments)
	if ceiling.IsNegative() {
		return decimal.Zero
	}
	return ceiling
}

// EnforceAmount computes the single authoritative amount to persist for a
// proposed entry. Clients must not be able to dictate advance or chargeback
// amounts; those are derivable, auditable quantities. Only payment and
// adjustment amounts represent genuine external facts, and a negative
// payment is rejected rather than clamped.
func EnforceAmount(
	commission decimal.Decimal,
	agg Aggregates,
	paymentType PaymentType,
	submitted decimal.Decimal,
) (decimal.Decimal, error) {
	switch paymentType {
	case PaymentTypePayment:
		if submitted.IsNegative() {
			return decimal.Zero, shared.NewValidationError("Payment amount cannot be negative.")
		}
		return submitted, nil

	case PaymentTypeAdvance:
		// Tops up to the full remaining commission net of adjustments,
		// ignoring whatever the client submitted.
		amount := agg.AdjustedCap(commission).Sub(agg.PaidAll)
		if amount.IsNegative() {
			return decimal.Zero, nil
		}
		return amount, nil

	case PaymentTypeChargeback:
		// Claws back exactly the unrecovered advance. When nothing is
		// outstanding this yields zero, which the non-zero safety rejects.
		return agg.AdvanceOutstanding.Neg(), nil

	case PaymentTypeAdjustment:
		return submitted, nil
	}

	return decimal.Zero, shared.NewValidationError("Unknown payment type: " + string(paymentType))
}

// ComputePayout computes how much of an entry is realized as agent payout,
// as opposed to its face amount. A payment made while an advance is active
// (and no chargeback has occurred) is first absorbed by the outstanding
// advance; only the excess is a new disbursement.
func ComputePayout(paymentType PaymentType, amount decimal.Decimal, agg Aggregates) decimal.Decimal {
	switch paymentType {
	case PaymentTypeAdvance:
		// The advance itself is a real disbursement.
		return amount

	case PaymentTypePayment:
		if agg.HasAdvance && !agg.HasChargeback {
			payout := amount.Sub(agg.AdvanceOutstanding)
			if payout.IsNegative() {
				return decimal.Zero
			}
			return payout
		}
		return amount

	case PaymentTypeChargeback:
		// Force negative. The enforced amount is already <= 0 in practice.
		if amount.LessThanOrEqual(decimal.Zero) {
			return amount
		}
		return amount.Abs().Neg()

	case PaymentTypeAdjustment:
		return amount
	}

	return decimal.Zero
}
