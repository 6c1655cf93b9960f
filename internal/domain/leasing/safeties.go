package leasing

import (
	"fmt"
	"time"

	"github.com/leaseledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryValidation carries the context the safeties need to gate a new or
// edited payment entry. Aggregates must have been computed with the entry
// under edit excluded, and Amount must be the enforced amount, not the
// client-submitted one.
type EntryValidation struct {
	Type       PaymentType
	Amount     decimal.Decimal
	Date       time.Time
	MoveInDate time.Time
	Aggregates Aggregates
}

// ValidateEntry runs the precondition checks for persisting a payment
// entry, in fixed order: non-zero amount, type exclusivity, date sanity.
// Each check is independent; the first failure aborts the enclosing
// transaction and its message is surfaced to the caller unmodified.
func ValidateEntry(v EntryValidation) error {
	if err := checkNonZeroAmount(v.Amount); err != nil {
		return err
	}
	if err := checkTypeExclusivity(v.Type, v.Aggregates); err != nil {
		return err
	}
	return checkDateSanity(v.Date, v.MoveInDate)
}

func checkNonZeroAmount(amount decimal.Decimal) error {
	if amount.IsZero() {
		return shared.NewPolicyViolation("This entry would post $0.00. Nothing to record.")
	}
	return nil
}

func checkTypeExclusivity(paymentType PaymentType, agg Aggregates) error {
	switch paymentType {
	case PaymentTypeChargeback:
		if agg.HasChargeback {
			return shared.NewPolicyViolation("A chargeback has already been recorded for this lease.")
		}
	case PaymentTypeAdvance:
		if agg.HasAdvance {
			return shared.NewPolicyViolation("An advance has already been recorded for this lease.")
		}
		if !agg.PaidPayments.IsZero() || agg.HasChargeback {
			return shared.NewPolicyViolation("An advance can only be created before payments or chargebacks.")
		}
	}
	return nil
}

func checkDateSanity(date, moveInDate time.Time) error {
	if date.Before(moveInDate) {
		return shared.NewPolicyViolation(fmt.Sprintf(
			"Entry date cannot be before the lease move-in date (%s).",
			moveInDate.Format("2006-01-02"),
		))
	}
	return nil
}
