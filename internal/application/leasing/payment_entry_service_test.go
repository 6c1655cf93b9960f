package leasing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/leasing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLease(t *testing.T, commission int64) *leasing.Lease {
	t.Helper()
	lease, err := leasing.NewLease(leasing.NewLeaseInput{
		AgentID:         uuid.New(),
		Complex:         "Maple Court",
		ApartmentNumber: "204",
		TenantFname:     "Dana",
		TenantLname:     "Reyes",
		RentAmount:      decimal.NewFromInt(2000),
		CommissionType:  leasing.CommissionTypeFlat,
		Commission:      decimal.NewFromInt(commission),
		MoveInDate:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return lease
}

func ledgerEntry(t *testing.T, leaseID uuid.UUID, pt leasing.PaymentType, amount, payout int64) leasing.PaymentEntry {
	t.Helper()
	entry, err := leasing.NewPaymentEntry(
		leaseID, pt,
		decimal.NewFromInt(amount), decimal.NewFromInt(payout),
		time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), "",
	)
	require.NoError(t, err)
	return *entry
}

func TestCreateEntry_AdvanceTopsUpToCommission(t *testing.T) {
	scope, leaseRepo, entryRepo, _ := newTestScope()
	svc := NewPaymentEntryService(scope, zap.NewNop())

	lease := testLease(t, 1000)
	leaseRepo.On("FindByIDForUpdate", mock.Anything, lease.ID).Return(lease, nil)
	entryRepo.On("FindByLease", mock.Anything, lease.ID).Return([]leasing.PaymentEntry{}, nil)

	var saved *leasing.PaymentEntry
	entryRepo.On("Save", mock.Anything, mock.AnythingOfType("*leasing.PaymentEntry")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*leasing.PaymentEntry) }).
		Return(nil)
	leaseRepo.On("SaveWithLock", mock.Anything, lease).Return(nil)

	created, err := svc.CreateEntry(context.Background(), CreateEntryRequest{
		LeaseID: lease.ID,
		Type:    leasing.PaymentTypeAdvance,
		Amount:  decimal.NewFromInt(99999), // ignored
		Date:    time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.True(t, created.Amount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, created.Payout.Equal(decimal.NewFromInt(1000)))
	assert.Same(t, created, saved)

	// The lease summary was recomputed in the same transaction.
	assert.Equal(t, leasing.PaidStatusUnpaid, lease.PaidStatus)
	assert.True(t, lease.BalanceDue.Equal(decimal.NewFromInt(1000)))

	leaseRepo.AssertExpectations(t)
	entryRepo.AssertExpectations(t)
}

func TestCreateEntry_PaymentAbsorbedByAdvance(t *testing.T) {
	scope, leaseRepo, entryRepo, _ := newTestScope()
	svc := NewPaymentEntryService(scope, zap.NewNop())

	lease := testLease(t, 1000)
	existing := []leasing.PaymentEntry{ledgerEntry(t, lease.ID, leasing.PaymentTypeAdvance, 1000, 1000)}

	leaseRepo.On("FindByIDForUpdate", mock.Anything, lease.ID).Return(lease, nil)
	entryRepo.On("FindByLease", mock.Anything, lease.ID).Return(existing, nil)
	entryRepo.On("Save", mock.Anything, mock.AnythingOfType("*leasing.PaymentEntry")).Return(nil)
	leaseRepo.On("SaveWithLock", mock.Anything, lease).Return(nil)

	created, err := svc.CreateEntry(context.Background(), CreateEntryRequest{
		LeaseID: lease.ID,
		Type:    leasing.PaymentTypePayment,
		Amount:  decimal.NewFromInt(600),
		Date:    time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.True(t, created.Amount.Equal(decimal.NewFromInt(600)))
	assert.True(t, created.Payout.IsZero())
	assert.Equal(t, leasing.PaidStatusPartially, lease.PaidStatus)
	assert.True(t, lease.BalanceDue.Equal(decimal.NewFromInt(400)))
	assert.True(t, lease.BalancePaid.Equal(decimal.NewFromInt(600)))
}

func TestCreateEntry_ChargebackWithoutAdvanceRejected(t *testing.T) {
	scope, leaseRepo, entryRepo, _ := newTestScope()
	svc := NewPaymentEntryService(scope, zap.NewNop())

	lease := testLease(t, 1000)
	leaseRepo.On("FindByIDForUpdate", mock.Anything, lease.ID).Return(lease, nil)
	entryRepo.On("FindByLease", mock.Anything, lease.ID).Return([]leasing.PaymentEntry{}, nil)

	_, err := svc.CreateEntry(context.Background(), CreateEntryRequest{
		LeaseID: lease.ID,
		Type:    leasing.PaymentTypeChargeback,
		Date:    time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Equal(t, "This entry would post $0.00. Nothing to record.", err.Error())

	// Nothing was persisted.
	entryRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	leaseRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestCreateEntry_NegativePaymentRejected(t *testing.T) {
	scope, leaseRepo, entryRepo, _ := newTestScope()
	svc := NewPaymentEntryService(scope, zap.NewNop())

	lease := testLease(t, 1000)
	leaseRepo.On("FindByIDForUpdate", mock.Anything, lease.ID).Return(lease, nil)
	entryRepo.On("FindByLease", mock.Anything, lease.ID).Return([]leasing.PaymentEntry{}, nil)

	_, err := svc.CreateEntry(context.Background(), CreateEntryRequest{
		LeaseID: lease.ID,
		Type:    leasing.PaymentTypePayment,
		Amount:  decimal.NewFromInt(-50),
		Date:    time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be negative")
}

func TestCreateEntry_DateBeforeMoveInRejected(t *testing.T) {
	scope, leaseRepo, entryRepo, _ := newTestScope()
	svc := NewPaymentEntryService(scope, zap.NewNop())

	lease := testLease(t, 1000)
	leaseRepo.On("FindByIDForUpdate", mock.Anything, lease.ID).Return(lease, nil)
	entryRepo.On("FindByLease", mock.Anything, lease.ID).Return([]leasing.PaymentEntry{}, nil)

	_, err := svc.CreateEntry(context.Background(), CreateEntryRequest{
		LeaseID: lease.ID,
		Type:    leasing.PaymentTypePayment,
		Amount:  decimal.NewFromInt(100),
		Date:    time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2025-06-01")
}

func TestCreateEntry_LeaseNotFound(t *testing.T) {
	scope, leaseRepo, _, _ := newTestScope()
	svc := NewPaymentEntryService(scope, zap.NewNop())

	leaseID := uuid.New()
	leaseRepo.On("FindByIDForUpdate", mock.Anything, leaseID).Return(nil, nil)

	_, err := svc.CreateEntry(context.Background(), CreateEntryRequest{
		LeaseID: leaseID,
		Type:    leasing.PaymentTypePayment,
		Amount:  decimal.NewFromInt(100),
		Date:    time.Now(),
	})
	assert.Error(t, err)
}

func TestUpdateEntry_ExcludesOwnPriorState(t *testing.T) {
	scope, leaseRepo, entryRepo, _ := newTestScope()
	svc := NewPaymentEntryService(scope, zap.NewNop())

	lease := testLease(t, 1000)
	payment := ledgerEntry(t, lease.ID, leasing.PaymentTypePayment, 600, 600)

	entryRepo.On("FindByID", mock.Anything, payment.ID).Return(&payment, nil)
	leaseRepo.On("FindByIDForUpdate", mock.Anything, lease.ID).Return(lease, nil)
	entryRepo.On("FindByLease", mock.Anything, lease.ID).Return([]leasing.PaymentEntry{payment}, nil)
	entryRepo.On("Save", mock.Anything, mock.AnythingOfType("*leasing.PaymentEntry")).Return(nil)
	leaseRepo.On("SaveWithLock", mock.Anything, lease).Return(nil)

	// Retyping the lone payment to an advance must succeed: with the entry
	// excluded the lease has no payments yet, so eligibility holds.
	updated, err := svc.UpdateEntry(context.Background(), UpdateEntryRequest{
		EntryID: payment.ID,
		Type:    leasing.PaymentTypeAdvance,
		Date:    time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, leasing.PaymentTypeAdvance, updated.Type)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, leasing.PaidStatusUnpaid, lease.PaidStatus)
}

func TestDeleteEntry_RecomputesLease(t *testing.T) {
	scope, leaseRepo, entryRepo, _ := newTestScope()
	svc := NewPaymentEntryService(scope, zap.NewNop())

	lease := testLease(t, 1000)
	payment := ledgerEntry(t, lease.ID, leasing.PaymentTypePayment, 600, 600)
	lease.ApplyLedger([]leasing.PaymentEntry{payment})
	require.Equal(t, leasing.PaidStatusPartially, lease.PaidStatus)

	entryRepo.On("FindByID", mock.Anything, payment.ID).Return(&payment, nil)
	leaseRepo.On("FindByIDForUpdate", mock.Anything, lease.ID).Return(lease, nil)
	entryRepo.On("Delete", mock.Anything, payment.ID).Return(nil)
	entryRepo.On("FindByLease", mock.Anything, lease.ID).Return([]leasing.PaymentEntry{}, nil)
	leaseRepo.On("SaveWithLock", mock.Anything, lease).Return(nil)

	err := svc.DeleteEntry(context.Background(), payment.ID)
	require.NoError(t, err)

	assert.Equal(t, leasing.PaidStatusUnpaid, lease.PaidStatus)
	assert.True(t, lease.BalancePaid.IsZero())
	assert.True(t, lease.BalanceDue.Equal(decimal.NewFromInt(1000)))
}
