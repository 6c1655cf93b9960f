package leasing

import (
	"context"

	"github.com/leaseledger/backend/internal/domain/leasing"
)

// TransactionScope provides transactional access to the ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
//
// Entry mutations additionally rely on LeaseRepo().FindByIDForUpdate to
// serialize per lease: two concurrent creates against the same lease must
// not both see the pre-mutation entry set, or they could jointly violate
// the single-advance and single-chargeback invariants.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// LeaseRepo returns the lease repository scoped to the current transaction
	LeaseRepo() leasing.LeaseRepository
	// EntryRepo returns the payment entry repository scoped to the current transaction
	EntryRepo() leasing.PaymentEntryRepository
	// DrawRepo returns the agent draw repository scoped to the current transaction
	DrawRepo() leasing.AgentDrawRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	leaseRepo leasing.LeaseRepository
	entryRepo leasing.PaymentEntryRepository
	drawRepo  leasing.AgentDrawRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	leaseRepo leasing.LeaseRepository,
	entryRepo leasing.PaymentEntryRepository,
	drawRepo leasing.AgentDrawRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		leaseRepo: leaseRepo,
		entryRepo: entryRepo,
		drawRepo:  drawRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// LeaseRepo returns the lease repository.
func (s *NoOpTransactionScope) LeaseRepo() leasing.LeaseRepository {
	return s.leaseRepo
}

// EntryRepo returns the payment entry repository.
func (s *NoOpTransactionScope) EntryRepo() leasing.PaymentEntryRepository {
	return s.entryRepo
}

// DrawRepo returns the agent draw repository.
func (s *NoOpTransactionScope) DrawRepo() leasing.AgentDrawRepository {
	return s.drawRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
