package persistence

import (
	"context"

	appleasing "github.com/leaseledger/backend/internal/application/leasing"
	"github.com/leaseledger/backend/internal/domain/leasing"
	"gorm.io/gorm"
)

// GormTransactionScope implements the ledger TransactionScope using GORM
// transactions. Entry mutations run through it so the row lock taken by
// LeaseRepo().FindByIDForUpdate spans the whole reconciliation.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appleasing.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to the ledger repositories
// within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// LeaseRepo returns the lease repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LeaseRepo() leasing.LeaseRepository {
	return NewGormLeaseRepository(r.tx)
}

// EntryRepo returns the payment entry repository scoped to the current transaction.
func (r *gormTransactionalRepositories) EntryRepo() leasing.PaymentEntryRepository {
	return NewGormPaymentEntryRepository(r.tx)
}

// DrawRepo returns the agent draw repository scoped to the current transaction.
func (r *gormTransactionalRepositories) DrawRepo() leasing.AgentDrawRepository {
	return NewGormAgentDrawRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appleasing.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appleasing.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
