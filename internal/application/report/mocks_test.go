package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/identity"
	"github.com/leaseledger/backend/internal/domain/leasing"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockLeaseRepository is a mock implementation of leasing.LeaseRepository
type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Lease, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*leasing.Lease, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*leasing.Lease, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindAll(ctx context.Context, filter leasing.LeaseFilter) ([]leasing.Lease, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindByAgent(ctx context.Context, agentID uuid.UUID, filter leasing.LeaseFilter) ([]leasing.Lease, error) {
	args := m.Called(ctx, agentID, filter)
	return args.Get(0).([]leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindStaleUnpaid(ctx context.Context, cutoff time.Time) ([]leasing.Lease, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]leasing.Lease), args.Error(1)
}

func (m *MockLeaseRepository) Save(ctx context.Context, lease *leasing.Lease) error {
	args := m.Called(ctx, lease)
	return args.Error(0)
}

func (m *MockLeaseRepository) SaveWithLock(ctx context.Context, lease *leasing.Lease) error {
	args := m.Called(ctx, lease)
	return args.Error(0)
}

func (m *MockLeaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeaseRepository) Count(ctx context.Context, filter leasing.LeaseFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentEntryRepository is a mock implementation of leasing.PaymentEntryRepository
type MockPaymentEntryRepository struct {
	mock.Mock
}

func (m *MockPaymentEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.PaymentEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.PaymentEntry), args.Error(1)
}

func (m *MockPaymentEntryRepository) FindByLease(ctx context.Context, leaseID uuid.UUID) ([]leasing.PaymentEntry, error) {
	args := m.Called(ctx, leaseID)
	return args.Get(0).([]leasing.PaymentEntry), args.Error(1)
}

func (m *MockPaymentEntryRepository) FindAll(ctx context.Context, filter leasing.PaymentEntryFilter) ([]leasing.PaymentEntry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]leasing.PaymentEntry), args.Error(1)
}

func (m *MockPaymentEntryRepository) FindByAgentAndPeriod(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]leasing.PaymentEntry, error) {
	args := m.Called(ctx, agentID, from, to)
	return args.Get(0).([]leasing.PaymentEntry), args.Error(1)
}

func (m *MockPaymentEntryRepository) Save(ctx context.Context, entry *leasing.PaymentEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPaymentEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentEntryRepository) Count(ctx context.Context, filter leasing.PaymentEntryFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockAgentDrawRepository is a mock implementation of leasing.AgentDrawRepository
type MockAgentDrawRepository struct {
	mock.Mock
}

func (m *MockAgentDrawRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.AgentDraw, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.AgentDraw), args.Error(1)
}

func (m *MockAgentDrawRepository) FindAll(ctx context.Context, filter leasing.AgentDrawFilter) ([]leasing.AgentDraw, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]leasing.AgentDraw), args.Error(1)
}

func (m *MockAgentDrawRepository) FindByAgentAndPeriod(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]leasing.AgentDraw, error) {
	args := m.Called(ctx, agentID, from, to)
	return args.Get(0).([]leasing.AgentDraw), args.Error(1)
}

func (m *MockAgentDrawRepository) Save(ctx context.Context, draw *leasing.AgentDraw) error {
	args := m.Called(ctx, draw)
	return args.Error(0)
}

func (m *MockAgentDrawRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAgentDrawRepository) Count(ctx context.Context, filter leasing.AgentDrawFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) FindAgents(ctx context.Context) ([]*identity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
