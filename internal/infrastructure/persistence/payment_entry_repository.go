package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/leasing"
	"github.com/leaseledger/backend/internal/domain/shared"
	"github.com/leaseledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// PaymentEntrySortFields contains allowed sort fields for payment entries
var PaymentEntrySortFields = sortFields("date", "type", "amount", "payout")

// GormPaymentEntryRepository implements PaymentEntryRepository using GORM
type GormPaymentEntryRepository struct {
	db *gorm.DB
}

// NewGormPaymentEntryRepository creates a new GormPaymentEntryRepository
func NewGormPaymentEntryRepository(db *gorm.DB) *GormPaymentEntryRepository {
	return &GormPaymentEntryRepository{db: db}
}

// FindByID finds an entry by ID
func (r *GormPaymentEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.PaymentEntry, error) {
	var model models.PaymentEntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	entry := model.ToDomain()
	return &entry, nil
}

// FindByLease returns every entry for a lease ordered by date then creation
// time. Reconciliation reprocesses this full set on each ledger change.
func (r *GormPaymentEntryRepository) FindByLease(ctx context.Context, leaseID uuid.UUID) ([]leasing.PaymentEntry, error) {
	var entryModels []models.PaymentEntryModel
	if err := r.db.WithContext(ctx).
		Where("lease_id = ?", leaseID).
		Order("date asc, created_at asc").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// FindAll finds entries with filtering and pagination
func (r *GormPaymentEntryRepository) FindAll(ctx context.Context, filter leasing.PaymentEntryFilter) ([]leasing.PaymentEntry, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PaymentEntryModel{}), filter)

	sortBy := ValidateSortField(filter.OrderBy, PaymentEntrySortFields, "date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortBy + " " + sortOrder)

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	query = query.Offset((page - 1) * pageSize).Limit(pageSize)

	var entryModels []models.PaymentEntryModel
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// FindByAgentAndPeriod finds entries on leases owned by an agent whose date
// falls inside the half-open interval [from, to)
func (r *GormPaymentEntryRepository) FindByAgentAndPeriod(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]leasing.PaymentEntry, error) {
	var entryModels []models.PaymentEntryModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN leases ON leases.id = payment_entries.lease_id").
		Where("leases.agent_id = ?", agentID).
		Where("leases.deleted_at IS NULL").
		Where("payment_entries.date >= ? AND payment_entries.date < ?", from, to).
		Order("payment_entries.date asc, payment_entries.created_at asc").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toDomainEntries(entryModels), nil
}

// Save creates or updates an entry
func (r *GormPaymentEntryRepository) Save(ctx context.Context, entry *leasing.PaymentEntry) error {
	model := models.PaymentEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete hard deletes an entry. Ledger corrections remove the entry and
// recompute the lease, so no soft delete here.
func (r *GormPaymentEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PaymentEntryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts entries matching the filter
func (r *GormPaymentEntryRepository) Count(ctx context.Context, filter leasing.PaymentEntryFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PaymentEntryModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPaymentEntryRepository) applyFilter(query *gorm.DB, filter leasing.PaymentEntryFilter) *gorm.DB {
	if filter.LeaseID != nil {
		query = query.Where("lease_id = ?", *filter.LeaseID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}
	return query
}

func toDomainEntries(entryModels []models.PaymentEntryModel) []leasing.PaymentEntry {
	entries := make([]leasing.PaymentEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
	}
	return entries
}

// Ensure GormPaymentEntryRepository implements PaymentEntryRepository
var _ leasing.PaymentEntryRepository = (*GormPaymentEntryRepository)(nil)
