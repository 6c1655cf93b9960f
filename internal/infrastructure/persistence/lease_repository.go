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
	"gorm.io/gorm/clause"
)

// LeaseSortFields contains allowed sort fields for leases
var LeaseSortFields = sortFields(
	"invoice_number", "complex", "move_in_date",
	"rent_amount", "commission", "paid_status", "balance_due",
)

// GormLeaseRepository implements LeaseRepository using GORM
type GormLeaseRepository struct {
	db *gorm.DB
}

// NewGormLeaseRepository creates a new GormLeaseRepository
func NewGormLeaseRepository(db *gorm.DB) *GormLeaseRepository {
	return &GormLeaseRepository{db: db}
}

// FindByID finds a lease by ID
func (r *GormLeaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Lease, error) {
	var model models.LeaseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a lease by ID taking a row lock. Must run inside
// a transaction; the lock holds until that transaction ends.
func (r *GormLeaseRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*leasing.Lease, error) {
	var model models.LeaseModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByInvoiceNumber finds a lease by its invoice number
func (r *GormLeaseRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*leasing.Lease, error) {
	var model models.LeaseModel
	if err := r.db.WithContext(ctx).
		Where("invoice_number = ?", invoiceNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds leases with filtering and pagination
func (r *GormLeaseRepository) FindAll(ctx context.Context, filter leasing.LeaseFilter) ([]leasing.Lease, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LeaseModel{}), filter)
	query = r.applySortAndPagination(query, filter)

	var leaseModels []models.LeaseModel
	if err := query.Find(&leaseModels).Error; err != nil {
		return nil, err
	}

	leases := make([]leasing.Lease, len(leaseModels))
	for i := range leaseModels {
		leases[i] = *leaseModels[i].ToDomain()
	}
	return leases, nil
}

// FindByAgent finds leases owned by an agent
func (r *GormLeaseRepository) FindByAgent(ctx context.Context, agentID uuid.UUID, filter leasing.LeaseFilter) ([]leasing.Lease, error) {
	filter.AgentID = &agentID
	return r.FindAll(ctx, filter)
}

// FindStaleUnpaid finds unpaid leases whose move-in date is on or before
// the cutoff. Feeds the collections sweep.
func (r *GormLeaseRepository) FindStaleUnpaid(ctx context.Context, cutoff time.Time) ([]leasing.Lease, error) {
	var leaseModels []models.LeaseModel
	if err := r.db.WithContext(ctx).
		Where("paid_status = ?", leasing.PaidStatusUnpaid).
		Where("move_in_date <= ?", cutoff).
		Order("move_in_date asc").
		Find(&leaseModels).Error; err != nil {
		return nil, err
	}

	leases := make([]leasing.Lease, len(leaseModels))
	for i := range leaseModels {
		leases[i] = *leaseModels[i].ToDomain()
	}
	return leases, nil
}

// Save creates or updates a lease
func (r *GormLeaseRepository) Save(ctx context.Context, lease *leasing.Lease) error {
	model := models.LeaseModelFromDomain(lease)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking. The update only applies when
// the stored version still matches the version the aggregate was loaded at.
func (r *GormLeaseRepository) SaveWithLock(ctx context.Context, lease *leasing.Lease) error {
	model := models.LeaseModelFromDomain(lease)
	loadedVersion := model.Version
	model.Version = loadedVersion + 1

	result := r.db.WithContext(ctx).
		Model(&models.LeaseModel{}).
		Where("id = ? AND version = ?", model.ID, loadedVersion).
		Select("*").
		Omit("created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeConcurrencyConflict, "Lease was modified by another operation")
	}

	lease.Version = model.Version
	return nil
}

// Delete soft deletes a lease
func (r *GormLeaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LeaseModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts leases matching the filter
func (r *GormLeaseRepository) Count(ctx context.Context, filter leasing.LeaseFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LeaseModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormLeaseRepository) applyFilter(query *gorm.DB, filter leasing.LeaseFilter) *gorm.DB {
	if filter.AgentID != nil {
		query = query.Where("agent_id = ?", *filter.AgentID)
	}
	if filter.PaidStatus != nil {
		query = query.Where("paid_status = ?", *filter.PaidStatus)
	}
	if filter.Complex != nil {
		query = query.Where("complex ILIKE ?", "%"+*filter.Complex+"%")
	}
	if filter.TenantName != nil {
		pattern := "%" + *filter.TenantName + "%"
		query = query.Where(
			"tenant_fname ILIKE ? OR tenant_lname ILIKE ? OR (tenant_fname || ' ' || tenant_lname) ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.InvoiceNumber != nil {
		query = query.Where("invoice_number = ?", *filter.InvoiceNumber)
	}
	if filter.MoveInFrom != nil {
		query = query.Where("move_in_date >= ?", *filter.MoveInFrom)
	}
	if filter.MoveInTo != nil {
		query = query.Where("move_in_date <= ?", *filter.MoveInTo)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"invoice_number ILIKE ? OR complex ILIKE ? OR apartment_number ILIKE ? OR tenant_fname ILIKE ? OR tenant_lname ILIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}
	return query
}

// applySortAndPagination applies validated sorting and pagination
func (r *GormLeaseRepository) applySortAndPagination(query *gorm.DB, filter leasing.LeaseFilter) *gorm.DB {
	sortBy := ValidateSortField(filter.OrderBy, LeaseSortFields, "created_at")
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
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}

// Ensure GormLeaseRepository implements LeaseRepository
var _ leasing.LeaseRepository = (*GormLeaseRepository)(nil)
