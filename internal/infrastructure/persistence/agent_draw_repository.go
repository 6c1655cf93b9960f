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

// AgentDrawSortFields contains allowed sort fields for agent draws
var AgentDrawSortFields = sortFields("date", "amount")

// GormAgentDrawRepository implements AgentDrawRepository using GORM
type GormAgentDrawRepository struct {
	db *gorm.DB
}

// NewGormAgentDrawRepository creates a new GormAgentDrawRepository
func NewGormAgentDrawRepository(db *gorm.DB) *GormAgentDrawRepository {
	return &GormAgentDrawRepository{db: db}
}

// FindByID finds a draw by ID
func (r *GormAgentDrawRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.AgentDraw, error) {
	var model models.AgentDrawModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	draw := model.ToDomain()
	return &draw, nil
}

// FindAll finds draws with filtering and pagination
func (r *GormAgentDrawRepository) FindAll(ctx context.Context, filter leasing.AgentDrawFilter) ([]leasing.AgentDraw, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AgentDrawModel{}), filter)

	sortBy := ValidateSortField(filter.OrderBy, AgentDrawSortFields, "date")
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

	var drawModels []models.AgentDrawModel
	if err := query.Find(&drawModels).Error; err != nil {
		return nil, err
	}
	return toDomainDraws(drawModels), nil
}

// FindByAgentAndPeriod finds an agent's draws dated inside [from, to)
func (r *GormAgentDrawRepository) FindByAgentAndPeriod(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]leasing.AgentDraw, error) {
	var drawModels []models.AgentDrawModel
	if err := r.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Where("date >= ? AND date < ?", from, to).
		Order("date asc, created_at asc").
		Find(&drawModels).Error; err != nil {
		return nil, err
	}
	return toDomainDraws(drawModels), nil
}

// Save creates or updates a draw
func (r *GormAgentDrawRepository) Save(ctx context.Context, draw *leasing.AgentDraw) error {
	model := models.AgentDrawModelFromDomain(draw)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete hard deletes a draw
func (r *GormAgentDrawRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AgentDrawModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts draws matching the filter
func (r *GormAgentDrawRepository) Count(ctx context.Context, filter leasing.AgentDrawFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AgentDrawModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormAgentDrawRepository) applyFilter(query *gorm.DB, filter leasing.AgentDrawFilter) *gorm.DB {
	if filter.AgentID != nil {
		query = query.Where("agent_id = ?", *filter.AgentID)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}
	return query
}

func toDomainDraws(drawModels []models.AgentDrawModel) []leasing.AgentDraw {
	draws := make([]leasing.AgentDraw, len(drawModels))
	for i := range drawModels {
		draws[i] = drawModels[i].ToDomain()
	}
	return draws
}

// Ensure GormAgentDrawRepository implements AgentDrawRepository
var _ leasing.AgentDrawRepository = (*GormAgentDrawRepository)(nil)
