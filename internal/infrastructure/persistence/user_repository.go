package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/identity"
	"github.com/leaseledger/backend/internal/domain/shared"
	"github.com/leaseledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// UserSortFields contains allowed sort fields for users
var UserSortFields = sortFields(
	"username", "email", "role", "status", "last_login_at",
)

// GormUserRepository implements identity.UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

var _ identity.UserRepository = (*GormUserRepository)(nil)

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// firstUser loads a single user by an arbitrary condition, translating
// gorm.ErrRecordNotFound into the domain not-found error.
func (r *GormUserRepository) firstUser(ctx context.Context, cond string, args ...any) (*identity.User, error) {
	var model models.UserModel
	err := r.db.WithContext(ctx).Where(cond, args...).First(&model).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, shared.ErrNotFound
	case err != nil:
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormUserRepository) countUsers(ctx context.Context, cond string, args ...any) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.UserModel{})
	if cond != "" {
		query = query.Where(cond, args...)
	}
	err := query.Count(&count).Error
	return count, err
}

func toDomainUsers(userModels []*models.UserModel) []*identity.User {
	users := make([]*identity.User, len(userModels))
	for i, model := range userModels {
		users[i] = model.ToDomain()
	}
	return users
}

// Create inserts a new user row.
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Create(models.UserModelFromDomain(user)).Error
}

// Update saves an existing user, failing with shared.ErrNotFound when the
// row no longer exists.
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	result := r.db.WithContext(ctx).Save(models.UserModelFromDomain(user))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a user by ID, deactivated accounts included.
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.firstUser(ctx, "id = ?", id)
}

// FindByUsername resolves a username case-insensitively.
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	return r.firstUser(ctx, "LOWER(username) = ?", strings.ToLower(username))
}

// FindByEmail resolves an email case-insensitively. Empty emails never match
// since the column is nullable.
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	if email == "" {
		return nil, shared.ErrNotFound
	}
	return r.firstUser(ctx, "LOWER(email) = ?", strings.ToLower(email))
}

// FindAll returns users matching the filter with a total count.
func (r *GormUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.UserModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := ValidateSortField(filter.SortBy, UserSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.SortOrder)

	var userModels []*models.UserModel
	err := query.
		Order(sortBy + " " + sortOrder).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&userModels).Error
	if err != nil {
		return nil, 0, err
	}
	return toDomainUsers(userModels), total, nil
}

// FindAgents returns all active agent accounts ordered by name.
func (r *GormUserRepository) FindAgents(ctx context.Context) ([]*identity.User, error) {
	var userModels []*models.UserModel
	err := r.db.WithContext(ctx).
		Where("role = ?", identity.RoleAgent).
		Where("status <> ?", identity.UserStatusDeactivated).
		Order("fname asc, lname asc, username asc").
		Find(&userModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainUsers(userModels), nil
}

// ExistsByUsername reports whether a username is already taken.
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	count, err := r.countUsers(ctx, "LOWER(username) = ?", strings.ToLower(username))
	return count > 0, err
}

// ExistsByEmail reports whether an email is already taken.
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	count, err := r.countUsers(ctx, "LOWER(email) = ?", strings.ToLower(email))
	return count > 0, err
}

// Count returns the total number of users.
func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	return r.countUsers(ctx, "")
}

func (r *GormUserRepository) applyFilter(query *gorm.DB, filter identity.UserFilter) *gorm.DB {
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where(
			"username ILIKE ? OR email ILIKE ? OR fname ILIKE ? OR lname ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	// Deactivated accounts are hidden unless explicitly requested.
	if !filter.IncludeDeactivated && filter.Status == nil {
		query = query.Where("status <> ?", identity.UserStatusDeactivated)
	}
	return query
}
