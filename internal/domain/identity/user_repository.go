package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the persistence operations for user accounts.
// FindByID does not filter out deactivated users, callers decide how
// to treat them.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error

	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll returns users matching the filter with a total count
	FindAll(ctx context.Context, filter UserFilter) ([]*User, int64, error)

	// FindAgents returns all active agent accounts
	FindAgents(ctx context.Context) ([]*User, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	Count(ctx context.Context) (int64, error)
}

// UserFilter narrows and pages user listings.
type UserFilter struct {
	Keyword            string // matches username, email, or name
	Status             *UserStatus
	Role               *Role
	IncludeDeactivated bool

	Page, PageSize int

	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewUserFilter returns a filter for the first page of 20 users,
// newest first.
func NewUserFilter() UserFilter {
	return UserFilter{Page: 1, PageSize: 20, SortBy: "created_at", SortOrder: "desc"}
}

// WithPagination sets pagination parameters
func (f UserFilter) WithPagination(page, pageSize int) UserFilter {
	f.Page, f.PageSize = page, pageSize
	return f
}

// Offset returns the row offset for the current page.
func (f UserFilter) Offset() int {
	return (max(f.Page, 1) - 1) * f.Limit()
}

// Limit clamps the page size to at most 100 rows.
func (f UserFilter) Limit() int {
	switch {
	case f.PageSize <= 0:
		return 20
	case f.PageSize > 100:
		return 100
	default:
		return f.PageSize
	}
}
