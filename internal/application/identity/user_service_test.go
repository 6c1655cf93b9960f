package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/identity"
	"github.com/leaseledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestUserService(userRepo *MockUserRepository) *UserService {
	return NewUserService(userRepo, zap.NewNop())
}

func TestUserCreate_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestUserService(userRepo)

	userRepo.On("ExistsByUsername", mock.Anything, "newagent").Return(false, nil)
	userRepo.On("ExistsByEmail", mock.Anything, "agent@example.com").Return(false, nil)

	var created *identity.User
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*identity.User)
		}).
		Return(nil)

	dto, err := svc.Create(context.Background(), CreateUserInput{
		Username: "newagent",
		Password: "Passw0rd123",
		Email:    "agent@example.com",
		Fname:    "Sam",
		Lname:    "Ortiz",
		Role:     identity.RoleAgent,
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, created.ID, dto.ID)
	assert.Equal(t, "newagent", dto.Username)
	assert.Equal(t, "agent", dto.Role)
	assert.Equal(t, "active", dto.Status)
	assert.True(t, created.VerifyPassword("Passw0rd123"))
	userRepo.AssertExpectations(t)
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestUserService(userRepo)

	userRepo.On("ExistsByUsername", mock.Anything, "taken").Return(true, nil)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Username: "taken",
		Password: "Passw0rd123",
		Role:     identity.RoleAgent,
	})

	require.Error(t, err)
	assert.Equal(t, "USERNAME_EXISTS", domainCode(t, err))
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestUserService(userRepo)

	userRepo.On("ExistsByUsername", mock.Anything, "newagent").Return(false, nil)
	userRepo.On("ExistsByEmail", mock.Anything, "dupe@example.com").Return(true, nil)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Username: "newagent",
		Password: "Passw0rd123",
		Email:    "dupe@example.com",
		Role:     identity.RoleAgent,
	})

	require.Error(t, err)
	assert.Equal(t, "EMAIL_EXISTS", domainCode(t, err))
}

func TestUserCreate_WeakPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestUserService(userRepo)

	userRepo.On("ExistsByUsername", mock.Anything, "newagent").Return(false, nil)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Username: "newagent",
		Password: "short",
		Role:     identity.RoleAgent,
	})

	require.Error(t, err)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserGetByID_NotFound(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestUserService(userRepo)
	id := uuid.New()

	userRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := svc.GetByID(context.Background(), id)

	require.Error(t, err)
	assert.Equal(t, "USER_NOT_FOUND", domainCode(t, err))
}

func TestUserList_Pagination(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestUserService(userRepo)

	users := make([]*identity.User, 3)
	for i := range users {
		u, err := identity.NewUser("agent"+string(rune('a'+i)), "Passw0rd123", identity.RoleAgent)
		require.NoError(t, err)
		users[i] = u
	}

	filter := identity.NewUserFilter().WithPagination(2, 3)
	userRepo.On("FindAll", mock.Anything, filter).Return(users, int64(7), nil)

	result, err := svc.List(context.Background(), filter)

	require.NoError(t, err)
	assert.Len(t, result.Users, 3)
	assert.Equal(t, int64(7), result.Total)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 3, result.PageSize)
	assert.Equal(t, 3, result.TotalPages)
}

func TestUserListAgents(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestUserService(userRepo)

	agent, err := identity.NewUser("frontdesk", "Passw0rd123", identity.RoleAgent)
	require.NoError(t, err)

	userRepo.On("FindAgents", mock.Anything).Return([]*identity.User{agent}, nil)

	agents, err := svc.ListAgents(context.Background())

	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "frontdesk", agents[0].Username)
}

func TestUserUpdate_ChangesRoleAndName(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestUserService(userRepo)

	user, err := identity.NewUser("frontdesk", "Passw0rd123", identity.RoleAgent)
	require.NoError(t, err)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	fname := "Dana"
	lname := "Reyes"
	role := identity.RoleOwner
	dto, err := svc.Update(context.Background(), UpdateUserInput{
		ID:    user.ID,
		Fname: &fname,
		Lname: &lname,
		Role:  &role,
	})

	require.NoError(t, err)
	assert.Equal(t, "Dana", dto.Fname)
	assert.Equal(t, "owner", dto.Role)
}

func TestUserDeactivateAndReactivate(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestUserService(userRepo)

	user, err := identity.NewUser("frontdesk", "Passw0rd123", identity.RoleAgent)
	require.NoError(t, err)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	dto, err := svc.Deactivate(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "deactivated", dto.Status)

	dto, err = svc.Reactivate(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", dto.Status)
}

func TestUserResetPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestUserService(userRepo)

	user, err := identity.NewUser("frontdesk", "Passw0rd123", identity.RoleAgent)
	require.NoError(t, err)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	err = svc.ResetPassword(context.Background(), user.ID, "Fresh1Password")

	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("Fresh1Password"))
	assert.False(t, user.VerifyPassword("Passw0rd123"))
}

func TestUserUnlock(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newTestUserService(userRepo)

	user, err := identity.NewUser("frontdesk", "Passw0rd123", identity.RoleAgent)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		user.RecordLoginFailure(3, 15*time.Minute)
	}
	require.True(t, user.IsLocked())

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	dto, err := svc.Unlock(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, "active", dto.Status)
	assert.False(t, user.IsLocked())
}
