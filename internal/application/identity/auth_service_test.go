package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/domain/identity"
	"github.com/leaseledger/backend/internal/domain/shared"
	"github.com/leaseledger/backend/internal/infrastructure/auth"
	"github.com/leaseledger/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPassword = "Sup3rSecret"

func newTestAuthService(userRepo *MockUserRepository) (*AuthService, *auth.InMemoryTokenBlacklist) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewAuthService(userRepo, jwtService, blacklist, DefaultAuthServiceConfig(), zap.NewNop())
	return svc, blacklist
}

func newActiveAgent(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewUser("frontdesk", testPassword, identity.RoleAgent)
	require.NoError(t, err)
	require.NoError(t, user.SetName("Dana", "Reyes"))
	return user
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var dErr *shared.DomainError
	require.True(t, errors.As(err, &dErr), "expected a domain error, got %v", err)
	return dErr.Code
}

func TestLogin_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, _ := newTestAuthService(userRepo)
	user := newActiveAgent(t)

	userRepo.On("FindByUsername", mock.Anything, "frontdesk").Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	result, err := svc.Login(context.Background(), LoginInput{
		Username: "frontdesk",
		Password: testPassword,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Equal(t, "Dana Reyes", result.User.FullName)
	assert.Equal(t, "agent", result.User.Role)
	assert.NotNil(t, user.LastLoginAt)
	userRepo.AssertExpectations(t)
}

func TestLogin_UnknownUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, _ := newTestAuthService(userRepo)

	userRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, shared.ErrNotFound)

	_, err := svc.Login(context.Background(), LoginInput{Username: "ghost", Password: "whatever"})

	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, err))
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, _ := newTestAuthService(userRepo)
	user := newActiveAgent(t)

	userRepo.On("FindByUsername", mock.Anything, "frontdesk").Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	_, err := svc.Login(context.Background(), LoginInput{
		Username: "frontdesk",
		Password: "wrong-password",
	})

	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, err))
	assert.Equal(t, 1, user.FailedAttempts)
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, _ := newTestAuthService(userRepo)
	user := newActiveAgent(t)

	userRepo.On("FindByUsername", mock.Anything, "frontdesk").Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	input := LoginInput{Username: "frontdesk", Password: "wrong-password"}

	for i := 0; i < 2; i++ {
		_, err := svc.Login(context.Background(), input)
		require.Error(t, err)
		assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, err))
	}

	// Third strike locks the account
	_, err := svc.Login(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, "ACCOUNT_LOCKED", domainCode(t, err))
	assert.True(t, user.IsLocked())

	// Even the right password is rejected while locked
	_, err = svc.Login(context.Background(), LoginInput{Username: "frontdesk", Password: testPassword})
	require.Error(t, err)
	assert.Equal(t, "ACCOUNT_LOCKED", domainCode(t, err))
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, _ := newTestAuthService(userRepo)
	user := newActiveAgent(t)
	require.NoError(t, user.Deactivate())

	userRepo.On("FindByUsername", mock.Anything, "frontdesk").Return(user, nil)

	_, err := svc.Login(context.Background(), LoginInput{Username: "frontdesk", Password: testPassword})

	require.Error(t, err)
	assert.Equal(t, "ACCOUNT_DEACTIVATED", domainCode(t, err))
}

func TestRefreshToken_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, _ := newTestAuthService(userRepo)
	user := newActiveAgent(t)

	userRepo.On("FindByUsername", mock.Anything, "frontdesk").Return(user, nil)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	login, err := svc.Login(context.Background(), LoginInput{Username: "frontdesk", Password: testPassword})
	require.NoError(t, err)

	result, err := svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: login.RefreshToken})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.NotEqual(t, login.RefreshToken, result.RefreshToken)
}

func TestRefreshToken_InvalidToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, _ := newTestAuthService(userRepo)

	_, err := svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "garbage"})

	require.Error(t, err)
	assert.Equal(t, "TOKEN_INVALID", domainCode(t, err))
}

func TestRefreshToken_RejectedAfterForceLogout(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, _ := newTestAuthService(userRepo)
	user := newActiveAgent(t)

	userRepo.On("FindByUsername", mock.Anything, "frontdesk").Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	login, err := svc.Login(context.Background(), LoginInput{Username: "frontdesk", Password: testPassword})
	require.NoError(t, err)

	err = svc.ForceLogout(context.Background(), ForceLogoutInput{
		TargetUserID: user.ID,
		Reason:       "account deactivated",
	})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: login.RefreshToken})

	require.Error(t, err)
	assert.Equal(t, "TOKEN_INVALID", domainCode(t, err))
}

func TestRefreshToken_InactiveUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, _ := newTestAuthService(userRepo)
	user := newActiveAgent(t)

	userRepo.On("FindByUsername", mock.Anything, "frontdesk").Return(user, nil)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	login, err := svc.Login(context.Background(), LoginInput{Username: "frontdesk", Password: testPassword})
	require.NoError(t, err)

	require.NoError(t, user.Deactivate())

	_, err = svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: login.RefreshToken})

	require.Error(t, err)
	assert.Equal(t, "ACCOUNT_INACTIVE", domainCode(t, err))
}

func TestLogout_BlacklistsToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, blacklist := newTestAuthService(userRepo)

	err := svc.Logout(context.Background(), LogoutInput{
		UserID:   uuid.New(),
		TokenJTI: "jti-123",
		TokenTTL: 10 * time.Minute,
	})
	require.NoError(t, err)

	blacklisted, err := blacklist.IsBlacklisted(context.Background(), "jti-123")
	require.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestLogout_NoopForExpiredToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, blacklist := newTestAuthService(userRepo)

	err := svc.Logout(context.Background(), LogoutInput{
		UserID:   uuid.New(),
		TokenJTI: "jti-456",
		TokenTTL: 0,
	})
	require.NoError(t, err)

	blacklisted, err := blacklist.IsBlacklisted(context.Background(), "jti-456")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestGetCurrentUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, _ := newTestAuthService(userRepo)
	user := newActiveAgent(t)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	info, err := svc.GetCurrentUser(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, user.ID, info.ID)
	assert.Equal(t, "frontdesk", info.Username)
}

func TestGetCurrentUser_NotFound(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, _ := newTestAuthService(userRepo)
	id := uuid.New()

	userRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := svc.GetCurrentUser(context.Background(), id)

	require.Error(t, err)
	assert.Equal(t, "USER_NOT_FOUND", domainCode(t, err))
}

func TestChangePassword_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, _ := newTestAuthService(userRepo)
	user := newActiveAgent(t)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	err := svc.ChangePassword(context.Background(), ChangePasswordInput{
		UserID:      user.ID,
		OldPassword: testPassword,
		NewPassword: "N3wSecret99",
	})

	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("N3wSecret99"))
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, _ := newTestAuthService(userRepo)
	user := newActiveAgent(t)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	err := svc.ChangePassword(context.Background(), ChangePasswordInput{
		UserID:      user.ID,
		OldPassword: "not-the-password",
		NewPassword: "N3wSecret99",
	})

	require.Error(t, err)
	assert.True(t, user.VerifyPassword(testPassword))
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
