package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/leaseledger/backend/internal/infrastructure/auth"
)

// LoginInput contains the credentials for a login attempt
type LoginInput struct {
	Username string
	Password string
}

// IssuedTokens carries a freshly signed token pair with expiry times.
type IssuedTokens struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

func issuedTokens(pair *auth.TokenPair) IssuedTokens {
	return IssuedTokens{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}

// LoginResult is returned on successful login
type LoginResult struct {
	IssuedTokens
	User UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID       uuid.UUID
	Username string
	FullName string
	Email    string
	Role     string
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult is returned on successful token rotation
type RefreshTokenResult struct {
	IssuedTokens
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string        // JWT ID of the access token being revoked
	TokenTTL time.Duration // Remaining lifetime of the access token
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// ForceLogoutInput contains the input for force logout operation
type ForceLogoutInput struct {
	TargetUserID uuid.UUID
	Reason       string // For the audit log
}
