package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/leaseledger/backend/internal/infrastructure/auth"
	"github.com/leaseledger/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-middleware",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "leaseledger-test",
		MaxRefreshCount:        10,
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, role string) string {
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "frontdesk",
		Role:     role,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func newAuthRouter(svc *auth.JWTService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	handlers := append(extra, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  GetJWTUserID(c),
			"username": GetJWTUsername(c),
			"role":     GetJWTRole(c),
		})
	})
	router.GET("/api/v1/leases", handlers...)
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()

	t.Run("accepts valid bearer token", func(t *testing.T) {
		router := newAuthRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/leases", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, "agent"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "frontdesk")
		assert.Contains(t, w.Body.String(), "agent")
	})

	t.Run("rejects missing header", func(t *testing.T) {
		router := newAuthRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/leases", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("rejects malformed header", func(t *testing.T) {
		router := newAuthRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/leases", nil)
		req.Header.Set(AuthHeaderKey, "Token abc123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		router := newAuthRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/leases", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+"not-a-jwt")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("rejects refresh token on access endpoints", func(t *testing.T) {
		router := newAuthRouter(svc)

		pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
			UserID:   uuid.New(),
			Username: "frontdesk",
			Role:     "agent",
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/leases", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+pair.RefreshToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN_TYPE")
	})

	t.Run("skips configured paths", func(t *testing.T) {
		router := newAuthRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// stubBlacklist is a TokenBlacklist with scripted answers
type stubBlacklist struct {
	blacklisted     bool
	userInvalidated bool
}

func (s *stubBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	return nil
}

func (s *stubBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	return s.blacklisted, nil
}

func (s *stubBlacklist) AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error {
	return nil
}

func (s *stubBlacklist) IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	return s.userInvalidated, nil
}

func TestJWTAuthMiddleware_Blacklist(t *testing.T) {
	svc := newTestJWTService()

	newRouterWithBlacklist := func(bl auth.TokenBlacklist) *gin.Engine {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		cfg := DefaultJWTConfig(svc)
		cfg.TokenBlacklist = bl
		router.Use(JWTAuthMiddlewareWithConfig(cfg))
		router.GET("/api/v1/leases", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	t.Run("rejects blacklisted token", func(t *testing.T) {
		router := newRouterWithBlacklist(&stubBlacklist{blacklisted: true})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/leases", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, "agent"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
	})

	t.Run("rejects token issued before user invalidation", func(t *testing.T) {
		router := newRouterWithBlacklist(&stubBlacklist{userInvalidated: true})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/leases", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, "agent"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("accepts clean token", func(t *testing.T) {
		router := newRouterWithBlacklist(&stubBlacklist{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/leases", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, "agent"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireOwner(t *testing.T) {
	svc := newTestJWTService()

	t.Run("allows owner role", func(t *testing.T) {
		router := newAuthRouter(svc, RequireOwner())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/leases", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, "owner"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("forbids agent role", func(t *testing.T) {
		router := newAuthRouter(svc, RequireOwner())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/leases", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, "agent"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")
	})

	t.Run("rejects unauthenticated request", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.GET("/admin", RequireOwner(), func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
