package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/sanchari/internal/app/domain/auth"
	"github.com/FACorreiaa/sanchari/internal/pkg/config"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": GetUserIDFromContext(c)})
	})
	return r
}

func signToken(t *testing.T, secret, userID string) string {
	t.Helper()
	token, err := auth.NewJWTService().GenerateToken(
		auth.JWTConfig{SecretKey: secret, TokenExpiration: time.Hour},
		userID, "trip@example.com", "traveler",
	)
	require.NoError(t, err)
	return token
}

func TestAuthMiddlewareAcceptsDefaultSecretTokens(t *testing.T) {
	// Issuance (config.Load) and validation must agree on the fallback key
	// when JWT_SECRET_KEY is unset.
	t.Setenv("JWT_SECRET_KEY", "")
	userID := uuid.New().String()
	token := signToken(t, config.DefaultJWTSecret, userID)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	newAuthRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), userID)
}

func TestAuthMiddlewareRejectsForeignSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	token := signToken(t, "some-other-secret-that-is-long-enough", uuid.New().String())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	newAuthRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	newAuthRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
