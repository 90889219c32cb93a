package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/sanchari/internal/app/models"
	"github.com/FACorreiaa/sanchari/internal/pkg/config"
)

type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*models.UserAuth, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserAuth), args.Error(1)
}

func (m *MockAuthRepo) Register(ctx context.Context, username, email, hashedPassword string) (string, error) {
	args := m.Called(ctx, username, email, hashedPassword)
	return args.String(0), args.Error(1)
}

func (m *MockAuthRepo) StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, token, expiresAt)
	return args.Error(0)
}

func (m *MockAuthRepo) ValidateRefreshTokenAndGetUserID(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthRepo) InvalidateRefreshToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{JWTSecretKey: "test-secret-key-at-least-32-characters"}
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestLogin(t *testing.T) {
	user := &models.UserAuth{
		ID:       "6a1b9c3e-0000-0000-0000-000000000001",
		Username: "asha",
		Email:    "asha@example.com",
		Password: "",
	}

	t.Run("valid credentials issue both tokens", func(t *testing.T) {
		user := *user
		user.Password = hashOf(t, "correct horse")

		repo := new(MockAuthRepo)
		repo.On("GetUserByEmail", mock.Anything, "asha@example.com").Return(&user, nil)
		repo.On("StoreRefreshToken", mock.Anything, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

		svc := NewAuthService(repo, testConfig(), zap.NewNop())
		access, refresh, err := svc.Login(context.Background(), "asha@example.com", "correct horse")

		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.NotEqual(t, access, refresh)

		claims, err := svc.ValidateToken(access)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "asha@example.com", claims.Email)
		repo.AssertExpectations(t)
	})

	t.Run("wrong password is unauthenticated", func(t *testing.T) {
		user := *user
		user.Password = hashOf(t, "correct horse")

		repo := new(MockAuthRepo)
		repo.On("GetUserByEmail", mock.Anything, "asha@example.com").Return(&user, nil)

		svc := NewAuthService(repo, testConfig(), zap.NewNop())
		_, _, err := svc.Login(context.Background(), "asha@example.com", "battery staple")

		assert.ErrorIs(t, err, models.ErrUnauthenticated)
		repo.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown email is unauthenticated, not not-found", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, models.ErrNotFound)

		svc := NewAuthService(repo, testConfig(), zap.NewNop())
		_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")

		assert.ErrorIs(t, err, models.ErrUnauthenticated)
		assert.NotErrorIs(t, err, models.ErrNotFound)
	})
}

func TestRegister(t *testing.T) {
	t.Run("stores a bcrypt hash, never the plaintext", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("Register", mock.Anything, "asha", "asha@example.com", mock.MatchedBy(func(hash string) bool {
			return hash != "sw0rdfish-long" &&
				bcrypt.CompareHashAndPassword([]byte(hash), []byte("sw0rdfish-long")) == nil
		})).Return("new-user-id", nil)

		svc := NewAuthService(repo, testConfig(), zap.NewNop())
		id, err := svc.Register(context.Background(), "asha", "asha@example.com", "sw0rdfish-long")

		require.NoError(t, err)
		assert.Equal(t, "new-user-id", id)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email surfaces conflict", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", models.ErrConflict)

		svc := NewAuthService(repo, testConfig(), zap.NewNop())
		_, err := svc.Register(context.Background(), "asha", "asha@example.com", "sw0rdfish-long")

		assert.ErrorIs(t, err, models.ErrConflict)
	})
}

func TestRefreshSession(t *testing.T) {
	user := &models.UserAuth{ID: "6a1b9c3e-0000-0000-0000-000000000001", Username: "asha", Email: "asha@example.com"}

	t.Run("rotates the refresh token", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("ValidateRefreshTokenAndGetUserID", mock.Anything, "old-token").Return(user.ID, nil)
		repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)
		repo.On("StoreRefreshToken", mock.Anything, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)
		repo.On("InvalidateRefreshToken", mock.Anything, "old-token").Return(nil)

		svc := NewAuthService(repo, testConfig(), zap.NewNop())
		access, refresh, err := svc.RefreshSession(context.Background(), "old-token")

		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEqual(t, "old-token", refresh)
		repo.AssertExpectations(t)
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("ValidateRefreshTokenAndGetUserID", mock.Anything, "revoked").Return("", models.ErrUnauthenticated)

		svc := NewAuthService(repo, testConfig(), zap.NewNop())
		_, _, err := svc.RefreshSession(context.Background(), "revoked")

		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})
}

func TestLogout(t *testing.T) {
	t.Run("empty token is a no-op", func(t *testing.T) {
		repo := new(MockAuthRepo)
		svc := NewAuthService(repo, testConfig(), zap.NewNop())

		assert.NoError(t, svc.Logout(context.Background(), ""))
		repo.AssertNotCalled(t, "InvalidateRefreshToken", mock.Anything, mock.Anything)
	})

	t.Run("invalidates the presented token", func(t *testing.T) {
		repo := new(MockAuthRepo)
		repo.On("InvalidateRefreshToken", mock.Anything, "live-token").Return(nil)

		svc := NewAuthService(repo, testConfig(), zap.NewNop())
		assert.NoError(t, svc.Logout(context.Background(), "live-token"))
		repo.AssertExpectations(t)
	})
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, testConfig(), zap.NewNop())

	otherCfg := testConfig()
	otherCfg.JWTSecretKey = "a-completely-different-32-char-key!!"
	other := NewAuthService(repo, otherCfg, zap.NewNop())

	token, err := other.jwt.GenerateToken(other.jwtConfig(), "user-1", "a@b.c", "a")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
