package auth

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/sanchari/internal/app/models"
	"github.com/FACorreiaa/sanchari/internal/pkg/config"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

// Ensure implementation satisfies the interface
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the business logic contract.
type AuthService interface {
	Login(ctx context.Context, email, password string) (accessToken string, refreshToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshSession(ctx context.Context, refreshToken string) (accessToken string, newRefreshToken string, err error)
	Register(ctx context.Context, username, email, password string) (string, error)
	GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// AuthServiceImpl provides the implementation for AuthService.
type AuthServiceImpl struct {
	logger *zap.Logger
	repo   AuthRepo
	jwt    *JWTService
	cfg    *config.Config
}

// NewAuthService creates a new authentication service instance.
func NewAuthService(repo AuthRepo, cfg *config.Config, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{logger: logger, repo: repo, jwt: NewJWTService(), cfg: cfg}
}

func (s *AuthServiceImpl) jwtConfig() JWTConfig {
	return JWTConfig{
		SecretKey:       s.cfg.JWTSecretKey,
		TokenExpiration: accessTokenTTL,
		Logger:          s.logger,
	}
}

// Login validates credentials, generates tokens, stores the refresh token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, string, error) {
	l := s.logger.With(zap.String("method", "Login"), zap.String("email", email))
	l.Debug("Attempting login")

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		l.Warn("GetUserByEmail failed", zap.String("email", email))
		// Don't reveal whether the user exists or the password is wrong
		return "", "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		l.Warn("Password comparison failed", zap.String("userID", user.ID))
		return "", "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	accessToken, refreshToken, err := s.generateTokens(user)
	if err != nil {
		l.Error("Failed to generate tokens", zap.String("userID", user.ID), zap.Error(err))
		return "", "", fmt.Errorf("app error generating tokens: %w", err)
	}

	if err := s.repo.StoreRefreshToken(ctx, user.ID, refreshToken, time.Now().Add(refreshTokenTTL)); err != nil {
		l.Error("Failed to store refresh token", zap.String("userID", user.ID), zap.Error(err))
		return "", "", fmt.Errorf("app error storing session: %w", err)
	}

	l.Info("Login successful")
	return accessToken, refreshToken, nil
}

// Register validates and stores a new account, returning the new user ID.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (string, error) {
	l := s.logger.With(zap.String("method", "Register"), zap.String("email", email))
	l.Debug("Attempting registration")

	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register", trace.WithAttributes(
		attribute.String("username", username),
		attribute.String("email", email),
	))
	defer span.End()

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("Failed to hash password", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Password hashing failed")
		return "", fmt.Errorf("could not process password")
	}

	userID, err := s.repo.Register(ctx, username, email, string(hashedPasswordBytes))
	if err != nil {
		l.Error("Repository registration failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository registration failed")
		return "", fmt.Errorf("registration failed: %w", err)
	}

	l.Info("Registration successful", zap.String("userID", userID))
	span.SetStatus(codes.Ok, "User registered")
	return userID, nil
}

// RefreshSession validates a refresh token, rotates it and issues new tokens.
func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	l := s.logger.With(zap.String("method", "RefreshSession"))
	l.Debug("Attempting token refresh")

	userID, err := s.repo.ValidateRefreshTokenAndGetUserID(ctx, refreshToken)
	if err != nil {
		l.Warn("Refresh token validation failed", zap.Error(err))
		return "", "", fmt.Errorf("invalid or expired refresh token: %w", err)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		l.Error("Failed to get user details after refresh token validation", zap.String("userID", userID), zap.Error(err))
		if err := s.repo.InvalidateRefreshToken(ctx, refreshToken); err != nil {
			return "", "", fmt.Errorf("invalid or expired refresh token: %w", models.ErrUnauthenticated)
		}
		return "", "", fmt.Errorf("app error retrieving user during refresh: %w", models.ErrUnauthenticated)
	}

	newAccessToken, newRefreshToken, err := s.generateTokens(user)
	if err != nil {
		l.Error("Failed to generate new tokens", zap.String("userID", user.ID), zap.Error(err))
		return "", "", fmt.Errorf("app error generating tokens: %w", err)
	}

	if err := s.repo.StoreRefreshToken(ctx, user.ID, newRefreshToken, time.Now().Add(refreshTokenTTL)); err != nil {
		l.Error("Failed to store new refresh token", zap.String("userID", user.ID), zap.Error(err))
		return "", "", fmt.Errorf("app error storing new session: %w", err)
	}

	// Rotation: the old token must die with the refresh.
	if err := s.repo.InvalidateRefreshToken(ctx, refreshToken); err != nil {
		l.Warn("Failed to invalidate old refresh token during rotation", zap.String("userID", user.ID), zap.Error(err))
		return "", "", fmt.Errorf("failed to invalidate old refresh token: %w", err)
	}

	l.Info("Token refresh successful", zap.String("userID", user.ID))
	return newAccessToken, newRefreshToken, nil
}

// Logout invalidates the provided refresh token.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	l := s.logger.With(zap.String("method", "Logout"))
	if refreshToken == "" {
		return nil
	}
	if err := s.repo.InvalidateRefreshToken(ctx, refreshToken); err != nil {
		l.Error("Failed to invalidate refresh token on logout", zap.Error(err))
		return fmt.Errorf("logout failed: %w", err)
	}
	l.Info("Logout successful")
	return nil
}

// GetUserByID exposes user lookup for the session endpoints.
func (s *AuthServiceImpl) GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// ValidateToken validates an access token and returns its claims.
func (s *AuthServiceImpl) ValidateToken(tokenString string) (*Claims, error) {
	return s.jwt.ValidateToken(s.jwtConfig(), tokenString)
}

func (s *AuthServiceImpl) generateTokens(user *models.UserAuth) (string, string, error) {
	accessToken, err := s.jwt.GenerateToken(s.jwtConfig(), user.ID, user.Email, user.Username)
	if err != nil {
		return "", "", err
	}
	refreshConfig := s.jwtConfig()
	refreshConfig.TokenExpiration = refreshTokenTTL
	refreshToken, err := s.jwt.GenerateToken(refreshConfig, user.ID, "", "")
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}
