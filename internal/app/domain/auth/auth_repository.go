package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/sanchari/internal/app/models"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

type AuthRepo interface {
	// GetUserByEmail fetches user details needed for validation/token generation.
	GetUserByEmail(ctx context.Context, email string) (*models.UserAuth, error)
	// GetUserByID fetches user details by ID.
	GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error)
	// Register stores a new user with a HASHED password. Returns new user ID.
	Register(ctx context.Context, username, email, hashedPassword string) (string, error)

	// StoreRefreshToken saves a new refresh token for a user.
	StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	// ValidateRefreshTokenAndGetUserID checks if a refresh token is valid and returns the user ID.
	ValidateRefreshTokenAndGetUserID(ctx context.Context, refreshToken string) (userID string, err error)
	// InvalidateRefreshToken marks a specific refresh token as revoked.
	InvalidateRefreshToken(ctx context.Context, refreshToken string) error
	// InvalidateAllUserRefreshTokens marks all tokens for a user as revoked.
	InvalidateAllUserRefreshTokens(ctx context.Context, userID string) error
}

type PostgresAuthRepo struct {
	logger *zap.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresAuthRepo(pgxpool *pgxpool.Pool, logger *zap.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

// GetUserByEmail implements auth.AuthRepo.
func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*models.UserAuth, error) {
	var user models.UserAuth
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE email = $1`
	err := r.pgpool.QueryRow(ctx, query, email).Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, models.ErrNotFound)
		}
		r.logger.Error("Error fetching user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return &user, nil
}

// GetUserByID implements auth.AuthRepo.
func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error) {
	var user models.UserAuth
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1`
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with ID %s not found: %w", userID, models.ErrNotFound)
		}
		r.logger.Error("Error fetching user by ID", zap.Error(err), zap.String("userID", userID))
		return nil, fmt.Errorf("database error fetching user by ID: %w", err)
	}
	return &user, nil
}

// Register implements auth.AuthRepo. Expects HASHED password.
func (r *PostgresAuthRepo) Register(ctx context.Context, username, email, hashedPassword string) (string, error) {
	ctx, span := otel.Tracer("AuthRepository").Start(ctx, "Register", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
	))
	defer span.End()

	var userID string
	query := `INSERT INTO users (username, email, password_hash, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.pgpool.QueryRow(ctx, query, username, email, hashedPassword, time.Now()).Scan(&userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database error")
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("email or username already exists: %w", models.ErrConflict)
		}
		r.logger.Error("Error inserting user", zap.Error(err), zap.String("email", email))
		return "", fmt.Errorf("database error registering user: %w", err)
	}

	span.SetStatus(codes.Ok, "User created")
	r.logger.Info("User registered successfully", zap.String("userID", userID))
	return userID, nil
}

// StoreRefreshToken implements auth.AuthRepo.
func (r *PostgresAuthRepo) StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	query := `INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)`
	_, err := r.pgpool.Exec(ctx, query, userID, token, expiresAt)
	if err != nil {
		r.logger.Error("Error storing refresh token", zap.Error(err), zap.String("userID", userID))
		return fmt.Errorf("database error storing refresh token: %w", err)
	}
	return nil
}

// ValidateRefreshTokenAndGetUserID implements auth.AuthRepo.
func (r *PostgresAuthRepo) ValidateRefreshTokenAndGetUserID(ctx context.Context, refreshToken string) (string, error) {
	var userID string
	var expiresAt time.Time
	var revokedAt *time.Time

	query := `SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token = $1`
	err := r.pgpool.QueryRow(ctx, query, refreshToken).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("refresh token not found: %w", models.ErrUnauthenticated)
		}
		r.logger.Error("Error querying refresh token", zap.Error(err))
		return "", fmt.Errorf("database error validating refresh token: %w", err)
	}

	if revokedAt != nil {
		return "", fmt.Errorf("refresh token has been revoked: %w", models.ErrUnauthenticated)
	}
	if time.Now().After(expiresAt) {
		return "", fmt.Errorf("refresh token has expired: %w", models.ErrUnauthenticated)
	}

	return userID, nil
}

// InvalidateRefreshToken implements auth.AuthRepo.
func (r *PostgresAuthRepo) InvalidateRefreshToken(ctx context.Context, refreshToken string) error {
	query := `UPDATE refresh_tokens SET revoked_at = NOW() WHERE token = $1 AND revoked_at IS NULL`
	tag, err := r.pgpool.Exec(ctx, query, refreshToken)
	if err != nil {
		r.logger.Error("Error invalidating refresh token", zap.Error(err))
		return fmt.Errorf("database error invalidating token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Refresh token not found or already invalidated during invalidation attempt")
	}
	return nil
}

// InvalidateAllUserRefreshTokens implements auth.AuthRepo.
func (r *PostgresAuthRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID string) error {
	query := `UPDATE refresh_tokens SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`
	_, err := r.pgpool.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error("Error invalidating all refresh tokens for user", zap.Error(err), zap.String("userID", userID))
		return fmt.Errorf("database error invalidating tokens: %w", err)
	}
	return nil
}
