// Package itineraries persists saved trip plans per user.
package itineraries

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/sanchari/internal/app/models"
	"github.com/FACorreiaa/sanchari/internal/app/observability/metrics"
)

// Ensure RepositoryImpl implements the Repository interface
var _ Repository = (*RepositoryImpl)(nil)

// DBPool is the slice of pgxpool.Pool the repository uses; tests substitute a
// mock pool.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ DBPool = (*pgxpool.Pool)(nil)

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool DBPool
}

// Repository defines the persistence operations for saved itineraries. Every
// operation is scoped to the owning user; rows belonging to other users are
// indistinguishable from missing rows.
type Repository interface {
	Create(ctx context.Context, record models.SavedItinerary, contentHash string) (*models.SavedItinerary, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.SavedItinerary, error)
	ListPage(ctx context.Context, userID uuid.UUID, cursor *time.Time, limit int) ([]models.SavedItinerary, error)
	ExistsByHash(ctx context.Context, userID uuid.UUID, contentHash string) (bool, error)
	UpdateTitle(ctx context.Context, id, userID uuid.UUID, title string) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

func NewRepository(pool DBPool, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pool,
	}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Create inserts a saved itinerary. The ID and creation timestamp are stamped
// by the database, never taken from the caller.
func (r *RepositoryImpl) Create(ctx context.Context, record models.SavedItinerary, contentHash string) (*models.SavedItinerary, error) {
	query := `
        INSERT INTO itineraries (user_id, title, destination, content_hash, itinerary_data)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	row := r.pgpool.QueryRow(ctx, query,
		record.UserID, record.Title, record.Destination, contentHash, record.Itinerary,
	)
	if err := row.Scan(&record.ID, &record.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("itinerary already saved: %w", models.ErrConflict)
		}
		r.logger.Error("Failed to create itinerary", zap.Error(err))
		return nil, r.mapError(err, "itineraries", "create", "failed to create itinerary")
	}
	return &record, nil
}

// GetByID fetches one saved itinerary owned by userID.
func (r *RepositoryImpl) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.SavedItinerary, error) {
	query := `
        SELECT id, user_id, title, destination, created_at, itinerary_data
        FROM itineraries
        WHERE id = $1 AND user_id = $2
    `
	row := r.pgpool.QueryRow(ctx, query, id, userID)
	var record models.SavedItinerary
	err := row.Scan(&record.ID, &record.UserID, &record.Title, &record.Destination, &record.CreatedAt, &record.Itinerary)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("itinerary not found: %w", models.ErrNotFound)
		}
		r.logger.Error("Failed to get itinerary", zap.Error(err))
		return nil, r.mapError(err, "itineraries/"+id.String(), "get", "failed to get itinerary")
	}
	return &record, nil
}

// ListPage returns up to limit itineraries for userID, newest first. A nil
// cursor starts from the top; otherwise only rows strictly older than the
// cursor are returned, so a row can never appear on two pages.
func (r *RepositoryImpl) ListPage(ctx context.Context, userID uuid.UUID, cursor *time.Time, limit int) ([]models.SavedItinerary, error) {
	builder := psql.
		Select("id", "user_id", "title", "destination", "created_at", "itinerary_data").
		From("itineraries").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if cursor != nil {
		builder = builder.Where(sq.Lt{"created_at": *cursor})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list itineraries", zap.Error(err))
		return nil, r.mapError(err, "itineraries", "list", "failed to list itineraries")
	}
	defer rows.Close()

	records := make([]models.SavedItinerary, 0, limit)
	for rows.Next() {
		var record models.SavedItinerary
		if err := rows.Scan(&record.ID, &record.UserID, &record.Title, &record.Destination, &record.CreatedAt, &record.Itinerary); err != nil {
			return nil, fmt.Errorf("failed to scan itinerary row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate itinerary rows: %w", err)
	}
	return records, nil
}

// ExistsByHash reports whether the user already has a saved itinerary with
// this content hash.
func (r *RepositoryImpl) ExistsByHash(ctx context.Context, userID uuid.UUID, contentHash string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM itineraries WHERE user_id = $1 AND content_hash = $2)`
	var exists bool
	if err := r.pgpool.QueryRow(ctx, query, userID, contentHash).Scan(&exists); err != nil {
		r.logger.Error("Failed to check itinerary hash", zap.Error(err))
		return false, r.mapError(err, "itineraries", "exists", "failed to check itinerary hash")
	}
	return exists, nil
}

// UpdateTitle renames a saved itinerary. The record title and the title inside
// the JSONB payload are updated in the same statement so they cannot drift.
func (r *RepositoryImpl) UpdateTitle(ctx context.Context, id, userID uuid.UUID, title string) error {
	query := `
        UPDATE itineraries
        SET title = $1,
            itinerary_data = jsonb_set(itinerary_data, '{title}', to_jsonb($1::text))
        WHERE id = $2 AND user_id = $3
    `
	tag, err := r.pgpool.Exec(ctx, query, title, id, userID)
	if err != nil {
		r.logger.Error("Failed to update itinerary title", zap.Error(err))
		return r.mapError(err, "itineraries/"+id.String(), "update", "failed to update itinerary title")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("itinerary not found: %w", models.ErrNotFound)
	}
	return nil
}

// Delete removes a saved itinerary owned by userID.
func (r *RepositoryImpl) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM itineraries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete itinerary", zap.Error(err))
		return r.mapError(err, "itineraries/"+id.String(), "delete", "failed to delete itinerary")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("itinerary not found: %w", models.ErrNotFound)
	}
	return nil
}

// mapError turns insufficient-privilege database errors into the structured
// permission error the viewer's permission channel consumes; everything else
// is wrapped with context.
func (r *RepositoryImpl) mapError(err error, path, operation, msg string) error {
	if m := metrics.Get(); m != nil {
		m.DBQueryErrorsTotal.Add(context.Background(), 1, metric.WithAttributes(
			attribute.String("operation", operation),
		))
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42501" {
		return &models.PermissionError{Path: path, Operation: operation, Cause: err}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
