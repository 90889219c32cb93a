package itineraries

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/sanchari/internal/app/models"
)

func newMockRepo(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewRepository(pool, zap.NewNop()), pool
}

func TestRepositoryCreate(t *testing.T) {
	userID := uuid.New()
	record := models.SavedItinerary{
		UserID:      userID,
		Title:       "Goa Getaway",
		Destination: "Goa, India",
		Itinerary:   models.Itinerary{Title: "Goa Getaway"},
	}

	t.Run("returns server-stamped id and timestamp", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		id := uuid.New()
		createdAt := time.Now()

		pool.ExpectQuery(regexp.QuoteMeta("INSERT INTO itineraries")).
			WithArgs(userID, "Goa Getaway", "Goa, India", "hash-1", record.Itinerary).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(id, createdAt))

		saved, err := repo.Create(context.Background(), record, "hash-1")

		require.NoError(t, err)
		assert.Equal(t, id, saved.ID)
		assert.Equal(t, createdAt, saved.CreatedAt)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("duplicate hash maps to conflict", func(t *testing.T) {
		repo, pool := newMockRepo(t)

		pool.ExpectQuery(regexp.QuoteMeta("INSERT INTO itineraries")).
			WithArgs(userID, "Goa Getaway", "Goa, India", "hash-1", record.Itinerary).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Create(context.Background(), record, "hash-1")

		assert.ErrorIs(t, err, models.ErrConflict)
	})
}

func TestRepositoryGetByID(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()

	t.Run("missing row is not found", func(t *testing.T) {
		repo, pool := newMockRepo(t)

		pool.ExpectQuery("SELECT id, user_id, title, destination, created_at, itinerary_data").
			WithArgs(id, userID).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(context.Background(), id, userID)

		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("found row round-trips the payload", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		payload := models.Itinerary{Title: "Goa Getaway", EstimatedCost: 25000}

		pool.ExpectQuery("SELECT id, user_id, title, destination, created_at, itinerary_data").
			WithArgs(id, userID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "destination", "created_at", "itinerary_data"}).
				AddRow(id, userID, "Goa Getaway", "Goa, India", time.Now(), payload))

		record, err := repo.GetByID(context.Background(), id, userID)

		require.NoError(t, err)
		assert.Equal(t, "Goa Getaway", record.Itinerary.Title)
		assert.NoError(t, pool.ExpectationsWereMet())
	})
}

func TestRepositoryListPage(t *testing.T) {
	userID := uuid.New()

	t.Run("first page has no cursor predicate", func(t *testing.T) {
		repo, pool := newMockRepo(t)

		pool.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 ORDER BY created_at DESC LIMIT 7")).
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "destination", "created_at", "itinerary_data"}))

		records, err := repo.ListPage(context.Background(), userID, nil, 7)

		require.NoError(t, err)
		assert.Empty(t, records)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("cursor adds a strictly-older bound", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		cursor := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

		pool.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND created_at < $2 ORDER BY created_at DESC LIMIT 7")).
			WithArgs(userID, cursor).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "destination", "created_at", "itinerary_data"}).
				AddRow(uuid.New(), userID, "Older Trip", "Goa, India", cursor.Add(-time.Hour), models.Itinerary{Title: "Older Trip"}))

		records, err := repo.ListPage(context.Background(), userID, &cursor, 7)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Older Trip", records[0].Title)
		assert.NoError(t, pool.ExpectationsWereMet())
	})
}

func TestRepositoryUpdateTitle(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()

	t.Run("updates record and payload together", func(t *testing.T) {
		repo, pool := newMockRepo(t)

		pool.ExpectExec(regexp.QuoteMeta("jsonb_set(itinerary_data, '{title}', to_jsonb($1::text))")).
			WithArgs("New Name", id, userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.UpdateTitle(context.Background(), id, userID, "New Name"))
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("no matching row is not found", func(t *testing.T) {
		repo, pool := newMockRepo(t)

		pool.ExpectExec("UPDATE itineraries").
			WithArgs("New Name", id, userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateTitle(context.Background(), id, userID, "New Name")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestRepositoryDelete(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()

	t.Run("deletes the owned row", func(t *testing.T) {
		repo, pool := newMockRepo(t)

		pool.ExpectExec(regexp.QuoteMeta("DELETE FROM itineraries WHERE id = $1 AND user_id = $2")).
			WithArgs(id, userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.Delete(context.Background(), id, userID))
	})

	t.Run("insufficient privilege maps to a permission error", func(t *testing.T) {
		repo, pool := newMockRepo(t)

		pool.ExpectExec("DELETE FROM itineraries").
			WithArgs(id, userID).
			WillReturnError(&pgconn.PgError{Code: "42501"})

		err := repo.Delete(context.Background(), id, userID)
		assert.True(t, models.IsPermissionError(err))
	})
}
