package itineraries

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/FACorreiaa/sanchari/internal/app/models"
)

// DefaultPageSize is the number of saved trips shown per page.
const DefaultPageSize = 6

// Page is one slice of a user's saved itineraries. NextCursor is empty when
// this is the last page.
type Page struct {
	Items      []models.SavedItinerary `json:"items"`
	NextCursor string                  `json:"nextCursor,omitempty"`
}

type Service interface {
	SaveIfNew(ctx context.Context, userID uuid.UUID, itinerary models.Itinerary) (*models.SavedItinerary, bool, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*models.SavedItinerary, error)
	List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (*Page, error)
	Rename(ctx context.Context, id, userID uuid.UUID, title string) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
}

func NewItinerariesService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// ContentHash fingerprints the plan content of an itinerary. Ownership and
// timestamp fields are excluded so the same generated plan hashes identically
// before and after saving.
func ContentHash(itinerary models.Itinerary) string {
	itinerary.UserID = ""
	itinerary.CreatedAt = ""
	payload, err := json.Marshal(itinerary)
	if err != nil {
		// Marshal of this struct cannot fail; fall back to the title.
		payload = []byte(itinerary.Title)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// SaveIfNew stores the itinerary for the user unless an identical plan was
// already saved. The second return reports whether a new record was written.
func (s *ServiceImpl) SaveIfNew(ctx context.Context, userID uuid.UUID, itinerary models.Itinerary) (*models.SavedItinerary, bool, error) {
	ctx, span := otel.Tracer("ItinerariesService").Start(ctx, "SaveIfNew")
	defer span.End()

	l := s.logger.With(zap.String("method", "SaveIfNew"), zap.String("userID", userID.String()))

	if itinerary.Title == "" || len(itinerary.DailyPlans) == 0 {
		err := fmt.Errorf("itinerary has no content to save: %w", models.ErrBadRequest)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty itinerary")
		return nil, false, err
	}

	hash := ContentHash(itinerary)
	span.SetAttributes(attribute.String("itinerary.hash", hash[:12]))

	exists, err := s.repo.ExistsByHash(ctx, userID, hash)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Hash lookup failed")
		return nil, false, err
	}
	if exists {
		l.Debug("Itinerary already saved, skipping", zap.String("title", itinerary.Title))
		span.SetStatus(codes.Ok, "Already saved")
		return nil, false, nil
	}

	record := models.SavedItinerary{
		UserID:      userID,
		Title:       itinerary.Title,
		Destination: destinationOf(itinerary),
		Itinerary:   itinerary,
	}
	saved, err := s.repo.Create(ctx, record, hash)
	if err != nil {
		// A concurrent save of the same plan lost the race; treat as saved.
		if errors.Is(err, models.ErrConflict) {
			span.SetStatus(codes.Ok, "Already saved")
			return nil, false, nil
		}
		l.Error("Failed to save itinerary", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Save failed")
		return nil, false, err
	}

	l.Info("Itinerary saved", zap.String("id", saved.ID.String()), zap.String("title", saved.Title))
	span.SetStatus(codes.Ok, "Itinerary saved")
	return saved, true, nil
}

// Get retrieves a single saved itinerary owned by the user.
func (s *ServiceImpl) Get(ctx context.Context, id, userID uuid.UUID) (*models.SavedItinerary, error) {
	ctx, span := otel.Tracer("ItinerariesService").Start(ctx, "Get")
	defer span.End()

	record, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Get failed")
		return nil, err
	}
	record.Itinerary.SortDays()
	if err := record.Itinerary.Validate(); err != nil {
		s.logger.Error("Stored itinerary failed schema validation",
			zap.String("id", id.String()), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Stored itinerary invalid")
		return nil, fmt.Errorf("stored itinerary %s is corrupt: %v", id, err)
	}
	span.SetStatus(codes.Ok, "Itinerary retrieved")
	return record, nil
}

// List returns one page of the user's saved trips, newest first. The cursor
// is the opaque token from the previous page's NextCursor.
func (s *ServiceImpl) List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (*Page, error) {
	ctx, span := otel.Tracer("ItinerariesService").Start(ctx, "List")
	defer span.End()

	if limit <= 0 || limit > 50 {
		limit = DefaultPageSize
	}
	span.SetAttributes(attribute.Int("page.limit", limit))

	var after *time.Time
	if cursor != "" {
		ts, err := time.Parse(time.RFC3339Nano, cursor)
		if err != nil {
			err = fmt.Errorf("invalid page cursor: %w", models.ErrBadRequest)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Invalid cursor")
			return nil, err
		}
		after = &ts
	}

	// Fetch one extra row to learn whether another page exists.
	records, err := s.repo.ListPage(ctx, userID, after, limit+1)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		return nil, err
	}

	page := &Page{Items: records}
	if len(records) > limit {
		page.Items = records[:limit]
		page.NextCursor = page.Items[limit-1].CreatedAt.Format(time.RFC3339Nano)
	}

	span.SetAttributes(attribute.Int("page.count", len(page.Items)))
	span.SetStatus(codes.Ok, "Page retrieved")
	return page, nil
}

// Rename updates a saved itinerary's title everywhere it is stored.
func (s *ServiceImpl) Rename(ctx context.Context, id, userID uuid.UUID, title string) error {
	ctx, span := otel.Tracer("ItinerariesService").Start(ctx, "Rename")
	defer span.End()

	title = strings.TrimSpace(title)
	if title == "" {
		err := models.FieldErrors{{Field: "title", Message: "Title cannot be empty."}}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty title")
		return err
	}

	if err := s.repo.UpdateTitle(ctx, id, userID, title); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Rename failed")
		return err
	}
	span.SetStatus(codes.Ok, "Itinerary renamed")
	return nil
}

// Delete removes a saved itinerary.
func (s *ServiceImpl) Delete(ctx context.Context, id, userID uuid.UUID) error {
	ctx, span := otel.Tracer("ItinerariesService").Start(ctx, "Delete")
	defer span.End()

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Delete failed")
		return err
	}
	s.logger.Info("Itinerary deleted", zap.String("id", id.String()), zap.String("userID", userID.String()))
	span.SetStatus(codes.Ok, "Itinerary deleted")
	return nil
}

func destinationOf(itinerary models.Itinerary) string {
	if itinerary.Destination != "" {
		return itinerary.Destination
	}
	return itinerary.Title
}
