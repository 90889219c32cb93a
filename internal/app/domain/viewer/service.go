package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/sanchari/internal/app/domain/planner"
	"github.com/FACorreiaa/sanchari/internal/app/models"
	"github.com/FACorreiaa/sanchari/internal/app/observability/metrics"
)

// Saver persists a generated itinerary at most once per content hash.
type Saver interface {
	SaveIfNew(ctx context.Context, userID uuid.UUID, itinerary models.Itinerary) (*models.SavedItinerary, bool, error)
}

// ViewResult is what the viewer endpoints return: the plan to render plus the
// outcome of the background save. A failed save never fails the view; the
// warning travels alongside the itinerary instead.
type ViewResult struct {
	Itinerary   models.Itinerary `json:"itinerary"`
	Saved       bool             `json:"saved"`
	SavedID     *uuid.UUID       `json:"savedId,omitempty"`
	SaveWarning string           `json:"saveWarning,omitempty"`
}

type Service interface {
	Generate(ctx context.Context, userID *uuid.UUID, req models.GenerationRequest) (*ViewResult, error)
	Display(ctx context.Context, userID *uuid.UUID, itinerary models.Itinerary) (*ViewResult, error)
	Adjust(ctx context.Context, userID *uuid.UUID, itinerary models.Itinerary, adj planner.AdjustmentRequest) (*ViewResult, error)
}

type ServiceImpl struct {
	logger  *zap.Logger
	planner planner.Service
	saver   Saver
}

var _ Service = (*ServiceImpl)(nil)

func NewViewerService(p planner.Service, saver Saver, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		planner: p,
		saver:   saver,
	}
}

// Generate runs the prompt flow selected by the handed-off request: the image
// flow when a photo data URI is present, the preferences flow otherwise.
func (s *ServiceImpl) Generate(ctx context.Context, userID *uuid.UUID, req models.GenerationRequest) (*ViewResult, error) {
	ctx, span := otel.Tracer("ViewerService").Start(ctx, "Generate")
	defer span.End()
	span.SetAttributes(attribute.Bool("request.from_photo", req.PhotoDataURI != ""))

	var (
		itinerary *models.Itinerary
		err       error
	)
	start := time.Now()
	flow := "preferences"
	if req.PhotoDataURI != "" {
		flow = "image"
		itinerary, err = s.planner.GenerateFromImage(ctx, req.PhotoDataURI)
	} else {
		itinerary, err = s.planner.GenerateFromPreferences(ctx, req)
	}
	recordGeneration(ctx, flow, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return nil, err
	}

	itinerary.SortDays()
	result := s.withAutoSave(ctx, userID, *itinerary)
	span.SetStatus(codes.Ok, "itinerary generated")
	return result, nil
}

// Display renders a previously saved itinerary that the user selected from
// their list. The payload is re-sorted; stored records are not trusted to
// keep day order.
func (s *ServiceImpl) Display(ctx context.Context, userID *uuid.UUID, itinerary models.Itinerary) (*ViewResult, error) {
	ctx, span := otel.Tracer("ViewerService").Start(ctx, "Display")
	defer span.End()

	if itinerary.Title == "" && len(itinerary.DailyPlans) == 0 {
		span.SetStatus(codes.Error, "empty itinerary")
		return nil, fmt.Errorf("empty itinerary selected: %w", models.ErrBadRequest)
	}

	itinerary.SortDays()
	if err := itinerary.Validate(); err != nil {
		s.logger.Warn("Selected itinerary failed schema validation", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "selected itinerary invalid")
		return nil, fmt.Errorf("selected itinerary failed validation: %w", err)
	}

	result := s.withAutoSave(ctx, userID, itinerary)
	span.SetStatus(codes.Ok, "itinerary displayed")
	return result, nil
}

// Adjust regenerates the plan under the reported conditions. On failure the
// caller keeps the plan it already has; the save is re-armed only for the
// adjusted plan, whose content hash differs from the original's.
func (s *ServiceImpl) Adjust(ctx context.Context, userID *uuid.UUID, itinerary models.Itinerary, adj planner.AdjustmentRequest) (*ViewResult, error) {
	ctx, span := otel.Tracer("ViewerService").Start(ctx, "Adjust")
	defer span.End()

	start := time.Now()
	adjusted, err := s.planner.AdjustForConditions(ctx, itinerary, adj)
	recordGeneration(ctx, "adjustment", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "adjustment failed")
		return nil, err
	}

	adjusted.SortDays()
	result := s.withAutoSave(ctx, userID, *adjusted)
	span.SetStatus(codes.Ok, "itinerary adjusted")
	return result, nil
}

// withAutoSave persists the plan for authenticated users. Duplicate content
// counts as already saved. Errors are reported in the result, not returned;
// a broken store must not take down the viewer.
func (s *ServiceImpl) withAutoSave(ctx context.Context, userID *uuid.UUID, itinerary models.Itinerary) *ViewResult {
	result := &ViewResult{Itinerary: itinerary}
	if userID == nil || s.saver == nil {
		return result
	}

	saved, created, err := s.saver.SaveIfNew(ctx, *userID, itinerary)
	recordAutoSave(ctx, created, err)
	switch {
	case err != nil && models.IsPermissionError(err):
		s.logger.Warn("auto-save rejected by store permissions",
			zap.String("userID", userID.String()), zap.Error(err))
		result.SaveWarning = "you do not have permission to save itineraries"
	case err != nil:
		s.logger.Warn("auto-save failed",
			zap.String("userID", userID.String()), zap.Error(err))
		result.SaveWarning = "itinerary could not be saved"
	case created:
		result.Saved = true
		result.SavedID = &saved.ID
	default:
		// Identical content was saved earlier in this or another session.
		result.Saved = true
	}
	return result
}

func recordGeneration(ctx context.Context, flow string, start time.Time, err error) {
	m := metrics.Get()
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.GenerationRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("flow", flow),
		attribute.String("outcome", outcome),
	))
	m.GenerationDurationSeconds.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("flow", flow),
	))
}

func recordAutoSave(ctx context.Context, created bool, err error) {
	m := metrics.Get()
	if m == nil {
		return
	}
	outcome := "duplicate"
	switch {
	case err != nil && models.IsPermissionError(err):
		outcome = "permission_denied"
	case err != nil:
		outcome = "error"
	case created:
		outcome = "created"
	}
	m.ItineraryAutoSavesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
