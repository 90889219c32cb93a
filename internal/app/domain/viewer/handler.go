package viewer

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/sanchari/internal/app/domain/planner"
	"github.com/FACorreiaa/sanchari/internal/app/middleware"
	"github.com/FACorreiaa/sanchari/internal/app/models"
	"github.com/FACorreiaa/sanchari/internal/pkg/handoff"
)

// Getter loads a stored itinerary scoped to its owner. Satisfied by the
// itineraries service.
type Getter interface {
	Get(ctx context.Context, id, userID uuid.UUID) (*models.SavedItinerary, error)
}

type Handler struct {
	service Service
	getter  Getter
	logger  *zap.Logger
}

func NewViewerHandler(service Service, getter Getter, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		getter:  getter,
		logger:  logger,
	}
}

// View handles POST /api/itinerary/view. It consumes the pending handoff
// exactly once: a wizard query triggers generation, a selected saved record
// renders directly, and an empty handoff is a 404 so the client can show the
// empty state.
func (h *Handler) View(c *gin.Context) {
	session := sessions.Default(c)
	userID := optionalUserID(c)

	var req models.GenerationRequest
	err := handoff.Take(session, handoff.QueryKey, &req)
	if err == nil {
		result, genErr := h.service.Generate(c.Request.Context(), userID, req)
		if genErr != nil {
			h.respondError(c, genErr, "failed to generate itinerary")
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}
	if !errors.Is(err, models.ErrHandoffEmpty) {
		h.respondError(c, err, "failed to read pending trip request")
		return
	}

	var selected models.Itinerary
	err = handoff.Take(session, handoff.SelectedKey, &selected)
	if errors.Is(err, models.ErrHandoffEmpty) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no itinerary to display"})
		return
	}
	if err != nil {
		h.respondError(c, err, "failed to read selected itinerary")
		return
	}

	result, err := h.service.Display(c.Request.Context(), userID, selected)
	if err != nil {
		h.respondError(c, err, "failed to display itinerary")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Select handles POST /api/itineraries/:id/select. It stages a saved record
// in the handoff slot so the next View call renders it.
func (h *Handler) Select(c *gin.Context) {
	userID, ok := middleware.GetUserUUIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itinerary id"})
		return
	}

	record, err := h.getter.Get(c.Request.Context(), id, userID)
	if err != nil {
		h.respondError(c, err, "failed to load itinerary")
		return
	}

	if err := handoff.Put(sessions.Default(c), handoff.SelectedKey, record.Itinerary); err != nil {
		h.respondError(c, err, "failed to stage itinerary")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "selected"})
}

type adjustPayload struct {
	Itinerary         models.Itinerary `json:"itinerary"`
	WeatherConditions string           `json:"weatherConditions"`
	CurrentLocation   string           `json:"currentLocation"`
	Delays            string           `json:"delays"`
}

// Adjust handles POST /api/itinerary/adjust. On failure the client keeps the
// plan it already has.
func (h *Handler) Adjust(c *gin.Context) {
	var payload adjustPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if payload.Itinerary.Title == "" && len(payload.Itinerary.DailyPlans) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no itinerary to adjust"})
		return
	}

	adj := planner.AdjustmentRequest{
		WeatherConditions: payload.WeatherConditions,
		CurrentLocation:   payload.CurrentLocation,
		Delays:            payload.Delays,
	}
	result, err := h.service.Adjust(c.Request.Context(), optionalUserID(c), payload.Itinerary, adj)
	if err != nil {
		h.respondError(c, err, "failed to adjust itinerary")
		return
	}
	c.JSON(http.StatusOK, result)
}

type exportPayload struct {
	Itinerary models.Itinerary `json:"itinerary"`
	ShareURL  string           `json:"shareUrl"`
}

// ExportText handles POST /api/itinerary/export/text.
func (h *Handler) ExportText(c *gin.Context) {
	var payload exportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	text := ItineraryText(payload.Itinerary, payload.ShareURL)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// ExportPDF handles POST /api/itinerary/export/pdf.
func (h *Handler) ExportPDF(c *gin.Context) {
	var payload exportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	data, err := ItineraryPDF(payload.Itinerary)
	if err != nil {
		h.logger.Error("failed to render itinerary PDF", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render PDF"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="sanchari-itinerary.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func optionalUserID(c *gin.Context) *uuid.UUID {
	if userID, ok := middleware.GetUserUUIDFromContext(c); ok {
		return &userID
	}
	return nil
}

func (h *Handler) respondError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "itinerary not found"})
	case errors.Is(err, models.ErrBadRequest), errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrGenerationFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "the model could not produce an itinerary, please try again"})
	case models.IsPermissionError(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
