package itineraries

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/sanchari/internal/app/middleware"
	"github.com/FACorreiaa/sanchari/internal/app/models"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewItinerariesHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /api/itineraries?cursor=...&limit=...
func (h *Handler) List(c *gin.Context) {
	userID, ok := middleware.GetUserUUIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	limit := DefaultPageSize
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	page, err := h.service.List(c.Request.Context(), userID, c.Query("cursor"), limit)
	if err != nil {
		h.respondError(c, err, "failed to list itineraries")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get handles GET /api/itineraries/:id
func (h *Handler) Get(c *gin.Context) {
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

	record, err := h.service.Get(c.Request.Context(), id, userID)
	if err != nil {
		h.respondError(c, err, "failed to get itinerary")
		return
	}
	c.JSON(http.StatusOK, record)
}

// Rename handles PATCH /api/itineraries/:id
func (h *Handler) Rename(c *gin.Context) {
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

	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.service.Rename(c.Request.Context(), id, userID, req.Title); err != nil {
		h.respondError(c, err, "failed to rename itinerary")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "renamed"})
}

// Delete handles DELETE /api/itineraries/:id
func (h *Handler) Delete(c *gin.Context) {
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

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		h.respondError(c, err, "failed to delete itinerary")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) respondError(c *gin.Context, err error, msg string) {
	var fieldErrs models.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fieldErrs})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "itinerary not found"})
	case errors.Is(err, models.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case models.IsPermissionError(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
