package places

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewPlacesHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Autocomplete handles GET /api/places/autocomplete?query=goa
func (h *Handler) Autocomplete(c *gin.Context) {
	query := c.Query("query")
	predictions := h.service.Autocomplete(c.Request.Context(), query)
	c.JSON(http.StatusOK, gin.H{"predictions": predictions})
}
