package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/FACorreiaa/sanchari/internal/app/domain/auth"
	"github.com/FACorreiaa/sanchari/internal/app/domain/itineraries"
	"github.com/FACorreiaa/sanchari/internal/app/domain/places"
	"github.com/FACorreiaa/sanchari/internal/app/domain/planner"
	"github.com/FACorreiaa/sanchari/internal/app/domain/viewer"
	"github.com/FACorreiaa/sanchari/internal/app/domain/wizard"
	"github.com/FACorreiaa/sanchari/internal/app/middleware"
	"github.com/FACorreiaa/sanchari/internal/pkg/ai"
	"github.com/FACorreiaa/sanchari/internal/pkg/config"
)

// AppHandlers aggregates the HTTP handlers of every domain.
type AppHandlers struct {
	Auth        *auth.AuthHandlers
	Wizard      *wizard.Handler
	Places      *places.Handler
	Viewer      *viewer.Handler
	Itineraries *itineraries.Handler
}

// NewAppHandlers wires repositories into services into handlers.
func NewAppHandlers(pool *pgxpool.Pool, aiClient *ai.Client, cfg *config.Config, logger *zap.Logger) *AppHandlers {
	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, cfg, logger)

	itinerariesRepo := itineraries.NewRepository(pool, logger)
	itinerariesService := itineraries.NewItinerariesService(itinerariesRepo, logger)

	plannerService := planner.NewPlannerService(aiClient, logger)
	viewerService := viewer.NewViewerService(plannerService, itinerariesService, logger)

	placesService := places.NewPlacesService(cfg.GoogleMapsAPIKey, logger)

	return &AppHandlers{
		Auth:        auth.NewAuthHandlers(authService, logger),
		Wizard:      wizard.NewWizardHandler(logger),
		Places:      places.NewPlacesHandler(placesService, logger),
		Viewer:      viewer.NewViewerHandler(viewerService, itinerariesService, logger),
		Itineraries: itineraries.NewItinerariesHandler(itinerariesService, logger),
	}
}

// Setup registers all application routes on the router.
func Setup(r *gin.Engine, pool *pgxpool.Pool, aiClient *ai.Client, cfg *config.Config, logger *zap.Logger) {
	h := NewAppHandlers(pool, aiClient, cfg, logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", h.Auth.Logout)
		authGroup.GET("/me", middleware.AuthMiddleware(), h.Auth.Me)
	}

	api := r.Group("/api")
	{
		wizardGroup := api.Group("/wizard")
		{
			wizardGroup.GET("", h.Wizard.GetState)
			wizardGroup.GET("/options", h.Wizard.Options)
			wizardGroup.POST("/step", h.Wizard.Step)
			wizardGroup.POST("/back", h.Wizard.Back)
			wizardGroup.POST("/reset", h.Wizard.Reset)
			wizardGroup.POST("/submit", h.Wizard.Submit)
		}

		api.GET("/places/autocomplete", h.Places.Autocomplete)

		// The viewer works for anonymous sessions too; auth only gates
		// the background save.
		viewerGroup := api.Group("/itinerary", middleware.OptionalAuthMiddleware())
		{
			viewerGroup.POST("/view", h.Viewer.View)
			viewerGroup.POST("/adjust", h.Viewer.Adjust)
			viewerGroup.POST("/export/text", h.Viewer.ExportText)
			viewerGroup.POST("/export/pdf", h.Viewer.ExportPDF)
		}

		saved := api.Group("/itineraries", middleware.AuthMiddleware())
		{
			saved.GET("", h.Itineraries.List)
			saved.GET("/:id", h.Itineraries.Get)
			saved.POST("/:id/select", h.Viewer.Select)
			saved.PATCH("/:id", h.Itineraries.Rename)
			saved.DELETE("/:id", h.Itineraries.Delete)
		}
	}
}
