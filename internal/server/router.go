package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/sanchari/internal/app/middleware"
	"github.com/FACorreiaa/sanchari/internal/pkg/ai"
	"github.com/FACorreiaa/sanchari/internal/pkg/config"
	"github.com/FACorreiaa/sanchari/internal/routes"
)

const ServiceName = "sanchari"

const sessionCookieName = "sanchari_session"

// SetupRouter configures and returns the Gin router with all middleware and routes
func SetupRouter(dbPool *pgxpool.Pool, aiClient *ai.Client, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context:    zapContextFunc(),
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(otelgin.Middleware(ServiceName))
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityMiddleware())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
	})
	r.Use(sessions.Sessions(sessionCookieName, store))

	routes.Setup(r, dbPool, aiClient, cfg, logger)

	return r
}

// zapContextFunc returns the Zap context function for logging
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{}

		if requestID := c.Writer.Header().Get("X-Request-Id"); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			fields = append(fields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}

		// Credentials and photo data URIs never belong in logs.
		if strings.HasPrefix(c.Request.URL.Path, "/auth/") || strings.HasPrefix(c.Request.URL.Path, "/api/wizard") {
			return fields
		}
		fields = append(fields, zap.Int64("body_size", c.Request.ContentLength))

		return fields
	}
}
