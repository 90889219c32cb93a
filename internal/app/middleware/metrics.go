package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/sanchari/internal/app/observability/metrics"
)

// MetricsMiddleware records request counts and latencies against the global
// instrument set. A nil instrument set (metrics not initialized, as in tests)
// makes this a no-op.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		m := metrics.Get()
		if m == nil {
			return
		}

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		m.HTTPRequestsTotal.Add(c.Request.Context(), 1,
			metric.WithAttributes(
				attribute.String("method", c.Request.Method),
				attribute.String("path", path),
				attribute.String("status", status),
			))
		m.HTTPRequestDuration.Record(c.Request.Context(), duration,
			metric.WithAttributes(
				attribute.String("method", c.Request.Method),
				attribute.String("path", path),
			))

		if strings.HasPrefix(path, "/auth/") {
			m.AuthRequestsTotal.Add(c.Request.Context(), 1,
				metric.WithAttributes(
					attribute.String("endpoint", path),
					attribute.String("status", status),
				))
		}
	}
}
