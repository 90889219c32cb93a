package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal         metric.Int64Counter
	HTTPRequestDuration       metric.Float64Histogram
	AuthRequestsTotal         metric.Int64Counter
	GenerationRequestsTotal   metric.Int64Counter
	GenerationDurationSeconds metric.Float64Histogram
	ItineraryAutoSavesTotal   metric.Int64Counter
	PlacesLookupsTotal        metric.Int64Counter
	DBQueryErrorsTotal        metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instrument set once, against the globally
// configured meter provider. Must run after the provider is installed.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("sanchari")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.AuthRequestsTotal, err = meter.Int64Counter(
			"auth_requests_total",
			metric.WithDescription("Total number of authentication requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_requests_total: %v", err)
		}

		m.GenerationRequestsTotal, err = meter.Int64Counter(
			"itinerary_generation_requests_total",
			metric.WithDescription("Total number of itinerary generation and adjustment requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_generation_requests_total: %v", err)
		}

		m.GenerationDurationSeconds, err = meter.Float64Histogram(
			"itinerary_generation_duration_seconds",
			metric.WithDescription("Duration of model-backed itinerary generation in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_generation_duration_seconds: %v", err)
		}

		m.ItineraryAutoSavesTotal, err = meter.Int64Counter(
			"itinerary_auto_saves_total",
			metric.WithDescription("Total number of itinerary auto-save attempts by outcome"),
			metric.WithUnit("{save}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_auto_saves_total: %v", err)
		}

		m.PlacesLookupsTotal, err = meter.Int64Counter(
			"places_autocomplete_lookups_total",
			metric.WithDescription("Total number of destination autocomplete lookups by source"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create places_autocomplete_lookups_total: %v", err)
		}

		m.DBQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the instrument set, or nil before InitAppMetrics has run.
// Callers guard on nil so tests and tools run without a meter provider.
func Get() *AppMetrics {
	return appMetrics
}
