// Package places proxies Google Places city autocomplete for the wizard's
// destination and starting-location fields.
package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/sanchari/internal/app/observability/metrics"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place/autocomplete/json"

// Autocomplete is deliberately infallible: every failure path degrades to an
// empty prediction list so a typeahead hiccup never blocks the wizard.
type Service interface {
	Autocomplete(ctx context.Context, query string) []string
}

type ServiceImpl struct {
	logger     *zap.Logger
	httpClient *http.Client
	apiKey     string
	baseURL    string
	cache      *cache.Cache
	group      singleflight.Group
}

func NewPlacesService(apiKey string, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		cache:      cache.New(5*time.Minute, 10*time.Minute),
	}
}

// Autocomplete returns city predictions for a partial query. Identical
// in-flight queries are collapsed and results are cached briefly.
func (s *ServiceImpl) Autocomplete(ctx context.Context, query string) []string {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "Autocomplete")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	if query == "" {
		return []string{}
	}
	if s.apiKey == "" {
		s.logger.Warn("Google Maps API key is not configured, autocomplete disabled")
		span.SetStatus(codes.Ok, "API key not configured")
		return []string{}
	}

	if cached, ok := s.cache.Get(query); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		recordLookup(ctx, "cache")
		return cached.([]string)
	}

	result, err, _ := s.group.Do(query, func() (interface{}, error) {
		predictions, err := s.fetchPredictions(ctx, query)
		if err != nil {
			return nil, err
		}
		s.cache.Set(query, predictions, cache.DefaultExpiration)
		return predictions, nil
	})
	if err != nil {
		s.logger.Error("Failed to fetch place predictions", zap.String("query", query), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Prediction fetch failed")
		recordLookup(ctx, "error")
		return []string{}
	}

	predictions := result.([]string)
	span.SetAttributes(attribute.Int("predictions.count", len(predictions)))
	span.SetStatus(codes.Ok, "Predictions fetched")
	recordLookup(ctx, "upstream")
	return predictions
}

func recordLookup(ctx context.Context, source string) {
	if m := metrics.Get(); m != nil {
		m.PlacesLookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
	}
}

func (s *ServiceImpl) fetchPredictions(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("input", query)
	params.Set("types", "(cities)")
	params.Set("key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build autocomplete request")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "autocomplete request failed")
	}
	defer resp.Body.Close()

	var payload struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
		Predictions  []struct {
			Description string `json:"description"`
		} `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "failed to decode autocomplete response")
	}

	// ZERO_RESULTS is a normal empty answer, not an upstream failure.
	if payload.Status == "ZERO_RESULTS" {
		return []string{}, nil
	}
	if payload.Status != "OK" {
		return nil, errors.Errorf("places API error: %s %s", payload.Status, payload.ErrorMessage)
	}

	predictions := make([]string, 0, len(payload.Predictions))
	for _, p := range payload.Predictions {
		predictions = append(predictions, p.Description)
	}
	return predictions, nil
}
