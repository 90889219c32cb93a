package planner

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/FACorreiaa/sanchari/internal/app/models"
)

// AIClient is the slice of the Gemini wrapper the prompt flows need.
type AIClient interface {
	GenerateResponse(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateWithImage(ctx context.Context, prompt string, image []byte, mimeType string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// AdjustmentRequest carries the real-time conditions a traveler reports.
// All fields are optional; an empty request still produces a full regeneration.
type AdjustmentRequest struct {
	WeatherConditions string `json:"weatherConditions,omitempty"`
	CurrentLocation   string `json:"currentLocation,omitempty"`
	Delays            string `json:"delays,omitempty"`
}

type Service interface {
	GenerateFromPreferences(ctx context.Context, req models.GenerationRequest) (*models.Itinerary, error)
	GenerateFromImage(ctx context.Context, photoDataURI string) (*models.Itinerary, error)
	AdjustForConditions(ctx context.Context, itinerary models.Itinerary, adj AdjustmentRequest) (*models.Itinerary, error)
}

type ServiceImpl struct {
	logger *zap.Logger
	ai     AIClient
}

func NewPlannerService(ai AIClient, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		ai:     ai,
	}
}

func generationConfig(schema *genai.Schema) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.7),
		MaxOutputTokens:  8192,
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
}

// GenerateFromPreferences runs the preference-driven generation flow: a single
// model call followed by deterministic location extraction. No retries; the
// caller decides whether to resubmit.
func (s *ServiceImpl) GenerateFromPreferences(ctx context.Context, req models.GenerationRequest) (*models.Itinerary, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "GenerateFromPreferences")
	defer span.End()

	l := s.logger.With(zap.String("method", "GenerateFromPreferences"), zap.String("destination", req.Destination))

	numberOfDays := req.NumberOfDays()
	if numberOfDays == 0 {
		err := fmt.Errorf("invalid travel dates %q to %q: %w", req.StartDate, req.EndDate, models.ErrBadRequest)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid travel dates")
		return nil, err
	}
	span.SetAttributes(attribute.Int("trip.days", numberOfDays))

	prompt := buildGenerationPrompt(req, numberOfDays)
	response, err := s.ai.GenerateResponse(ctx, prompt, generationConfig(itineraryContentSchema))
	if err != nil {
		l.Error("Itinerary generation call failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation call failed")
		return nil, fmt.Errorf("failed to generate itinerary content: %w", models.ErrGenerationFailed)
	}

	itinerary, err := s.parseItinerary(response)
	if err != nil {
		l.Error("Failed to parse generated itinerary", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to parse itinerary")
		return nil, err
	}

	itinerary.Destination = req.Destination
	itinerary.StartingLocation = req.StartingLocation

	l.Info("Itinerary generated",
		zap.String("title", itinerary.Title),
		zap.Int("days", len(itinerary.DailyPlans)),
		zap.Int("locations", len(itinerary.Locations)))
	span.SetAttributes(attribute.Int("itinerary.locations", len(itinerary.Locations)))
	span.SetStatus(codes.Ok, "Itinerary generated successfully")
	return itinerary, nil
}

// GenerateFromImage runs the photo-inspired flow: a fixed five-day trip in
// English at the comfortable travel style, themed on the uploaded image.
func (s *ServiceImpl) GenerateFromImage(ctx context.Context, photoDataURI string) (*models.Itinerary, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "GenerateFromImage")
	defer span.End()

	l := s.logger.With(zap.String("method", "GenerateFromImage"))

	mimeType, imageData, err := parseDataURI(photoDataURI)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid photo data URI")
		return nil, fmt.Errorf("invalid photo data URI: %w", models.ErrBadRequest)
	}
	span.SetAttributes(attribute.String("image.mime_type", mimeType), attribute.Int("image.bytes", len(imageData)))

	response, err := s.ai.GenerateWithImage(ctx, buildImagePrompt(), imageData, mimeType, generationConfig(itineraryContentSchema))
	if err != nil {
		l.Error("Image itinerary generation call failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation call failed")
		return nil, fmt.Errorf("failed to generate itinerary content from image: %w", models.ErrGenerationFailed)
	}

	itinerary, err := s.parseItinerary(response)
	if err != nil {
		l.Error("Failed to parse image-generated itinerary", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to parse itinerary")
		return nil, err
	}

	l.Info("Image itinerary generated",
		zap.String("title", itinerary.Title),
		zap.String("destination", itinerary.Destination),
		zap.Int("locations", len(itinerary.Locations)))
	span.SetStatus(codes.Ok, "Itinerary generated successfully")
	return itinerary, nil
}

// AdjustForConditions asks the model for a complete replacement plan reflecting
// the reported conditions. The flat locations list is still rebuilt locally
// even though the model returns one.
func (s *ServiceImpl) AdjustForConditions(ctx context.Context, itinerary models.Itinerary, adj AdjustmentRequest) (*models.Itinerary, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "AdjustForConditions")
	defer span.End()

	l := s.logger.With(zap.String("method", "AdjustForConditions"), zap.String("title", itinerary.Title))

	current, err := json.Marshal(itinerary)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal current itinerary")
		return nil, fmt.Errorf("failed to marshal current itinerary: %w", err)
	}

	prompt := buildAdjustmentPrompt(string(current), adj)
	response, err := s.ai.GenerateResponse(ctx, prompt, generationConfig(fullItinerarySchema))
	if err != nil {
		l.Error("Itinerary adjustment call failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Adjustment call failed")
		return nil, fmt.Errorf("failed to adjust itinerary: %w", models.ErrGenerationFailed)
	}

	adjusted, err := s.parseItinerary(response)
	if err != nil {
		l.Error("Failed to parse adjusted itinerary", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to parse adjusted itinerary")
		return nil, err
	}

	// Identity fields are not the model's to change.
	adjusted.Destination = itinerary.Destination
	adjusted.StartingLocation = itinerary.StartingLocation
	adjusted.UserID = itinerary.UserID
	adjusted.CreatedAt = itinerary.CreatedAt

	l.Info("Itinerary adjusted", zap.String("title", adjusted.Title), zap.Int("days", len(adjusted.DailyPlans)))
	span.SetStatus(codes.Ok, "Itinerary adjusted successfully")
	return adjusted, nil
}

// parseItinerary pulls the first text part out of the response, strips any
// markdown fencing, unmarshals the content, and rebuilds locations and day
// order deterministically.
func (s *ServiceImpl) parseItinerary(response *genai.GenerateContentResponse) (*models.Itinerary, error) {
	var txt string
	for _, candidate := range response.Candidates {
		if candidate.Content != nil && len(candidate.Content.Parts) > 0 {
			txt = candidate.Content.Parts[0].Text
			break
		}
	}
	if txt == "" {
		return nil, fmt.Errorf("empty response from AI: %w", models.ErrGenerationFailed)
	}

	cleanTxt := cleanJSONResponse(txt)
	var content struct {
		Title         string             `json:"title"`
		Summary       string             `json:"summary"`
		Destination   string             `json:"destination"`
		EstimatedCost float64            `json:"estimatedCost"`
		DailyPlans    []models.DailyPlan `json:"dailyPlans"`
	}
	if err := json.Unmarshal([]byte(cleanTxt), &content); err != nil {
		return nil, fmt.Errorf("failed to parse itinerary JSON: %v: %w", err, models.ErrGenerationFailed)
	}
	if content.Title == "" || len(content.DailyPlans) == 0 {
		return nil, fmt.Errorf("generated itinerary is missing required content: %w", models.ErrGenerationFailed)
	}

	itinerary := &models.Itinerary{
		Title:         content.Title,
		Summary:       content.Summary,
		Destination:   content.Destination,
		EstimatedCost: content.EstimatedCost,
		DailyPlans:    content.DailyPlans,
	}
	itinerary.SortDays()
	dropIncompleteLocations(itinerary.DailyPlans)
	itinerary.Locations = ExtractLocations(itinerary.DailyPlans)
	if err := itinerary.Validate(); err != nil {
		return nil, fmt.Errorf("generated itinerary failed schema validation: %v: %w", err, models.ErrGenerationFailed)
	}
	return itinerary, nil
}

// dropIncompleteLocations nils out activity locations missing any required
// field. A partial location is treated the same as no location, so one
// malformed entry does not reject an otherwise usable plan.
func dropIncompleteLocations(plans []models.DailyPlan) {
	for _, plan := range plans {
		for i, act := range plan.Activities {
			if act.Location != nil && !act.Location.Complete() {
				plan.Activities[i].Location = nil
			}
		}
	}
}

// parseDataURI splits a "data:<mimetype>;base64,<data>" URI into its MIME type
// and decoded payload.
func parseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("missing data: prefix")
	}
	mimeType, encoded, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return "", nil, fmt.Errorf("missing base64 marker")
	}
	if mimeType == "" {
		return "", nil, fmt.Errorf("missing MIME type")
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return mimeType, data, nil
}

func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}

	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	firstBrace := strings.Index(response, "{")
	if firstBrace == -1 {
		return response
	}

	braceCount := 0
	var lastValidBrace int
	for i := firstBrace; i < len(response); i++ {
		switch response[i] {
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				lastValidBrace = i
			}
		}
	}

	if braceCount != 0 {
		lastBrace := strings.LastIndex(response, "}")
		if lastBrace == -1 || lastBrace <= firstBrace {
			return response
		}
		lastValidBrace = lastBrace
	}

	return strings.TrimSpace(response[firstBrace : lastValidBrace+1])
}
