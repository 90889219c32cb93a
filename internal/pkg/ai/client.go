// Package ai wraps the Gemini client used by the prompt flows.
package ai

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Client is a thin wrapper over the Gemini API configured for a single model.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client. The model can be overridden with the
// GEMINI_MODEL environment variable.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "NewClient")
	defer span.End()

	if apiKey == "" {
		err := fmt.Errorf("GEMINI_API_KEY environment variable is not set")
		span.RecordError(err)
		span.SetStatus(codes.Error, "API key not set")
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, err
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}

	span.SetStatus(codes.Ok, "AI client created successfully")
	return &Client{client: client, model: model}, nil
}

// GenerateResponse sends a single text prompt and returns the raw model
// response. One attempt, no retry.
func (c *Client) GenerateResponse(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GenerateResponse", trace.WithAttributes(
		attribute.Int("prompt.length", len(prompt)),
		attribute.String("model", c.model),
	))
	defer span.End()

	response, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Response generated successfully")
	return response, nil
}

// GenerateWithImage sends a text prompt together with inline image bytes.
func (c *Client) GenerateWithImage(ctx context.Context, prompt string, image []byte, mimeType string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GenerateWithImage", trace.WithAttributes(
		attribute.Int("prompt.length", len(prompt)),
		attribute.Int("image.bytes", len(image)),
		attribute.String("image.mime_type", mimeType),
		attribute.String("model", c.model),
	))
	defer span.End()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}

	response, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content from image")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Response generated successfully")
	return response, nil
}
