// Package ai wraps the Gemini language model used to classify chat messages
// and to answer questions about a user's expenses.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	aiplatform "google.golang.org/api/aiplatform/v1"
	"google.golang.org/api/option"
)

// MIME types accepted by the model as response formats.
const (
	MIMEJSON = "application/json"
	MIMEText = "text/plain"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("ai: empty model response")

// Request is a single-turn generation request.
type Request struct {
	System   string
	Prompt   string
	MIMEType string
}

// Generator produces model text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GenerationSettings holds sampling parameters sent with every call.
type GenerationSettings struct {
	Temperature     float64
	TopP            float64
	TopK            float64
	MaxOutputTokens int64
}

// DefaultSettings mirrors the sampling used since the first release.
var DefaultSettings = GenerationSettings{
	Temperature:     0.6,
	TopP:            0.95,
	TopK:            64,
	MaxOutputTokens: 8192,
}

// Gemini is a Generator backed by the Vertex AI publisher models endpoint,
// authenticated with an API key.
type Gemini struct {
	svc      *aiplatform.Service
	model    string
	timeout  time.Duration
	settings GenerationSettings
}

// NewGemini creates a Gemini generator for model. Extra client options are
// appended after the API key so tests can redirect the endpoint.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration, opts ...option.ClientOption) (*Gemini, error) {
	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := aiplatform.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating aiplatform service: %w", err)
	}
	return &Gemini{
		svc:      svc,
		model:    model,
		timeout:  timeout,
		settings: DefaultSettings,
	}, nil
}

// Generate sends req to the model and returns the concatenated text of the
// first candidate.
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	body := &aiplatform.GoogleCloudAiplatformV1GenerateContentRequest{
		Contents: []*aiplatform.GoogleCloudAiplatformV1Content{{
			Role:  "user",
			Parts: []*aiplatform.GoogleCloudAiplatformV1Part{{Text: req.Prompt}},
		}},
		GenerationConfig: &aiplatform.GoogleCloudAiplatformV1GenerationConfig{
			Temperature:      g.settings.Temperature,
			TopP:             g.settings.TopP,
			TopK:             g.settings.TopK,
			MaxOutputTokens:  g.settings.MaxOutputTokens,
			ResponseMimeType: req.MIMEType,
		},
	}
	if req.System != "" {
		body.SystemInstruction = &aiplatform.GoogleCloudAiplatformV1Content{
			Parts: []*aiplatform.GoogleCloudAiplatformV1Part{{Text: req.System}},
		}
	}

	resp, err := g.svc.Publishers.Models.GenerateContent(modelName(g.model), body).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

// modelName expands a bare model id into its publisher resource name.
func modelName(model string) string {
	if strings.HasPrefix(model, "publishers/") {
		return model
	}
	return "publishers/google/models/" + strings.TrimPrefix(model, "models/")
}
