package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// contentGenerator is satisfied by *genai.Models
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Backend answers chat messages with Gemini via the Gemini API.
type Backend struct {
	models       contentGenerator
	model        string
	systemPrompt string
	maxOutput    int32
}

// NewBackend creates a Gemini backend. maxOutput <= 0 leaves the model default.
func NewBackend(ctx context.Context, apiKey, model, systemPrompt string, maxOutput int) (*Backend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("gemini model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return newBackendWithModels(client.Models, model, systemPrompt, maxOutput), nil
}

func newBackendWithModels(models contentGenerator, model, systemPrompt string, maxOutput int) *Backend {
	if maxOutput < 0 {
		maxOutput = 0
	}
	return &Backend{
		models:       models,
		model:        model,
		systemPrompt: systemPrompt,
		maxOutput:    int32(maxOutput),
	}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "gemini"
}

// Model returns the configured model name
func (b *Backend) Model() string {
	return b.model
}

// Complete sends text as a single user turn and returns the reply text.
func (b *Backend) Complete(ctx context.Context, text string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: b.maxOutput,
	}
	if b.systemPrompt != "" {
		// System instructions are sent with the user role
		cfg.SystemInstruction = genai.NewContentFromText(b.systemPrompt, genai.RoleUser)
	}

	res, err := b.models.GenerateContent(ctx, b.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	return res.Text(), nil
}
