package openrouter

import (
	"context"
	"fmt"
	"strings"

	llmprovider "github.com/haowjy/meridian-llm-go"
	"github.com/haowjy/meridian-llm-go/providers/openrouter"
)

// generator is the part of the library provider this backend needs
type generator interface {
	GenerateResponse(ctx context.Context, req *llmprovider.GenerateRequest) (*llmprovider.GenerateResponse, error)
}

// Backend wraps the library's OpenRouter provider.
// It converts a single chat message into a library request and flattens the reply.
type Backend struct {
	provider     generator
	model        string
	systemPrompt string
}

// NewBackend creates a new OpenRouter backend using the library's provider.
func NewBackend(apiKey, model, systemPrompt string) (*Backend, error) {
	if model == "" {
		return nil, fmt.Errorf("openrouter model is required")
	}

	provider, err := openrouter.NewProvider(apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenRouter provider: %w", err)
	}

	return newBackendWithProvider(provider, model, systemPrompt), nil
}

func newBackendWithProvider(provider generator, model, systemPrompt string) *Backend {
	return &Backend{
		provider:     provider,
		model:        model,
		systemPrompt: systemPrompt,
	}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "openrouter"
}

// Model returns the configured model name
func (b *Backend) Model() string {
	return b.model
}

// Complete sends text to OpenRouter and returns the concatenated text blocks.
func (b *Backend) Complete(ctx context.Context, text string) (string, error) {
	resp, err := b.provider.GenerateResponse(ctx, b.buildRequest(text))
	if err != nil {
		return "", fmt.Errorf("openrouter API call failed: %w", err)
	}
	return joinText(resp), nil
}

// buildRequest converts a chat message to a library GenerateRequest
func (b *Backend) buildRequest(text string) *llmprovider.GenerateRequest {
	content := text
	req := &llmprovider.GenerateRequest{
		Model: b.model,
		Messages: []llmprovider.Message{
			{
				Role: "user",
				Blocks: []*llmprovider.Block{
					{
						BlockType:   "text",
						Sequence:    0,
						TextContent: &content,
					},
				},
			},
		},
	}

	if b.systemPrompt != "" {
		system := b.systemPrompt
		req.Params = &llmprovider.RequestParams{
			System: &system,
		}
	}

	return req
}

// joinText concatenates the text blocks of a library response, skipping thinking and tool blocks
func joinText(resp *llmprovider.GenerateResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, block := range resp.Blocks {
		if block == nil || block.BlockType != "text" || block.TextContent == nil {
			continue
		}
		sb.WriteString(*block.TextContent)
	}
	return sb.String()
}
