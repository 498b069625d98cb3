package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultMaxTokens = 4096

// Backend answers chat messages with Claude via the Messages API.
type Backend struct {
	client       *anthropic.Client
	model        string
	systemPrompt string
	maxTokens    int64
}

// NewBackend creates a new Anthropic backend with the given API key.
// maxTokens <= 0 falls back to 4096. Extra request options (base URL, retries) go in opts.
func NewBackend(apiKey, model, systemPrompt string, maxTokens int, opts ...option.RequestOption) (*Backend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("anthropic model is required")
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)

	return &Backend{
		client:       &client,
		model:        model,
		systemPrompt: systemPrompt,
		maxTokens:    int64(maxTokens),
	}, nil
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "anthropic"
}

// Model returns the configured model name
func (b *Backend) Model() string {
	return b.model
}

// Complete sends text as a single user message and returns the concatenated text blocks.
func (b *Backend) Complete(ctx context.Context, text string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: b.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	}

	if b.systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: b.systemPrompt,
			},
		}
	}

	message, err := b.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
