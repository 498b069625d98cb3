package backend

import (
	"context"
	"fmt"
	"net/http"

	"humblebot/internal/catalog"
	"humblebot/internal/config"
	"humblebot/internal/domain"
	chatSvc "humblebot/internal/domain/services/chat"
	"humblebot/internal/service/backend/providers/anthropic"
	"humblebot/internal/service/backend/providers/gemini"
	"humblebot/internal/service/backend/providers/httpapi"
	"humblebot/internal/service/backend/providers/lorem"
	"humblebot/internal/service/backend/providers/openrouter"
)

// Factory creates backend instances from configuration
type Factory struct {
	config  *config.Config
	catalog *catalog.Registry
	client  *http.Client
}

// NewFactory creates a new backend factory
func NewFactory(cfg *config.Config, cat *catalog.Registry) *Factory {
	return &Factory{
		config:  cfg,
		catalog: cat,
		client:  &http.Client{},
	}
}

// GetBackend returns a backend instance for the given backend name and resolved model
//
// Supported backends:
//   - "lorem" - Mock backend for local runs (no API key required)
//   - "anthropic" - Claude models via Anthropic API
//   - "openrouter" - Any OpenRouter model
//   - "gemini" - Google Gemini models
//   - "http" - Generic JSON endpoint at BACKEND_URL
func (f *Factory) GetBackend(ctx context.Context, name, model string) (chatSvc.Backend, error) {
	switch name {
	case "lorem":
		return lorem.NewBackend(model, f.config.LoremDelay), nil

	case "anthropic":
		return f.createAnthropicBackend(model)

	case "openrouter":
		return f.createOpenRouterBackend(model)

	case "gemini":
		return f.createGeminiBackend(ctx, model)

	case "http":
		return f.createHTTPBackend()

	default:
		return nil, fmt.Errorf("%w: unsupported backend: %s", domain.ErrBackendUnavailable, name)
	}
}

func (f *Factory) createAnthropicBackend(model string) (chatSvc.Backend, error) {
	if f.config.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY environment variable not set", domain.ErrBackendUnavailable)
	}

	b, err := anthropic.NewBackend(f.config.AnthropicAPIKey, model, f.config.SystemPrompt,
		f.catalog.MaxOutput("anthropic", model))
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic backend: %w", err)
	}
	return b, nil
}

func (f *Factory) createOpenRouterBackend(model string) (chatSvc.Backend, error) {
	if f.config.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("%w: OPENROUTER_API_KEY environment variable not set", domain.ErrBackendUnavailable)
	}

	b, err := openrouter.NewBackend(f.config.OpenRouterAPIKey, model, f.config.SystemPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenRouter backend: %w", err)
	}
	return b, nil
}

func (f *Factory) createGeminiBackend(ctx context.Context, model string) (chatSvc.Backend, error) {
	if f.config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY environment variable not set", domain.ErrBackendUnavailable)
	}

	b, err := gemini.NewBackend(ctx, f.config.GeminiAPIKey, model, f.config.SystemPrompt,
		f.catalog.MaxOutput("gemini", model))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini backend: %w", err)
	}
	return b, nil
}

func (f *Factory) createHTTPBackend() (chatSvc.Backend, error) {
	if f.config.BackendURL == "" {
		return nil, fmt.Errorf("%w: BACKEND_URL environment variable not set", domain.ErrBackendUnavailable)
	}

	b, err := httpapi.NewBackend(f.config.BackendURL, f.client)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP backend: %w", err)
	}
	return b, nil
}

// Available reports whether a backend has the credentials it needs, and if not, which env var is missing
func (f *Factory) Available(name string) (bool, string) {
	switch name {
	case "lorem":
		return true, ""
	case "anthropic":
		return f.config.AnthropicAPIKey != "", "ANTHROPIC_API_KEY"
	case "openrouter":
		return f.config.OpenRouterAPIKey != "", "OPENROUTER_API_KEY"
	case "gemini":
		return f.config.GeminiAPIKey != "", "GEMINI_API_KEY"
	case "http":
		return f.config.BackendURL != "", "BACKEND_URL"
	default:
		return false, ""
	}
}
