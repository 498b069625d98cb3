package backend

import (
	"context"
	"fmt"
	"log/slog"

	"humblebot/internal/catalog"
	"humblebot/internal/config"
	chatSvc "humblebot/internal/domain/services/chat"
)

// Selection is the backend a session will talk to
type Selection struct {
	Backend chatSvc.Backend
	Name    string
	Model   string
}

// Setup resolves the configured backend and model, logs which backends are
// usable, and returns the selected backend wrapped with the configured timeout.
func Setup(ctx context.Context, cfg *config.Config, cat *catalog.Registry, logger *slog.Logger) (*Selection, error) {
	factory := NewFactory(cfg, cat)
	registry := NewRegistry(factory)

	if err := registry.Validate(cfg.Backend); err != nil {
		return nil, fmt.Errorf("backend registry validation failed: %w", err)
	}

	// Log available backends based on config
	for _, name := range catalog.BackendNames {
		if ok, missing := factory.Available(name); ok {
			logger.Info("backend available", "name", name)
		} else {
			logger.Debug("backend not available", "name", name, "missing", missing)
		}
	}

	model, err := cat.ResolveModel(cfg.Backend, cfg.Model)
	if err != nil {
		return nil, err
	}

	b, err := registry.GetBackend(ctx, cfg.Backend, model)
	if err != nil {
		return nil, err
	}

	logger.Info("backend selected",
		"name", cfg.Backend,
		"model", model,
		"timeout", cfg.BackendTimeout,
	)

	return &Selection{
		Backend: WithTimeout(b, cfg.BackendTimeout),
		Name:    cfg.Backend,
		Model:   model,
	}, nil
}
