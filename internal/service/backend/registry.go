package backend

import (
	"context"
	"fmt"
	"sync"

	"humblebot/internal/domain"
	chatSvc "humblebot/internal/domain/services/chat"
)

// Registry caches backend instances per backend/model pair.
type Registry struct {
	factory *Factory
	cache   map[string]chatSvc.Backend
	mu      sync.RWMutex
}

// NewRegistry creates a new backend registry.
func NewRegistry(factory *Factory) *Registry {
	return &Registry{
		factory: factory,
		cache:   make(map[string]chatSvc.Backend),
	}
}

// GetBackend returns the backend for name and model, creating it on first use.
func (r *Registry) GetBackend(ctx context.Context, name, model string) (chatSvc.Backend, error) {
	if name == "" {
		return nil, fmt.Errorf("backend cannot be empty")
	}
	key := name + "/" + model

	// Fast path: check cache with read lock
	r.mu.RLock()
	if cached, exists := r.cache[key]; exists {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check cache after acquiring write lock
	if cached, exists := r.cache[key]; exists {
		return cached, nil
	}

	b, err := r.factory.GetBackend(ctx, name, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend '%s': %w", name, err)
	}

	r.cache[key] = b
	return b, nil
}

// Validate checks that backend name can be built with the current configuration.
// Should be called at startup to fail fast if misconfigured.
func (r *Registry) Validate(name string) error {
	if r.factory == nil {
		return fmt.Errorf("backend factory is not configured")
	}
	ok, missing := r.factory.Available(name)
	switch {
	case ok:
		return nil
	case missing == "":
		return fmt.Errorf("%w: unsupported backend: %s", domain.ErrBackendUnavailable, name)
	default:
		return fmt.Errorf("%w: %s environment variable not set", domain.ErrBackendUnavailable, missing)
	}
}
