package catalog

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"humblebot/internal/domain"
)

//go:embed config/*.yaml
var configFiles embed.FS

// BackendNames is every backend the factory can build, in display order
var BackendNames = []string{"lorem", "anthropic", "openrouter", "gemini", "http"}

// Registry holds the model catalog of every backend
type Registry struct {
	backends map[string]*Backend
	mu       sync.RWMutex
}

// NewRegistry creates a new catalog registry and loads embedded YAML files
func NewRegistry() (*Registry, error) {
	r := &Registry{
		backends: make(map[string]*Backend),
	}

	for _, name := range BackendNames {
		if err := r.loadBackendFile(name); err != nil {
			return nil, fmt.Errorf("failed to load %s catalog: %w", name, err)
		}
	}

	return r, nil
}

// loadBackendFile loads a backend's catalog YAML file
func (r *Registry) loadBackendFile(name string) error {
	filename := fmt.Sprintf("config/%s.yaml", name)
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var backend Backend
	if err := yaml.Unmarshal(data, &backend); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}
	if backend.Name != name {
		return fmt.Errorf("%s declares backend %q", filename, backend.Name)
	}

	r.mu.Lock()
	r.backends[name] = &backend
	r.mu.Unlock()

	return nil
}

// Backend returns the catalog entry for a backend
func (r *Registry) Backend(name string) (*Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	backend, ok := r.backends[name]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("unknown backend: %s", name)}
	}
	return backend, nil
}

// List returns all backends in display order
func (r *Registry) List() []Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Backend, 0, len(BackendNames))
	for _, name := range BackendNames {
		if b, ok := r.backends[name]; ok {
			out = append(out, *b)
		}
	}
	return out
}

// ResolveModel returns the model to use for backend.
// Empty model means the backend default. Unknown models are rejected unless
// the backend accepts custom model names.
func (r *Registry) ResolveModel(backend, model string) (string, error) {
	b, err := r.Backend(backend)
	if err != nil {
		return "", err
	}

	model = strings.TrimSpace(model)
	if model == "" {
		return b.DefaultModel(), nil
	}

	for _, m := range b.Models {
		if m.ID == model {
			return model, nil
		}
	}
	if b.AllowCustomModels {
		return model, nil
	}

	return "", &domain.ValidationError{
		Message: fmt.Sprintf("unknown model %s for backend %s", model, backend),
	}
}

// MaxOutput returns the output token limit for a model, or 0 when the catalog has none
func (r *Registry) MaxOutput(backend, model string) int {
	b, err := r.Backend(backend)
	if err != nil {
		return 0
	}
	for _, m := range b.Models {
		if m.ID == model {
			return m.MaxOutput
		}
	}
	return 0
}
