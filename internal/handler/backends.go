package handler

import (
	"log/slog"
	"net/http"

	"humblebot/internal/catalog"
	"humblebot/internal/httputil"
)

// availability reports whether a backend has the credentials it needs
type availability interface {
	Available(name string) (bool, string)
}

// BackendsHandler lists the backend catalog
type BackendsHandler struct {
	catalog       *catalog.Registry
	availability  availability
	selectedName  string
	selectedModel string
	logger        *slog.Logger
}

// NewBackendsHandler creates a new backends handler. selectedName/selectedModel
// mark the backend the running session talks to.
func NewBackendsHandler(cat *catalog.Registry, avail availability, selectedName, selectedModel string, logger *slog.Logger) *BackendsHandler {
	return &BackendsHandler{
		catalog:       cat,
		availability:  avail,
		selectedName:  selectedName,
		selectedModel: selectedModel,
		logger:        logger,
	}
}

// BackendResponse represents a backend with its models
type BackendResponse struct {
	Name              string          `json:"name"`
	DisplayName       string          `json:"display_name"`
	Available         bool            `json:"available"`
	MissingConfig     string          `json:"missing_config,omitempty"`
	Selected          bool            `json:"selected"`
	AllowCustomModels bool            `json:"allow_custom_models"`
	Models            []ModelResponse `json:"models"`
}

// ModelResponse represents one model in the API response
type ModelResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Default     bool   `json:"default"`
	Selected    bool   `json:"selected"`
}

// ListBackends returns every backend with availability and the current selection
// GET /api/backends
func (h *BackendsHandler) ListBackends(w http.ResponseWriter, r *http.Request) {
	list := h.catalog.List()
	backends := make([]BackendResponse, 0, len(list))

	for _, b := range list {
		available, missing := h.availability.Available(b.Name)
		resp := BackendResponse{
			Name:              b.Name,
			DisplayName:       b.DisplayName,
			Available:         available,
			Selected:          b.Name == h.selectedName,
			AllowCustomModels: b.AllowCustomModels,
			Models:            make([]ModelResponse, 0, len(b.Models)),
		}
		if !available {
			resp.MissingConfig = missing
		}

		defaultModel := b.DefaultModel()
		for _, m := range b.Models {
			resp.Models = append(resp.Models, ModelResponse{
				ID:          m.ID,
				DisplayName: m.DisplayName,
				Description: m.Description,
				Default:     m.ID == defaultModel,
				Selected:    resp.Selected && m.ID == h.selectedModel,
			})
		}
		backends = append(backends, resp)
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"backends": backends,
	})
}
