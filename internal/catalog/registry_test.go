package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"humblebot/internal/domain"
)

func TestNewRegistry_LoadsEveryBackend(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	list := r.List()
	require.Len(t, list, len(BackendNames))
	for i, b := range list {
		assert.Equal(t, BackendNames[i], b.Name)
		assert.NotEmpty(t, b.DisplayName)
	}
}

func TestBackend_ModelsKeepFileOrder(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	lorem, err := r.Backend("lorem")
	require.NoError(t, err)
	require.Len(t, lorem.Models, 2)
	assert.Equal(t, "lorem", lorem.Models[0].ID)
	assert.Equal(t, "lorem-fail", lorem.Models[1].ID)
}

func TestBackend_Unknown(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	_, err = r.Backend("carrier-pigeon")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestResolveModel(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	tests := []struct {
		name    string
		backend string
		model   string
		want    string
		wantErr error
	}{
		{name: "default lorem", backend: "lorem", want: "lorem"},
		{name: "explicit lorem-fail", backend: "lorem", model: "lorem-fail", want: "lorem-fail"},
		{name: "default anthropic", backend: "anthropic", want: "claude-haiku-4-5"},
		{name: "default gemini", backend: "gemini", want: "gemini-2.5-flash"},
		{name: "trimmed", backend: "gemini", model: "  gemini-2.5-pro ", want: "gemini-2.5-pro"},
		{name: "unknown anthropic model", backend: "anthropic", model: "gpt-2", wantErr: domain.ErrValidation},
		{name: "custom openrouter model", backend: "openrouter", model: "mistralai/mistral-small", want: "mistralai/mistral-small"},
		{name: "http has no default", backend: "http", want: ""},
		{name: "unknown backend", backend: "smoke-signal", wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveModel(tt.backend, tt.model)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMaxOutput(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	assert.Equal(t, 8192, r.MaxOutput("anthropic", "claude-haiku-4-5"))
	assert.Equal(t, 0, r.MaxOutput("openrouter", "unlisted/model"))
	assert.Equal(t, 0, r.MaxOutput("nope", "nope"))
}

func TestDefaultModel_FallsBackToFirst(t *testing.T) {
	var b Backend
	err := yaml.Unmarshal([]byte(`backend: x
models:
  second: {display_name: Two}
  first: {display_name: One}
`), &b)
	require.NoError(t, err)

	assert.Equal(t, "second", b.DefaultModel())
}
