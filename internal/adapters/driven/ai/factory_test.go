package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ollamaembed "github.com/custodia-labs/docchat/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/docchat/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/docchat/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docchat/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docchat/internal/config"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestInitResult_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		result := &InitResult{}
		// Should not panic
		result.Close()
	})
}

func TestInit_Defaults(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.APIKey = "sk-or-test"

	result := Init(cfg)
	defer result.Close()

	assert.Empty(t, result.Warnings)
	require.NotNil(t, result.Limiter)
	assert.IsType(t, &ollamaembed.EmbeddingService{}, result.EmbeddingService)
	assert.IsType(t, &openaillm.LLMService{}, result.LLMService)
	assert.Equal(t, config.DefaultEmbeddingModel, result.EmbeddingService.ModelName())
	assert.Equal(t, domain.DefaultModel, result.LLMService.ModelName())
}

func TestInit_MissingAPIKeyDegrades(t *testing.T) {
	cfg := config.Default()

	result := Init(cfg)

	assert.Nil(t, result.LLMService)
	assert.NotNil(t, result.EmbeddingService)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "language model disabled")
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.EmbeddingConfig
		wantType any
		wantErr  bool
	}{
		{
			name:     "ollama",
			cfg:      config.EmbeddingConfig{Provider: config.ProviderOllama, Model: "all-minilm"},
			wantType: &ollamaembed.EmbeddingService{},
		},
		{
			name:     "openai",
			cfg:      config.EmbeddingConfig{Provider: config.ProviderOpenAI, APIKey: "k"},
			wantType: &openaiembed.EmbeddingService{},
		},
		{
			name:    "openai without key",
			cfg:     config.EmbeddingConfig{Provider: config.ProviderOpenAI},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     config.EmbeddingConfig{Provider: "anthropic"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.cfg, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, svc)
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LLMConfig
		wantType any
		wantErr  bool
	}{
		{
			name:     "ollama",
			cfg:      config.LLMConfig{Provider: config.ProviderOllama, DefaultModel: "llama3.2"},
			wantType: &ollamallm.LLMService{},
		},
		{
			name:     "openai compatible",
			cfg:      config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "k"},
			wantType: &openaillm.LLMService{},
		},
		{
			name:    "missing key",
			cfg:     config.LLMConfig{Provider: config.ProviderOpenAI},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     config.LLMConfig{Provider: "other"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.cfg, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, svc)
		})
	}
}

func TestCreateAndValidateEmbeddingService(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"models":[]}`))
		}))
		defer srv.Close()

		svc, err := CreateAndValidateEmbeddingService(config.EmbeddingConfig{
			Provider: config.ProviderOllama, BaseURL: srv.URL, Model: "all-minilm",
		})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := CreateAndValidateEmbeddingService(config.EmbeddingConfig{
			Provider: config.ProviderOllama, BaseURL: srv.URL,
		})
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})
}

func TestCreateAndValidateLLMService(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		_, err := CreateAndValidateLLMService(config.LLMConfig{Provider: config.ProviderOpenAI})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
		assert.Contains(t, err.Error(), config.EnvOpenRouterKey)
	})

	t.Run("reachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
		}))
		defer srv.Close()

		svc, err := CreateAndValidateLLMService(config.LLMConfig{
			Provider: config.ProviderOpenAI, APIKey: "k", BaseURL: srv.URL,
		})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}
