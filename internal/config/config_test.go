package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, DefaultLLMBaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, domain.DefaultModel, cfg.LLM.DefaultModel)
	assert.InDelta(t, 0.3, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, ProviderOllama, cfg.Embedding.Provider)
	assert.Equal(t, 10000, cfg.Chunking.Size)
	assert.Equal(t, 1000, cfg.Chunking.Overlap)
	assert.Equal(t, 4, cfg.Retrieval.TopK)
	assert.Equal(t, BackendJSON, cfg.History.Backend)
	assert.Equal(t, domain.DefaultRetention, cfg.History.Retention())
	assert.Equal(t, domain.DefaultMaxVideoDuration, cfg.Video.MaxDuration())
	assert.Equal(t, domain.DefaultVisionModel, cfg.Video.Model)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"llm provider", func(c *Config) { c.LLM.Provider = "anthropic" }, "llm.provider"},
		{"embedding provider", func(c *Config) { c.Embedding.Provider = "" }, "embedding.provider"},
		{"temperature", func(c *Config) { c.LLM.Temperature = 3 }, "llm.temperature"},
		{"chunk size", func(c *Config) { c.Chunking.Size = 0 }, "chunking.size"},
		{"overlap", func(c *Config) { c.Chunking.Overlap = c.Chunking.Size }, "chunking.overlap"},
		{"top k", func(c *Config) { c.Retrieval.TopK = 0 }, "retrieval.top_k"},
		{"backend", func(c *Config) { c.History.Backend = "redis" }, "history.backend"},
		{"retention", func(c *Config) { c.History.RetentionDays = 0 }, "history.retention_days"},
		{"video duration", func(c *Config) { c.Video.MaxDurationSeconds = -1 }, "video.max_duration_seconds"},
		{"data dir", func(c *Config) { c.DataDir = "" }, "data_dir"},
		{"ollama with hosted model", func(c *Config) { c.LLM.Provider = ProviderOllama }, "llm.default_model"},
		{"ollama without model", func(c *Config) {
			c.LLM.Provider = ProviderOllama
			c.LLM.DefaultModel = ""
		}, "llm.default_model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestModels(t *testing.T) {
	t.Run("hosted provider", func(t *testing.T) {
		cfg := Default()

		models := cfg.Models()
		assert.Equal(t, domain.DefaultModel, models.Default)
		assert.Equal(t, domain.AllowedModels(), models.Options)
	})

	t.Run("hosted provider with configured default", func(t *testing.T) {
		cfg := Default()
		cfg.LLM.DefaultModel = domain.ModelDeepseek

		models := cfg.Models()
		assert.Equal(t, domain.ModelDeepseek, models.Default)
		assert.Len(t, models.Options, 3)
	})

	t.Run("ollama serves the configured model only", func(t *testing.T) {
		cfg := Default()
		cfg.LLM.Provider = ProviderOllama
		cfg.LLM.DefaultModel = "llama3.2"
		require.NoError(t, cfg.Validate())

		models := cfg.Models()
		assert.Equal(t, "llama3.2", models.Default)
		assert.True(t, models.Allows("llama3.2"))
		assert.False(t, models.Allows(domain.DefaultModel))
	})
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Retrieval.TopK = 0
	cfg.History.Backend = "x"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieval.top_k")
	assert.Contains(t, err.Error(), "history.backend")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvDataDir:           "/tmp/dc",
		EnvOpenRouterKey:     "sk-or-123",
		EnvOpenAIKey:         "sk-openai",
		EnvLLMBaseURL:        "http://localhost:9999/v1",
		EnvEmbeddingProvider: ProviderOpenAI,
		EnvEmbeddingModel:    "text-embedding-3-small",
		EnvHistoryBackend:    BackendSQLite,
		EnvHTTPAddr:          ":9090",
	}

	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "/tmp/dc", cfg.DataDir)
	assert.Equal(t, "sk-or-123", cfg.LLM.APIKey)
	assert.Equal(t, "http://localhost:9999/v1", cfg.LLM.BaseURL)
	assert.Equal(t, ProviderOpenAI, cfg.Embedding.Provider)
	assert.Equal(t, "sk-openai", cfg.Embedding.APIKey)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, BackendSQLite, cfg.History.Backend)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestApplyEnv_OpenAIKeyOnlyForOpenAIEmbeddings(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(func(k string) string {
		if k == EnvOpenAIKey {
			return "sk-openai"
		}
		return ""
	})

	assert.Empty(t, cfg.Embedding.APIKey)
	assert.Equal(t, DefaultDataDir(), cfg.DataDir)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("DOCCHAT_TEST_DOTENV=from-file\n"), 0600))

	t.Setenv("DOCCHAT_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("DOCCHAT_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("DOCCHAT_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/docchat.toml")
	assert.Equal(t, "/etc/docchat.toml", Path())

	t.Setenv(EnvConfig, "")
	assert.Equal(t, filepath.Join(DefaultDataDir(), "config.toml"), Path())
}

func TestPaths(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/data"

	assert.Equal(t, "/data/indexes", cfg.IndexDir())
	assert.Equal(t, "/data/chat_history.json", cfg.HistoryPath())
	assert.Equal(t, "/data/prompts", cfg.PromptsDir())

	cfg.History.Backend = BackendSQLite
	assert.Equal(t, "/data/history.db", cfg.HistoryPath())
}

func TestMasked(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = "sk-or-v1-abcdefghijkl"
	cfg.Embedding.APIKey = "short"

	masked := cfg.Masked()

	assert.Equal(t, "sk-o*************ijkl", masked.LLM.APIKey)
	assert.Equal(t, "*****", masked.Embedding.APIKey)
	assert.Equal(t, "sk-or-v1-abcdefghijkl", cfg.LLM.APIKey, "original untouched")
}

func TestDeviceID(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	id, err := DeviceID(dir)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	again, err := DeviceID(dir)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	require.NoError(t, os.WriteFile(filepath.Join(dir, deviceIDFile), []byte("  custom-device \n"), 0600))
	custom, err := DeviceID(dir)
	require.NoError(t, err)
	assert.Equal(t, "custom-device", custom)
}
