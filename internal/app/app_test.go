package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/config"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.LLM.APIKey = ""
	return cfg
}

func TestBuild_WiresServices(t *testing.T) {
	cfg := testConfig(t)

	a, err := Build(cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Chat)
	assert.NotNil(t, a.History)
	assert.NotNil(t, a.Video)
	assert.NotNil(t, a.Prompts)
	assert.NotEmpty(t, a.DeviceID)
	assert.DirExists(t, cfg.IndexDir())
}

func TestBuild_MissingAPIKeyDegrades(t *testing.T) {
	cfg := testConfig(t)

	a, err := Build(cfg)
	require.NoError(t, err)
	defer a.Close()

	require.Len(t, a.Warning, 1)
	assert.Contains(t, a.Warning[0], "language model disabled")

	// Asking without an index never reaches the model.
	session := a.Chat.NewSession(a.DeviceID)
	_, answer, err := a.Chat.Ask(context.Background(), session, "what?", "")
	require.NoError(t, err)
	assert.Equal(t, domain.NoContextResponse, answer)
}

func TestBuild_OllamaAnswersWithConfiguredModel(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM.Provider = config.ProviderOllama
	cfg.LLM.BaseURL = "http://127.0.0.1:11434"
	cfg.LLM.DefaultModel = "llama3.2"

	a, err := Build(cfg)
	require.NoError(t, err)
	defer a.Close()

	models := a.Chat.Models()
	assert.Equal(t, "llama3.2", models.Default)
	assert.Equal(t, []domain.ModelOption{{Label: "llama3.2", ID: "llama3.2"}}, models.Options)
}

func TestBuild_DeviceIDIsStable(t *testing.T) {
	cfg := testConfig(t)

	first, err := Build(cfg)
	require.NoError(t, err)
	first.Close()

	second, err := Build(cfg)
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, first.DeviceID, second.DeviceID)
}

func TestOpenHistory(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		cfg := testConfig(t)
		repo, err := OpenHistory(cfg)
		require.NoError(t, err)
		defer repo.Close()

		require.NoError(t, repo.Update(context.Background(), func(r []domain.ChatRecord) ([]domain.ChatRecord, error) {
			return append(r, domain.ChatRecord{ID: "a", Title: "t"}), nil
		}))
		assert.FileExists(t, filepath.Join(cfg.DataDir, "chat_history.json"))
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.History.Backend = config.BackendSQLite
		repo, err := OpenHistory(cfg)
		require.NoError(t, err)
		defer repo.Close()

		assert.FileExists(t, filepath.Join(cfg.DataDir, "history.db"))
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.History.Backend = "redis"
		_, err := OpenHistory(cfg)
		assert.Error(t, err)
	})
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvConfig, filepath.Join(dir, "config.toml"))
	t.Setenv(config.EnvDataDir, filepath.Join(dir, "data"))
	t.Setenv(config.EnvHistoryBackend, config.BackendSQLite)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir)
	assert.Equal(t, config.BackendSQLite, cfg.History.Backend)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[retrieval]\ntop_k = 0\n"), 0600))
	t.Setenv(config.EnvConfig, path)
	t.Setenv(config.EnvDataDir, dir)

	_, err := LoadConfig()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
