package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvConfig            = "DOCCHAT_CONFIG"
	EnvDataDir           = "DOCCHAT_DATA_DIR"
	EnvOpenRouterKey     = "OPENROUTER_API_KEY"
	EnvOpenAIKey         = "OPENAI_API_KEY"
	EnvLLMBaseURL        = "DOCCHAT_LLM_BASE_URL"
	EnvEmbeddingProvider = "DOCCHAT_EMBEDDING_PROVIDER"
	EnvEmbeddingModel    = "DOCCHAT_EMBEDDING_MODEL"
	EnvHistoryBackend    = "DOCCHAT_HISTORY_BACKEND"
	EnvHTTPAddr          = "DOCCHAT_HTTP_ADDR"
)

// Path returns the config file location: $DOCCHAT_CONFIG, else
// ~/.docchat/config.toml.
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return filepath.Join(DefaultDataDir(), "config.toml")
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv overrides fields from environment variables read through getenv.
// Empty variables leave the field unchanged.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.DataDir, EnvDataDir)
	set(&c.LLM.APIKey, EnvOpenRouterKey)
	set(&c.LLM.BaseURL, EnvLLMBaseURL)
	set(&c.Embedding.Provider, EnvEmbeddingProvider)
	set(&c.Embedding.Model, EnvEmbeddingModel)
	set(&c.History.Backend, EnvHistoryBackend)
	set(&c.Server.Addr, EnvHTTPAddr)

	if c.Embedding.Provider == ProviderOpenAI {
		set(&c.Embedding.APIKey, EnvOpenAIKey)
	}
}
