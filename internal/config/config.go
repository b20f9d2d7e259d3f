// Package config defines docchat's typed configuration.
//
// Values come from three layers, later layers winning: built-in defaults,
// the TOML config file (see the file adapter's ConfigStore), then
// environment variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/chunker"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// Provider names.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// History backend names.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Defaults.
const (
	DefaultDirName          = ".docchat"
	DefaultLLMBaseURL       = "https://openrouter.ai/api/v1"
	DefaultTemperature      = 0.3
	DefaultLLMTimeout       = 120
	DefaultRequestsPerSec   = 0.5
	DefaultBurst            = 3
	DefaultEmbeddingModel   = "all-minilm"
	DefaultEmbeddingDims    = 384
	DefaultEmbeddingBatch   = 32
	DefaultTopK             = 4
	DefaultRetentionDays    = 7
	DefaultVideoTemperature = 0.5
	DefaultVideoMaxTokens   = 1024
	DefaultServerAddr       = "127.0.0.1:8080"
)

// Config is the complete application configuration.
type Config struct {
	DataDir   string          `toml:"data_dir"`
	LLM       LLMConfig       `toml:"llm"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	History   HistoryConfig   `toml:"history"`
	Video     VideoConfig     `toml:"video"`
	Server    ServerConfig    `toml:"server"`
}

// LLMConfig configures the hosted chat model.
type LLMConfig struct {
	Provider          string  `toml:"provider"`
	BaseURL           string  `toml:"base_url"`
	APIKey            string  `toml:"api_key"`
	DefaultModel      string  `toml:"default_model"`
	Temperature       float64 `toml:"temperature"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Timeout returns the request timeout.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// EmbeddingConfig configures the embedding model.
type EmbeddingConfig struct {
	Provider   string `toml:"provider"`
	BaseURL    string `toml:"base_url"`
	APIKey     string `toml:"api_key"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
	BatchSize  int    `toml:"batch_size"`
}

// ChunkingConfig configures the text splitter.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// RetrievalConfig configures similarity search.
type RetrievalConfig struct {
	TopK int `toml:"top_k"`
}

// HistoryConfig configures chat history persistence.
type HistoryConfig struct {
	Backend       string `toml:"backend"`
	RetentionDays int    `toml:"retention_days"`
}

// Retention returns the retention window.
func (c HistoryConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// VideoConfig configures video summarisation.
type VideoConfig struct {
	MaxDurationSeconds float64 `toml:"max_duration_seconds"`
	MaxFrames          int     `toml:"max_frames"`
	MaxDimension       int     `toml:"max_dimension"`
	Model              string  `toml:"model"`
	Temperature        float64 `toml:"temperature"`
	MaxTokens          int     `toml:"max_tokens"`
}

// MaxDuration returns the video length ceiling.
func (c VideoConfig) MaxDuration() time.Duration {
	return time.Duration(c.MaxDurationSeconds * float64(time.Second))
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		LLM: LLMConfig{
			Provider:          ProviderOpenAI,
			BaseURL:           DefaultLLMBaseURL,
			DefaultModel:      domain.DefaultModel,
			Temperature:       DefaultTemperature,
			TimeoutSeconds:    DefaultLLMTimeout,
			RequestsPerSecond: DefaultRequestsPerSec,
			Burst:             DefaultBurst,
		},
		Embedding: EmbeddingConfig{
			Provider:   ProviderOllama,
			Model:      DefaultEmbeddingModel,
			Dimensions: DefaultEmbeddingDims,
			BatchSize:  DefaultEmbeddingBatch,
		},
		Chunking: ChunkingConfig{
			Size:    chunker.DefaultChunkSize,
			Overlap: chunker.DefaultChunkOverlap,
		},
		Retrieval: RetrievalConfig{TopK: DefaultTopK},
		History: HistoryConfig{
			Backend:       BackendJSON,
			RetentionDays: DefaultRetentionDays,
		},
		Video: VideoConfig{
			MaxDurationSeconds: domain.DefaultMaxVideoDuration.Seconds(),
			MaxFrames:          domain.DefaultMaxFrames,
			MaxDimension:       domain.DefaultMaxFrameDim,
			Model:              domain.DefaultVisionModel,
			Temperature:        DefaultVideoTemperature,
			MaxTokens:          DefaultVideoMaxTokens,
		},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...))
	}

	if c.DataDir == "" {
		bad("data_dir must be set")
	}
	if !validProvider(c.LLM.Provider) {
		bad("llm.provider %q must be %q or %q", c.LLM.Provider, ProviderOpenAI, ProviderOllama)
	}
	if c.LLM.Provider == ProviderOllama && (c.LLM.DefaultModel == "" || domain.IsAllowedModel(c.LLM.DefaultModel)) {
		bad("llm.default_model must name a local model when llm.provider is %q", ProviderOllama)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		bad("llm.temperature %v must be between 0 and 2", c.LLM.Temperature)
	}
	if c.LLM.TimeoutSeconds < 0 {
		bad("llm.timeout_seconds must not be negative")
	}
	if c.LLM.RequestsPerSecond < 0 {
		bad("llm.requests_per_second must not be negative")
	}
	if !validProvider(c.Embedding.Provider) {
		bad("embedding.provider %q must be %q or %q", c.Embedding.Provider, ProviderOpenAI, ProviderOllama)
	}
	if c.Embedding.Model == "" {
		bad("embedding.model must be set")
	}
	if c.Embedding.Dimensions < 0 {
		bad("embedding.dimensions must not be negative")
	}
	if c.Chunking.Size <= 0 {
		bad("chunking.size must be positive")
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		bad("chunking.overlap must be in [0, size)")
	}
	if c.Retrieval.TopK <= 0 {
		bad("retrieval.top_k must be positive")
	}
	if c.History.Backend != BackendJSON && c.History.Backend != BackendSQLite {
		bad("history.backend %q must be %q or %q", c.History.Backend, BackendJSON, BackendSQLite)
	}
	if c.History.RetentionDays <= 0 {
		bad("history.retention_days must be positive")
	}
	if c.Video.MaxDurationSeconds <= 0 {
		bad("video.max_duration_seconds must be positive")
	}
	if c.Video.MaxFrames <= 0 {
		bad("video.max_frames must be positive")
	}
	if c.Video.MaxDimension <= 0 {
		bad("video.max_dimension must be positive")
	}

	return errors.Join(errs...)
}

// Models returns the models the configured LLM provider can answer with.
// A local provider serves only llm.default_model; the hosted provider
// serves the allow-list plus llm.default_model.
func (c *Config) Models() domain.ModelCatalog {
	if c.LLM.Provider == ProviderOllama {
		return domain.LocalCatalog(c.LLM.DefaultModel)
	}
	return domain.HostedCatalog().WithDefault(c.LLM.DefaultModel)
}

func validProvider(p string) bool {
	return p == ProviderOpenAI || p == ProviderOllama
}

// Masked returns a copy with secrets replaced for display.
func (c *Config) Masked() *Config {
	out := *c
	out.LLM.APIKey = maskSecret(c.LLM.APIKey)
	out.Embedding.APIKey = maskSecret(c.Embedding.APIKey)
	return &out
}

func maskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 8:
		return strings.Repeat("*", len(s))
	default:
		return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
	}
}

// DefaultDataDir returns ~/.docchat, or .docchat when the home directory
// cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}

// IndexDir returns the root directory of per-session vector indices.
func (c *Config) IndexDir() string {
	return filepath.Join(c.DataDir, "indexes")
}

// HistoryPath returns the history file for the configured backend.
func (c *Config) HistoryPath() string {
	if c.History.Backend == BackendSQLite {
		return filepath.Join(c.DataDir, "history.db")
	}
	return filepath.Join(c.DataDir, "chat_history.json")
}

// PromptsDir returns the directory of user-editable prompt templates.
func (c *Config) PromptsDir() string {
	return filepath.Join(c.DataDir, "prompts")
}

// UploadsDir returns the scratch directory for uploaded videos.
func (c *Config) UploadsDir() string {
	return filepath.Join(c.DataDir, "uploads")
}
