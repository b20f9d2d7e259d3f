// Package app wires docchat's adapters and services together.
package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/docchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/docchat/internal/adapters/driven/config/file"
	jsonhistory "github.com/custodia-labs/docchat/internal/adapters/driven/history/jsonfile"
	sqlitehistory "github.com/custodia-labs/docchat/internal/adapters/driven/history/sqlite"
	"github.com/custodia-labs/docchat/internal/adapters/driven/media/ffmpeg"
	"github.com/custodia-labs/docchat/internal/adapters/driven/vectorstore/sqlite"
	"github.com/custodia-labs/docchat/internal/chunker"
	"github.com/custodia-labs/docchat/internal/config"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/services"
	"github.com/custodia-labs/docchat/internal/extractors"
	"github.com/custodia-labs/docchat/internal/logger"
)

// App holds the wired services for one process.
type App struct {
	Config   *config.Config
	DeviceID string

	Chat    *services.ChatService
	History *services.HistoryService
	Video   *services.VideoService
	Prompts *file.PromptStore

	ai      *ai.InitResult
	repo    driven.HistoryRepository
	Warning []string
}

// LoadConfig reads the config file, seeds the environment from .env and
// applies environment overrides. The result is validated.
func LoadConfig() (*config.Config, error) {
	store, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}

	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		logger.Warn("loading .env: %v", err)
	}
	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Build creates every adapter and service described by cfg. Missing AI
// providers do not fail the build; the affected operations degrade and the
// reasons are returned in App.Warning.
func Build(cfg *config.Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	a := &App{Config: cfg}

	a.ai = ai.Init(cfg)
	a.Warning = append(a.Warning, a.ai.Warnings...)
	for _, w := range a.ai.Warnings {
		logger.Warn("%s", w)
	}

	index, err := sqlite.NewStore(cfg.IndexDir(), a.ai.EmbeddingService,
		sqlite.WithBatchSize(cfg.Embedding.BatchSize))
	if err != nil {
		a.Close()
		return nil, err
	}

	repo, err := OpenHistory(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.repo = repo

	prompts, err := file.NewPromptStore(cfg.PromptsDir())
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Prompts = prompts

	deviceID, err := config.DeviceID(cfg.DataDir)
	if err != nil {
		logger.Warn("device id unavailable: %v", err)
	}
	a.DeviceID = deviceID

	splitter := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)
	retriever := services.NewRetriever(a.ai.EmbeddingService, cfg.Retrieval.TopK)
	answerer := services.NewAnswerGenerator(a.ai.LLMService, prompts, cfg.LLM.Temperature,
		services.WithModels(cfg.Models()))

	a.History = services.NewHistoryService(repo, index, cfg.History.Retention())
	a.Chat = services.NewChatService(extractors.Default(), splitter, index, retriever, answerer, a.History)
	a.Video = services.NewVideoService(ffmpeg.New(), a.ai.LLMService, prompts, services.VideoConfig{
		MaxDuration:  cfg.Video.MaxDuration(),
		MaxFrames:    cfg.Video.MaxFrames,
		MaxDimension: cfg.Video.MaxDimension,
		Model:        cfg.Video.Model,
		Temperature:  cfg.Video.Temperature,
		MaxTokens:    cfg.Video.MaxTokens,
	})

	logger.Debug("data dir %s, history backend %s", cfg.DataDir, cfg.History.Backend)
	return a, nil
}

// OpenHistory opens the history repository for the configured backend.
func OpenHistory(cfg *config.Config) (driven.HistoryRepository, error) {
	switch cfg.History.Backend {
	case config.BackendSQLite:
		return sqlitehistory.New(cfg.HistoryPath())
	case config.BackendJSON, "":
		return jsonhistory.New(cfg.HistoryPath())
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
	}
}

// Close releases the AI clients and the history repository.
func (a *App) Close() error {
	var errs []error
	if a.ai != nil {
		a.ai.Close()
	}
	if a.repo != nil {
		errs = append(errs, a.repo.Close())
	}
	return errors.Join(errs...)
}
