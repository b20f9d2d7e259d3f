// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"

	ollamaembed "github.com/custodia-labs/docchat/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/docchat/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/docchat/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docchat/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docchat/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/docchat/internal/config"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Limiter          *ratelimit.Limiter // Shared by hosted API adapters.
	Warnings         []string           // Non-fatal issues; the affected service is nil.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates the embedding and LLM services described by cfg without
// contacting them. A service that cannot be created is left nil and the
// reason is recorded in Warnings; callers degrade instead of failing.
func Init(cfg *config.Config) *InitResult {
	result := &InitResult{
		Limiter: ratelimit.New(ratelimit.Config{
			RequestsPerSecond: cfg.LLM.RequestsPerSecond,
			Burst:             cfg.LLM.Burst,
		}),
	}

	embedding, err := CreateEmbeddingService(cfg.Embedding, result.Limiter)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("embeddings disabled: %v", err))
	} else {
		result.EmbeddingService = embedding
	}

	llm, err := CreateLLMService(cfg.LLM, result.Limiter)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("language model disabled: %v", err))
	} else {
		result.LLMService = llm
	}

	return result
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(cfg config.EmbeddingConfig) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'docchat config show' to check settings",
			domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(cfg config.LLMConfig) (driven.LLMService, error) {
	svc, err := CreateLLMService(cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Set %s or llm.api_key in the config file",
			domain.ErrLLMUnavailable, err, config.EnvOpenRouterKey)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the embedding service for the configured provider.
func CreateEmbeddingService(cfg config.EmbeddingConfig, limiter *ratelimit.Limiter) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		}), nil

	case config.ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			BatchSize:  cfg.BatchSize,
			Limiter:    limiter,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %q", cfg.Provider)
	}
}

// CreateLLMService creates the LLM service for the configured provider.
func CreateLLMService(cfg config.LLMConfig, limiter *ratelimit.Limiter) (driven.LLMService, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.DefaultModel,
			Timeout: cfg.Timeout(),
		}), nil

	case config.ProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.DefaultModel,
			Timeout: cfg.Timeout(),
			Limiter: limiter,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.Provider)
	}
}
