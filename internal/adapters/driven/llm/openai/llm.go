// Package openai provides an LLM service adapter for OpenAI-compatible chat
// completion APIs. The default endpoint is OpenRouter.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/docchat/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://openrouter.ai/api/v1"
	DefaultLLMModel   = domain.DefaultModel
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds configuration for the LLM service.
type LLMConfig struct {
	// APIKey is the API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://openrouter.ai/api/v1).
	BaseURL string

	// Model is the default model (default: openai/gpt-oss-20b:free).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// Limiter paces requests. Nil disables pacing.
	Limiter *ratelimit.Limiter
}

// LLMService provides chat completions through go-openai.
type LLMService struct {
	client  *goopenai.Client
	model   string
	limiter *ratelimit.Limiter
}

// NewLLMService creates a new LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &LLMService{
		client:  goopenai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		limiter: cfg.Limiter,
	}, nil
}

// Generate sends prompt as a single user message.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	msg := goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: prompt,
	}
	return s.complete(ctx, msg, opts)
}

// Describe sends prompt followed by the images as inline data URL parts.
func (s *LLMService) Describe(
	ctx context.Context,
	prompt string,
	images []domain.Frame,
	opts driven.GenerateOptions,
) (string, error) {
	parts := make([]goopenai.ChatMessagePart, 0, len(images)+1)
	parts = append(parts, goopenai.ChatMessagePart{
		Type: goopenai.ChatMessagePartTypeText,
		Text: prompt,
	})
	for _, img := range images {
		parts = append(parts, goopenai.ChatMessagePart{
			Type:     goopenai.ChatMessagePartTypeImageURL,
			ImageURL: &goopenai.ChatMessageImageURL{URL: img.DataURL()},
		})
	}

	msg := goopenai.ChatCompletionMessage{
		Role:         goopenai.ChatMessageRoleUser,
		MultiContent: parts,
	}
	return s.complete(ctx, msg, opts)
}

func (s *LLMService) complete(
	ctx context.Context,
	msg goopenai.ChatCompletionMessage,
	opts driven.GenerateOptions,
) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	model := opts.Model
	if model == "" {
		model = s.model
	}

	req := goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    []goopenai.ChatCompletionMessage{msg},
		Temperature: float32(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", s.wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response choices returned", domain.ErrLLMUnavailable)
	}

	return resp.Choices[0].Message.Content, nil
}

func (s *LLMService) wrapError(err error) error {
	if statusCode(err) == http.StatusTooManyRequests {
		s.limiter.RecordRateLimit(0)
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
}

func statusCode(err error) int {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// ModelName returns the default model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the API key by listing models, without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return s.wrapError(err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
