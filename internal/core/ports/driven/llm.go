package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// LLMService is a hosted chat-completion model.
//
// Implementations may include:
//   - OpenRouter and other OpenAI-compatible APIs
//   - Ollama (local models)
type LLMService interface {
	// Generate sends a single user prompt and returns the completion text.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Describe sends a prompt together with inline images and returns the
	// completion text. Images are sent in order after the prompt text.
	Describe(ctx context.Context, prompt string, images []domain.Frame, opts GenerateOptions) (string, error)

	// ModelName returns the model used when GenerateOptions.Model is empty.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures a single model call.
type GenerateOptions struct {
	// Model overrides the service's default model.
	Model string

	// MaxTokens is the maximum number of tokens to generate. Zero means the
	// provider default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
