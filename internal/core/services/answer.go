package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// DefaultAnswerTemperature keeps answers close to the retrieved context.
const DefaultAnswerTemperature = 0.3

// contextSeparator joins retrieved chunks in the prompt.
const contextSeparator = "\n\n"

// AnswerGenerator turns a question and retrieved chunks into an answer.
// Failures are reported in the returned text, never as errors.
type AnswerGenerator struct {
	llm         driven.LLMService
	prompts     driven.PromptStore
	temperature float64
	models      domain.ModelCatalog
}

// AnswerOption configures an AnswerGenerator.
type AnswerOption func(*AnswerGenerator)

// WithModels sets the models the LLM provider serves. Defaults to
// domain.HostedCatalog.
func WithModels(models domain.ModelCatalog) AnswerOption {
	return func(g *AnswerGenerator) {
		if models.Default != "" {
			g.models = models
		}
	}
}

// NewAnswerGenerator creates an answer generator. llm and prompts may be
// nil; a nil LLM yields an error answer and a nil prompt store uses the
// built-in template. temperature <= 0 uses DefaultAnswerTemperature.
func NewAnswerGenerator(
	llm driven.LLMService, prompts driven.PromptStore, temperature float64, opts ...AnswerOption,
) *AnswerGenerator {
	if temperature <= 0 {
		temperature = DefaultAnswerTemperature
	}
	g := &AnswerGenerator{
		llm:         llm,
		prompts:     prompts,
		temperature: temperature,
		models:      domain.HostedCatalog(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Models returns the models this generator accepts.
func (g *AnswerGenerator) Models() domain.ModelCatalog {
	return g.models
}

// Answer asks the selected model to answer from the chunks only. An empty
// model selects the catalog's default.
func (g *AnswerGenerator) Answer(ctx context.Context, question string, chunks []domain.Chunk, model string) string {
	logger.Section("Generate")

	model, ok := g.models.Resolve(model)
	if !ok {
		return fmt.Sprintf("Error: model %q is not available", model)
	}
	if g.llm == nil {
		return fmt.Sprintf("Error generating answer: %v", domain.ErrLLMUnavailable)
	}

	prompt := fmt.Sprintf(g.template(), joinChunks(chunks), question)
	logger.Debug("Prompting %s with %d chunks (%d chars)", model, len(chunks), len(prompt))

	answer, err := g.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Model:       model,
		Temperature: g.temperature,
	})
	if err != nil {
		logger.Warn("Answer generation failed: %v", err)
		return fmt.Sprintf("Error generating answer: %v", err)
	}
	return strings.TrimSpace(answer)
}

func (g *AnswerGenerator) template() string {
	if g.prompts == nil {
		return domain.DefaultAnswerPrompt
	}
	tmpl, err := g.prompts.Load(driven.PromptAnswer)
	if err != nil || strings.Count(tmpl, "%s") != 2 {
		logger.Debug("Using built-in answer prompt: %v", err)
		return domain.DefaultAnswerPrompt
	}
	return tmpl
}

func joinChunks(chunks []domain.Chunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}
	return strings.Join(parts, contextSeparator)
}
