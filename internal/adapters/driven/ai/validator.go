package ai

import (
	"errors"
	"time"

	"github.com/custodia-labs/docchat/internal/config"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CheckResult is the outcome of validating one provider.
type CheckResult struct {
	Name     string
	Provider string
	Model    string
	Err      error
}

// OK reports whether the provider was reachable.
func (r CheckResult) OK() bool {
	return r.Err == nil
}

// ConfigValidator validates AI provider configurations by pinging them.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding validates an embedding configuration by pinging the provider.
func (v *ConfigValidator) ValidateEmbedding(cfg config.EmbeddingConfig) error {
	svc, err := CreateAndValidateEmbeddingService(cfg)
	if err != nil {
		return err
	}
	return svc.Close()
}

// ValidateLLM validates an LLM configuration by pinging the provider.
func (v *ConfigValidator) ValidateLLM(cfg config.LLMConfig) error {
	svc, err := CreateAndValidateLLMService(cfg)
	if err != nil {
		return err
	}
	return svc.Close()
}

// Check validates both providers and returns one result for each.
func (v *ConfigValidator) Check(cfg *config.Config) ([]CheckResult, error) {
	results := []CheckResult{
		{
			Name:     "embedding",
			Provider: cfg.Embedding.Provider,
			Model:    cfg.Embedding.Model,
			Err:      v.ValidateEmbedding(cfg.Embedding),
		},
		{
			Name:     "llm",
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.DefaultModel,
			Err:      v.ValidateLLM(cfg.LLM),
		},
	}

	var errs []error
	for _, r := range results {
		errs = append(errs, r.Err)
	}
	return results, errors.Join(errs...)
}
