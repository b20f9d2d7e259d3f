package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure VideoService implements the interface.
var _ driving.VideoService = (*VideoService)(nil)

// Video summary defaults.
const (
	DefaultVideoTemperature = 0.5
	DefaultVideoMaxTokens   = 1024
)

// VideoConfig holds video summarisation settings. Zero values use defaults.
type VideoConfig struct {
	MaxDuration  time.Duration
	MaxFrames    int
	MaxDimension int
	Model        string
	Temperature  float64
	MaxTokens    int
}

func (c VideoConfig) withDefaults() VideoConfig {
	if c.MaxDuration <= 0 {
		c.MaxDuration = domain.DefaultMaxVideoDuration
	}
	if c.MaxFrames <= 0 {
		c.MaxFrames = domain.DefaultMaxFrames
	}
	if c.MaxDimension <= 0 {
		c.MaxDimension = domain.DefaultMaxFrameDim
	}
	if c.Model == "" {
		c.Model = domain.DefaultVisionModel
	}
	if c.Temperature <= 0 {
		c.Temperature = DefaultVideoTemperature
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultVideoMaxTokens
	}
	return c
}

// VideoService summarises short videos with a vision model.
type VideoService struct {
	frames  driven.FrameExtractor
	llm     driven.LLMService
	prompts driven.PromptStore
	cfg     VideoConfig
}

// NewVideoService creates a video service. llm and prompts may be nil.
func NewVideoService(
	frames driven.FrameExtractor,
	llm driven.LLMService,
	prompts driven.PromptStore,
	cfg VideoConfig,
) *VideoService {
	return &VideoService{
		frames:  frames,
		llm:     llm,
		prompts: prompts,
		cfg:     cfg.withDefaults(),
	}
}

// MaxDuration returns the duration ceiling in seconds.
func (s *VideoService) MaxDuration() float64 {
	return s.cfg.MaxDuration.Seconds()
}

// Summarize rejects videos over the ceiling before any frame is decoded,
// then samples frames and summarises them.
func (s *VideoService) Summarize(ctx context.Context, path string) (string, error) {
	if s.frames == nil {
		return "", fmt.Errorf("%w: no frame extractor configured", domain.ErrExtractorUnavailable)
	}

	duration, err := s.frames.Probe(ctx, path)
	if err != nil {
		return "", err
	}
	if duration < 0 {
		return "", fmt.Errorf("%w: negative video duration", domain.ErrInvalidInput)
	}
	if duration > s.cfg.MaxDuration {
		return "", fmt.Errorf("%w: %.1fs exceeds the %gs limit",
			domain.ErrVideoTooLong, duration.Seconds(), s.cfg.MaxDuration.Seconds())
	}

	frames, err := s.frames.Extract(ctx, path, domain.FrameOptions{
		MaxFrames:    s.cfg.MaxFrames,
		MaxDimension: s.cfg.MaxDimension,
	})
	if err != nil {
		return "", err
	}
	logger.Debug("Sampled %d frames from %.1fs video", len(frames), duration.Seconds())

	return s.SummarizeFrames(ctx, frames), nil
}

// SummarizeFrames sends the frames to the vision model. Failures are
// reported in the returned text.
func (s *VideoService) SummarizeFrames(ctx context.Context, frames []domain.Frame) string {
	if len(frames) == 0 {
		return domain.NoFramesResponse
	}
	if s.llm == nil {
		return fmt.Sprintf("Error generating summary: %v", domain.ErrLLMUnavailable)
	}

	summary, err := s.llm.Describe(ctx, s.prompt(), frames, driven.GenerateOptions{
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		logger.Warn("Video summary failed: %v", err)
		return fmt.Sprintf("Error generating summary: %v", err)
	}
	return strings.TrimSpace(summary)
}

func (s *VideoService) prompt() string {
	if s.prompts == nil {
		return domain.DefaultVideoSummaryPrompt
	}
	p, err := s.prompts.Load(driven.PromptVideoSummary)
	if err != nil || strings.TrimSpace(p) == "" {
		return domain.DefaultVideoSummaryPrompt
	}
	return p
}
