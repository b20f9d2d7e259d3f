package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// VideoService summarises short videos.
type VideoService interface {
	// Summarize checks the duration ceiling, samples frames and returns a
	// narrative summary. Returns domain.ErrVideoTooLong without extracting
	// anything when the video exceeds the ceiling.
	Summarize(ctx context.Context, path string) (string, error)

	// SummarizeFrames returns a narrative summary of already sampled frames.
	SummarizeFrames(ctx context.Context, frames []domain.Frame) string

	// MaxDuration returns the configured duration ceiling in seconds.
	MaxDuration() float64
}
