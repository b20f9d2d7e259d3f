package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// FrameExtractor samples still frames from a video file.
type FrameExtractor interface {
	// Probe returns the video's duration without decoding frames.
	Probe(ctx context.Context, path string) (time.Duration, error)

	// Extract returns up to opts.MaxFrames uniformly spaced frames in order,
	// each scaled so its longer side is at most opts.MaxDimension.
	Extract(ctx context.Context, path string, opts domain.FrameOptions) ([]domain.Frame, error)
}
