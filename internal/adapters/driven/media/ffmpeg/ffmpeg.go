// Package ffmpeg samples still frames from video files using the ffprobe
// and ffmpeg command-line tools.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure FrameExtractor implements the interface.
var _ driven.FrameExtractor = (*FrameExtractor)(nil)

// ErrToolNotFound is returned when ffmpeg or ffprobe is not installed.
var ErrToolNotFound = errors.New("ffmpeg/ffprobe not found in PATH")

// jpegQuality is ffmpeg's -q:v scale, 2 (best) to 31 (worst).
const jpegQuality = "4"

// CommandRunner executes an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// FrameExtractor implements driven.FrameExtractor with ffmpeg.
type FrameExtractor struct {
	runner   CommandRunner
	lookPath func(string) (string, error)
}

// New creates a frame extractor that runs ffmpeg and ffprobe from PATH.
func New() *FrameExtractor {
	return &FrameExtractor{runner: execRunner{}, lookPath: exec.LookPath}
}

// NewWithRunner creates a frame extractor with a custom command runner.
// The PATH check is skipped.
func NewWithRunner(runner CommandRunner) *FrameExtractor {
	return &FrameExtractor{runner: runner}
}

// Probe returns the container duration reported by ffprobe.
func (f *FrameExtractor) Probe(ctx context.Context, path string) (time.Duration, error) {
	if err := f.check("ffprobe"); err != nil {
		return 0, err
	}

	out, err := f.runner.Run(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe failed: %w", domain.ErrInvalidInput, err)
	}

	return parseDuration(string(out))
}

// Extract samples opts.MaxFrames frames at uniform timestamps i*d/n and
// returns them as JPEG images bounded by opts.MaxDimension. Samples that
// yield no image are skipped.
func (f *FrameExtractor) Extract(ctx context.Context, path string, opts domain.FrameOptions) ([]domain.Frame, error) {
	if opts.MaxFrames <= 0 {
		opts.MaxFrames = domain.DefaultMaxFrames
	}
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = domain.DefaultMaxFrameDim
	}
	if err := f.check("ffmpeg"); err != nil {
		return nil, err
	}

	duration, err := f.Probe(ctx, path)
	if err != nil {
		return nil, err
	}

	frames := make([]domain.Frame, 0, opts.MaxFrames)
	for _, at := range SampleTimes(duration, opts.MaxFrames) {
		data, err := f.runner.Run(ctx, "ffmpeg", frameArgs(path, at, opts.MaxDimension)...)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if len(data) == 0 {
			continue
		}
		frames = append(frames, domain.Frame{MIMEType: "image/jpeg", Data: data})
	}
	return frames, nil
}

func (f *FrameExtractor) check(tool string) error {
	if f.lookPath == nil {
		return nil
	}
	if _, err := f.lookPath(tool); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExtractorUnavailable, ErrToolNotFound)
	}
	return nil
}

// SampleTimes returns n uniformly spaced timestamps i*d/n for i in [0, n).
func SampleTimes(d time.Duration, n int) []time.Duration {
	if n <= 0 || d <= 0 {
		return nil
	}
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = time.Duration(int64(d) * int64(i) / int64(n))
	}
	return out
}

// frameArgs builds an ffmpeg invocation that writes one JPEG to stdout.
func frameArgs(path string, at time.Duration, maxDim int) []string {
	scale := fmt.Sprintf("scale='min(%d,iw)':'min(%d,ih)':force_original_aspect_ratio=decrease", maxDim, maxDim)
	return []string{
		"-v", "error",
		"-ss", strconv.FormatFloat(at.Seconds(), 'f', 3, 64),
		"-i", path,
		"-frames:v", "1",
		"-vf", scale,
		"-q:v", jpegQuality,
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-",
	}
}

// maxDurationSeconds is the longest duration time.Duration can hold.
const maxDurationSeconds = float64(math.MaxInt64) / float64(time.Second)

// parseDuration parses ffprobe's duration output in seconds. Infinite or
// out-of-range durations saturate at the largest time.Duration so any
// length ceiling still rejects them.
func parseDuration(out string) (time.Duration, error) {
	s := strings.TrimSpace(out)
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(secs) || secs < 0 {
		return 0, fmt.Errorf("%w: unreadable video duration %q", domain.ErrInvalidInput, s)
	}
	if secs >= maxDurationSeconds {
		return time.Duration(math.MaxInt64), nil
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// CheckAvailable reports whether ffmpeg and ffprobe are installed.
func CheckAvailable() error {
	for _, tool := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(tool); err != nil {
			return ErrToolNotFound
		}
	}
	return nil
}

// InstallInstructions returns platform hints for installing ffmpeg.
func InstallInstructions() string {
	return `Video support requires ffmpeg and ffprobe:
  macOS:          brew install ffmpeg
  Debian/Ubuntu:  sudo apt install ffmpeg
  Fedora:         sudo dnf install ffmpeg`
}
