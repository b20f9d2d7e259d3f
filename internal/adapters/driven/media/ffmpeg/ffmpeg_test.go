package ffmpeg

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// call records one runner invocation.
type call struct {
	name string
	args []string
}

// mockRunner answers ffprobe with a fixed duration and ffmpeg with a fake JPEG.
type mockRunner struct {
	mu       sync.Mutex
	calls    []call
	duration string
	probeErr error
	frameErr func(i int) error
	frames   int
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{name: name, args: args})

	switch name {
	case "ffprobe":
		if m.probeErr != nil {
			return nil, m.probeErr
		}
		return []byte(m.duration + "\n"), nil
	case "ffmpeg":
		i := m.frames
		m.frames++
		if m.frameErr != nil {
			if err := m.frameErr(i); err != nil {
				return nil, err
			}
		}
		return []byte{0xFF, 0xD8, byte(i)}, nil
	}
	return nil, errors.New("unexpected command " + name)
}

func (m *mockRunner) ffmpegCalls() []call {
	var out []call
	for _, c := range m.calls {
		if c.name == "ffmpeg" {
			out = append(out, c)
		}
	}
	return out
}

func argAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func TestProbe(t *testing.T) {
	runner := &mockRunner{duration: "12.480000"}

	d, err := NewWithRunner(runner).Probe(context.Background(), "clip.mp4")

	require.NoError(t, err)
	assert.Equal(t, 12480*time.Millisecond, d)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "ffprobe", runner.calls[0].name)
	assert.Equal(t, "clip.mp4", runner.calls[0].args[len(runner.calls[0].args)-1])
}

func TestProbe_OutOfRangeSaturates(t *testing.T) {
	for _, out := range []string{"inf", "+Inf", "1e300", "9223372037"} {
		t.Run(out, func(t *testing.T) {
			d, err := NewWithRunner(&mockRunner{duration: out}).Probe(context.Background(), "x")

			require.NoError(t, err)
			assert.Equal(t, time.Duration(math.MaxInt64), d)
			assert.Greater(t, d, domain.DefaultMaxVideoDuration)
		})
	}
}

func TestProbe_Errors(t *testing.T) {
	t.Run("unreadable output", func(t *testing.T) {
		_, err := NewWithRunner(&mockRunner{duration: "N/A"}).Probe(context.Background(), "x")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	for _, out := range []string{"nan", "NaN", "-inf", "-3"} {
		t.Run("rejects "+out, func(t *testing.T) {
			_, err := NewWithRunner(&mockRunner{duration: out}).Probe(context.Background(), "x")
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	t.Run("ffprobe fails", func(t *testing.T) {
		_, err := NewWithRunner(&mockRunner{probeErr: errors.New("invalid data")}).Probe(context.Background(), "x")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "invalid data")
	})

	t.Run("tool missing", func(t *testing.T) {
		f := &FrameExtractor{
			runner:   &mockRunner{},
			lookPath: func(string) (string, error) { return "", errors.New("nope") },
		}
		_, err := f.Probe(context.Background(), "x")
		assert.ErrorIs(t, err, ErrToolNotFound)
		assert.ErrorIs(t, err, domain.ErrExtractorUnavailable)
	})
}

func TestSampleTimes(t *testing.T) {
	assert.Equal(t,
		[]time.Duration{0, time.Second, 2 * time.Second, 3 * time.Second},
		SampleTimes(4*time.Second, 4))
	assert.Nil(t, SampleTimes(0, 8))
	assert.Nil(t, SampleTimes(time.Second, 0))

	times := SampleTimes(10*time.Second, 8)
	require.Len(t, times, 8)
	for i := 1; i < len(times); i++ {
		assert.Greater(t, times[i], times[i-1])
	}
	assert.Less(t, times[7], 10*time.Second)
}

func TestExtract(t *testing.T) {
	runner := &mockRunner{duration: "8.0"}

	frames, err := NewWithRunner(runner).Extract(context.Background(), "clip.mp4", domain.FrameOptions{
		MaxFrames: 4, MaxDimension: 512,
	})
	require.NoError(t, err)

	require.Len(t, frames, 4)
	for i, f := range frames {
		assert.Equal(t, "image/jpeg", f.MIMEType)
		assert.Equal(t, byte(i), f.Data[2], "frames in timestamp order")
	}

	calls := runner.ffmpegCalls()
	require.Len(t, calls, 4)
	assert.Equal(t, "0.000", argAfter(calls[0].args, "-ss"))
	assert.Equal(t, "2.000", argAfter(calls[1].args, "-ss"))
	assert.Equal(t, "6.000", argAfter(calls[3].args, "-ss"))
	assert.True(t, strings.Contains(argAfter(calls[0].args, "-vf"), "min(512,iw)"))
	assert.Equal(t, "1", argAfter(calls[0].args, "-frames:v"))
}

func TestExtract_Defaults(t *testing.T) {
	runner := &mockRunner{duration: "5"}

	frames, err := NewWithRunner(runner).Extract(context.Background(), "clip.mp4", domain.FrameOptions{})
	require.NoError(t, err)

	assert.Len(t, frames, domain.DefaultMaxFrames)
	assert.Contains(t, argAfter(runner.ffmpegCalls()[0].args, "-vf"), "min(768,ih)")
}

func TestExtract_SkipsFailedSamples(t *testing.T) {
	runner := &mockRunner{
		duration: "8",
		frameErr: func(i int) error {
			if i%2 == 1 {
				return errors.New("decode error")
			}
			return nil
		},
	}

	frames, err := NewWithRunner(runner).Extract(context.Background(), "clip.mp4", domain.FrameOptions{MaxFrames: 4})

	require.NoError(t, err)
	assert.Len(t, frames, 2)
}

func TestExtract_NoFrames(t *testing.T) {
	runner := &mockRunner{
		duration: "3",
		frameErr: func(int) error { return errors.New("decode error") },
	}

	frames, err := NewWithRunner(runner).Extract(context.Background(), "clip.mp4", domain.FrameOptions{MaxFrames: 3})

	require.NoError(t, err)
	assert.Empty(t, frames)
}

func TestInstallInstructions(t *testing.T) {
	assert.Contains(t, InstallInstructions(), "brew install ffmpeg")
	assert.Contains(t, InstallInstructions(), "apt install ffmpeg")
}
