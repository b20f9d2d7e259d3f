package domain

import (
	"encoding/base64"
	"time"
)

// Video defaults.
const (
	DefaultMaxVideoDuration = 10 * time.Second
	DefaultMaxFrames        = 8
	DefaultMaxFrameDim      = 768
)

// NoFramesResponse is returned when a video yields no frames.
const NoFramesResponse = "No frames could be extracted from the video."

// Frame is a still image sampled from a video.
type Frame struct {
	// MIMEType is the image encoding, e.g. image/jpeg.
	MIMEType string

	// Data holds the encoded image bytes.
	Data []byte
}

// DataURL returns the frame as an inline data URL.
func (f Frame) DataURL() string {
	mime := f.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

// Base64 returns the frame data base64 encoded without a data URL prefix.
func (f Frame) Base64() string {
	return base64.StdEncoding.EncodeToString(f.Data)
}

// FrameOptions bounds frame extraction.
type FrameOptions struct {
	// MaxFrames is the number of uniformly spaced frames to sample.
	MaxFrames int

	// MaxDimension caps the longer side of each frame, in pixels.
	MaxDimension int
}
