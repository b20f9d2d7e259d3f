// Package chunker splits raw text into overlapping, boundary-aware chunks.
package chunker

import (
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 10000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 1000

// Ensure Splitter implements the interface.
var _ driven.TextSplitter = (*Splitter)(nil)

// separatorTiers lists chunk boundaries from most to least preferred.
// Within a tier the latest occurrence wins.
var separatorTiers = [][]string{
	{"\n\n"},
	{"\n"},
	{". ", "? ", "! "},
	{" "},
}

// Splitter splits text into windows of at most chunkSize characters.
// Each window after the first starts exactly overlap characters before the
// end of the previous one, so chunks[0] + chunks[1][overlap:] + ...
// reconstructs the input. Lengths are counted in runes.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a new splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Split splits text using the given size and overlap.
func Split(text string, size, overlap int) []string {
	return New(WithChunkSize(size), WithOverlap(overlap)).Split(text)
}

// ChunkSize returns the configured chunk size.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split returns the chunks of text in order.
// Text no longer than the chunk size is returned as a single chunk and
// empty text produces no chunks.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)
	if n <= s.chunkSize {
		return []string{text}
	}

	chunks := make([]string, 0, n/(s.chunkSize-s.overlap)+1)
	start := 0
	for {
		if n-start <= s.chunkSize {
			chunks = append(chunks, string(runes[start:]))
			return chunks
		}

		end := s.boundary(runes, start)
		chunks = append(chunks, string(runes[start:end]))
		start = end - s.overlap
	}
}

// boundary returns the end of the window starting at start. It prefers the
// latest natural boundary in the second half of the window, which also
// keeps every window longer than the overlap so the loop always advances.
func (s *Splitter) boundary(runes []rune, start int) int {
	limit := start + s.chunkSize
	minEnd := start + max(s.overlap+1, s.chunkSize/2)

	for _, tier := range separatorTiers {
		best := -1
		for _, sep := range tier {
			if end := lastEndOf(runes, []rune(sep), minEnd, limit); end > best {
				best = end
			}
		}
		if best > 0 {
			return best
		}
	}

	return limit
}

// lastEndOf returns the largest e in [minEnd, limit] such that sep ends at
// e, or -1 if there is none.
func lastEndOf(runes, sep []rune, minEnd, limit int) int {
	for e := limit; e >= minEnd; e-- {
		i := e - len(sep)
		if i < 0 {
			break
		}
		if hasPrefixAt(runes, sep, i) {
			return e
		}
	}
	return -1
}

func hasPrefixAt(runes, sep []rune, i int) bool {
	if i+len(sep) > len(runes) {
		return false
	}
	for j, r := range sep {
		if runes[i+j] != r {
			return false
		}
	}
	return true
}
