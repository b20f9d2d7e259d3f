package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// TextExtractor converts an uploaded file into raw text.
type TextExtractor interface {
	// Extensions returns the lower-cased file extensions handled, with dot.
	Extensions() []string

	// Extract returns the document's text.
	Extract(ctx context.Context, doc domain.Document) (string, error)
}

// ExtractorRegistry dispatches documents to extractors by file extension.
type ExtractorRegistry interface {
	// Extract returns the document's text. Documents with an unsupported
	// extension yield empty text and ok=false rather than an error.
	Extract(ctx context.Context, doc domain.Document) (text string, ok bool, err error)

	// Register adds an extractor, replacing any previous one for the same extensions.
	Register(extractor TextExtractor)

	// SupportedExtensions returns all extensions that can be extracted.
	SupportedExtensions() []string
}

// TextSplitter splits raw text into overlapping chunks.
type TextSplitter interface {
	// Split returns the chunks of text in order. Empty text yields no chunks.
	Split(text string) []string
}
