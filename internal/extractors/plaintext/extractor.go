// Package plaintext extracts text from UTF-8 text files.
package plaintext

import (
	"bytes"
	"context"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".txt"}
}

// Extract returns the file content with a leading BOM removed and invalid
// UTF-8 sequences replaced by U+FFFD.
func (e *Extractor) Extract(_ context.Context, doc domain.Document) (string, error) {
	return Decode(doc.Content), nil
}

// Decode converts raw bytes to valid UTF-8 text.
func Decode(content []byte) string {
	content = bytes.TrimPrefix(content, utf8BOM)
	return strings.ToValidUTF8(string(content), "�")
}
