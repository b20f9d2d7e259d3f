package extractors

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/extractors/docx"
	"github.com/custodia-labs/docchat/internal/extractors/html"
	"github.com/custodia-labs/docchat/internal/extractors/markdown"
	"github.com/custodia-labs/docchat/internal/extractors/pdf"
	"github.com/custodia-labs/docchat/internal/extractors/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches documents to extractors by file extension.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]driven.TextExtractor
}

// NewRegistry creates a registry holding the given extractors.
func NewRegistry(extractors ...driven.TextExtractor) *Registry {
	r := &Registry{byExt: make(map[string]driven.TextExtractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Default returns a registry with every built-in extractor.
func Default() *Registry {
	return NewRegistry(
		plaintext.New(),
		docx.New(),
		pdf.New(),
		markdown.New(),
		html.New(),
	)
}

// Register adds an extractor, replacing any previous one for the same extensions.
func (r *Registry) Register(extractor driven.TextExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range extractor.Extensions() {
		r.byExt[strings.ToLower(ext)] = extractor
	}
}

// Extract returns the document's text. Unsupported extensions yield
// ok=false and no error.
func (r *Registry) Extract(ctx context.Context, doc domain.Document) (string, bool, error) {
	r.mu.RLock()
	extractor, ok := r.byExt[doc.Extension()]
	r.mu.RUnlock()
	if !ok {
		return "", false, nil
	}

	text, err := extractor.Extract(ctx, doc)
	if err != nil {
		return "", true, fmt.Errorf("extract %s: %w", doc.Name, err)
	}
	return text, true, nil
}

// SupportedExtensions returns all extensions that can be extracted, sorted.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
