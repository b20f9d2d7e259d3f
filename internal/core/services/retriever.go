package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 4

// Retriever finds the chunks of a session index most similar to a query.
type Retriever struct {
	embedder driven.EmbeddingService
	topK     int
}

// NewRetriever creates a retriever. The embedder must be the one the
// indices were built with. topK <= 0 uses DefaultTopK.
func NewRetriever(embedder driven.EmbeddingService, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{embedder: embedder, topK: topK}
}

// TopK returns the default number of chunks returned by Search.
func (r *Retriever) TopK() int {
	return r.topK
}

// Search embeds the query and returns the k most similar chunks, most
// similar first. k <= 0 uses the retriever's default. No similarity
// threshold is applied.
func (r *Retriever) Search(ctx context.Context, index driven.VectorIndex, query string, k int) ([]domain.Chunk, error) {
	logger.Section("Retrieve")

	if index == nil {
		return nil, fmt.Errorf("%w: no index loaded", domain.ErrIndexUnavailable)
	}
	if r.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding service configured", domain.ErrEmbeddingUnavailable)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = r.topK
	}

	if built, current := index.ModelName(), r.embedder.ModelName(); built != current {
		return nil, fmt.Errorf("%w: index built with %q, querying with %q",
			domain.ErrEmbeddingModelMismatch, built, current)
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	hits, err := index.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}

	chunks := make([]domain.Chunk, len(hits))
	for i, h := range hits {
		chunks[i] = domain.Chunk{Content: h.Content, Score: h.Similarity}
	}
	logger.Debug("Retrieved %d of %d chunks", len(chunks), index.Len())
	return chunks, nil
}
