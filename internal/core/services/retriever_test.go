package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func buildIndex(t *testing.T, embedder *mockEmbedder, chunks []string) *mockIndex {
	t.Helper()
	vecs, err := embedder.EmbedBatch(context.Background(), chunks)
	require.NoError(t, err)
	return &mockIndex{model: embedder.ModelName(), chunks: chunks, vectors: vecs}
}

func TestNewRetriever_DefaultTopK(t *testing.T) {
	assert.Equal(t, DefaultTopK, NewRetriever(newMockEmbedder(), 0).TopK())
	assert.Equal(t, 7, NewRetriever(newMockEmbedder(), 7).TopK())
}

func TestRetriever_Search(t *testing.T) {
	embedder := newMockEmbedder()
	chunks := []string{
		"invoices are paid within thirty days",
		"the office is closed on public holidays",
		"passwords rotate every ninety days",
		"lunch is served at noon",
		"parking permits are issued by facilities",
		"security badges must be worn at all times",
	}
	idx := buildIndex(t, embedder, chunks)

	got, err := NewRetriever(embedder, 0).Search(context.Background(), idx, "when are invoices paid", 0)

	require.NoError(t, err)
	require.Len(t, got, DefaultTopK)
	assert.Equal(t, chunks[0], got[0].Content)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestRetriever_Search_ExplicitK(t *testing.T) {
	embedder := newMockEmbedder()
	idx := buildIndex(t, embedder, []string{"a b", "c d", "e f"})

	got, err := NewRetriever(embedder, 0).Search(context.Background(), idx, "a", 2)

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRetriever_Search_FewerChunksThanK(t *testing.T) {
	embedder := newMockEmbedder()
	idx := buildIndex(t, embedder, []string{"only chunk"})

	got, err := NewRetriever(embedder, 4).Search(context.Background(), idx, "anything", 0)

	require.NoError(t, err)
	assert.Len(t, got, 1, "no similarity threshold filters the only chunk")
}

func TestRetriever_Search_Errors(t *testing.T) {
	embedder := newMockEmbedder()
	idx := buildIndex(t, embedder, []string{"text"})
	ctx := context.Background()

	t.Run("model mismatch", func(t *testing.T) {
		other := &mockEmbedder{model: "other-model"}
		_, err := NewRetriever(other, 0).Search(ctx, idx, "text", 0)
		assert.ErrorIs(t, err, domain.ErrEmbeddingModelMismatch)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewRetriever(nil, 0).Search(ctx, idx, "text", 0)
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})

	t.Run("nil index", func(t *testing.T) {
		_, err := NewRetriever(embedder, 0).Search(ctx, nil, "text", 0)
		assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := NewRetriever(embedder, 0).Search(ctx, idx, "  ", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("embed failure", func(t *testing.T) {
		failing := &mockEmbedder{model: embedder.model, err: errUpstream}
		_, err := NewRetriever(failing, 0).Search(ctx, idx, "text", 0)
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
		assert.ErrorIs(t, err, errUpstream)
	})

	t.Run("rate limited passes through", func(t *testing.T) {
		limited := &mockEmbedder{model: embedder.model, err: domain.ErrRateLimited}
		_, err := NewRetriever(limited, 0).Search(ctx, idx, "text", 0)
		assert.ErrorIs(t, err, domain.ErrRateLimited)
	})

	t.Run("search failure", func(t *testing.T) {
		broken := buildIndex(t, embedder, []string{"text"})
		broken.searchErr = errUpstream
		_, err := NewRetriever(embedder, 0).Search(ctx, broken, "text", 0)
		assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
	})
}
