package sqlite

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

type entry struct {
	position int
	content  string
	vector   []float32
	norm     float64
}

// Index is a loaded session index searched by exact cosine similarity.
type Index struct {
	model      string
	dimensions int
	entries    []entry
}

func newIndex(model string, dimensions int, contents []string, vectors [][]float32) *Index {
	idx := &Index{
		model:      model,
		dimensions: dimensions,
		entries:    make([]entry, len(contents)),
	}
	for i := range contents {
		idx.entries[i] = entry{
			position: i,
			content:  contents[i],
			vector:   vectors[i],
			norm:     norm(vectors[i]),
		}
	}
	return idx
}

// Search returns the k chunks most similar to query, most similar first.
// Ties are broken by build order.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrEmbeddingModelMismatch, len(query), idx.dimensions)
	}
	if k <= 0 || len(idx.entries) == 0 {
		return nil, nil
	}

	qnorm := norm(query)
	hits := make([]driven.VectorHit, len(idx.entries))
	for i := range idx.entries {
		e := &idx.entries[i]
		hits[i] = driven.VectorHit{
			Position:   e.position,
			Content:    e.content,
			Similarity: cosine(query, e.vector, qnorm, e.norm),
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Position < hits[j].Position
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// ModelName returns the embedding model the index was built with.
func (idx *Index) ModelName() string {
	return idx.model
}

// Dimensions returns the vector size of the index.
func (idx *Index) Dimensions() int {
	return idx.dimensions
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Close releases resources. Loaded indices hold no open handles.
func (idx *Index) Close() error {
	return nil
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a, b []float32, anorm, bnorm float64) float64 {
	if anorm == 0 || bnorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (anorm * bnorm)
}
