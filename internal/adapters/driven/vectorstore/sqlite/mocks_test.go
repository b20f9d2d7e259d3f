package sqlite

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
)

// hashEmbedder is a deterministic bag-of-words embedder for tests.
type hashEmbedder struct {
	model string
	dims  int
	calls int
	err   error
}

func newHashEmbedder(model string) *hashEmbedder {
	return &hashEmbedder{model: model, dims: 64}
}

func (e *hashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vs[0], nil
}

func (e *hashEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, e.dims)
		for _, w := range strings.Fields(strings.ToLower(t)) {
			h := fnv.New32a()
			h.Write([]byte(w))
			v[h.Sum32()%uint32(e.dims)]++
		}
		out[i] = v
	}
	return out, nil
}

func (e *hashEmbedder) Dimensions() int              { return e.dims }
func (e *hashEmbedder) ModelName() string            { return e.model }
func (e *hashEmbedder) Ping(_ context.Context) error { return nil }
func (e *hashEmbedder) Close() error                 { return nil }

var errEmbeddingDown = errors.New("connection refused")
