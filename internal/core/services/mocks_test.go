package services

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder is a deterministic bag-of-words embedder.
type mockEmbedder struct {
	model string
	err   error
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{model: "mock-embed"}
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vs[0], nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, 64)
		for _, w := range strings.Fields(strings.ToLower(t)) {
			h := fnv.New32a()
			h.Write([]byte(strings.Trim(w, ".,?!")))
			v[h.Sum32()%64]++
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return 64 }
func (m *mockEmbedder) ModelName() string            { return m.model }
func (m *mockEmbedder) Ping(_ context.Context) error { return m.err }
func (m *mockEmbedder) Close() error                 { return nil }

// mockIndexStore keeps session indices in memory.
type mockIndexStore struct {
	mu        sync.Mutex
	embedder  *mockEmbedder
	indices   map[string]*mockIndex
	buildErr  error
	loadErr   error
	deleteErr error
	builds    int
}

func newMockIndexStore(embedder *mockEmbedder) *mockIndexStore {
	return &mockIndexStore{embedder: embedder, indices: make(map[string]*mockIndex)}
}

func (m *mockIndexStore) Build(ctx context.Context, sessionID string, chunks []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.builds++
	if m.buildErr != nil {
		return m.buildErr
	}
	vecs, err := m.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return err
	}
	m.indices[sessionID] = &mockIndex{model: m.embedder.ModelName(), chunks: chunks, vectors: vecs}
	return nil
}

func (m *mockIndexStore) Load(_ context.Context, sessionID string) (driven.VectorIndex, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	idx, ok := m.indices[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return idx, nil
}

func (m *mockIndexStore) Exists(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.indices[sessionID]
	return ok
}

func (m *mockIndexStore) Delete(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.indices, sessionID)
	return nil
}

func (m *mockIndexStore) chunks(sessionID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx, ok := m.indices[sessionID]; ok {
		return idx.chunks
	}
	return nil
}

// mockIndex is a loaded in-memory index with cosine search.
type mockIndex struct {
	model     string
	chunks    []string
	vectors   [][]float32
	searchErr error
}

func (m *mockIndex) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	hits := make([]driven.VectorHit, len(m.chunks))
	for i, c := range m.chunks {
		hits[i] = driven.VectorHit{Position: i, Content: c, Similarity: cosine(query, m.vectors[i])}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func (m *mockIndex) ModelName() string { return m.model }
func (m *mockIndex) Len() int          { return len(m.chunks) }
func (m *mockIndex) Close() error      { return nil }

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// mockLLM records prompts and returns a canned reply.
type mockLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
	opts    []driven.GenerateOptions
	images  [][]domain.Frame
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) Describe(_ context.Context, prompt string, images []domain.Frame, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	m.images = append(m.images, images)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string            { return domain.DefaultModel }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// mockPromptStore serves prompts from a map.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockHistoryRepo holds records in memory.
type mockHistoryRepo struct {
	mu        sync.Mutex
	records   []domain.ChatRecord
	loadErr   error
	updateErr error
	updates   int
}

func (m *mockHistoryRepo) Load(_ context.Context) ([]domain.ChatRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]domain.ChatRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *mockHistoryRepo) Update(_ context.Context, fn func([]domain.ChatRecord) ([]domain.ChatRecord, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	if m.updateErr != nil {
		return m.updateErr
	}
	in := make([]domain.ChatRecord, len(m.records))
	copy(in, m.records)
	out, err := fn(in)
	if err != nil {
		return err
	}
	m.records = out
	return nil
}

func (m *mockHistoryRepo) Close() error { return nil }

// mockFrameExtractor returns a fixed duration and frames.
type mockFrameExtractor struct {
	duration time.Duration
	frames   []domain.Frame
	probeErr error
	extracts int
	opts     domain.FrameOptions
}

func (m *mockFrameExtractor) Probe(_ context.Context, _ string) (time.Duration, error) {
	return m.duration, m.probeErr
}

func (m *mockFrameExtractor) Extract(_ context.Context, _ string, opts domain.FrameOptions) ([]domain.Frame, error) {
	m.extracts++
	m.opts = opts
	return m.frames, nil
}

var errUpstream = errors.New("upstream exploded")
