package driven

import "context"

// VectorIndexStore builds, persists and loads nearest-neighbour indices,
// one per session. It exclusively owns the on-disk index files.
type VectorIndexStore interface {
	// Build embeds every chunk, constructs a fresh index and atomically
	// replaces any prior index for the session. On failure the previous
	// index, if any, is left untouched.
	Build(ctx context.Context, sessionID string, chunks []string) error

	// Load opens the session's index. Returns domain.ErrNotFound when the
	// session has no index and domain.ErrIndexUnavailable when it cannot be read.
	Load(ctx context.Context, sessionID string) (VectorIndex, error)

	// Exists reports whether the session has an index, without loading it.
	Exists(sessionID string) bool

	// Delete removes the session's index. Deleting a missing index is not an error.
	Delete(sessionID string) error
}

// VectorIndex is a loaded, read-only session index.
type VectorIndex interface {
	// Search returns the k entries most similar to the query vector,
	// most similar first.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// ModelName returns the embedding model the index was built with.
	ModelName() string

	// Len returns the number of indexed chunks.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Position is the chunk's position in build order.
	Position int

	// Content is the chunk text.
	Content string

	// Similarity is the cosine similarity score (-1 to 1).
	Similarity float64
}
