package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/sessionid"
)

// Ensure Store implements the interface.
var _ driven.VectorIndexStore = (*Store)(nil)

// indexFile is the database file inside a session directory.
const indexFile = "index.db"

// formatVersion is bumped when the on-disk schema changes.
const formatVersion = "1"

// Prefixes of the scratch directories a build leaves under the root.
const (
	buildPrefix = ".build-"
	trashPrefix = ".trash-"
)

// staleAfter is how old a scratch directory must be before NewStore sweeps
// it. Younger ones may belong to a build running in another process.
const staleAfter = time.Hour

// sessionIDLen is the length of a canonical UUID string.
const sessionIDLen = 36

// DefaultBatchSize is the number of chunks embedded per request.
const DefaultBatchSize = 32

// Meta keys stamped into every index.
const (
	metaFormat     = "format_version"
	metaModel      = "embedding_model"
	metaDimensions = "dimensions"
	metaChunkCount = "chunk_count"
	metaCreatedAt  = "created_at"
)

const schema = `
CREATE TABLE meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE chunks (
	position INTEGER PRIMARY KEY,
	content  TEXT NOT NULL,
	vector   BLOB NOT NULL
);
`

// Store persists one SQLite index per session under a root directory.
type Store struct {
	root      string
	embedder  driven.EmbeddingService
	batchSize int

	// swapMu serialises directory swaps within the process.
	swapMu sync.Mutex
}

// Option configures the store.
type Option func(*Store)

// WithBatchSize sets the number of chunks embedded per request.
func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// NewStore creates a store rooted at root, creating the directory if needed.
// If root is empty, defaults to ~/.docchat/indexes.
// The embedder builds indices and pins the model new indices are stamped
// with; it may be nil, in which case builds and loads fail with
// domain.ErrEmbeddingUnavailable.
func NewStore(root string, embedder driven.EmbeddingService, opts ...Option) (*Store, error) {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		root = filepath.Join(home, ".docchat", "indexes")
	}

	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	s := &Store{
		root:      root,
		embedder:  embedder,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sweep(time.Now().Add(-staleAfter))
	return s, nil
}

// sweep removes build and trash directories older than cutoff that an
// interrupted build left behind. A trash directory whose session lost its
// index mid-swap is moved back into place instead.
func (s *Store) sweep(cutoff time.Time) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		logger.Warn("Scanning %s for leftover builds: %v", s.root, err)
		return
	}

	building := make(map[string]bool)
	for _, e := range entries {
		if id, ok := scratchSession(e.Name(), buildPrefix); ok {
			building[id] = true
		}
	}

	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || !(strings.HasPrefix(name, buildPrefix) || strings.HasPrefix(name, trashPrefix)) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.root, name)
		if id, ok := scratchSession(name, trashPrefix); ok {
			if building[id] {
				continue
			}
			if s.restore(path, id) {
				continue
			}
		}

		if err := os.RemoveAll(path); err != nil {
			logger.Warn("Removing leftover %s: %v", path, err)
			continue
		}
		logger.Debug("Removed leftover %s", name)
	}
}

// restore moves a trash directory back when the session has no index.
func (s *Store) restore(path, sessionID string) bool {
	dir, err := s.Locate(sessionID)
	if err != nil {
		return false
	}
	if _, err := os.Stat(dir); err == nil {
		return false
	}
	if err := os.Rename(path, dir); err != nil {
		logger.Warn("Restoring index for %s: %v", sessionID, err)
		return false
	}
	logger.Info("Restored interrupted index swap for session %s", sessionID)
	return true
}

// scratchSession returns the session id embedded in a scratch directory
// name of the form <prefix><session id>-<suffix>.
func scratchSession(name, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok || len(rest) < sessionIDLen {
		return "", false
	}
	id := rest[:sessionIDLen]
	return id, sessionid.IsValid(id)
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// Locate returns the directory that holds a session's index.
// The session id must be a canonical UUID.
func (s *Store) Locate(sessionID string) (string, error) {
	if err := sessionid.Validate(sessionID); err != nil {
		return "", err
	}
	return filepath.Join(s.root, sessionID), nil
}

// Build embeds every chunk and atomically replaces the session's index.
func (s *Store) Build(ctx context.Context, sessionID string, chunks []string) error {
	dir, err := s.Locate(sessionID)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%w: no chunks to index", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return fmt.Errorf("%w: no embedding service configured", domain.ErrEmbeddingUnavailable)
	}

	logger.Debug("Embedding %d chunks with %s", len(chunks), s.embedder.ModelName())
	vectors, dims, err := s.embedAll(ctx, chunks)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	tmp, err := os.MkdirTemp(s.root, buildPrefix+sessionID+"-")
	if err != nil {
		return fmt.Errorf("creating build directory: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			os.RemoveAll(tmp) //nolint:errcheck // best effort cleanup
		}
	}()

	if err := writeIndex(ctx, filepath.Join(tmp, indexFile), s.embedder.ModelName(), dims, chunks, vectors); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}

	if err := s.swap(tmp, dir); err != nil {
		return err
	}
	committed = true

	logger.Debug("Index for %s written to %s", sessionID, dir)
	return nil
}

// embedAll embeds chunks in batches and checks every vector has the same size.
func (s *Store) embedAll(ctx context.Context, chunks []string) ([][]float32, int, error) {
	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))
		batch, err := s.embedder.EmbedBatch(ctx, chunks[start:end])
		if err != nil {
			return nil, 0, err
		}
		if len(batch) != end-start {
			return nil, 0, fmt.Errorf("expected %d embeddings, got %d", end-start, len(batch))
		}
		vectors = append(vectors, batch...)
	}

	dims := len(vectors[0])
	if dims == 0 {
		return nil, 0, errors.New("embedding service returned empty vectors")
	}
	for i, v := range vectors {
		if len(v) != dims {
			return nil, 0, fmt.Errorf("embedding %d has %d dimensions, expected %d", i, len(v), dims)
		}
	}
	return vectors, dims, nil
}

// swap renames the freshly built directory into place, moving any previous
// index aside first and removing it afterwards.
func (s *Store) swap(tmp, dir string) error {
	s.swapMu.Lock()
	defer s.swapMu.Unlock()

	var trash string
	if _, err := os.Stat(dir); err == nil {
		trash = filepath.Join(s.root, trashPrefix+filepath.Base(dir)+"-"+uuid.NewString())
		if err := os.Rename(dir, trash); err != nil {
			return fmt.Errorf("moving previous index aside: %w", err)
		}
	}

	if err := os.Rename(tmp, dir); err != nil {
		if trash != "" {
			if rerr := os.Rename(trash, dir); rerr != nil {
				logger.Error("restoring previous index %s: %v", dir, rerr)
			}
		}
		return fmt.Errorf("installing index: %w", err)
	}

	if trash != "" {
		if err := os.RemoveAll(trash); err != nil {
			logger.Warn("removing previous index %s: %v", trash, err)
		}
	}
	return nil
}

// Load reads the session's index into memory.
func (s *Store) Load(ctx context.Context, sessionID string) (driven.VectorIndex, error) {
	dir, err := s.Locate(sessionID)
	if err != nil {
		return nil, err
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding service configured", domain.ErrEmbeddingUnavailable)
	}

	path := filepath.Join(dir, indexFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("index for session %s: %w", sessionID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}

	idx, err := readIndex(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}

	if want := s.embedder.ModelName(); idx.model != want {
		return nil, fmt.Errorf("%w: index built with %q, configured embedder is %q",
			domain.ErrEmbeddingModelMismatch, idx.model, want)
	}
	return idx, nil
}

// Exists reports whether the session has an index file.
func (s *Store) Exists(sessionID string) bool {
	dir, err := s.Locate(sessionID)
	if err != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, indexFile))
	return err == nil && info.Mode().IsRegular()
}

// Delete removes the session's index directory. Missing indices are ignored.
func (s *Store) Delete(sessionID string) error {
	dir, err := s.Locate(sessionID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("deleting index: %w", err)
	}
	return nil
}

func writeIndex(ctx context.Context, path, model string, dims int, chunks []string, vectors [][]float32) error {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	meta := map[string]string{
		metaFormat:     formatVersion,
		metaModel:      model,
		metaDimensions: strconv.Itoa(dims),
		metaChunkCount: strconv.Itoa(len(chunks)),
		metaCreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("writing meta %s: %w", k, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO chunks (position, content, vector) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, i, chunk, encodeVector(vectors[i])); err != nil {
			return fmt.Errorf("writing chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}
	return nil
}

func readIndex(ctx context.Context, path string) (*Index, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	meta, err := readMeta(ctx, db)
	if err != nil {
		return nil, err
	}
	if meta[metaFormat] != formatVersion {
		return nil, fmt.Errorf("unsupported index format %q", meta[metaFormat])
	}
	model := meta[metaModel]
	if model == "" {
		return nil, errors.New("index has no embedding model stamp")
	}
	dims, err := strconv.Atoi(meta[metaDimensions])
	if err != nil || dims <= 0 {
		return nil, fmt.Errorf("invalid dimensions %q", meta[metaDimensions])
	}
	count, err := strconv.Atoi(meta[metaChunkCount])
	if err != nil || count < 0 {
		return nil, fmt.Errorf("invalid chunk count %q", meta[metaChunkCount])
	}

	rows, err := db.QueryContext(ctx, `SELECT position, content, vector FROM chunks ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("reading chunks: %w", err)
	}
	defer rows.Close()

	contents := make([]string, 0, count)
	vectors := make([][]float32, 0, count)
	for rows.Next() {
		var (
			position int
			content  string
			blob     []byte
		)
		if err := rows.Scan(&position, &content, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if position != len(contents) {
			return nil, fmt.Errorf("chunk positions not contiguous at %d", position)
		}
		vector := decodeVector(blob)
		if len(vector) != dims {
			return nil, fmt.Errorf("chunk %d has %d dimensions, expected %d", position, len(vector), dims)
		}
		contents = append(contents, content)
		vectors = append(vectors, vector)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading chunks: %w", err)
	}
	if len(contents) != count {
		return nil, fmt.Errorf("index has %d chunks, meta says %d", len(contents), count)
	}

	return newIndex(model, dims, contents, vectors), nil
}

func readMeta(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return nil, fmt.Errorf("reading meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning meta: %w", err)
		}
		meta[k] = v
	}
	return meta, rows.Err()
}
