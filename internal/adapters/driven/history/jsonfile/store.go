// Package jsonfile stores chat history as a single JSON document.
//
// The file holds {"sessions": [...]}. Every update re-reads the whole file,
// applies the change and writes it back through a temp file and rename.
// A missing or malformed file reads as empty.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/custodia-labs/docchat/internal/adapters/driven/history"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.HistoryRepository = (*Store)(nil)

// DefaultFileName is the history file inside the data directory.
const DefaultFileName = "chat_history.json"

// document is the on-disk layout.
type document struct {
	Sessions []json.RawMessage `json:"sessions"`
}

// wireRecord mirrors domain.ChatRecord with a string timestamp so that
// records written by other tools still decode.
type wireRecord struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id,omitempty"`
	Timestamp string           `json:"timestamp"`
	Title     string           `json:"title"`
	Messages  []domain.Message `json:"messages"`
}

// opaque is a stored record that could not be decoded. It is written back
// unchanged but never handed to callers.
type opaque struct {
	id  string
	raw json.RawMessage
}

// Store implements driven.HistoryRepository over a JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a store for the file at path, creating its directory.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: history path is empty", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Path returns the history file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns every decodable record in file order.
func (s *Store) Load(_ context.Context) ([]domain.ChatRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, _, err := s.read()
	return records, err
}

// Update re-reads the file, applies fn and writes the result back.
func (s *Store) Update(ctx context.Context, fn func([]domain.ChatRecord) ([]domain.ChatRecord, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	records, kept, err := s.read()
	if err != nil {
		return err
	}

	next, err := fn(records)
	if err != nil {
		return err
	}

	return s.write(next, kept)
}

// Close is a no-op; the file is opened per operation.
func (s *Store) Close() error {
	return nil
}

// read decodes the file. A missing file is empty. A malformed file is logged,
// moved aside and treated as empty.
func (s *Store) read() ([]domain.ChatRecord, []opaque, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading history: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn("History file %s is malformed, starting empty: %v", s.path, err)
		s.quarantine()
		return nil, nil, nil
	}

	records := make([]domain.ChatRecord, 0, len(doc.Sessions))
	var kept []opaque
	for _, raw := range doc.Sessions {
		rec, id, err := decode(raw)
		if err != nil {
			logger.Debug("Skipping history record %q: %v", id, err)
			kept = append(kept, opaque{id: id, raw: raw})
			continue
		}
		records = append(records, rec)
	}
	return records, kept, nil
}

func decode(raw json.RawMessage) (domain.ChatRecord, string, error) {
	var w wireRecord
	if err := json.Unmarshal(raw, &w); err != nil {
		return domain.ChatRecord{}, "", err
	}
	ts, err := history.ParseTimestamp(w.Timestamp)
	if err != nil {
		return domain.ChatRecord{}, w.ID, err
	}
	return domain.ChatRecord{
		ID:        w.ID,
		UserID:    w.UserID,
		Timestamp: ts,
		Title:     w.Title,
		Messages:  w.Messages,
	}, w.ID, nil
}

// write persists records followed by any undecodable records whose id was
// not reused.
func (s *Store) write(records []domain.ChatRecord, kept []opaque) error {
	doc := document{Sessions: make([]json.RawMessage, 0, len(records)+len(kept))}
	ids := make(map[string]bool, len(records))

	for _, r := range records {
		ids[r.ID] = true
		raw, err := json.Marshal(wireRecord{
			ID:        r.ID,
			UserID:    r.UserID,
			Timestamp: history.FormatTimestamp(r.Timestamp),
			Title:     r.Title,
			Messages:  nonNil(r.Messages),
		})
		if err != nil {
			return fmt.Errorf("encoding history record %s: %w", r.ID, err)
		}
		doc.Sessions = append(doc.Sessions, raw)
	}
	for _, o := range kept {
		if o.id != "" && ids[o.id] {
			continue
		}
		doc.Sessions = append(doc.Sessions, o.raw)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	return writeAtomic(s.path, data)
}

// quarantine renames a malformed file so the next write does not destroy it.
func (s *Store) quarantine() {
	dst := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().Unix())
	if err := os.Rename(s.path, dst); err != nil {
		logger.Warn("Could not move malformed history file aside: %v", err)
		return
	}
	logger.Warn("Malformed history file moved to %s", dst)
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp history file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing history: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing history: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return fmt.Errorf("setting history permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing history: %w", err)
	}
	return nil
}

func nonNil(msgs []domain.Message) []domain.Message {
	if msgs == nil {
		return []domain.Message{}
	}
	return msgs
}
