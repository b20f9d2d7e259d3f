// Package sqlite stores chat history in a SQLite database.
//
// Records live in the chat_sessions table, created by the embedded
// migrations. Update rewrites the table inside a single transaction.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docchat/internal/adapters/driven/history"
	"github.com/custodia-labs/docchat/internal/adapters/driven/history/sqlite/migrations"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.HistoryRepository = (*Store)(nil)

// DefaultFileName is the database file inside the data directory.
const DefaultFileName = "history.db"

// row is a stored record as read from the table.
type row struct {
	id        string
	userID    string
	timestamp string
	title     string
	messages  string
}

// Store implements driven.HistoryRepository over SQLite.
type Store struct {
	db   *sql.DB
	path string

	// mu serialises read-modify-write cycles within the process.
	mu sync.Mutex
}

// New opens or creates the database at path and applies migrations.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: history path is empty", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns every decodable record in storage order.
func (s *Store) Load(ctx context.Context) ([]domain.ChatRecord, error) {
	rows, err := readRows(ctx, s.db)
	if err != nil {
		return nil, err
	}
	records, _ := decodeRows(rows)
	return records, nil
}

// Update reads all rows, applies fn and rewrites the table in one transaction.
func (s *Store) Update(ctx context.Context, fn func([]domain.ChatRecord) ([]domain.ChatRecord, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	rows, err := readRows(ctx, tx)
	if err != nil {
		return err
	}
	records, kept := decodeRows(rows)

	next, err := fn(records)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM chat_sessions"); err != nil {
		return fmt.Errorf("clearing chat sessions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chat_sessions (id, position, user_id, timestamp, title, messages)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	ids := make(map[string]bool, len(next))
	pos := 0
	for _, r := range next {
		if ids[r.ID] {
			return fmt.Errorf("%w: duplicate history record %s", domain.ErrInvalidInput, r.ID)
		}
		ids[r.ID] = true

		msgs := r.Messages
		if msgs == nil {
			msgs = []domain.Message{}
		}
		msgJSON, err := json.Marshal(msgs)
		if err != nil {
			return fmt.Errorf("encoding messages for %s: %w", r.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, r.ID, pos, r.UserID, history.FormatTimestamp(r.Timestamp), r.Title, string(msgJSON)); err != nil {
			return fmt.Errorf("inserting chat session %s: %w", r.ID, err)
		}
		pos++
	}
	for _, k := range kept {
		if ids[k.id] {
			continue
		}
		if _, err := stmt.ExecContext(ctx, k.id, pos, k.userID, k.timestamp, k.title, k.messages); err != nil {
			return fmt.Errorf("preserving chat session %s: %w", k.id, err)
		}
		pos++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing history: %w", err)
	}
	return nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func readRows(ctx context.Context, q querier) ([]row, error) {
	rs, err := q.QueryContext(ctx, `
		SELECT id, user_id, timestamp, title, messages
		FROM chat_sessions
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chat sessions: %w", err)
	}
	defer rs.Close()

	var rows []row
	for rs.Next() {
		var r row
		if err := rs.Scan(&r.id, &r.userID, &r.timestamp, &r.title, &r.messages); err != nil {
			return nil, fmt.Errorf("scanning chat session: %w", err)
		}
		rows = append(rows, r)
	}
	return rows, rs.Err()
}

// decodeRows splits rows into usable records and rows that are kept as-is.
func decodeRows(rows []row) ([]domain.ChatRecord, []row) {
	records := make([]domain.ChatRecord, 0, len(rows))
	var kept []row
	for _, r := range rows {
		ts, err := history.ParseTimestamp(r.timestamp)
		if err != nil {
			logger.Debug("Skipping history record %q: %v", r.id, err)
			kept = append(kept, r)
			continue
		}
		var msgs []domain.Message
		if err := json.Unmarshal([]byte(r.messages), &msgs); err != nil {
			logger.Debug("Skipping history record %q: %v", r.id, err)
			kept = append(kept, r)
			continue
		}
		records = append(records, domain.ChatRecord{
			ID:        r.id,
			UserID:    r.userID,
			Timestamp: ts,
			Title:     r.title,
			Messages:  msgs,
		})
	}
	return records, kept
}

// migrate applies pending up migrations in version order and records each one.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		logger.Debug("Applied history migration %s", name)
	}
	return nil
}
