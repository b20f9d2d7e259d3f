package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ChatService is the entry point for the two user-facing operations,
// ingest and ask. It holds no conversation state: each call takes the
// current session value and returns the next one.
type ChatService interface {
	// NewSession returns a fresh session with a new identifier.
	NewSession(userID string) domain.Session

	// Resume rebuilds a session from its history record and index.
	// A session with neither yields an empty, not-ready session.
	Resume(ctx context.Context, sessionID, userID string) (domain.Session, error)

	// Ingest extracts, chunks and indexes the documents, replacing any
	// previous index for the session. Returns domain.ErrNoDocuments or
	// domain.ErrNoText when the operation is declined; no index is written
	// in that case.
	Ingest(ctx context.Context, session domain.Session, docs []domain.Document) (domain.Session, domain.IngestSummary, error)

	// Ask answers a question from the session's index and records the turn.
	// Upstream failures are returned as the answer text, never as errors;
	// errors are reserved for invalid input.
	Ask(ctx context.Context, session domain.Session, question, model string) (domain.Session, string, error)

	// Models returns the models Ask accepts and the one an empty model
	// selects.
	Models() domain.ModelCatalog
}
