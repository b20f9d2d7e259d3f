package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// HistoryService manages persisted conversations.
type HistoryService interface {
	// List returns records active within the retention window, newest first.
	// When userID is non-empty only that user's records are returned.
	List(ctx context.Context, userID string) ([]domain.ChatRecord, error)

	// Get returns a single record within the retention window.
	Get(ctx context.Context, sessionID string) (*domain.ChatRecord, error)

	// Save creates or updates the record for a session. The title is only
	// set once; later saves never overwrite it.
	Save(ctx context.Context, sessionID string, messages []domain.Message, userID, title string) error

	// Delete removes the record and the session's index.
	Delete(ctx context.Context, sessionID string) error

	// Group partitions records into Today, Yesterday and Previous 7 Days.
	Group(records []domain.ChatRecord) domain.RecencyGroups
}
