package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// HistoryRepository persists chat records in a single shared store.
//
// Every write is a read-modify-write of the entire current store contents,
// never a cached subset, so concurrent sessions cannot clobber each
// other's records.
type HistoryRepository interface {
	// Load returns every persisted record in storage order.
	Load(ctx context.Context) ([]domain.ChatRecord, error)

	// Update re-reads all records, passes them to fn, and persists the
	// slice fn returns. If fn returns an error nothing is written.
	Update(ctx context.Context, fn func(records []domain.ChatRecord) ([]domain.ChatRecord, error)) error

	// Close releases resources.
	Close() error
}
