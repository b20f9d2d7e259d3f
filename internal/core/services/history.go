package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/sessionid"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService manages persisted conversations.
type HistoryService struct {
	repo      driven.HistoryRepository
	index     driven.VectorIndexStore
	retention time.Duration
	now       func() time.Time
}

// NewHistoryService creates a history service. index may be nil, in which
// case Delete only removes the record. retention <= 0 uses
// domain.DefaultRetention.
func NewHistoryService(repo driven.HistoryRepository, index driven.VectorIndexStore, retention time.Duration) *HistoryService {
	if retention <= 0 {
		retention = domain.DefaultRetention
	}
	return &HistoryService{
		repo:      repo,
		index:     index,
		retention: retention,
		now:       time.Now,
	}
}

// SetClock replaces the service's clock.
func (s *HistoryService) SetClock(now func() time.Time) {
	s.now = now
}

// List returns the records active within the retention window, newest
// first. Read failures are logged and yield an empty list.
func (s *HistoryService) List(ctx context.Context, userID string) ([]domain.ChatRecord, error) {
	records := s.active(ctx)

	out := make([]domain.ChatRecord, 0, len(records))
	for _, r := range records {
		if userID != "" && r.UserID != userID {
			continue
		}
		out = append(out, r)
	}
	domain.SortNewestFirst(out)
	return out, nil
}

// Get returns a single record within the retention window.
func (s *HistoryService) Get(ctx context.Context, sessionID string) (*domain.ChatRecord, error) {
	if err := sessionid.Validate(sessionID); err != nil {
		return nil, err
	}
	for _, r := range s.active(ctx) {
		if r.ID == sessionID {
			rec := r
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, sessionID)
}

// active loads every record whose timestamp is inside the retention window.
func (s *HistoryService) active(ctx context.Context) []domain.ChatRecord {
	records, err := s.repo.Load(ctx)
	if err != nil {
		logger.Warn("Reading chat history failed: %v", err)
		return nil
	}

	cutoff := s.now().Add(-s.retention)
	out := make([]domain.ChatRecord, 0, len(records))
	for _, r := range records {
		if r.Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Save creates the session's record at the front of the store, or replaces
// the messages of an existing one and refreshes its timestamp. An empty
// title is derived from the first user message. A title is only replaced
// while it is still the default. A record past the retention window is
// never resumed, so saving over it starts a new conversation with a new
// title.
func (s *HistoryService) Save(ctx context.Context, sessionID string, messages []domain.Message, userID, title string) error {
	if err := sessionid.Validate(sessionID); err != nil {
		return err
	}

	msgs := make([]domain.Message, len(messages))
	copy(msgs, messages)

	if title == "" {
		title = domain.TitleFromMessages(msgs)
	}
	now := s.now()
	cutoff := now.Add(-s.retention)

	return s.repo.Update(ctx, func(records []domain.ChatRecord) ([]domain.ChatRecord, error) {
		for i := range records {
			if records[i].ID != sessionID {
				continue
			}
			rec := &records[i]
			if rec.Timestamp.Before(cutoff) {
				logger.Debug("Session %s expired; starting a new conversation", sessionID)
				*rec = domain.ChatRecord{ID: sessionID, UserID: rec.UserID}
				if userID != "" {
					rec.UserID = userID
				}
			}
			rec.Messages = msgs
			rec.Timestamp = now
			if rec.Title == "" || rec.Title == domain.DefaultTitle {
				rec.Title = title
			}
			if rec.UserID == "" {
				rec.UserID = userID
			}
			return records, nil
		}

		rec := domain.ChatRecord{
			ID:        sessionID,
			UserID:    userID,
			Timestamp: now,
			Title:     title,
			Messages:  msgs,
		}
		return append([]domain.ChatRecord{rec}, records...), nil
	})
}

// Delete removes the record and the session's index. Both steps run even
// when one fails; their errors are joined.
func (s *HistoryService) Delete(ctx context.Context, sessionID string) error {
	if err := sessionid.Validate(sessionID); err != nil {
		return err
	}

	recErr := s.repo.Update(ctx, func(records []domain.ChatRecord) ([]domain.ChatRecord, error) {
		out := records[:0]
		for _, r := range records {
			if r.ID != sessionID {
				out = append(out, r)
			}
		}
		return out, nil
	})
	if recErr != nil {
		recErr = fmt.Errorf("deleting history record: %w", recErr)
	}

	var idxErr error
	if s.index != nil {
		if err := s.index.Delete(sessionID); err != nil {
			idxErr = fmt.Errorf("deleting index: %w", err)
		}
	}

	return errors.Join(recErr, idxErr)
}

// Group partitions records by calendar date relative to now.
func (s *HistoryService) Group(records []domain.ChatRecord) domain.RecencyGroups {
	return domain.GroupByRecency(records, s.now())
}
