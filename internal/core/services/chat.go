package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/sessionid"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// documentSeparator joins the text of successive documents before chunking.
const documentSeparator = "\n"

// ChatService orchestrates ingest and ask over explicit session values.
type ChatService struct {
	extractors driven.ExtractorRegistry
	splitter   driven.TextSplitter
	index      driven.VectorIndexStore
	retriever  *Retriever
	answerer   *AnswerGenerator
	history    driving.HistoryService
}

// NewChatService creates the orchestrator. history may be nil, in which
// case conversations are not persisted.
func NewChatService(
	extractors driven.ExtractorRegistry,
	splitter driven.TextSplitter,
	index driven.VectorIndexStore,
	retriever *Retriever,
	answerer *AnswerGenerator,
	history driving.HistoryService,
) *ChatService {
	return &ChatService{
		extractors: extractors,
		splitter:   splitter,
		index:      index,
		retriever:  retriever,
		answerer:   answerer,
		history:    history,
	}
}

// NewSession returns a fresh, empty session.
func (s *ChatService) NewSession(userID string) domain.Session {
	return domain.NewSession(sessionid.New(), userID)
}

// Models returns the models that can answer questions.
func (s *ChatService) Models() domain.ModelCatalog {
	return s.answerer.Models()
}

// Resume restores a session's conversation from history and marks it ready
// when its index exists.
func (s *ChatService) Resume(ctx context.Context, sessionID, userID string) (domain.Session, error) {
	if err := sessionid.Validate(sessionID); err != nil {
		return domain.Session{}, err
	}

	session := domain.NewSession(sessionID, userID)
	if s.history != nil {
		rec, err := s.history.Get(ctx, sessionID)
		switch {
		case err == nil:
			session.Messages = rec.Messages
			session.Title = rec.Title
			if session.UserID == "" {
				session.UserID = rec.UserID
			}
		case !errors.Is(err, domain.ErrNotFound):
			return domain.Session{}, err
		}
	}

	return session.WithReady(s.index.Exists(sessionID)), nil
}

// Ingest extracts text from the documents, chunks it and replaces the
// session's index. Documents with unsupported extensions or no text are
// listed in the summary as skipped.
func (s *ChatService) Ingest(
	ctx context.Context, session domain.Session, docs []domain.Document,
) (domain.Session, domain.IngestSummary, error) {
	logger.Section("Ingest")

	var summary domain.IngestSummary
	if err := sessionid.Validate(session.ID); err != nil {
		return session, summary, err
	}
	if len(docs) == 0 {
		return session, summary, domain.ErrNoDocuments
	}

	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		text, ok, err := s.extractors.Extract(ctx, doc)
		if err != nil {
			return session, summary, fmt.Errorf("%w: %w", domain.ErrNoText, err)
		}
		if !ok {
			logger.Warn("Skipping %s: unsupported file type", doc.Name)
			summary.Skipped = append(summary.Skipped, doc.Name)
			continue
		}
		if strings.TrimSpace(text) == "" {
			logger.Warn("Skipping %s: no text extracted", doc.Name)
			summary.Skipped = append(summary.Skipped, doc.Name)
			continue
		}
		logger.Debug("Extracted %d characters from %s", utf8.RuneCountInString(text), doc.Name)
		texts = append(texts, text)
	}
	if len(texts) == 0 {
		return session, summary, domain.ErrNoText
	}

	text := strings.Join(texts, documentSeparator)
	chunks := s.splitter.Split(text)
	if len(chunks) == 0 {
		return session, summary, domain.ErrNoText
	}

	// A failed build leaves any previous index in place.
	if err := s.index.Build(ctx, session.ID, chunks); err != nil {
		return session.WithReady(s.index.Exists(session.ID)), summary, fmt.Errorf("building index: %w", err)
	}

	summary.Documents = len(texts)
	summary.Characters = utf8.RuneCountInString(text)
	summary.Chunks = len(chunks)
	logger.Info("Indexed %d chunks from %d documents for session %s", summary.Chunks, summary.Documents, session.ID)

	return session.WithReady(true), summary, nil
}

// Ask answers the question from the session's index and records both turns.
// Upstream failures are returned as answer text; errors are only returned
// for invalid input.
func (s *ChatService) Ask(ctx context.Context, session domain.Session, question, model string) (domain.Session, string, error) {
	logger.Section("Ask")

	if err := sessionid.Validate(session.ID); err != nil {
		return session, "", err
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return session, "", fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	session = session.Append(domain.Message{Role: domain.RoleUser, Content: question})
	answer := s.answer(ctx, session.ID, question, model)
	session = session.Append(domain.Message{Role: domain.RoleAssistant, Content: answer})

	if session.Title == "" || session.Title == domain.DefaultTitle {
		session.Title = domain.TitleFromMessages(session.Messages)
	}

	if s.history != nil {
		if err := s.history.Save(ctx, session.ID, session.Messages, session.UserID, ""); err != nil {
			logger.Warn("Saving chat history for %s failed: %v", session.ID, err)
		}
	}

	return session, answer, nil
}

// answer returns the no-context response unless the session has a loadable
// index.
func (s *ChatService) answer(ctx context.Context, sessionID, question, model string) string {
	if !s.index.Exists(sessionID) {
		logger.Debug("No index for session %s", sessionID)
		return domain.NoContextResponse
	}

	idx, err := s.index.Load(ctx, sessionID)
	if err != nil {
		logger.Warn("Loading index for %s failed: %v", sessionID, err)
		return domain.NoContextResponse
	}
	defer idx.Close()

	chunks, err := s.retriever.Search(ctx, idx, question, 0)
	if err != nil {
		logger.Warn("Retrieval for %s failed: %v", sessionID, err)
		return fmt.Sprintf("Error generating answer: %v", err)
	}

	return s.answerer.Answer(ctx, question, chunks, model)
}
