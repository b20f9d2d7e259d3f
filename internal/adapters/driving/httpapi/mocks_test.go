package httpapi

import (
	"context"
	"os"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

const testSessionID = "33333333-3333-4333-8333-333333333333"

type mockChatService struct {
	session   domain.Session
	resumeErr error
	summary   domain.IngestSummary
	ingestErr error
	answer    string

	userID   string
	ingested []domain.Document
	question string
	model    string
	models   domain.ModelCatalog
}

func (m *mockChatService) NewSession(userID string) domain.Session {
	m.userID = userID
	return domain.NewSession(testSessionID, userID)
}

func (m *mockChatService) Resume(_ context.Context, sessionID, userID string) (domain.Session, error) {
	m.userID = userID
	if m.resumeErr != nil {
		return domain.Session{}, m.resumeErr
	}
	s := m.session
	s.ID = sessionID
	s.UserID = userID
	return s, nil
}

func (m *mockChatService) Ingest(
	_ context.Context, session domain.Session, docs []domain.Document,
) (domain.Session, domain.IngestSummary, error) {
	m.ingested = docs
	if len(docs) == 0 {
		return session, domain.IngestSummary{}, domain.ErrNoDocuments
	}
	if m.ingestErr != nil {
		return session, domain.IngestSummary{}, m.ingestErr
	}
	return session.WithReady(true), m.summary, nil
}

func (m *mockChatService) Ask(
	_ context.Context, session domain.Session, question, model string,
) (domain.Session, string, error) {
	m.question = question
	m.model = model
	return session, m.answer, nil
}

type mockHistoryService struct {
	records []domain.ChatRecord
	userID  string
	deleted string
	err     error
}

func (m *mockHistoryService) List(_ context.Context, userID string) ([]domain.ChatRecord, error) {
	m.userID = userID
	return m.records, m.err
}

func (m *mockHistoryService) Get(_ context.Context, _ string) (*domain.ChatRecord, error) {
	return nil, domain.ErrNotFound
}

func (m *mockHistoryService) Save(_ context.Context, _ string, _ []domain.Message, _, _ string) error {
	return nil
}

func (m *mockHistoryService) Delete(_ context.Context, sessionID string) error {
	m.deleted = sessionID
	return m.err
}

func (m *mockHistoryService) Group(records []domain.ChatRecord) domain.RecencyGroups {
	return domain.RecencyGroups{Today: records}
}

type mockVideoService struct {
	summary string
	err     error

	// uploaded holds the file content seen by Summarize.
	uploaded []byte
	path     string
}

func (m *mockVideoService) Summarize(_ context.Context, path string) (string, error) {
	m.path = path
	m.uploaded, _ = os.ReadFile(path)
	return m.summary, m.err
}

func (m *mockVideoService) SummarizeFrames(_ context.Context, _ []domain.Frame) string {
	return m.summary
}

func (m *mockVideoService) MaxDuration() float64 {
	return 10
}

func (m *mockChatService) Models() domain.ModelCatalog {
	if m.models.Default == "" {
		return domain.HostedCatalog()
	}
	return m.models
}
