package mcp

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	session   domain.Session
	resumeErr error
	summary   domain.IngestSummary
	ingestErr error
	answer    string
	askErr    error

	ingested []domain.Document
	asked    string
	model    string
	models   domain.ModelCatalog
}

func (m *mockChatService) NewSession(userID string) domain.Session {
	return domain.NewSession("11111111-1111-4111-8111-111111111111", userID)
}

func (m *mockChatService) Resume(_ context.Context, sessionID, userID string) (domain.Session, error) {
	if m.resumeErr != nil {
		return domain.Session{}, m.resumeErr
	}
	s := m.session
	s.ID = sessionID
	if s.UserID == "" {
		s.UserID = userID
	}
	return s, nil
}

func (m *mockChatService) Ingest(
	_ context.Context, session domain.Session, docs []domain.Document,
) (domain.Session, domain.IngestSummary, error) {
	m.ingested = docs
	if m.ingestErr != nil {
		return session, domain.IngestSummary{}, m.ingestErr
	}
	return session.WithReady(true), m.summary, nil
}

func (m *mockChatService) Ask(
	_ context.Context, session domain.Session, question, model string,
) (domain.Session, string, error) {
	m.asked = question
	m.model = model
	if m.askErr != nil {
		return session, "", m.askErr
	}
	return session, m.answer, nil
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	records []domain.ChatRecord
	err     error
	userID  string
	deleted string
}

func (m *mockHistoryService) List(_ context.Context, userID string) ([]domain.ChatRecord, error) {
	m.userID = userID
	return m.records, m.err
}

func (m *mockHistoryService) Get(_ context.Context, _ string) (*domain.ChatRecord, error) {
	if len(m.records) == 0 {
		return nil, domain.ErrNotFound
	}
	return &m.records[0], m.err
}

func (m *mockHistoryService) Save(_ context.Context, _ string, _ []domain.Message, _, _ string) error {
	return m.err
}

func (m *mockHistoryService) Delete(_ context.Context, sessionID string) error {
	m.deleted = sessionID
	return m.err
}

func (m *mockHistoryService) Group(records []domain.ChatRecord) domain.RecencyGroups {
	return domain.RecencyGroups{Today: records}
}

// mockVideoService is a mock implementation of driving.VideoService.
type mockVideoService struct {
	summary string
	err     error
	path    string
}

func (m *mockVideoService) Summarize(_ context.Context, path string) (string, error) {
	m.path = path
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
