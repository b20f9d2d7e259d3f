package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// errHistoryDisabled is returned by history tools when no history service is wired.
var errHistoryDisabled = errors.New("chat history is not enabled")

// NewSessionInput is the input schema for the new_session tool.
type NewSessionInput struct{}

// SessionOutput identifies a session.
type SessionOutput struct {
	SessionID string `json:"session_id"`
	Ready     bool   `json:"ready"`
}

// IngestInput is the input schema for the ingest_files tool.
type IngestInput struct {
	SessionID string   `json:"session_id,omitempty" jsonschema:"session to index into; a new session is created when empty"`
	Paths     []string `json:"paths" jsonschema:"local paths of .pdf, .docx or .txt files to index"`
}

// IngestOutput is the output schema for the ingest_files tool.
type IngestOutput struct {
	SessionID  string   `json:"session_id"`
	Documents  int      `json:"documents"`
	Characters int      `json:"characters"`
	Chunks     int      `json:"chunks"`
	Skipped    []string `json:"skipped,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	SessionID string `json:"session_id" jsonschema:"session whose documents answer the question"`
	Question  string `json:"question" jsonschema:"the question to answer"`
	Model     string `json:"model,omitempty" jsonschema:"model id from list_models (default: the configured default model)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

// ListHistoryInput is the input schema for the list_history tool.
type ListHistoryInput struct {
	All bool `json:"all,omitempty" jsonschema:"include conversations from every device"`
}

// HistoryEntry summarises one conversation.
type HistoryEntry struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
	Messages  int    `json:"messages"`
}

// ListHistoryOutput is the output schema for the list_history tool.
type ListHistoryOutput struct {
	Sessions []HistoryEntry `json:"sessions"`
	Count    int            `json:"count"`
}

// DeleteSessionInput is the input schema for the delete_session tool.
type DeleteSessionInput struct {
	SessionID string `json:"session_id" jsonschema:"session to delete together with its index"`
}

// DeleteSessionOutput is the output schema for the delete_session tool.
type DeleteSessionOutput struct {
	Deleted bool `json:"deleted"`
}

// SummarizeVideoInput is the input schema for the summarize_video tool.
type SummarizeVideoInput struct {
	Path string `json:"path" jsonschema:"local path of a short video clip"`
}

// SummarizeVideoOutput is the output schema for the summarize_video tool.
type SummarizeVideoOutput struct {
	Summary string `json:"summary"`
}

// ListModelsInput is the input schema for the list_models tool.
type ListModelsInput struct{}

// ListModelsOutput is the output schema for the list_models tool.
type ListModelsOutput struct {
	Models  []domain.ModelOption `json:"models"`
	Default string               `json:"default"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "new_session",
		Description: "Start an empty chat session",
	}, s.handleNewSession)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_files",
		Description: "Extract, chunk and index local documents into a chat session, replacing its previous index",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the documents indexed in a session",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_models",
		Description: "List the models that can answer questions",
	}, s.handleListModels)

	if s.ports.History != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_history",
			Description: "List recent conversations, newest first",
		}, s.handleListHistory)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "delete_session",
			Description: "Delete a conversation and its document index",
		}, s.handleDeleteSession)
	}

	if s.ports.Video != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "summarize_video",
			Description: "Summarise a short video clip as a narrative",
		}, s.handleSummarizeVideo)
	}
}

func (s *Server) handleNewSession(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ NewSessionInput,
) (*mcp.CallToolResult, SessionOutput, error) {
	session := s.ports.Chat.NewSession(s.ports.UserID)
	return nil, SessionOutput{SessionID: session.ID, Ready: session.Ready}, nil
}

func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	session, err := s.session(ctx, input.SessionID)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	docs := make([]domain.Document, 0, len(input.Paths))
	for _, path := range input.Paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, IngestOutput{}, fmt.Errorf("reading %s: %w", path, err)
		}
		docs = append(docs, domain.Document{Name: filepath.Base(path), Content: content})
	}

	session, summary, err := s.ports.Chat.Ingest(ctx, session, docs)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		SessionID:  session.ID,
		Documents:  summary.Documents,
		Characters: summary.Characters,
		Chunks:     summary.Chunks,
		Skipped:    summary.Skipped,
	}, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if input.SessionID == "" {
		return nil, AskOutput{}, fmt.Errorf("%w: session_id is required", domain.ErrInvalidInput)
	}

	session, err := s.ports.Chat.Resume(ctx, input.SessionID, s.ports.UserID)
	if err != nil {
		return nil, AskOutput{}, err
	}

	session, answer, err := s.ports.Chat.Ask(ctx, session, input.Question, input.Model)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{SessionID: session.ID, Answer: answer}, nil
}

func (s *Server) handleListModels(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListModelsInput,
) (*mcp.CallToolResult, ListModelsOutput, error) {
	models := s.ports.Chat.Models()
	return nil, ListModelsOutput{Models: models.Options, Default: models.Default}, nil
}

func (s *Server) handleListHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListHistoryInput,
) (*mcp.CallToolResult, ListHistoryOutput, error) {
	if s.ports.History == nil {
		return nil, ListHistoryOutput{}, errHistoryDisabled
	}

	userID := s.ports.UserID
	if input.All {
		userID = ""
	}

	records, err := s.ports.History.List(ctx, userID)
	if err != nil {
		return nil, ListHistoryOutput{}, err
	}

	output := ListHistoryOutput{
		Sessions: make([]HistoryEntry, len(records)),
		Count:    len(records),
	}
	for i, r := range records {
		output.Sessions[i] = HistoryEntry{
			SessionID: r.ID,
			Title:     r.Title,
			Timestamp: r.Timestamp.Format("2006-01-02 15:04"),
			Messages:  len(r.Messages),
		}
	}
	return nil, output, nil
}

func (s *Server) handleDeleteSession(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteSessionInput,
) (*mcp.CallToolResult, DeleteSessionOutput, error) {
	if s.ports.History == nil {
		return nil, DeleteSessionOutput{}, errHistoryDisabled
	}
	if err := s.ports.History.Delete(ctx, input.SessionID); err != nil {
		return nil, DeleteSessionOutput{}, err
	}
	return nil, DeleteSessionOutput{Deleted: true}, nil
}

func (s *Server) handleSummarizeVideo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummarizeVideoInput,
) (*mcp.CallToolResult, SummarizeVideoOutput, error) {
	if s.ports.Video == nil {
		return nil, SummarizeVideoOutput{}, errors.New("video summaries are not enabled")
	}

	summary, err := s.ports.Video.Summarize(ctx, input.Path)
	if err != nil {
		return nil, SummarizeVideoOutput{}, err
	}
	return nil, SummarizeVideoOutput{Summary: summary}, nil
}

// session resumes id, or starts a new session when id is empty.
func (s *Server) session(ctx context.Context, id string) (domain.Session, error) {
	if id == "" {
		return s.ports.Chat.NewSession(s.ports.UserID), nil
	}
	return s.ports.Chat.Resume(ctx, id, s.ports.UserID)
}
