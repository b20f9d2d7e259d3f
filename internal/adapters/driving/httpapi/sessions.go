package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// SessionResponse is a session as returned by the API.
type SessionResponse struct {
	SessionID string           `json:"session_id"`
	Title     string           `json:"title,omitempty"`
	Messages  []domain.Message `json:"messages"`
	Ready     bool             `json:"ready"`
}

func sessionResponse(s domain.Session) SessionResponse {
	msgs := s.Messages
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return SessionResponse{SessionID: s.ID, Title: s.Title, Messages: msgs, Ready: s.Ready}
}

// IngestResponse is the result of a document upload.
type IngestResponse struct {
	SessionID string `json:"session_id"`
	domain.IngestSummary
}

// AskRequest is the request to ask a question.
type AskRequest struct {
	Question string `json:"question"`
	Model    string `json:"model,omitempty"`
}

// AskResponse carries the answer.
type AskResponse struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

// CreateSession starts a new, empty session.
// POST /api/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	session := h.ports.Chat.NewSession(h.deviceID(c))
	return c.JSON(http.StatusCreated, sessionResponse(session))
}

// GetSession resumes a session from history and its index.
// GET /api/sessions/:id
func (h *Handler) GetSession(c echo.Context) error {
	session, err := h.ports.Chat.Resume(c.Request().Context(), c.Param("id"), h.deviceID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, sessionResponse(session))
}

// UploadDocuments indexes the multipart "files" into the session,
// replacing its previous index.
// POST /api/sessions/:id/documents
func (h *Handler) UploadDocuments(c echo.Context) error {
	ctx := c.Request().Context()

	session, err := h.ports.Chat.Resume(ctx, c.Param("id"), h.deviceID(c))
	if err != nil {
		return errorJSON(c, err)
	}

	docs, err := readUploads(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	session, summary, err := h.ports.Chat.Ingest(ctx, session, docs)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, IngestResponse{SessionID: session.ID, IngestSummary: summary})
}

// readUploads reads every multipart "files" part into memory.
// A request without a multipart body yields no documents.
func readUploads(c echo.Context) ([]domain.Document, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid multipart body: %w", err)
	}

	headers := form.File["files"]
	docs := make([]domain.Document, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", fh.Filename, err)
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fh.Filename, err)
		}
		docs = append(docs, domain.Document{Name: fh.Filename, Content: content})
	}
	return docs, nil
}

// Ask answers a question from the session's documents.
// POST /api/sessions/:id/messages
func (h *Handler) Ask(c echo.Context) error {
	ctx := c.Request().Context()

	var req AskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Question == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "question is required"})
	}

	session, err := h.ports.Chat.Resume(ctx, c.Param("id"), h.deviceID(c))
	if err != nil {
		return errorJSON(c, err)
	}

	session, answer, err := h.ports.Chat.Ask(ctx, session, req.Question, req.Model)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, AskResponse{SessionID: session.ID, Answer: answer})
}
