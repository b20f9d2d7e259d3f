package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for docchat resources.
	uriScheme = "docchat://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "models",
		Name:        "models",
		Description: "Models that can answer questions",
		MIMEType:    "application/json",
	}, s.handleModelsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sessions/{sessionId}",
		Name:        "session-transcript",
		Description: "Conversation transcript of a chat session",
		MIMEType:    "text/plain",
	}, s.handleSessionResource)
}

// handleModelsResource returns the models the configured provider serves.
func (s *Server) handleModelsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(s.ports.Chat.Models().Options, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling models: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSessionResource returns a session's conversation as plain text.
func (s *Server) handleSessionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sessionID := extractSessionID(req.Params.URI)
	if sessionID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	session, err := s.ports.Chat.Resume(ctx, sessionID, "")
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if len(session.Messages) == 0 && !session.Ready {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     transcript(session),
		}},
	}, nil
}

// transcript renders messages as "role: content" blocks.
func transcript(session domain.Session) string {
	var b strings.Builder
	if session.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", session.Title)
	}
	for _, m := range session.Messages {
		fmt.Fprintf(&b, "%s: %s\n\n", m.Role, m.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

// extractSessionID extracts the session ID from a URI like docchat://sessions/{sessionId}.
func extractSessionID(uri string) string {
	const prefix = uriScheme + "sessions/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
