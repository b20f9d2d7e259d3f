package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestExtractSessionID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid session URI",
			uri:      "docchat://sessions/" + testSessionID,
			expected: testSessionID,
		},
		{
			name:     "invalid prefix",
			uri:      "file://sessions/abc",
			expected: "",
		},
		{
			name:     "nested path",
			uri:      "docchat://sessions/abc/messages",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractSessionID(tt.uri))
		})
	}
}

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleModelsResource(t *testing.T) {
	server := newTestServer(t, &Ports{Chat: &mockChatService{}})

	result, err := server.handleModelsResource(context.Background(), makeReadResourceRequest("docchat://models"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, domain.ModelGPTOSS)
	assert.Contains(t, result.Contents[0].Text, domain.ModelQwen)

	local := newTestServer(t, &Ports{Chat: &mockChatService{models: domain.LocalCatalog("llama3.2")}})
	result, err = local.handleModelsResource(context.Background(), makeReadResourceRequest("docchat://models"))

	require.NoError(t, err)
	assert.Contains(t, result.Contents[0].Text, "llama3.2")
	assert.NotContains(t, result.Contents[0].Text, domain.ModelQwen)
}

func TestServer_handleSessionResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns transcript", func(t *testing.T) {
		chat := &mockChatService{session: domain.Session{
			Title: "Refunds",
			Messages: []domain.Message{
				{Role: domain.RoleUser, Content: "How do refunds work?"},
				{Role: domain.RoleAssistant, Content: "Within 30 days."},
			},
			Ready: true,
		}}
		server := newTestServer(t, &Ports{Chat: chat})

		result, err := server.handleSessionResource(ctx, makeReadResourceRequest("docchat://sessions/"+testSessionID))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "# Refunds\n\nuser: How do refunds work?\n\nassistant: Within 30 days.", result.Contents[0].Text)
	})

	t.Run("unknown session", func(t *testing.T) {
		server := newTestServer(t, &Ports{Chat: &mockChatService{}})
		_, err := server.handleSessionResource(ctx, makeReadResourceRequest("docchat://sessions/"+testSessionID))
		assert.Error(t, err)
	})

	t.Run("invalid id", func(t *testing.T) {
		server := newTestServer(t, &Ports{Chat: &mockChatService{resumeErr: domain.ErrInvalidSessionID}})
		_, err := server.handleSessionResource(ctx, makeReadResourceRequest("docchat://sessions/bad"))
		assert.Error(t, err)
	})

	t.Run("malformed URI", func(t *testing.T) {
		server := newTestServer(t, &Ports{Chat: &mockChatService{}})
		_, err := server.handleSessionResource(ctx, makeReadResourceRequest("docchat://other"))
		assert.Error(t, err)
	})
}
