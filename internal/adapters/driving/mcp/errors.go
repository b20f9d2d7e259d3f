// Package mcp provides an MCP (Model Context Protocol) server adapter for docchat.
// It lets AI assistants open chat sessions, ingest files and ask questions
// about them.
package mcp

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")
