package mcp

import (
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat runs ingest and ask.
	Chat driving.ChatService

	// History lists and deletes conversations. Optional.
	History driving.HistoryService

	// Video summarises short clips. Optional.
	Video driving.VideoService

	// UserID scopes history listings and new sessions to a device.
	UserID string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
