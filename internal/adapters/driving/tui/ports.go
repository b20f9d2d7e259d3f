// Package tui provides an interactive terminal chat over indexed documents.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Chat indexes documents and answers questions.
	Chat driving.ChatService

	// History lists and deletes past conversations. Optional; the history
	// view is unavailable without it.
	History driving.HistoryService

	// UserID scopes the history list to one device.
	UserID string
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(chat driving.ChatService, history driving.HistoryService, userID string) *Ports {
	return &Ports{
		Chat:    chat,
		History: history,
		UserID:  userID,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
