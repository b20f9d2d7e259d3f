// Package messages defines Bubbletea message types for the chat TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the transcript and prompt line.
	ViewChat ViewType = iota
	// ViewHistory lists past conversations.
	ViewHistory
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewHistory:
		return "history"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// IngestCompleted carries the outcome of indexing documents.
type IngestCompleted struct {
	Session domain.Session
	Summary domain.IngestSummary
	Err     error
}

// AnswerReceived carries the session after a question was answered.
type AnswerReceived struct {
	Session domain.Session
	Answer  string
	Err     error
}

// HistoryLoaded carries the user's recent conversations.
type HistoryLoaded struct {
	Records []domain.ChatRecord
	Err     error
}

// SessionResumed carries a session restored from history.
type SessionResumed struct {
	Session domain.Session
	Err     error
}

// SessionDeleted signals a conversation was deleted.
type SessionDeleted struct {
	ID  string
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
