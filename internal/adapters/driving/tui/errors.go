package tui

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("tui: chat service is required")

// ErrHistoryDisabled is reported when the history view is opened without a
// history service.
var ErrHistoryDisabled = errors.New("tui: chat history is disabled")
