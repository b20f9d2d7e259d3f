package domain

// Role identifies the author of a message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is a single conversation turn. Messages are immutable once appended.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Fixed responses produced by the chat pipeline.
const (
	// NoContextResponse is returned when a session has no usable index.
	NoContextResponse = "Context not found for this session. Please upload documents to start."

	// AnswerNotAvailable is the phrase the model is instructed to reply with
	// when the context does not contain the answer.
	AnswerNotAvailable = "answer is not available in the context"
)

// Session is the unit of isolation: one uploaded corpus, its index and its
// conversation. Sessions are values; interactions take the current session
// and return the next one.
type Session struct {
	// ID is the session's UUID. It keys both the index and the history record.
	ID string `json:"id"`

	// UserID is the device identifier that owns the session. May be empty.
	UserID string `json:"user_id,omitempty"`

	// Title is the history title, empty until first saved.
	Title string `json:"title,omitempty"`

	// Messages is the conversation in order.
	Messages []Message `json:"messages"`

	// Ready is true once the session has a built index and chat is enabled.
	Ready bool `json:"ready"`
}

// NewSession returns an empty session with the given identifiers.
func NewSession(id, userID string) Session {
	return Session{ID: id, UserID: userID}
}

// Append returns a copy of the session with msg added to the conversation.
// The receiver's message slice is never modified.
func (s Session) Append(msg Message) Session {
	msgs := make([]Message, len(s.Messages), len(s.Messages)+1)
	copy(msgs, s.Messages)
	s.Messages = append(msgs, msg)
	return s
}

// WithReady returns a copy of the session with Ready set.
func (s Session) WithReady(ready bool) Session {
	s.Ready = ready
	return s
}

// LastAnswer returns the content of the most recent assistant message.
func (s Session) LastAnswer() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i].Content
		}
	}
	return ""
}
