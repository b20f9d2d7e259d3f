// Package chat provides the conversation view: a scrolling transcript above
// a prompt line.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// chromeHeight is the number of rows used by the header, prompt and status bar.
const chromeHeight = 6

// View is the chat view.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.PromptInput
	transcript viewport.Model
	statusbar  *status.Bar

	chat   driving.ChatService
	ctx    context.Context
	userID string

	session domain.Session
	docs    []domain.Document
	models  []domain.ModelOption
	model   int
	busy    bool
	err     error

	width  int
	height int
}

// NewView creates a chat view over session. docs are indexed into every new
// chat the view starts.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	chat driving.ChatService,
	session domain.Session,
	docs []domain.Document,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewPromptInput(s),
		transcript: viewport.New(80, 18),
		statusbar:  status.NewBar(s, km),
		chat:       chat,
		ctx:        context.Background(),
		userID:     session.UserID,
		session:    session,
		docs:       docs,
		width:      80,
		height:     24,
	}
	catalog := domain.HostedCatalog()
	if chat != nil {
		catalog = chat.Models()
	}
	v.models = catalog.Options
	v.SetModel(catalog.Default)
	v.refreshTranscript()
	return v
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetModel selects the model with the given id. Unknown ids are ignored.
func (v *View) SetModel(id string) {
	for i, m := range v.models {
		if m.ID == id {
			v.model = i
			v.statusbar.SetModel(m.Label)
			return
		}
	}
}

// Init indexes the start-up documents when the session is not ready yet.
func (v *View) Init() tea.Cmd {
	cmds := []tea.Cmd{v.input.Init()}
	if !v.session.Ready && len(v.docs) > 0 {
		cmds = append(cmds, v.ingest(v.session))
	} else if !v.session.Ready {
		v.statusbar.SetState(status.StateNoDocs)
	}
	return tea.Batch(cmds...)
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.IngestCompleted:
		v.busy = false
		if msg.Err != nil {
			if msg.Session.ID == v.session.ID {
				v.session = v.session.WithReady(msg.Session.Ready)
			}
			v.setError(msg.Err)
			return v, nil
		}
		v.session = msg.Session
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage(fmt.Sprintf("Indexed %d chunks from %d documents", msg.Summary.Chunks, msg.Summary.Documents))
		v.refreshTranscript()
		return v, nil

	case messages.AnswerReceived:
		v.busy = false
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.session = msg.Session
		v.statusbar.Clear()
		v.refreshTranscript()
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.transcript, cmd = v.transcript.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Send):
		return v, v.submit()

	case key.Matches(msg, v.keymap.NextModel):
		v.model = (v.model + 1) % len(v.models)
		v.statusbar.SetModel(v.models[v.model].Label)
		return v, nil

	case key.Matches(msg, v.keymap.NewChat):
		if v.busy {
			return v, nil
		}
		v.session = v.chat.NewSession(v.userID)
		v.refreshTranscript()
		if len(v.docs) == 0 {
			v.statusbar.SetState(status.StateNoDocs)
			return v, nil
		}
		return v, v.ingest(v.session)

	case key.Matches(msg, v.keymap.PageUp), key.Matches(msg, v.keymap.PageDown):
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit asks the question in the prompt line.
func (v *View) submit() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" || v.busy {
		return nil
	}
	if !v.session.Ready {
		v.statusbar.SetState(status.StateNoDocs)
		return nil
	}

	v.input.Reset()
	v.busy = true
	v.err = nil
	v.statusbar.SetState(status.StateThinking)

	pending := v.session.Append(domain.Message{Role: domain.RoleUser, Content: question})
	v.renderMessages(pending.Messages)

	chat, ctx, session, model := v.chat, v.ctx, v.session, v.models[v.model].ID
	return func() tea.Msg {
		next, answer, err := chat.Ask(ctx, session, question, model)
		return messages.AnswerReceived{Session: next, Answer: answer, Err: err}
	}
}

// ingest indexes the view's documents into session.
func (v *View) ingest(session domain.Session) tea.Cmd {
	v.busy = true
	v.statusbar.SetState(status.StateIndexing)

	chat, ctx, docs := v.chat, v.ctx, v.docs
	return func() tea.Msg {
		next, summary, err := chat.Ingest(ctx, session, docs)
		return messages.IngestCompleted{Session: next, Summary: summary, Err: err}
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	if errors.Is(err, domain.ErrNoText) {
		v.statusbar.SetMessage("no text could be extracted from the documents")
		return
	}
	v.statusbar.SetMessage(err.Error())
}

// SetSession replaces the displayed session, e.g. after resuming from history.
func (v *View) SetSession(session domain.Session) {
	v.session = session
	v.busy = false
	v.statusbar.Clear()
	if !session.Ready {
		v.statusbar.SetState(status.StateNoDocs)
	}
	v.refreshTranscript()
}

func (v *View) refreshTranscript() {
	v.renderMessages(v.session.Messages)
}

// renderMessages draws the conversation and scrolls to the latest turn.
func (v *View) renderMessages(msgs []domain.Message) {
	if len(msgs) == 0 {
		v.transcript.SetContent(v.styles.Muted.Render("Ask a question once your documents are indexed."))
		return
	}

	wrap := lipgloss.NewStyle().Width(v.transcript.Width)
	blocks := make([]string, 0, len(msgs))
	for _, m := range msgs {
		label := v.styles.AssistantLabel.Render("Assistant")
		if m.Role == domain.RoleUser {
			label = v.styles.UserLabel.Render("You")
		}
		blocks = append(blocks, label+"\n"+wrap.Render(m.Content))
	}
	v.transcript.SetContent(strings.Join(blocks, "\n\n"))
	v.transcript.GotoBottom()
}

// View renders the chat view.
func (v *View) View() string {
	title := v.session.Title
	if title == "" {
		title = domain.DefaultTitle
	}
	header := v.styles.Title.Render("docchat") + "  " + v.styles.Muted.Render(title)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		v.transcript.View(),
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions resizes the transcript, prompt and status bar.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height

	v.transcript.Width = width
	v.transcript.Height = max(height-chromeHeight, 3)
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.refreshTranscript()
}

// Session returns the displayed session.
func (v *View) Session() domain.Session {
	return v.session
}

// Model returns the selected model id.
func (v *View) Model() string {
	return v.models[v.model].ID
}

// Busy reports whether a request is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// StatusBar returns the view's status bar.
func (v *View) StatusBar() *status.Bar {
	return v.statusbar
}
