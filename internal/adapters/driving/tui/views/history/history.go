// Package history provides the view listing recent conversations.
package history

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// View lists the user's conversations from the retention window.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	list   *list.SessionList

	chat    driving.ChatService
	history driving.HistoryService
	ctx     context.Context
	userID  string

	err    error
	width  int
	height int
}

// NewView creates a history view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	chat driving.ChatService,
	history driving.HistoryService,
	userID string,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:  s,
		keymap:  km,
		list:    list.NewSessionList(s),
		chat:    chat,
		history: history,
		ctx:     context.Background(),
		userID:  userID,
		width:   80,
		height:  24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the conversation list.
func (v *View) Init() tea.Cmd {
	return v.Load()
}

// Load returns a command that fetches the user's conversations.
func (v *View) Load() tea.Cmd {
	history, ctx, userID := v.history, v.ctx, v.userID
	return func() tea.Msg {
		records, err := history.List(ctx, userID)
		return messages.HistoryLoaded{Records: records, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.HistoryLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.list.SetRecords(msg.Records)
		}

	case messages.SessionDeleted:
		v.err = msg.Err
		if msg.Err == nil {
			v.list.Remove(msg.ID)
		}

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}

	case key.Matches(msg, v.keymap.Select):
		rec := v.list.SelectedRecord()
		if rec == nil {
			return v, nil
		}
		chat, ctx, id, userID := v.chat, v.ctx, rec.ID, v.userID
		return v, func() tea.Msg {
			session, err := chat.Resume(ctx, id, userID)
			return messages.SessionResumed{Session: session, Err: err}
		}

	case key.Matches(msg, v.keymap.Delete):
		rec := v.list.SelectedRecord()
		if rec == nil {
			return v, nil
		}
		history, ctx, id := v.history, v.ctx, rec.ID
		return v, func() tea.Msg {
			return messages.SessionDeleted{ID: id, Err: history.Delete(ctx, id)}
		}

	case key.Matches(msg, v.keymap.Up):
		v.list.MoveUp()
	case key.Matches(msg, v.keymap.Down):
		v.list.MoveDown()
	}
	return v, nil
}

// View renders the history view.
func (v *View) View() string {
	header := v.styles.Title.Render("Chat history")
	body := v.list.View()
	if v.err != nil {
		body = v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)) + "\n\n" + body
	}

	help := v.styles.Help.Render("enter: open  d: delete  esc: back")
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", help)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-6)
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// List returns the underlying session list.
func (v *View) List() *list.SessionList {
	return v.list
}
