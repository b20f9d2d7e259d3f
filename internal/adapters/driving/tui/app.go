package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	chatView    *chat.View
	historyView *history.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a TUI over session. When the session is not ready, docs
// are indexed into it on start.
func NewApp(ports *Ports, session domain.Session, docs []domain.Document) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		chatView:    chat.NewView(s, km, ports.Chat, session, docs),
		currentView: messages.ViewChat,
	}
	if ports.History != nil {
		a.historyView = history.NewView(s, km, ports.Chat, ports.History, ports.UserID)
	}
	return a, nil
}

// WithContext sets the context for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	if a.historyView != nil {
		a.historyView.WithContext(ctx)
	}
	return a
}

// WithModel selects the answering model.
func (a *App) WithModel(id string) *App {
	a.chatView.SetModel(id)
	return a
}

// Model returns the selected answering model.
func (a *App) Model() string {
	return a.chatView.Model()
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("docchat"),
		a.chatView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.IngestCompleted, messages.AnswerReceived:
		a.chatView, cmd = a.chatView.Update(msg)
		a.err = a.chatView.Err()
		return a, cmd

	case messages.HistoryLoaded:
		if a.historyView != nil {
			a.historyView, cmd = a.historyView.Update(msg)
		}
		return a, cmd

	case messages.SessionResumed:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.chatView.SetSession(msg.Session)
		a.currentView = messages.ViewChat
		return a, nil

	case messages.SessionDeleted:
		if a.historyView != nil {
			a.historyView, cmd = a.historyView.Update(msg)
		}
		if msg.Err == nil && msg.ID == a.chatView.Session().ID {
			a.chatView.SetSession(a.ports.Chat.NewSession(a.ports.UserID))
		}
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward everything else, e.g. cursor blinks, to the active view.
	if a.currentView == messages.ViewHistory && a.historyView != nil {
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd
	}
	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	if a.currentView == messages.ViewHistory {
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, a.keymap.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keymap.History):
		return a, a.switchTo(messages.ViewHistory)
	}

	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

// switchTo activates a view, loading the history list when it opens.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	if view == messages.ViewHistory {
		if a.historyView == nil {
			a.err = ErrHistoryDisabled
			return nil
		}
		a.currentView = messages.ViewHistory
		return a.historyView.Load()
	}
	a.currentView = messages.ViewChat
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.currentView == messages.ViewHistory && a.historyView != nil {
		return a.historyView.View()
	}
	return a.chatView.View()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Session returns the session shown in the chat view.
func (a *App) Session() domain.Session {
	return a.chatView.Session()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its first window size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatView.SetDimensions(width, height)
	if a.historyView != nil {
		a.historyView.SetDimensions(width, height)
	}
}
