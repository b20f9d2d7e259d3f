package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

var (
	chatSession string
	chatModel   string
)

// errNotTerminal is returned when chat is started without a terminal.
var errNotTerminal = errors.New("chat needs an interactive terminal; use 'docchat ask' in scripts")

// isTerminal and runApp are replaced in tests.
var (
	isTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	}
	runApp = func(app *tui.App) error { return app.Run() }
)

var chatCmd = &cobra.Command{
	Use:   "chat [files...]",
	Short: "Chat with documents in the terminal UI",
	Long: `Opens the interactive chat. Files given on the command line are indexed
into a new session before the prompt is enabled; --session resumes an
earlier conversation instead.

Controls:
  Enter   - Ask
  Tab     - Switch model
  Ctrl+N  - New chat (re-indexes the files)
  Ctrl+O  - History
  Esc     - Back / Quit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "session to resume")
	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "model that answers questions (default: llm.default_model)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if !isTerminal() {
		return errNotTerminal
	}

	s, err := chatServices()
	if err != nil {
		return err
	}
	model, ok := s.Chat.Models().Resolve(chatModel)
	if !ok {
		return fmt.Errorf("%w: unknown model %q; see 'docchat models'", domain.ErrInvalidInput, model)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	docs, err := readDocuments(args)
	if err != nil {
		return err
	}

	session := s.Chat.NewSession(userID(s))
	if chatSession != "" {
		session, err = s.Chat.Resume(ctx, chatSession, userID(s))
		if err != nil {
			return fmt.Errorf("failed to resume session: %w", err)
		}
		if len(docs) > 0 {
			session = session.WithReady(false)
		}
	}

	app, err := tui.NewApp(tui.NewPorts(s.Chat, s.History, userID(s)), session, docs)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx).WithModel(model)

	watchPrompts(ctx, s)

	if err := runApp(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
