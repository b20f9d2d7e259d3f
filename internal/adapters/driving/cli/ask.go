package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	askSession string
	askModel   string
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about a session's documents",
	Long: `Retrieves the passages most similar to the question from the session's
index and asks the model to answer from them alone. When the documents do
not contain the answer the model says so.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSession, "session", "s", "", "session to ask (required)")
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "model id (default: llm.default_model; see 'docchat models')")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askSession == "" {
		return errors.New("--session is required")
	}

	s, err := chatServices()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	session, err := s.Chat.Resume(ctx, askSession, userID(s))
	if err != nil {
		return fmt.Errorf("failed to resume session: %w", err)
	}

	session, answer, err := s.Chat.Ask(ctx, session, args[0], askModel)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(map[string]string{
			"session_id": session.ID,
			"question":   args[0],
			"answer":     answer,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer)
	return nil
}
