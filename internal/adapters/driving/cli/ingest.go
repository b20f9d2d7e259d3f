package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var (
	ingestSession string
	ingestJSON    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Index documents into a chat session",
	Long: `Extracts text from PDF, DOCX and text files, splits it into chunks and
builds the session's vector index. Ingesting into an existing session
replaces its index; the conversation is kept.

A new session is created unless --session is given. Use the printed
session id with 'docchat ask'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestSession, "session", "s", "", "existing session to re-index")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the summary as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	s, err := chatServices()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	docs, err := readDocuments(args)
	if err != nil {
		return err
	}

	session := s.Chat.NewSession(userID(s))
	if ingestSession != "" {
		session, err = s.Chat.Resume(ctx, ingestSession, userID(s))
		if err != nil {
			return fmt.Errorf("failed to resume session: %w", err)
		}
	}

	session, summary, err := s.Chat.Ingest(ctx, session, docs)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		data, err := json.MarshalIndent(struct {
			SessionID string `json:"session_id"`
			domain.IngestSummary
		}{session.ID, summary}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Session: %s\n", session.ID)
	cmd.Printf("  Documents:  %d\n", summary.Documents)
	cmd.Printf("  Characters: %d\n", summary.Characters)
	cmd.Printf("  Chunks:     %d\n", summary.Chunks)
	if len(summary.Skipped) > 0 {
		cmd.Printf("  Skipped:    %s\n", strings.Join(summary.Skipped, ", "))
	}
	return nil
}

// readDocuments loads each path into a document named after its base name.
func readDocuments(paths []string) ([]domain.Document, error) {
	docs := make([]domain.Document, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		docs = append(docs, domain.Document{Name: filepath.Base(path), Content: content})
	}
	return docs, nil
}
