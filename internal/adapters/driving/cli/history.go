package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var (
	historyAll     bool
	historyGrouped bool
	historyJSON    bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage past conversations",
	Long:  `List, show or delete conversations from the last seven days.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent conversations",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Print a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a conversation and its index",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyListCmd.Flags().BoolVarP(&historyAll, "all", "a", false, "include conversations from every device")
	historyListCmd.Flags().BoolVarP(&historyGrouped, "grouped", "g", false, "group by Today, Yesterday and Previous 7 Days")
	historyListCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	s, err := historyServices()
	if err != nil {
		return err
	}

	user := userID(s)
	if historyAll {
		user = ""
	}

	records, err := s.History.List(cmd.Context(), user)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if historyJSON {
		var v any = records
		if historyGrouped {
			v = s.History.Group(records)
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(records) == 0 {
		cmd.Println("No conversations found.")
		return nil
	}

	if !historyGrouped {
		printRecords(cmd, records)
		return nil
	}

	groups := s.History.Group(records)
	for _, g := range []struct {
		name    string
		records []domain.ChatRecord
	}{
		{"Today", groups.Today},
		{"Yesterday", groups.Yesterday},
		{"Previous 7 Days", groups.Previous7Days},
	} {
		if len(g.records) == 0 {
			continue
		}
		cmd.Printf("%s\n", g.name)
		printRecords(cmd, g.records)
		cmd.Println()
	}
	return nil
}

func printRecords(cmd *cobra.Command, records []domain.ChatRecord) {
	for i := range records {
		cmd.Printf("  %s  %s  %s (%d messages)\n",
			records[i].ID,
			records[i].Timestamp.Format("2006-01-02 15:04"),
			records[i].Title,
			len(records[i].Messages))
	}
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	s, err := historyServices()
	if err != nil {
		return err
	}

	rec, err := s.History.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get conversation: %w", err)
	}

	cmd.Printf("%s\n", rec.Title)
	cmd.Printf("Last active: %s\n\n", rec.Timestamp.Format("2006-01-02 15:04:05"))
	for _, m := range rec.Messages {
		cmd.Printf("[%s] %s\n\n", m.Role, m.Content)
	}
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	s, err := historyServices()
	if err != nil {
		return err
	}

	if err := s.History.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	cmd.Printf("Deleted conversation: %s\n", args[0])
	return nil
}
