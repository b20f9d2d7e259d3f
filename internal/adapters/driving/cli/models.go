package cli

import (
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models that can answer questions",
	Long: `Lists the models the configured LLM provider can answer with. The
default, marked with *, comes from llm.default_model. A local Ollama
provider serves that model only.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := chatServices()
		if err != nil {
			return err
		}
		models := s.Chat.Models()
		for _, m := range models.Options {
			marker := " "
			if m.ID == models.Default {
				marker = "*"
			}
			cmd.Printf("%s %-12s %s\n", marker, m.Label, m.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
