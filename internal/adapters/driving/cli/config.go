package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docchat/internal/config"
)

var (
	configForce       bool
	configInteractive bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `Create, show and check docchat's configuration.

The file lives at ~/.docchat/config.toml unless DOCCHAT_CONFIG points
elsewhere. Environment variables such as OPENROUTER_API_KEY override it.`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	Long: `Write the default configuration to the config file.

With --interactive, asks for the embedding provider and API keys first.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the AI providers are reachable",
	RunE:  runConfigCheck,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")
	configInitCmd.Flags().BoolVarP(&configInteractive, "interactive", "i", false, "prompt for providers and keys")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	if configStore.Exists() && !configForce {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configStore.Path())
	}

	cfg := config.Default()
	if configInteractive {
		reader := bufio.NewReader(cmd.InOrStdin())
		if err := configureProviders(cmd, reader, cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := configStore.Save(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	cmd.Printf("Wrote %s\n", configStore.Path())
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := effectiveConfig()
	if err != nil {
		return err
	}

	settings, err := file.Flatten(cfg.Masked())
	if err != nil {
		return fmt.Errorf("failed to flatten config: %w", err)
	}

	if configStore != nil {
		cmd.Printf("# %s\n", configStore.Path())
	}
	for _, s := range settings {
		cmd.Printf("%s = %v\n", s.Key, s.Value)
	}
	return nil
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	if configChecker == nil {
		return errors.New("config checker not configured")
	}

	cfg, err := effectiveConfig()
	if err != nil {
		return err
	}

	results, err := configChecker.Check(cfg)
	for _, r := range results {
		status := "OK"
		if !r.OK() {
			status = "FAILED: " + r.Err.Error()
		}
		cmd.Printf("%-10s %s (%s) ... %s\n", r.Name, r.Provider, r.Model, status)
	}
	if err != nil {
		return errors.New("one or more providers are unreachable")
	}
	return nil
}

// effectiveConfig returns the running services' config, else the file's.
func effectiveConfig() (*config.Config, error) {
	if services != nil && services.Config != nil {
		return services.Config, nil
	}
	if configStore == nil {
		return nil, errors.New("config store not configured")
	}
	cfg, err := configStore.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

func configureProviders(cmd *cobra.Command, reader *bufio.Reader, cfg *config.Config) error {
	cmd.Print("OpenRouter API key (leave empty to use OPENROUTER_API_KEY): ")
	cfg.LLM.APIKey = readPassword(cmd.InOrStdin(), reader)
	cmd.Println()

	cmd.Println("Select Embedding Provider")
	providers := []string{config.ProviderOllama, config.ProviderOpenAI}
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p)
	}
	cmd.Print("\nEnter choice [1]: ")
	cfg.Embedding.Provider = providers[parseChoice(readLine(reader), len(providers), 1)-1]

	cmd.Printf("Enter model name [%s]: ", cfg.Embedding.Model)
	if model := readLine(reader); model != "" {
		cfg.Embedding.Model = model
	}

	if cfg.Embedding.Provider == config.ProviderOpenAI {
		cmd.Print("OpenAI API key: ")
		cfg.Embedding.APIKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if cfg.Embedding.APIKey == "" {
			return errors.New("API key is required for this provider")
		}
	}
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}
