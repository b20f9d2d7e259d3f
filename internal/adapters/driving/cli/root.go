// Package cli provides the cobra command tree for docchat.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/docchat/internal/config"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose  bool
	deviceID string
)

// PromptWatcher reloads prompt templates while a long-running command is up.
type PromptWatcher interface {
	Watch(ctx context.Context) error
}

// ConfigStore reads and writes the config file.
type ConfigStore interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
	Exists() bool
	Path() string
}

// ConfigChecker pings the configured AI providers.
type ConfigChecker interface {
	Check(cfg *config.Config) ([]ai.CheckResult, error)
}

// Services holds the driving ports and settings the commands use.
type Services struct {
	Chat    driving.ChatService
	History driving.HistoryService
	Video   driving.VideoService
	Prompts PromptWatcher

	Config   *config.Config
	DeviceID string

	// Close releases the services. May be nil.
	Close func() error
}

// ServicesBuilder creates the services on first use.
type ServicesBuilder func() (*Services, error)

var (
	services      *Services
	buildServices ServicesBuilder

	configStore   ConfigStore
	configChecker ConfigChecker
)

// SetServices installs ready-built services.
func SetServices(s *Services) {
	services = s
}

// SetServicesBuilder installs a builder that runs after flags are parsed,
// so verbose logging covers start-up.
func SetServicesBuilder(fn ServicesBuilder) {
	buildServices = fn
}

// SetConfig installs the config store and provider checker used by the
// config commands.
func SetConfig(store ConfigStore, checker ConfigChecker) {
	configStore = store
	configChecker = checker
}

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents",
	Long: `docchat answers questions about the documents you give it.

Upload PDF, DOCX or text files into a session, then ask questions. Answers
are generated only from the passages retrieved from that session's files.
Conversations are kept for a week and can be resumed.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&deviceID, "device", "", "device id that owns new sessions (default: this machine)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadServices returns the installed services, building them on first use.
func loadServices() (*Services, error) {
	if services != nil {
		return services, nil
	}
	if buildServices == nil {
		return nil, errors.New("services not configured")
	}

	s, err := buildServices()
	if err != nil {
		return nil, fmt.Errorf("starting docchat: %w", err)
	}
	services = s
	return services, nil
}

// chatServices returns services with a chat port.
func chatServices() (*Services, error) {
	s, err := loadServices()
	if err != nil {
		return nil, err
	}
	if s.Chat == nil {
		return nil, errors.New("chat service not configured")
	}
	return s, nil
}

// historyServices returns services with a history port.
func historyServices() (*Services, error) {
	s, err := loadServices()
	if err != nil {
		return nil, err
	}
	if s.History == nil {
		return nil, errors.New("history service not configured")
	}
	return s, nil
}

func closeServices() error {
	if services == nil || services.Close == nil {
		return nil
	}
	err := services.Close()
	services.Close = nil
	return err
}

// userID returns the --device flag or the machine's device id.
func userID(s *Services) string {
	if deviceID != "" {
		return deviceID
	}
	return s.DeviceID
}
