// Command docchat answers questions about uploaded documents.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/docchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/docchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/docchat/internal/app"
)

func main() {
	store, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cli.SetConfig(store, ai.NewConfigValidator())
	cli.SetServicesBuilder(buildServices)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildServices loads the configuration and wires the application.
func buildServices() (*cli.Services, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.Build(cfg)
	if err != nil {
		return nil, err
	}

	s := &cli.Services{
		Chat:     a.Chat,
		History:  a.History,
		Video:    a.Video,
		Config:   a.Config,
		DeviceID: a.DeviceID,
		Close:    a.Close,
	}
	if a.Prompts != nil {
		s.Prompts = a.Prompts
	}
	return s, nil
}
