package cli

import (
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docchat/internal/config"
)

var (
	serveAddr      string
	serveBodyLimit string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start a JSON REST API for sessions, document uploads, questions,
history and video summaries.

Clients identify themselves with the X-Device-ID header; requests without
it belong to this machine's device id.

Examples:
  docchat serve
  docchat serve --addr 0.0.0.0:9000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
	serveCmd.Flags().StringVar(&serveBodyLimit, "body-limit", httpapi.DefaultBodyLimit, "maximum request body size")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	s, err := chatServices()
	if err != nil {
		return err
	}

	addr := serveAddr
	uploads := ""
	if s.Config != nil {
		if addr == "" {
			addr = s.Config.Server.Addr
		}
		uploads = s.Config.UploadsDir()
	}
	if addr == "" {
		addr = config.DefaultServerAddr
	}
	if uploads == "" {
		uploads = filepath.Join(".", "uploads")
	}

	h, err := httpapi.NewHandler(httpapi.Ports{
		Chat:            s.Chat,
		History:         s.History,
		Video:           s.Video,
		UploadsDir:      uploads,
		DefaultDeviceID: userID(s),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	watchPrompts(ctx, s)

	cmd.Printf("docchat API listening on http://%s\n", addr)
	return httpapi.Run(ctx, httpapi.NewServer(h, serveBodyLimit), addr)
}

