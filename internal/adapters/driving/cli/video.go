package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var videoCmd = &cobra.Command{
	Use:   "video [file]",
	Short: "Summarise a short video clip",
	Long: `Samples frames from a short video and asks a vision model for a narrative
summary. Videos longer than the configured ceiling (10 seconds by default)
are rejected. Requires ffmpeg and ffprobe on PATH.`,
	Args: cobra.ExactArgs(1),
	RunE: runVideo,
}

func init() {
	rootCmd.AddCommand(videoCmd)
}

func runVideo(cmd *cobra.Command, args []string) error {
	s, err := loadServices()
	if err != nil {
		return err
	}
	if s.Video == nil {
		return errors.New("video service not configured")
	}

	summary, err := s.Video.Summarize(cmd.Context(), args[0])
	if errors.Is(err, domain.ErrVideoTooLong) {
		return fmt.Errorf("video is longer than %.0f seconds; please upload a shorter clip", s.Video.MaxDuration())
	}
	if err != nil {
		return fmt.Errorf("video summary failed: %w", err)
	}

	cmd.Println(summary)
	return nil
}
