package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/logger"
)

// SummarizeVideo summarises the multipart "video" upload. The file is
// written to the uploads directory for the duration of the request.
// POST /api/video
func (h *Handler) SummarizeVideo(c echo.Context) error {
	if h.ports.Video == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "video summaries are not enabled"})
	}

	fh, err := c.FormFile("video")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "video file is required"})
	}

	path, err := h.saveUpload(fh.Filename, fh.Open)
	if err != nil {
		return errorJSON(c, err)
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			logger.Warn("removing upload %s: %v", path, err)
		}
	}()

	summary, err := h.ports.Video.Summarize(c.Request().Context(), path)
	if err != nil {
		if errors.Is(err, domain.ErrVideoTooLong) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{
				"error": fmt.Sprintf("video exceeds %.0f seconds; please upload a shorter clip", h.ports.Video.MaxDuration()),
			})
		}
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"summary": summary})
}

// saveUpload copies an upload into a fresh file under the uploads directory
// and returns its path.
func (h *Handler) saveUpload(name string, open func() (multipart.File, error)) (string, error) {
	dir := h.ports.UploadsDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("creating uploads directory: %w", err)
	}

	src, err := open()
	if err != nil {
		return "", fmt.Errorf("%w: opening upload: %w", domain.ErrInvalidInput, err)
	}
	defer src.Close()

	dst, err := os.CreateTemp(dir, "video-*"+filepath.Ext(name))
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("writing upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return dst.Name(), nil
}
