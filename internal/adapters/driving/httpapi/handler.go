// Package httpapi exposes the chat services as a JSON REST API using echo.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// DeviceHeader carries the caller's device id.
const DeviceHeader = "X-Device-ID"

// ErrMissingChatService is returned when the chat port is not wired.
var ErrMissingChatService = errors.New("httpapi: chat service is required")

// Ports holds the driving ports served over HTTP.
type Ports struct {
	Chat    driving.ChatService
	History driving.HistoryService // optional
	Video   driving.VideoService   // optional

	// UploadsDir receives uploaded videos while they are summarised.
	UploadsDir string

	// DefaultDeviceID is used when a request has no device header.
	DefaultDeviceID string
}

// Handler handles docchat HTTP requests.
type Handler struct {
	ports Ports
}

// NewHandler creates a new API handler.
func NewHandler(ports Ports) (*Handler, error) {
	if ports.Chat == nil {
		return nil, ErrMissingChatService
	}
	return &Handler{ports: ports}, nil
}

// RegisterRoutes registers API routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	api := e.Group("/api")

	// Models
	api.GET("/models", h.ListModels)

	// Sessions
	api.POST("/sessions", h.CreateSession)
	api.GET("/sessions/:id", h.GetSession)
	api.POST("/sessions/:id/documents", h.UploadDocuments)
	api.POST("/sessions/:id/messages", h.Ask)

	// History
	api.GET("/history", h.ListHistory)
	api.DELETE("/history/:id", h.DeleteHistory)

	// Video
	api.POST("/video", h.SummarizeVideo)
}

// Health reports liveness.
// GET /healthz
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ListModels returns the models the configured provider serves.
// GET /api/models
func (h *Handler) ListModels(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ports.Chat.Models())
}

// deviceID returns the request's device id.
func (h *Handler) deviceID(c echo.Context) string {
	if id := c.Request().Header.Get(DeviceHeader); id != "" {
		return id
	}
	return h.ports.DefaultDeviceID
}

// errorJSON writes err with the status its category maps to.
func errorJSON(c echo.Context, err error) error {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidSessionID),
		errors.Is(err, domain.ErrNoDocuments):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoText),
		errors.Is(err, domain.ErrVideoTooLong),
		errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrExtractorUnavailable),
		errors.Is(err, domain.ErrIndexUnavailable),
		errors.Is(err, domain.ErrRateLimited):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
