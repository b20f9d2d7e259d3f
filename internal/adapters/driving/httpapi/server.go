package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/custodia-labs/docchat/internal/logger"
)

// DefaultBodyLimit caps request bodies, uploads included.
const DefaultBodyLimit = "64M"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// NewServer creates an echo server with middleware and the handler's routes.
func NewServer(h *Handler, bodyLimit string) *echo.Echo {
	if bodyLimit == "" {
		bodyLimit = DefaultBodyLimit
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit))
	if logger.IsVerbose() {
		e.Use(middleware.Logger())
	}

	h.RegisterRoutes(e)
	return e
}

// Run serves e on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
