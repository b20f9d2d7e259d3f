package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ListHistory lists the caller's recent conversations, newest first.
// With ?grouped=true the records are grouped by recency.
// With ?all=true every device's records are returned.
// GET /api/history
func (h *Handler) ListHistory(c echo.Context) error {
	if h.ports.History == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "history is not enabled"})
	}

	userID := h.deviceID(c)
	if c.QueryParam("all") == "true" {
		userID = ""
	}

	records, err := h.ports.History.List(c.Request().Context(), userID)
	if err != nil {
		return errorJSON(c, err)
	}
	if records == nil {
		records = []domain.ChatRecord{}
	}

	if c.QueryParam("grouped") == "true" {
		return c.JSON(http.StatusOK, h.ports.History.Group(records))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"sessions": records,
		"count":    len(records),
	})
}

// DeleteHistory removes a conversation and its index.
// DELETE /api/history/:id
func (h *Handler) DeleteHistory(c echo.Context) error {
	if h.ports.History == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "history is not enabled"})
	}

	if err := h.ports.History.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
