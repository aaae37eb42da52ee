package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/voxlab/assistant/internal/domain"
)

// Usage returns the summed token counts and estimated cost to date.
// GET /usage
func (h *Handler) Usage(c echo.Context) error {
	ctx := c.Request().Context()

	totals, err := h.service.UsageTotals(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, domain.UsageResponse{
		TotalPromptTokens:     totals.PromptTokens,
		TotalCompletionTokens: totals.CompletionTokens,
		// Rounded for readability; stored records keep full precision.
		TotalCost: totals.Cost.Round(5).String(),
	})
}

// GetConversationTurns retrieves recent turns in chronological order.
// GET /v1/conversation/messages
func (h *Handler) GetConversationTurns(c echo.Context) error {
	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}

	ctx := c.Request().Context()

	turns, err := h.service.RecentTurns(ctx, limit)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, domain.TurnsResponse{Turns: turns})
}
