package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/voxlab/assistant/internal/domain"
)

// Chat handles one chat turn.
// POST /chat
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorBody{
			Error: domain.ErrorDetail{Kind: domain.KindInvalidInput, Message: "malformed request body"},
		})
	}

	ctx := c.Request().Context()

	reply, err := h.service.HandleTurn(ctx, req.UserInput)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, domain.ChatResponse{Response: reply})
}
