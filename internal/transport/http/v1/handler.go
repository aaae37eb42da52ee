// Package v1 provides HTTP handlers for the assistant backend.
package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/voxlab/assistant/internal/domain"
	"github.com/voxlab/assistant/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Chat API
	e.POST("/chat", h.Chat)
	e.GET("/usage", h.Usage)

	// Conversation history (for front-end hydration)
	e.GET("/v1/conversation/messages", h.GetConversationTurns)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// errorResponse maps a pipeline error to its HTTP status and payload.
func errorResponse(c echo.Context, err error) error {
	kind := domain.Kind(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrModelUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrStoreUnavailable):
		status = http.StatusInternalServerError
	}
	return c.JSON(status, domain.ErrorBody{
		Error: domain.ErrorDetail{Kind: kind, Message: err.Error()},
	})
}
