// Package http provides the HTTP server for the assistant backend.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/voxlab/assistant/internal/service"
	v1 "github.com/voxlab/assistant/internal/transport/http/v1"
)

// NewServer creates and configures the HTTP server. It serves the chat and
// usage endpoints plus conversation history for front-end hydration.
func NewServer(svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	handler := v1.NewHandler(svc)
	handler.RegisterRoutes(e)

	return e
}
