package router

import (
	"github.com/labstack/echo/v4"

	"startupmarket/internal/adapter/api/handler"
	"startupmarket/internal/adapter/api/middleware"
)

// SetupWebSocketRouter sets up the offer notification stream
func SetupWebSocketRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	e.GET("/v1/ws", handler.GetWebSocketHandler().HandleWebSocket, authMiddleware.AuthenticateWebSocket)
}
