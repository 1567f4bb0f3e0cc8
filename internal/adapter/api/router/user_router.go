package router

import (
	"github.com/labstack/echo/v4"

	"startupmarket/internal/adapter/api/handler"
)

func SetupUserRouter(e *echo.Echo, m ...echo.MiddlewareFunc) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/v1/users", m...)
	users.GET("/me", userHandler.GetMe)
	users.PUT("/me", userHandler.UpdateMe)
}
