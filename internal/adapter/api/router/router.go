package router

import (
	"github.com/labstack/echo/v4"

	"startupmarket/internal/adapter/api/middleware"
	"startupmarket/internal/infrastructure/ratelimit"
)

// Setup mounts every route group. Handlers must be initialised with handler.Setup first.
func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter ratelimit.Limiter) {
	protected := []echo.MiddlewareFunc{authMiddleware.Authenticate}
	if limiter != nil {
		protected = append(protected, middleware.RateLimit(limiter))
	}

	SetupHealthRouter(e)
	SetupCategoryRouter(e)
	SetupOfferRouter(e, protected...)
	SetupFavoriteRouter(e, protected...)
	SetupProductRouter(e, protected...)
	SetupUserRouter(e, protected...)
	SetupWebSocketRouter(e, authMiddleware)
}
