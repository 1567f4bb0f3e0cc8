package router

import (
	"github.com/labstack/echo/v4"

	"startupmarket/internal/adapter/api/handler"
)

func SetupFavoriteRouter(e *echo.Echo, m ...echo.MiddlewareFunc) {
	favoriteHandler := handler.GetFavoriteHandler()

	favorites := e.Group("/v1/favorites", m...)
	favorites.GET("", favoriteHandler.ListFavorites)
	favorites.GET("/count", favoriteHandler.GetFavoriteCount)
	favorites.POST("/:productId", favoriteHandler.AddFavorite)
	favorites.DELETE("/:productId", favoriteHandler.RemoveFavorite)
	favorites.GET("/:productId/status", favoriteHandler.CheckFavoriteStatus)
}
