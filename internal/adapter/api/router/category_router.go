package router

import (
	"github.com/labstack/echo/v4"

	"startupmarket/internal/adapter/api/handler"
)

// SetupCategoryRouter exposes the catalog without authentication so listing
// forms can load it before sign-in.
func SetupCategoryRouter(e *echo.Echo) {
	productHandler := handler.GetProductHandler()
	e.GET("/v1/categories", productHandler.ListCategories)
}
