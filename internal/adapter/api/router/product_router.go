package router

import (
	"github.com/labstack/echo/v4"

	"startupmarket/internal/adapter/api/handler"
)

func SetupProductRouter(e *echo.Echo, m ...echo.MiddlewareFunc) {
	productHandler := handler.GetProductHandler()

	products := e.Group("/v1/products", m...)
	products.GET("", productHandler.ListProducts)
	products.GET("/:id", productHandler.GetProduct)

	myProducts := e.Group("/v1/my-products", m...)
	myProducts.GET("", productHandler.ListMyProducts)
	myProducts.POST("", productHandler.CreateProduct)
	myProducts.DELETE("/:id", productHandler.DeleteProduct)
}
