package router

import (
	"github.com/labstack/echo/v4"

	"startupmarket/internal/adapter/api/handler"
)

func SetupOfferRouter(e *echo.Echo, m ...echo.MiddlewareFunc) {
	offerHandler := handler.GetOfferHandler()

	offers := e.Group("/v1/offers", m...)
	offers.POST("", offerHandler.CreateOffer)
	offers.GET("/received", offerHandler.ListReceived)
	offers.GET("/sent", offerHandler.ListSent)
	offers.GET("/product/:id", offerHandler.ListForProduct)
	offers.GET("/:id", offerHandler.GetOffer)
	offers.GET("/:id/history", offerHandler.GetOfferHistory)

	// Seller actions on a pending offer
	offers.POST("/:id/accept", offerHandler.AcceptOffer)
	offers.POST("/:id/reject", offerHandler.RejectOffer)
	offers.POST("/:id/counter", offerHandler.CounterOffer)

	// Buyer response to a counter-offer
	offers.POST("/:id/counter/respond", offerHandler.RespondToCounter)
}
