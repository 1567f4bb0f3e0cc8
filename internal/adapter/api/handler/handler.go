package handler

import (
	ws "startupmarket/internal/infrastructure/websocket"
	"startupmarket/internal/usecase"
)

var (
	offerHandler     *OfferHandler
	favoriteHandler  *FavoriteHandler
	productHandler   *ProductHandler
	userHandler      *UserHandler
	healthHandler    *HealthHandler
	webSocketHandler *WebSocketHandler
)

type Dependencies struct {
	OfferUseCase    *usecase.OfferUseCase
	FavoriteUseCase *usecase.FavoriteUseCase
	ProductUseCase  *usecase.ProductUseCase
	UserUseCase     *usecase.UserUseCase
	WSManager       *ws.Manager
	AllowedOrigins  []string
	StorageDriver   string
}

func Setup(deps Dependencies) {
	offerHandler = NewOfferHandler(deps.OfferUseCase)
	favoriteHandler = NewFavoriteHandler(deps.FavoriteUseCase)
	productHandler = NewProductHandler(deps.ProductUseCase)
	userHandler = NewUserHandler(deps.UserUseCase)
	healthHandler = NewHealthHandler(deps.StorageDriver)
	webSocketHandler = NewWebSocketHandler(deps.WSManager, deps.AllowedOrigins)
}

func GetOfferHandler() *OfferHandler {
	return offerHandler
}

func GetFavoriteHandler() *FavoriteHandler {
	return favoriteHandler
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func GetWebSocketHandler() *WebSocketHandler {
	return webSocketHandler
}
