package handler

import (
	"github.com/labstack/echo/v4"

	"startupmarket/internal/domain/entity"
	"startupmarket/internal/usecase"
	"startupmarket/pkg/errors"
	"startupmarket/pkg/response"
	"startupmarket/pkg/utils"
)

type OfferHandler struct {
	offerUseCase *usecase.OfferUseCase
}

func NewOfferHandler(offerUseCase *usecase.OfferUseCase) *OfferHandler {
	return &OfferHandler{
		offerUseCase: offerUseCase,
	}
}

func (h *OfferHandler) CreateOffer(c echo.Context) error {
	userID := c.Get("uid").(string)

	var input usecase.CreateOfferInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, errors.Validation("Invalid request body"))
	}

	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}

	offer, err := h.offerUseCase.CreateOffer(c.Request().Context(), userID, input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, offer)
}

func (h *OfferHandler) GetOffer(c echo.Context) error {
	userID := c.Get("uid").(string)

	offer, err := h.offerUseCase.GetOffer(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, offer)
}

func (h *OfferHandler) GetOfferHistory(c echo.Context) error {
	userID := c.Get("uid").(string)

	logs, err := h.offerUseCase.History(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, logs)
}

func (h *OfferHandler) AcceptOffer(c echo.Context) error {
	userID := c.Get("uid").(string)

	result, err := h.offerUseCase.Accept(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *OfferHandler) RejectOffer(c echo.Context) error {
	userID := c.Get("uid").(string)

	result, err := h.offerUseCase.Reject(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *OfferHandler) CounterOffer(c echo.Context) error {
	userID := c.Get("uid").(string)

	var input usecase.CounterOfferInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, errors.Validation("Invalid request body"))
	}

	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}

	result, err := h.offerUseCase.Counter(c.Request().Context(), c.Param("id"), userID, input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *OfferHandler) RespondToCounter(c echo.Context) error {
	userID := c.Get("uid").(string)

	var input usecase.RespondToCounterInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, errors.Validation("Invalid request body"))
	}

	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}

	result, err := h.offerUseCase.RespondToCounter(c.Request().Context(), c.Param("id"), userID, input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *OfferHandler) ListReceived(c echo.Context) error {
	userID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	offers, total, err := h.offerUseCase.ListReceived(c.Request().Context(), userID, listInput(c, pagination))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, offers, total, pagination.Page, pagination.PageSize)
}

func (h *OfferHandler) ListSent(c echo.Context) error {
	userID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	offers, total, err := h.offerUseCase.ListSent(c.Request().Context(), userID, listInput(c, pagination))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, offers, total, pagination.Page, pagination.PageSize)
}

func (h *OfferHandler) ListForProduct(c echo.Context) error {
	userID := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	offers, total, err := h.offerUseCase.ListForProduct(c.Request().Context(), c.Param("id"), userID, listInput(c, pagination))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, offers, total, pagination.Page, pagination.PageSize)
}

func listInput(c echo.Context, pagination utils.PaginationParams) usecase.ListOffersInput {
	return usecase.ListOffersInput{
		Status:   entity.OfferStatus(c.QueryParam("status")),
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}
}
