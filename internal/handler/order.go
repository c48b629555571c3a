package handler

import (
	"errors"
	"net/http"

	"storefront-backend/internal/dto"
	"storefront-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.GetOrder(ctx, c.Param("id"))
	if errors.Is(err, service.ErrOrderNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OrderResponse{Order: order})
}

func (h *OrderHandler) ListOrderEvents(c echo.Context) error {
	ctx := c.Request().Context()
	orderID := c.Param("id")

	events, err := h.orderService.ListEvents(ctx, orderID)
	if errors.Is(err, service.ErrOrderNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OrderEventsResponse{
		OrderID: orderID,
		Events:  events,
	})
}
