package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/errors"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"
)

// OrderHandler handles checkout, order history, and admin order endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CheckoutRequest places an order from the current cart.
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
}

// UpdateOrderStatusRequest carries the admin status transition.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Checkout godoc
// @Summary Place an order from the current cart
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CheckoutRequest true "Shipping address"
// @Success 201 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /checkout [post]
func (h *OrderHandler) Checkout(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user")
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orderService.Checkout(c.Request().Context(), user.ID, req.ShippingAddress)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		if httpErr.StatusCode == http.StatusInternalServerError {
			zlog := logger.Get()
			zlog.Error().Err(err).Uint("user_id", user.ID).Msg("checkout")
		}
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, order)
}

// ListMyOrders godoc
// @Summary List the current user's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Order
// @Failure 401 {object} errors.ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user")
	}

	orders, err := h.orderService.ListForUser(c.Request().Context(), user.ID)
	if err != nil {
		zlog := logger.Get()
		zlog.Error().Err(err).Uint("user_id", user.ID).Msg("list orders")
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to list orders",
			Code:  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, orders)
}

// GetMyOrder godoc
// @Summary Get one of the current user's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} model.Order
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetMyOrder(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orderService.GetForUser(c.Request().Context(), user.ID, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		if httpErr.StatusCode == http.StatusInternalServerError {
			zlog := logger.Get()
			zlog.Error().Err(err).Uint("order_id", id).Msg("get order")
		}
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, order)
}

// AdminListOrders godoc
// @Summary List all orders (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} model.Order
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/orders [get]
func (h *OrderHandler) AdminListOrders(c echo.Context) error {
	limit, offset := pagination(c, 20)
	orders, err := h.orderService.List(c.Request().Context(), limit, offset)
	if err != nil {
		zlog := logger.Get()
		zlog.Error().Err(err).Msg("admin list orders")
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to list orders",
			Code:  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, orders)
}

// AdminRecentOrders godoc
// @Summary List the most recent orders (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Order
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/orders/recent [get]
func (h *OrderHandler) AdminRecentOrders(c echo.Context) error {
	orders, err := h.orderService.ListRecent(c.Request().Context(), 10)
	if err != nil {
		zlog := logger.Get()
		zlog.Error().Err(err).Msg("admin recent orders")
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to list recent orders",
			Code:  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, orders)
}

// AdminGetOrder godoc
// @Summary Get an order (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} model.Order
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/orders/{id} [get]
func (h *OrderHandler) AdminGetOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orderService.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		if httpErr.StatusCode == http.StatusInternalServerError {
			zlog := logger.Get()
			zlog.Error().Err(err).Uint("order_id", id).Msg("admin get order")
		}
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, order)
}

// AdminUpdateOrderStatus godoc
// @Summary Update an order's fulfillment status (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body UpdateOrderStatusRequest true "Target status"
// @Success 200 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/orders/{id} [put]
func (h *OrderHandler) AdminUpdateOrderStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), id, model.OrderStatus(req.Status))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		if httpErr.StatusCode == http.StatusInternalServerError {
			zlog := logger.Get()
			zlog.Error().Err(err).Uint("order_id", id).Msg("admin update order status")
		}
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, order)
}
