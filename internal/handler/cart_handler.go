package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/errors"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/service"
)

// CartHandler handles the authenticated user's cart endpoints.
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddToCartRequest adds a product to the cart.
type AddToCartRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

// UpdateCartItemRequest replaces a cart row's quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// GetCart godoc
// @Summary Get the current user's cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.CartItem
// @Failure 401 {object} errors.ErrorResponse
// @Router /cart [get]
func (h *CartHandler) GetCart(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user")
	}

	items, err := h.cartService.List(c.Request().Context(), user.ID)
	if err != nil {
		zlog := logger.Get()
		zlog.Error().Err(err).Uint("user_id", user.ID).Msg("get cart")
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to load cart",
			Code:  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, items)
}

// AddToCart godoc
// @Summary Add a product to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddToCartRequest true "Product and quantity"
// @Success 200 {object} model.CartItem
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cart [post]
func (h *CartHandler) AddToCart(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user")
	}

	var req AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.cartService.Add(c.Request().Context(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		if httpErr.StatusCode == http.StatusInternalServerError {
			zlog := logger.Get()
			zlog.Error().Err(err).Uint("user_id", user.ID).Msg("add to cart")
		}
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, item)
}

// UpdateCartItem godoc
// @Summary Set the quantity of a cart row
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param productId path int true "Product ID"
// @Param request body UpdateCartItemRequest true "New quantity"
// @Success 200 {object} model.CartItem
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cart/{productId} [put]
func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user")
	}
	productID, err := pathID(c, "productId")
	if err != nil {
		return err
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.cartService.SetQuantity(c.Request().Context(), user.ID, productID, req.Quantity)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		if httpErr.StatusCode == http.StatusInternalServerError {
			zlog := logger.Get()
			zlog.Error().Err(err).Uint("user_id", user.ID).Msg("update cart item")
		}
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, item)
}

// RemoveCartItem godoc
// @Summary Remove a product from the cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param productId path int true "Product ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /cart/{productId} [delete]
func (h *CartHandler) RemoveCartItem(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user")
	}
	productID, err := pathID(c, "productId")
	if err != nil {
		return err
	}

	if err := h.cartService.Remove(c.Request().Context(), user.ID, productID); err != nil {
		zlog := logger.Get()
		zlog.Error().Err(err).Uint("user_id", user.ID).Msg("remove cart item")
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to remove cart item",
			Code:  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "item removed"})
}
