package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/errors"
	"storefront/internal/logger"
	"storefront/internal/service"
)

// ProductHandler handles catalog and admin product endpoints.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ProductRequest carries the fields of a product create/update.
type ProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       string `json:"price" validate:"required"`
	ImageURL    string `json:"image_url"`
	CategoryID  uint   `json:"category_id" validate:"required"`
}

func (r *ProductRequest) toInput() (service.ProductInput, *echo.HTTPError) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil || price.IsNegative() {
		return service.ProductInput{}, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid price",
			Code:  "INVALID_PRICE",
		})
	}
	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
		ImageURL:    r.ImageURL,
		CategoryID:  r.CategoryID,
	}, nil
}

// ListProducts godoc
// @Summary List catalog products
// @Tags products
// @Produce json
// @Param category_id query int false "Filter by category"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} model.Product
// @Failure 500 {object} errors.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c echo.Context) error {
	var categoryID uint
	if v, err := strconv.ParseUint(c.QueryParam("category_id"), 10, 64); err == nil {
		categoryID = uint(v)
	}
	limit, offset := pagination(c, 20)

	products, err := h.productService.List(c.Request().Context(), categoryID, limit, offset)
	if err != nil {
		zlog := logger.Get()
		zlog.Error().Err(err).Msg("list products")
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to list products",
			Code:  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct godoc
// @Summary Get a product by id
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.productService.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		if httpErr.StatusCode == http.StatusInternalServerError {
			zlog := logger.Get()
			zlog.Error().Err(err).Uint("product_id", id).Msg("get product")
		}
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct godoc
// @Summary Create a product (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Product data"
// @Success 201 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/products [post]
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	input, httpErr := req.toInput()
	if httpErr != nil {
		return httpErr
	}

	product, err := h.productService.Create(c.Request().Context(), input)
	if err != nil {
		mapped := errors.MapErrorToHTTP(err)
		if mapped.StatusCode == http.StatusInternalServerError {
			zlog := logger.Get()
			zlog.Error().Err(err).Msg("create product")
		}
		return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct godoc
// @Summary Update a product (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body ProductRequest true "Product data"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	input, httpErr := req.toInput()
	if httpErr != nil {
		return httpErr
	}

	product, err := h.productService.Update(c.Request().Context(), id, input)
	if err != nil {
		mapped := errors.MapErrorToHTTP(err)
		if mapped.StatusCode == http.StatusInternalServerError {
			zlog := logger.Get()
			zlog.Error().Err(err).Uint("product_id", id).Msg("update product")
		}
		return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary Delete a product (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		mapped := errors.MapErrorToHTTP(err)
		if mapped.StatusCode == http.StatusInternalServerError {
			zlog := logger.Get()
			zlog.Error().Err(err).Uint("product_id", id).Msg("delete product")
		}
		return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "product deleted"})
}
