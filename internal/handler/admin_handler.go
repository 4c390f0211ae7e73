package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/errors"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/service"
)

// AdminHandler handles the admin validation and dashboard endpoints.
type AdminHandler struct {
	statsService service.StatsService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(statsService service.StatsService) *AdminHandler {
	return &AdminHandler{statsService: statsService}
}

// Validate godoc
// @Summary Confirm the caller holds the admin role
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/validate [get]
func (h *AdminHandler) Validate(c echo.Context) error {
	// Reaching here means the access gate already admitted the caller.
	user, _ := middleware.CurrentUser(c)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"admin": true,
		"user":  user,
	})
}

// Stats godoc
// @Summary Dashboard statistics (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardStats
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.statsService.Dashboard(c.Request().Context())
	if err != nil {
		zlog := logger.Get()
		zlog.Error().Err(err).Msg("dashboard stats")
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to compute stats",
			Code:  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, stats)
}
