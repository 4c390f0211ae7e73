package middleware

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront/internal/errors"
	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// AccessGate guards routes behind authentication and, for admin routes, the
// admin role. The user row is re-read on every request: a role revoked in
// the database takes effect immediately, nothing is trusted from the token
// beyond the user id.
type AccessGate struct {
	userRepo repository.UserRepository
}

// NewAccessGate creates an access gate backed by the user repository.
func NewAccessGate(userRepo repository.UserRepository) *AccessGate {
	return &AccessGate{userRepo: userRepo}
}

// RequireUser resolves the caller's user row and stores it on the context.
// No claims ⇒ 401, user row missing ⇒ 404, lookup failure ⇒ 500 (logged).
func (g *AccessGate) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, httpErr := g.resolve(c)
		if httpErr != nil {
			return httpErr
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

// RequireAdmin is RequireUser plus a role check: non-admin ⇒ 403.
func (g *AccessGate) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, httpErr := g.resolve(c)
		if httpErr != nil {
			return httpErr
		}
		if !user.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
				Error: "admin role required",
				Code:  "FORBIDDEN",
			})
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

func (g *AccessGate) resolve(c echo.Context) (*model.User, *echo.HTTPError) {
	claims, ok := CurrentClaims(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "missing or invalid token",
			Code:  "UNAUTHORIZED",
		})
	}

	user, err := g.userRepo.FindByID(c.Request().Context(), claims.UserID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, errors.ErrorResponse{
				Error: "user not found",
				Code:  "USER_NOT_FOUND",
			})
		}
		log := logger.Get()
		log.Error().Err(err).Uint("user_id", claims.UserID).Msg("access gate user lookup")
		return nil, echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "internal server error",
			Code:  "INTERNAL_ERROR",
		})
	}

	return user, nil
}

// CurrentUser returns the user row stored by RequireUser/RequireAdmin.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(userContextKey).(*model.User)
	return user, ok
}
