package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"storefront/internal/auth"
	"storefront/internal/handler"
	"storefront/internal/middleware"
)

// Handlers bundles everything Register wires up.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Admin    *handler.AdminHandler
	Webhook  *handler.WebhookHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, jwtService *auth.JWTService, gate *middleware.AccessGate, h Handlers) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)
	api.POST("/auth/password-reset", h.Auth.RequestPasswordReset)
	api.POST("/auth/password-reset/confirm", h.Auth.ConfirmPasswordReset)

	api.GET("/users", h.User.ListUsers)
	api.GET("/users/:id", h.User.GetUser)
	api.POST("/users", h.User.CreateUser)

	api.GET("/products", h.Product.ListProducts)
	api.GET("/products/:id", h.Product.GetProduct)
	api.GET("/categories", h.Category.ListCategories)

	// The gateway authenticates with a signature, not a session.
	api.POST("/stripe/webhooks", h.Webhook.HandleStripeWebhook)

	// Authenticated routes: valid token plus a live user row.
	secured := api.Group("", middleware.JWT(jwtService), gate.RequireUser)
	secured.GET("/cart", h.Cart.GetCart)
	secured.POST("/cart", h.Cart.AddToCart)
	secured.PUT("/cart/:productId", h.Cart.UpdateCartItem)
	secured.DELETE("/cart/:productId", h.Cart.RemoveCartItem)
	secured.POST("/checkout", h.Order.Checkout)
	secured.GET("/orders", h.Order.ListMyOrders)
	secured.GET("/orders/:id", h.Order.GetMyOrder)

	// Admin routes: role re-checked against the database on every request.
	admin := api.Group("/admin", middleware.JWT(jwtService), gate.RequireAdmin)
	admin.GET("/validate", h.Admin.Validate)
	admin.GET("/stats", h.Admin.Stats)
	admin.GET("/orders", h.Order.AdminListOrders)
	admin.GET("/orders/recent", h.Order.AdminRecentOrders)
	admin.GET("/orders/:id", h.Order.AdminGetOrder)
	admin.PUT("/orders/:id", h.Order.AdminUpdateOrderStatus)
	admin.GET("/users", h.User.AdminListUsers)
	admin.PUT("/users/:id", h.User.AdminUpdateUser)
	admin.DELETE("/users/:id", h.User.AdminDeleteUser)
	admin.GET("/products", h.Product.ListProducts)
	admin.POST("/products", h.Product.CreateProduct)
	admin.PUT("/products/:id", h.Product.UpdateProduct)
	admin.DELETE("/products/:id", h.Product.DeleteProduct)
	admin.POST("/categories", h.Category.CreateCategory)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
