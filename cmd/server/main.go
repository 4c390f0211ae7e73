package main

import (
	"net/http"

	_ "storefront/docs" // swagger docs

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/handler"
	"storefront/internal/logger"
	"storefront/internal/mail"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
)

// @title Storefront API
// @version 1.0
// @description Storefront API with catalog, cart, checkout, order management, and payment webhooks.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderEvent{},
		&model.PasswordReset{},
	); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	cartRepo := repository.NewCartRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	orderEventRepo := repository.NewOrderEventRepository(gormDB)
	resetRepo := repository.NewPasswordResetRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	mailer := mail.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	// Initialize services
	eventLogger := service.NewOrderEventLogger(orderEventRepo)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	resetService := service.NewPasswordResetService(userRepo, resetRepo, mailer, cfg.FrontendURL)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo, cacheClient)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, eventLogger)
	webhookService := service.NewWebhookService(orderRepo, cache.NewDedupStore(cacheClient), eventLogger)
	statsService := service.NewStatsService(userRepo, productRepo, orderRepo)

	gate := middleware.NewAccessGate(userRepo)

	// Register routes
	router.Register(e, jwtService, gate, router.Handlers{
		Auth:     handler.NewAuthHandler(authService, resetService),
		User:     handler.NewUserHandler(userService, authService),
		Product:  handler.NewProductHandler(productService),
		Category: handler.NewCategoryHandler(categoryService),
		Cart:     handler.NewCartHandler(cartService),
		Order:    handler.NewOrderHandler(orderService),
		Admin:    handler.NewAdminHandler(statsService),
		Webhook:  handler.NewWebhookHandler(webhookService, cfg.StripeWebhookSecret),
	})

	if cfg.SwaggerHost != "" {
		log.Info().Str("host", cfg.SwaggerHost).Msg("swagger documentation enabled")
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server start")
	}
}
