package routes

import (
	"gemvault/internal/adapters/http/handlers"
	"gemvault/internal/adapters/http/middleware"
	"gemvault/internal/adapters/persistence/repositories"
	"gemvault/internal/config"
	"gemvault/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	productRepo := repositories.NewProductRepository(db)
	purchaseRepo := repositories.NewPurchaseRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)

	repos := repositories.NewRepositories(db)
	txManager := repositories.NewTxManager(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo)
	purchaseService := services.NewPurchaseService(txManager, purchaseRepo, productRepo)
	balanceService := services.NewBalanceService(repos)
	withdrawalService := services.NewWithdrawalService(txManager, withdrawalRepo, balanceService)
	referralService := services.NewReferralService(repos)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService, balanceService)
	referralHandler := handlers.NewReferralHandler(referralService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public + protected)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Catalog routes (public reads)
	productRoutes := apiV1.Group("/products")
	productRoutes.Get("/", middleware.CatalogCache(), productHandler.ListProducts)
	productRoutes.Get("/:id", middleware.CatalogCache(), productHandler.GetProduct)

	// Profile routes (authenticated)
	profileRoutes := apiV1.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	profileRoutes.Get("/", userHandler.GetProfile)
	profileRoutes.Put("/", userHandler.UpdateProfile)
	profileRoutes.Put("/password", middleware.StrictRateLimiter(), userHandler.ChangePassword)

	// Purchase routes (authenticated)
	purchaseRoutes := apiV1.Group("/purchases")
	purchaseRoutes.Use(middleware.AuthMiddleware(cfg))
	purchaseRoutes.Get("/", purchaseHandler.MyPurchases)
	purchaseRoutes.Post("/checkout", purchaseHandler.Checkout)

	// Withdrawal routes (authenticated)
	withdrawalRoutes := apiV1.Group("/withdrawals")
	withdrawalRoutes.Use(middleware.AuthMiddleware(cfg))
	withdrawalRoutes.Get("/balance", middleware.NoCacheHeaders(), withdrawalHandler.GetBalance)
	withdrawalRoutes.Get("/", withdrawalHandler.MyWithdrawals)
	withdrawalRoutes.Post("/", middleware.StrictRateLimiter(), withdrawalHandler.RequestWithdrawal)

	// Referral routes (authenticated)
	referralRoutes := apiV1.Group("/referrals")
	referralRoutes.Use(middleware.AuthMiddleware(cfg))
	referralRoutes.Get("/stats", referralHandler.GetStats)

	// Admin routes
	adminRoutes := apiV1.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())
	setupAdminRoutes(adminRoutes, userHandler, productHandler, purchaseHandler, withdrawalHandler, dashboardHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupAdminRoutes configures admin routes
func setupAdminRoutes(
	router fiber.Router,
	userHandler *handlers.UserHandler,
	productHandler *handlers.ProductHandler,
	purchaseHandler *handlers.PurchaseHandler,
	withdrawalHandler *handlers.WithdrawalHandler,
	dashboardHandler *handlers.DashboardHandler,
) {
	// Dashboard
	router.Get("/dashboard", dashboardHandler.GetAdminDashboard)

	// User management
	router.Get("/users", userHandler.ListUsers)
	router.Get("/users/:id", userHandler.GetUser)
	router.Put("/users/:id", userHandler.UpdateUser)
	router.Delete("/users/:id", userHandler.DeleteUser)

	// Catalog management
	router.Post("/products", productHandler.CreateProduct)
	router.Put("/products/:id", productHandler.UpdateProduct)
	router.Delete("/products/:id", productHandler.DeleteProduct)

	// Purchase review
	router.Get("/purchases", purchaseHandler.ListPurchases)
	router.Put("/purchases/:id/status", purchaseHandler.ProcessPurchase)

	// Withdrawal review
	router.Get("/withdrawals", withdrawalHandler.ListWithdrawals)
	router.Put("/withdrawals/:id/status", withdrawalHandler.UpdateWithdrawalStatus)
}
