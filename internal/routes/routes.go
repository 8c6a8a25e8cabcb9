// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"time"

	"aesthetx/internal/config"
	"aesthetx/internal/events"
	"aesthetx/internal/handlers"
	"aesthetx/internal/middleware"
	"aesthetx/internal/models"
	"aesthetx/internal/repositories"
	"aesthetx/internal/services/auth"
	"aesthetx/internal/services/cart"
	"aesthetx/internal/services/checkout"
	"aesthetx/internal/services/dashboard"
	"aesthetx/internal/services/order"
	"aesthetx/internal/services/payment"
	"aesthetx/internal/services/product"
	"aesthetx/internal/services/review"
	"aesthetx/internal/services/search"
	"aesthetx/internal/services/trending"
	"aesthetx/internal/services/upload"
	"aesthetx/internal/services/user"
	"aesthetx/internal/services/view"
	"aesthetx/internal/services/wishlist"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencies are the shared resources the routes are built on.
type Dependencies struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     *redis.Client
	Cache     repositories.Cache
	Publisher events.Publisher
	Gateway   payment.Gateway
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	cfg := deps.Config

	// Initialize repositories
	userRepo := repositories.NewUserRepository(deps.DB)
	sessionRepo := repositories.NewSessionRepository(deps.DB)
	productRepo := repositories.NewProductRepository(deps.DB, deps.Cache)
	orderRepo := repositories.NewOrderRepository(deps.DB, deps.Cache)
	reviewRepo := repositories.NewReviewRepository(deps.DB)
	viewRepo := repositories.NewViewRepository(deps.DB)
	cartRepo := repositories.NewCartRepository(deps.DB)
	wishlistRepo := repositories.NewWishlistRepository(deps.DB)

	// Initialize services in dependency order
	authService := auth.NewService(userRepo, sessionRepo, deps.Cache, deps.Publisher, auth.Config{
		Secret:     cfg.Auth.SessionSecret,
		SessionTTL: cfg.Auth.SessionTTL,
	})
	userService := user.NewService(userRepo, authService)
	productService := product.NewService(productRepo, deps.Cache)
	searchService := search.NewService(productRepo)
	viewService := view.NewService(viewRepo, productRepo, deps.Cache)
	trendingService := trending.NewService(viewRepo, productRepo, deps.Cache)
	cartService := cart.NewService(cartRepo, productRepo)
	wishlistService := wishlist.NewService(wishlistRepo, productRepo, cartService)
	reviewService := review.NewService(reviewRepo, productRepo, userRepo)
	orderService := order.NewService(orderRepo, deps.Publisher)
	checkoutService := checkout.NewService(cartRepo, productRepo, orderRepo, deps.Gateway, deps.Publisher, deps.Cache, checkout.Config{
		Currency: cfg.Payment.Currency,
	})
	dashboardService := dashboard.NewService(productRepo, orderRepo, userRepo, viewRepo, trendingService)
	uploadService := upload.NewService(cfg.Upload.Dir, int64(cfg.Upload.MaxBytes))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Redis)
	authHandler := handlers.NewAuthHandler(authService, cfg.Server.Production)
	userHandler := handlers.NewUserHandler(userService, viewService)
	productHandler := handlers.NewProductHandler(productService, searchService, trendingService, viewService)
	cartHandler := handlers.NewCartHandler(cartService, wishlistService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, orderService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	adminHandler := handlers.NewAdminHandler(productService, orderService, userService, uploadService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	app.Get("/healthz", healthHandler.HealthCheck)
	app.Static(upload.PublicPrefix, cfg.Upload.Dir)

	api := app.Group("/api")

	setupAuthRoutes(api, authHandler, authMiddleware)
	setupCatalogRoutes(api, productHandler, reviewHandler, authMiddleware)

	setupAccountRoutes(api, userHandler, authHandler, authMiddleware)
	setupShoppingRoutes(api, cartHandler, reviewHandler, checkoutHandler, authMiddleware)

	admin := api.Group("/admin", authMiddleware.Handler, middleware.AdminAuthMiddleware)
	setupAdminRoutes(admin, adminHandler, dashboardHandler, reviewHandler, healthHandler)

	// The upload endpoint lives outside /api/admin but shares its guard
	api.Post("/upload",
		authMiddleware.Handler,
		middleware.AdminAuthMiddleware,
		middleware.HasPermission(models.PermissionUploadWrite),
		adminHandler.Upload,
	)
}

func setupAuthRoutes(api fiber.Router, h *handlers.AuthHandler, authMiddleware *middleware.AuthMiddleware) {
	authGroup := api.Group("/auth")

	limit := signInLimiter()
	authGroup.Post("/signup", limit, h.SignUp)
	authGroup.Post("/signin", limit, h.SignIn)
	authGroup.Post("/admin/signin", limit, h.AdminSignIn)
	authGroup.Post("/signout", h.SignOut)
	authGroup.Get("/verify", h.Verify)
}

func setupCatalogRoutes(api fiber.Router, h *handlers.ProductHandler, reviews *handlers.ReviewHandler, authMiddleware *middleware.AuthMiddleware) {
	products := api.Group("/products")

	products.Get("/", h.List)
	products.Get("/search", h.Search)
	products.Get("/trending", h.Trending)
	products.Get("/new-arrivals", h.NewArrivals)
	products.Get("/best-sellers", h.BestSellers)
	products.Get("/:itemId", h.Get)
	products.Get("/:itemId/related", h.Related)
	products.Post("/:itemId/views", authMiddleware.Optional, h.RecordView)
	products.Get("/:itemId/reviews", reviews.List)
	products.Post("/:itemId/reviews",
		authMiddleware.Handler,
		middleware.HasPermission(models.PermissionReviewWrite),
		reviews.Create,
	)
}

func setupAccountRoutes(router fiber.Router, h *handlers.UserHandler, authHandler *handlers.AuthHandler, authMiddleware *middleware.AuthMiddleware) {
	me := router.Group("/users/me", authMiddleware.Handler)

	me.Get("/", h.GetProfile)
	me.Put("/", middleware.HasPermission(models.PermissionProfileWrite), h.UpdateProfile)
	me.Put("/onboarding", middleware.HasPermission(models.PermissionProfileWrite), h.UpdateOnboarding)
	me.Post("/onboarding/complete", middleware.HasPermission(models.PermissionProfileWrite), h.CompleteOnboarding)
	me.Post("/password", middleware.HasPermission(models.PermissionChangePassword), authHandler.ChangePassword)
	me.Post("/deactivate", h.Deactivate)
	me.Delete("/", h.Delete)

	me.Get("/views", h.ViewHistory)
	me.Delete("/views", h.ClearViewHistory)
}

func setupShoppingRoutes(router fiber.Router, h *handlers.CartHandler, reviews *handlers.ReviewHandler, checkoutHandler *handlers.CheckoutHandler, authMiddleware *middleware.AuthMiddleware) {
	signedIn := authMiddleware.Handler

	cartGroup := router.Group("/cart", signedIn, middleware.HasPermission(models.PermissionCartWrite))
	cartGroup.Get("/", h.GetCart)
	cartGroup.Post("/", h.AddToCart)
	cartGroup.Delete("/", h.ClearCart)
	cartGroup.Put("/:id", h.UpdateQuantity)
	cartGroup.Delete("/:id", h.RemoveFromCart)

	wishlistGroup := router.Group("/wishlist", signedIn, middleware.HasPermission(models.PermissionCartWrite))
	wishlistGroup.Get("/", h.GetWishlist)
	wishlistGroup.Post("/", h.AddToWishlist)
	wishlistGroup.Post("/toggle", h.ToggleWishlist)
	wishlistGroup.Post("/:productId/move-to-cart", h.MoveToCart)
	wishlistGroup.Delete("/:productId", h.RemoveFromWishlist)

	router.Delete("/reviews/:id", signedIn, middleware.HasPermission(models.PermissionReviewWrite), reviews.Delete)

	router.Post("/create-order", signedIn, middleware.HasPermission(models.PermissionOrderCreate), checkoutHandler.CreateOrder)
	router.Post("/verify-payment", signedIn, middleware.HasPermission(models.PermissionOrderCreate), checkoutHandler.VerifyPayment)
	router.Get("/orders", signedIn, checkoutHandler.ListOrders)
	router.Get("/orders/:orderNumber", signedIn, checkoutHandler.GetOrder)
}

func setupAdminRoutes(admin fiber.Router, h *handlers.AdminHandler, dashboardHandler *handlers.DashboardHandler, reviews *handlers.ReviewHandler, health *handlers.HealthHandler) {
	admin.Get("/dashboard", middleware.HasPermission(models.PermissionReadAdmin), dashboardHandler.GetStats)
	admin.Get("/cache-stats", middleware.HasPermission(models.PermissionReadAdmin), health.CacheStats)

	products := admin.Group("/products", middleware.HasPermission(models.PermissionProductWrite))
	products.Get("/", h.ListProducts)
	products.Post("/", h.CreateProduct)
	products.Put("/:itemId", h.UpdateProduct)
	products.Delete("/:itemId", h.DeleteProduct)
	products.Patch("/:itemId/visibility", h.SetVisibility)
	products.Put("/:itemId/stock", h.UpdateStock)

	orders := admin.Group("/orders", middleware.HasPermission(models.PermissionOrderManage))
	orders.Get("/", h.ListOrders)
	orders.Patch("/:orderNumber/status", h.UpdateOrderStatus)

	users := admin.Group("/users")
	users.Get("/", middleware.HasPermission(models.PermissionUserRead), h.ListUsers)
	users.Patch("/:id/role", middleware.SuperAdminOnly, h.SetRole)
	users.Patch("/:id/active", middleware.HasPermission(models.PermissionUserWrite), h.SetActive)
	users.Delete("/:id", middleware.HasPermission(models.PermissionUserWrite), h.DeleteUser)
	users.Post("/:id/unlock", middleware.HasPermission(models.PermissionUserWrite), h.UnlockFields)

	admin.Delete("/reviews/:id", middleware.HasPermission(models.PermissionReviewModerate), reviews.AdminDelete)
}

// signInLimiter allows 10 attempts per minute per IP.
func signInLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})
}
