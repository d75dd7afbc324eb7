package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sangkips/salon-api/internal/config"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/presentation/http/handler"
	"github.com/sangkips/salon-api/internal/presentation/http/middleware"
	"github.com/sangkips/salon-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Invoice   *handler.InvoiceHandler
	Feedback  *handler.FeedbackHandler
	Booking   *handler.BookingHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Menu      *handler.MenuHandler
	Client    *handler.ClientHandler
	Branch    *handler.BranchHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Verifier        utils.TokenVerifier
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Log             *zap.Logger
}

// Setup creates the Gin router and registers all routes. Background work
// started for the router stops when ctx ends.
func Setup(ctx context.Context, h *Handlers, deps *Deps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// Keyed by tenant once authenticated, by client IP before that
	rateLimiter := middleware.NewTenantRateLimiter(ctx, middleware.RateLimiterConfigFrom(deps.Cfg.RateLimit))

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		public.Use(rateLimiter.Middleware())
		registerAuthRoutes(public, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Verifier))
		protected.Use(rateLimiter.Middleware())
		protected.GET("/auth/me", h.Auth.Me)

		tenant := protected.Group("")
		tenant.Use(middleware.RequireTenant())
		if deps.IdempotencyRepo != nil {
			tenant.Use(middleware.Idempotency(middleware.IdempotencyConfig{
				Repo: deps.IdempotencyRepo,
				Log:  log,
			}))
		}
		registerTenantRoutes(tenant, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/token", h.Auth.Exchange)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerTenantRoutes(rg *gin.RouterGroup, h *Handlers) {
	registerDashboardRoutes(rg, h)
	registerInvoiceRoutes(rg, h)
	registerFeedbackRoutes(rg, h)
	registerBookingRoutes(rg, h)
	registerCatalogRoutes(rg, h)
	registerClientRoutes(rg, h)
	registerBranchRoutes(rg, h)
}

func registerDashboardRoutes(rg *gin.RouterGroup, h *Handlers) {
	dashboard := rg.Group("/dashboard")
	dashboard.Use(middleware.RequirePermission(utils.PermDashboardRead))
	{
		dashboard.GET("", h.Dashboard.GetStats)
		dashboard.GET("/stream", h.Dashboard.Stream)
	}
}

func registerInvoiceRoutes(rg *gin.RouterGroup, h *Handlers) {
	read := middleware.RequirePermission(utils.PermInvoicesRead)
	write := middleware.RequirePermission(utils.PermInvoicesWrite)

	invoices := rg.Group("/invoices")
	{
		invoices.GET("", read, h.Invoice.List)
		invoices.GET("/export", read, h.Invoice.Export)
		invoices.POST("", write, h.Invoice.Create)
		invoices.GET("/:id", read, h.Invoice.Get)
		invoices.PUT("/:id", write, h.Invoice.Update)
		invoices.PUT("/:id/status", write, h.Invoice.UpdateStatus)
		invoices.POST("/:id/payments", write, h.Invoice.RecordPayment)
		invoices.PUT("/:id/payment-methods", write, h.Invoice.SetPaymentMethods)
		invoices.DELETE("/:id", write, h.Invoice.Delete)
	}
}

func registerFeedbackRoutes(rg *gin.RouterGroup, h *Handlers) {
	read := middleware.RequirePermission(utils.PermFeedbackRead)
	write := middleware.RequirePermission(utils.PermFeedbackWrite)

	feedback := rg.Group("/feedbacks")
	{
		feedback.GET("", read, h.Feedback.List)
		feedback.GET("/stats", read, h.Feedback.Stats)
		feedback.GET("/export", read, h.Feedback.Export)
		feedback.POST("", write, h.Feedback.Create)
		feedback.GET("/:id", read, h.Feedback.Get)
		feedback.PUT("/:id", write, h.Feedback.Update)
		feedback.POST("/:id/respond", write, h.Feedback.Respond)
		feedback.DELETE("/:id", write, h.Feedback.Delete)
	}
}

func registerBookingRoutes(rg *gin.RouterGroup, h *Handlers) {
	read := middleware.RequirePermission(utils.PermBookingsRead)
	write := middleware.RequirePermission(utils.PermBookingsWrite)

	bookings := rg.Group("/bookings")
	{
		bookings.GET("", read, h.Booking.List)
		bookings.GET("/export", read, h.Booking.Export)
		bookings.POST("", write, h.Booking.Create)
		bookings.GET("/:id", read, h.Booking.Get)
		bookings.PUT("/:id", write, h.Booking.Update)
		bookings.PUT("/:id/status", write, h.Booking.UpdateStatus)
		bookings.DELETE("/:id", write, h.Booking.Delete)
	}
}

func registerCatalogRoutes(rg *gin.RouterGroup, h *Handlers) {
	read := middleware.RequirePermission(utils.PermCatalogRead)
	write := middleware.RequirePermission(utils.PermCatalogWrite)

	products := rg.Group("/products")
	{
		products.GET("", read, h.Product.List)
		products.GET("/export", read, h.Product.Export)
		products.POST("", write, h.Product.Create)
		products.POST("/import", write, h.Product.ImportProducts)
		products.GET("/:id", read, h.Product.Get)
		products.PUT("/:id", write, h.Product.Update)
		products.POST("/:id/stock", write, h.Product.AdjustStock)
		products.DELETE("/:id", write, h.Product.Delete)
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", read, h.Category.List)
		categories.POST("", write, h.Category.Create)
		categories.GET("/:id", read, h.Category.Get)
		categories.PUT("/:id", write, h.Category.Update)
		categories.DELETE("/:id", write, h.Category.Delete)
	}

	services := rg.Group("/services")
	{
		services.GET("", read, h.Menu.List)
		services.POST("", write, h.Menu.Create)
		services.GET("/:id", read, h.Menu.Get)
		services.PUT("/:id", write, h.Menu.Update)
		services.DELETE("/:id", write, h.Menu.Delete)
	}
}

func registerClientRoutes(rg *gin.RouterGroup, h *Handlers) {
	read := middleware.RequirePermission(utils.PermClientsRead)
	write := middleware.RequirePermission(utils.PermClientsWrite)

	clients := rg.Group("/clients")
	{
		clients.GET("", read, h.Client.List)
		clients.GET("/export", read, h.Client.Export)
		clients.POST("", write, h.Client.Create)
		clients.GET("/:id", read, h.Client.Get)
		clients.PUT("/:id", write, h.Client.Update)
		clients.DELETE("/:id", write, h.Client.Delete)
	}
}

func registerBranchRoutes(rg *gin.RouterGroup, h *Handlers) {
	read := middleware.RequirePermission(utils.PermBranchesRead)
	write := middleware.RequirePermission(utils.PermBranchesWrite)

	branches := rg.Group("/branches")
	{
		branches.GET("", read, h.Branch.List)
		branches.POST("", write, h.Branch.Create)
		branches.GET("/:id", read, h.Branch.Get)
		branches.PUT("/:id", write, h.Branch.Update)
		branches.DELETE("/:id", write, h.Branch.Delete)
	}
}
