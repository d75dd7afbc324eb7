package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/config"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/infrastructure/cache"
	"github.com/sangkips/salon-api/internal/infrastructure/database"
	"github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/internal/presentation/http/handler"
	"github.com/sangkips/salon-api/internal/presentation/http/routes"
	"github.com/sangkips/salon-api/pkg/logger"
	"github.com/sangkips/salon-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zl, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Money goes out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fs, err := database.NewFirestore(ctx, &cfg.Firestore, zl)
	if err != nil {
		zl.Fatal("failed to connect to firestore", zap.Error(err))
	}
	defer fs.Close()

	// Initialize repositories
	invoiceRepo := repository.NewInvoiceRepository(fs.Client)
	feedbackRepo := repository.NewFeedbackRepository(fs.Client)
	bookingRepo := repository.NewBookingRepository(fs.Client)
	productRepo := repository.NewProductRepository(fs.Client)
	serviceRepo := repository.NewServiceRepository(fs.Client)
	categoryRepo := repository.NewCategoryRepository(fs.Client)
	clientRepo := repository.NewClientRepository(fs.Client)
	branchRepo := repository.NewBranchRepository(fs.Client)

	// Redis backs the stats cache and idempotency keys when enabled
	var (
		statsCache      domainRepo.StatsCache[service.DashboardStats]
		idempotencyRepo domainRepo.IdempotencyRepository
	)
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(ctx, &cfg.Redis, zl)
		if err != nil {
			zl.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		statsCache = cache.NewRedisStatsCache[service.DashboardStats](rdb, cfg.Stats.CacheTTL)
		idempotencyRepo = cache.NewRedisIdempotencyRepository(rdb)
	} else {
		statsCache = cache.NewMemoryStatsCache[service.DashboardStats](cfg.Stats.CacheTTL)
		idempotencyRepo = cache.NewMemoryIdempotencyRepository()
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Firebase ID tokens are exchanged for API tokens; requests carry
	// whichever kind the provider setting names.
	var (
		idTokens utils.TokenVerifier
		users    service.UserLookup
	)
	if fs.Auth != nil {
		idTokens = utils.NewFirebaseVerifier(fs.Auth)
		users = fs.Auth
	}
	var verifier utils.TokenVerifier = jwtManager
	if cfg.Auth.Provider == "firebase" {
		if idTokens == nil {
			zl.Fatal("AUTH_PROVIDER=firebase but firebase auth is unavailable")
		}
		verifier = idTokens
	}

	// Initialize services
	authService := service.NewAuthService(idTokens, users, jwtManager)
	invoiceService := service.NewInvoiceService(invoiceRepo, branchRepo, clientRepo, cfg.Invoice)
	feedbackService := service.NewFeedbackService(feedbackRepo, branchRepo)
	bookingService := service.NewBookingService(bookingRepo, serviceRepo, branchRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo, productRepo, serviceRepo)
	menuService := service.NewMenuService(serviceRepo, categoryRepo)
	clientService := service.NewClientService(clientRepo, branchRepo)
	branchService := service.NewBranchService(branchRepo)
	dashboardService := service.NewDashboardService(service.DashboardRepositories{
		Invoices:  invoiceRepo,
		Feedbacks: feedbackRepo,
		Bookings:  bookingRepo,
		Products:  productRepo,
		Services:  serviceRepo,
		Clients:   clientRepo,
		Branches:  branchRepo,
	}, statsCache, cfg.Stats.CacheTTL, zl)

	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
		Feedback:  handler.NewFeedbackHandler(feedbackService),
		Booking:   handler.NewBookingHandler(bookingService),
		Product:   handler.NewProductHandler(productService),
		Category:  handler.NewCategoryHandler(categoryService),
		Menu:      handler.NewMenuHandler(menuService),
		Client:    handler.NewClientHandler(clientService),
		Branch:    handler.NewBranchHandler(branchService),
	}

	router := routes.Setup(ctx, handlers, &routes.Deps{
		Verifier:        verifier,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Log:             zl,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	// No write timeout: the dashboard stream stays open.
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zl.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zl.Error("server shutdown error", zap.Error(err))
		}
	}()

	zl.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", port),
		zap.String("auth_provider", cfg.Auth.Provider),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zl.Fatal("server error", zap.Error(err))
	}
}
