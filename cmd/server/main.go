package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	cartapp "github.com/retailpos/backend/internal/application/cart"
	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	identityapp "github.com/retailpos/backend/internal/application/identity"
	reportapp "github.com/retailpos/backend/internal/application/report"
	salesapp "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/domain/cart"
	infraauth "github.com/retailpos/backend/internal/infrastructure/auth"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/infrastructure/event"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
	"github.com/retailpos/backend/internal/infrastructure/session"
	"github.com/retailpos/backend/internal/infrastructure/storage"
	"github.com/retailpos/backend/internal/interfaces/http/handler"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
	"github.com/retailpos/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis backs the cart session store and the token blacklist. When it
	// is unreachable the server still comes up on in-memory fallbacks so a
	// single-node deployment without Redis keeps working.
	var cartStore cart.Store
	var blacklist infraauth.TokenBlacklist

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	redisErr := redisClient.Ping(pingCtx).Err()
	cancelPing()
	if redisErr != nil {
		log.Warn("Redis unreachable, using in-memory cart store and token blacklist",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Error(redisErr),
		)
		_ = redisClient.Close()
		cartStore = session.NewMemoryCartStore()
		blacklist = infraauth.NewMemoryTokenBlacklist()
	} else {
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		defer func() {
			_ = redisClient.Close()
		}()
		cartStore = session.NewRedisCartStore(redisClient, cfg.Cart.TTL)
		blacklist = infraauth.NewRedisTokenBlacklist(redisClient)
	}

	// Object storage for product images, optional
	var imageStorage catalogapp.ImageStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ImageStorage(&cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		imageStorage = s3Storage
		log.Info("Image storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	saleLedger := persistence.NewGormSaleLedger(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	// Application services
	jwtService := infraauth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, imageStorage, cfg.Storage.KeyPrefix)
	cartService := cartapp.NewCartService(cartStore, productRepo)
	checkoutService := salesapp.NewCheckoutService(cartStore, saleLedger, log)
	posService := salesapp.NewPOSService(saleLedger, productRepo, log)
	reportService := reportapp.NewReportService(reportRepo, productRepo, log)

	eventPublisher := event.NewLogPublisher(log)
	categoryService.SetEventPublisher(eventPublisher)
	productService.SetEventPublisher(eventPublisher)
	checkoutService.SetEventPublisher(eventPublisher)
	posService.SetEventPublisher(eventPublisher)

	// Gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	middleware.SetupValidator()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		globalLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(globalLimiter))

		// Stricter window on credential endpoints to slow down guessing
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		engine.Use(middleware.RateLimitPaths(authLimiter,
			"/api/v1/auth/login",
			"/api/v1/auth/register",
		))

		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Liveness and readiness outside API versioning and authentication
	systemHandler := handler.NewSystemHandler(db)
	systemHandler.RegisterDirect(engine)

	// JWT authentication on the versioned API group
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	r.Register(
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(authService, userService),
		handler.NewCategoryHandler(categoryService),
		handler.NewProductHandler(productService),
		handler.NewStoreHandler(productService, cartService, checkoutService),
		handler.NewOrdersHandler(posService),
		handler.NewSalesHandler(posService),
		handler.NewReportHandler(reportService),
	)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
