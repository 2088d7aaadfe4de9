package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookkeep/backend/internal/application/dashboard"
	"github.com/bookkeep/backend/internal/infrastructure/config"
	"github.com/bookkeep/backend/internal/infrastructure/logger"
	"github.com/bookkeep/backend/internal/infrastructure/persistence"
	"github.com/bookkeep/backend/internal/infrastructure/telemetry"
	"github.com/bookkeep/backend/internal/interfaces/http/handler"
	"github.com/bookkeep/backend/internal/interfaces/http/middleware"
	"github.com/bookkeep/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Bookkeep Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Telemetry collector backs the scrape endpoint, the FX batch-size
	// instrumentation on the rate provider, and the missing-rate
	// fallback counter on the dashboard service
	collector := telemetry.NewCollector(log)

	// Initialize repositories
	metricsRepo := persistence.NewGormMetricsReadRepository(db.DB)
	rateProvider := persistence.NewGormRateProvider(db.DB,
		persistence.WithBatchRecorder(collector),
		persistence.WithRateMaxAge(cfg.FX.RateMaxAge),
		persistence.WithRateLogger(log),
	)
	checklistEvaluator := persistence.NewGormCloseChecklistEvaluator(db.DB)

	// Initialize application services
	dashboardService := dashboard.NewDashboardService(
		metricsRepo,
		metricsRepo,
		metricsRepo,
		rateProvider,
		checklistEvaluator,
		log,
		dashboard.WithFallbackRecorder(collector),
	)

	// Initialize HTTP handlers
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. Telemetry - Record request counts and latencies
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(collector.GinMiddleware())

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Prometheus scrape endpoint
	if cfg.Telemetry.Enabled {
		engine.GET(cfg.Telemetry.MetricsPath, gin.WrapH(collector.Handler()))
	}

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// All API routes require a tenant; /health and /metrics are open
	r.Use(middleware.TenantMiddleware())

	dashboardRoutes := router.NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.GET("/metrics", dashboardHandler.GetMetrics)
	dashboardRoutes.GET("/performance", dashboardHandler.GetPerformance)
	dashboardRoutes.GET("/close-readiness", dashboardHandler.GetCloseReadiness)
	r.Register(dashboardRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
