package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"antesala/api/routes"
	"antesala/internal/analytics"
	"antesala/internal/reservations"
	"antesala/internal/shared/bootstrap"
	"antesala/internal/shared/config"
	"antesala/internal/shared/middleware"
	"antesala/pkg/logger"
	"antesala/pkg/ratelimit"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	// Smart environment loading
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// The handler choice depends on the gin mode, so rebuild after setting it
	appLogger = logger.NewWithWriter(os.Stdout, cfg.LogLevel)
	logger.SetDefault(appLogger)

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("Server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Analytics caches are dropped after every change to the list
	var analyticsService analytics.Service
	onChange := reservations.OnChange(func() {
		if analyticsService == nil {
			return
		}
		if err := analyticsService.Invalidate(context.Background()); err != nil {
			appLogger.WithError(err).Warn("Failed to invalidate analytics cache")
		}
	})

	app, err := bootstrap.Open(cfg, appLogger, onChange)
	if err != nil {
		return fmt.Errorf("failed to open reservation storage: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			appLogger.Error("Error closing connections", slog.Any("error", err))
		}
	}()

	analyticsService = analytics.NewService(app.Manager, app.Catalog, app.Cache)

	stopSync, err := app.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reservations: %w", err)
	}
	defer stopSync()

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled && app.DB.Redis != nil {
		rateLimiter = ratelimit.NewRateLimiter(app.DB.Redis, &ratelimit.Config{
			Enabled:           true,
			WindowDuration:    cfg.RateLimit.WindowDuration,
			DefaultRequests:   cfg.RateLimit.DefaultRequests,
			WriteRequests:     cfg.RateLimit.WriteRequests,
			QuoteRequests:     cfg.RateLimit.QuoteRequests,
			AnalyticsRequests: cfg.RateLimit.AnalyticsRequests,
			WhitelistedIPs:    cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("write_requests", cfg.RateLimit.WriteRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	router := setupRouter(cfg, routes.Dependencies{
		DB:        app.DB,
		Manager:   app.Manager,
		Analytics: analyticsService,
		Limiter:   rateLimiter,
		Logger:    appLogger,
	})

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("docs", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Port)),
			slog.String("version", Version),
			slog.String("commit", GitCommit),
			slog.String("built", BuildTime),
			slog.String("storage", cfg.Storage.Backend),
			slog.Int("reservations", len(app.Manager.List(reservations.SortNone))),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	appLogger.Info("Server exited gracefully")
	return nil
}

func setupRouter(cfg *config.Config, deps routes.Dependencies) *gin.Engine {
	engine := gin.New()

	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(deps.Logger),
		middleware.Recovery(deps.Logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	routes.NewRouter(cfg, deps).SetupRoutes(engine)
	return engine
}
