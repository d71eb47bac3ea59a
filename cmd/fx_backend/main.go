package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/adapters/events"
	"github.com/SscSPs/expense_fx_engine/internal/adapters/market"
	portsrepo "github.com/SscSPs/expense_fx_engine/internal/core/ports/repositories"
	"github.com/SscSPs/expense_fx_engine/internal/core/services"
	"github.com/SscSPs/expense_fx_engine/internal/handlers"
	"github.com/SscSPs/expense_fx_engine/internal/middleware"
	"github.com/SscSPs/expense_fx_engine/internal/platform/config"
	"github.com/SscSPs/expense_fx_engine/internal/platform/metrics"
	"github.com/SscSPs/expense_fx_engine/internal/repositories/cache"
	"github.com/SscSPs/expense_fx_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/expense_fx_engine/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const shutdownTimeout = 10 * time.Second

// @title Expense FX Engine API
// @version 1.0
// @description Exchange rate resolution for multi-currency expense tracking.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck,
		database.WithMaxConns(cfg.DBMaxConns))
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if cfg.RunMigrations {
		if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	rateMetrics := metrics.NewRateMetrics(prometheus.DefaultRegisterer)

	repos := pgsql.NewRepositoryProvider(dbPool, func(next portsrepo.MonthlyRateRepositoryFacade) portsrepo.MonthlyRateRepositoryFacade {
		cached, err := cache.NewMonthlyRateLRU(next, cfg.RateCacheSize)
		if err != nil {
			logger.Warn("Monthly rate cache disabled", slog.String("error", err.Error()))
			return next
		}
		return cached
	})

	gw := services.Gateways{
		Events:     events.NoopPublisher{},
		Authorizer: middleware.ClaimsAuthorizationGate{},
	}
	if cfg.MarketRateAPIURL != "" {
		gw.MarketRates = market.NewHTTPRateProvider(cfg.MarketRateAPIURL,
			market.WithAPIKey(cfg.MarketRateAPIKey),
			market.WithTimeout(cfg.MarketRateTimeout))
	}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewKafkaRatePublisher(cfg.KafkaBrokers, cfg.KafkaRateTopic)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("Error closing rate event publisher", slog.String("error", err.Error()))
			}
		}()
		gw.Events = publisher
		logger.Info("Publishing rate events to Kafka", slog.String("topic", cfg.KafkaRateTopic))
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, gw, rateMetrics)

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, rateLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
}

// runMigrations applies every pending migration under ./migrations.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
